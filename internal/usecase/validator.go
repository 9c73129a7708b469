package usecase

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shelflife/backend/internal/domain"
)

const dateLayout = "2006-01-02"

var (
	digitsRegex          = regexp.MustCompile(`^\d+$`)
	storageLocationRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-,\.]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterValidation("upc", validateUPC)
	v.RegisterValidation("storage_location", validateStorageLocation)

	return v
}

// validateUPC accepts 8 to 50 ASCII digits
func validateUPC(fl validator.FieldLevel) bool {
	upc := fl.Field().String()
	return len(upc) >= 8 && len(upc) <= 50 && digitsRegex.MatchString(upc)
}

func validateStorageLocation(fl validator.FieldLevel) bool {
	return storageLocationRegex.MatchString(fl.Field().String())
}

// toValidationError converts validator output into a domain.ValidationError
func toValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := &domain.ValidationError{}
	for _, e := range validationErrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "upc":
		return "must be 8 to 50 digits"
	case "storage_location":
		return "can only contain letters, numbers, spaces, hyphens, commas, and periods"
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("cannot exceed %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of %s", e.Param())
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	default:
		return "is invalid"
	}
}
