package openfoodfacts

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/shelflife/backend/internal/domain"
)

// statusFound is the OpenFoodFacts "status" value for a known product
const statusFound = 1

// Normalize maps an OpenFoodFacts product document onto a ProductLookupResult.
//
// Only "status": 1 together with a "product" object counts as found. Missing
// or wrongly typed fields are treated as absent; only a body that is not a
// JSON object yields an error.
func Normalize(body []byte) (domain.ProductLookupResult, error) {
	if !gjson.ValidBytes(body) {
		return domain.NotFound(), fmt.Errorf("%w: invalid JSON", domain.ErrUnexpectedFormat)
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return domain.NotFound(), fmt.Errorf("%w: top-level value is not an object", domain.ErrUnexpectedFormat)
	}

	status := root.Get("status")
	if status.Type != gjson.Number || status.Int() != statusFound {
		return domain.NotFound(), nil
	}

	product := root.Get("product")
	if !product.IsObject() {
		return domain.NotFound(), nil
	}

	title := stringField(product, "product_name")
	if title == "" {
		title = stringField(product, "generic_name")
	}

	return domain.ProductLookupResult{
		Found:           true,
		Title:           title,
		Brand:           stringField(product, "brands"),
		Category:        firstCategory(stringField(product, "categories")),
		Description:     stringField(product, "ingredients_text"),
		ImageURL:        stringField(product, "image_url"),
		NutriScoreGrade: nutriScoreGrade(stringField(product, "nutriscore_grade")),
		EcoScore:        ecoScore(product.Get("ecoscore_score")),
	}, nil
}

func stringField(obj gjson.Result, name string) string {
	v := obj.Get(name)
	if v.Type != gjson.String {
		return ""
	}
	return strings.TrimSpace(v.Str)
}

// firstCategory keeps the first entry of a comma-separated category list
func firstCategory(categories string) string {
	if categories == "" {
		return ""
	}
	first, _, _ := strings.Cut(categories, ",")
	return strings.TrimSpace(first)
}

// nutriScoreGrade upper-cases the grade and drops anything outside A-E,
// such as "unknown" or "not-applicable".
func nutriScoreGrade(grade string) string {
	grade = strings.ToUpper(grade)
	if len(grade) != 1 || grade[0] < 'A' || grade[0] > 'E' {
		return ""
	}
	return grade
}

// ecoScore reads the numeric 0-100 environmental score. It is distinct from
// the letter "ecoscore_grade" field, which is ignored.
func ecoScore(v gjson.Result) *int {
	if v.Type != gjson.Number {
		return nil
	}
	score := int(math.Round(v.Float()))
	score = max(0, min(score, 100))
	return &score
}
