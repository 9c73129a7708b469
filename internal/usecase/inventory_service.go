package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/shelflife/backend/internal/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// AddInventoryRequest adds stock for a UPC, creating the product when it is new
type AddInventoryRequest struct {
	UPC             string `json:"upc" validate:"required,upc"`
	Title           string `json:"title" validate:"required,min=2,max=500"`
	Brand           string `json:"brand" validate:"max=200"`
	Model           string `json:"model" validate:"max=200"`
	Category        string `json:"category" validate:"max=500"`
	ImageURL        string `json:"imageUrl" validate:"omitempty,url,max=1000"`
	NutriScoreGrade string `json:"nutriScoreGrade" validate:"omitempty,oneof=A B C D E"`
	EcoScore        *int   `json:"ecoScore" validate:"omitempty,min=0,max=100"`
	Quantity        int    `json:"quantity" validate:"min=0,max=10000"`
	ExpiryDate      string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	StorageLocation string `json:"storageLocation" validate:"omitempty,max=100,storage_location"`
}

// UpdateInventoryRequest replaces the stock fields of one inventory row.
// Empty expiry date or location clears the stored value.
type UpdateInventoryRequest struct {
	Quantity        int    `json:"quantity" validate:"min=0,max=10000"`
	ExpiryDate      string `json:"expiryDate" validate:"omitempty,datetime=2006-01-02"`
	StorageLocation string `json:"storageLocation" validate:"omitempty,max=100,storage_location"`
}

// InventoryService handles product and stock bookkeeping
type InventoryService struct {
	repo     domain.InventoryRepository
	validate *validator.Validate
	now      func() time.Time
	log      logrus.FieldLogger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo domain.InventoryRepository, logger logrus.FieldLogger) *InventoryService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InventoryService{
		repo:     repo,
		validate: newValidator(),
		now:      time.Now,
		log:      logger,
	}
}

// Add creates or refreshes the product for req.UPC and merges the stock.
// The bool reports whether a new product was created.
func (s *InventoryService) Add(ctx context.Context, req *AddInventoryRequest) (*domain.Inventory, bool, error) {
	if req == nil {
		return nil, false, domain.ErrInvalidRequest
	}

	req.UPC = strings.TrimSpace(req.UPC)
	req.Title = strings.TrimSpace(req.Title)
	req.StorageLocation = strings.TrimSpace(req.StorageLocation)
	req.NutriScoreGrade = strings.ToUpper(strings.TrimSpace(req.NutriScoreGrade))
	req.Quantity = clampQuantity(req.Quantity)

	if err := s.validate.Struct(req); err != nil {
		return nil, false, toValidationError(err)
	}

	expiry, err := s.parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, false, err
	}

	product := domain.ProductDraft{
		UPC:             req.UPC,
		Title:           req.Title,
		Brand:           strings.TrimSpace(req.Brand),
		Model:           strings.TrimSpace(req.Model),
		Category:        strings.TrimSpace(req.Category),
		ImageURL:        strings.TrimSpace(req.ImageURL),
		NutriScoreGrade: optionalString(req.NutriScoreGrade),
		EcoScore:        req.EcoScore,
	}
	stock := domain.StockDraft{
		Quantity:        req.Quantity,
		ExpiryDate:      expiry,
		StorageLocation: optionalString(req.StorageLocation),
	}

	inv, created, err := s.repo.AddOrUpdate(ctx, product, stock)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateProduct) {
			s.log.WithField("upc", req.UPC).Warn("concurrent insert of the same UPC")
		}
		return nil, false, err
	}

	s.log.WithFields(logrus.Fields{
		"upc":          req.UPC,
		"inventory_id": inv.ID,
		"quantity":     inv.Quantity,
		"created":      created,
	}).Info("inventory added")

	s.markExpiry(inv)
	return inv, created, nil
}

// Get returns one inventory row with its product
func (s *InventoryService) Get(ctx context.Context, id uint) (*domain.Inventory, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.markExpiry(inv)
	return inv, nil
}

// UpdateStock replaces quantity, expiry and location of one inventory row
func (s *InventoryService) UpdateStock(ctx context.Context, id uint, req *UpdateInventoryRequest) (*domain.Inventory, error) {
	if req == nil {
		return nil, domain.ErrInvalidRequest
	}

	req.StorageLocation = strings.TrimSpace(req.StorageLocation)
	req.Quantity = clampQuantity(req.Quantity)

	if err := s.validate.Struct(req); err != nil {
		return nil, toValidationError(err)
	}

	expiry, err := s.parseExpiry(req.ExpiryDate)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.UpdateStock(ctx, id, domain.StockUpdate{
		Quantity:        req.Quantity,
		ExpiryDate:      expiry,
		StorageLocation: optionalString(req.StorageLocation),
	})
	if err != nil {
		return nil, err
	}

	s.markExpiry(inv)
	return inv, nil
}

// Delete removes one inventory row; its product is kept
func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// DeleteProduct removes a product together with all of its inventory rows
func (s *InventoryService) DeleteProduct(ctx context.Context, productID uint) error {
	return s.repo.DeleteProduct(ctx, productID)
}

// List returns inventory rows, most recently updated first
func (s *InventoryService) List(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Location = strings.TrimSpace(filter.Location)
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		s.markExpiry(&items[i])
	}
	return items, nil
}

// parseExpiry parses an optional YYYY-MM-DD date that must not lie in the past
func (s *InventoryService) parseExpiry(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, domain.NewValidationError("expiryDate", "must be a date formatted as YYYY-MM-DD")
	}
	if date.Before(domain.DateOf(s.now())) {
		return nil, domain.NewValidationError("expiryDate", "must be today or a future date")
	}
	return &date, nil
}

func (s *InventoryService) markExpiry(inv *domain.Inventory) {
	inv.Expired = inv.IsExpiredAt(s.now())
}

// clampQuantity turns negative quantities into zero
func clampQuantity(q int) int {
	if q < domain.MinQuantity {
		return domain.MinQuantity
	}
	return q
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
