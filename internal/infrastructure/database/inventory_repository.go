package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shelflife/backend/internal/domain"
)

const pgUniqueViolation = "23505"

// InventoryRepository stores products and their inventory rows with gorm
type InventoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewInventoryRepository creates a new gorm-backed inventory repository
func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{
		db:  db,
		now: time.Now,
	}
}

// AddOrUpdate creates the product on first sight of its UPC; otherwise it
// refreshes the product and merges the stock into a matching row.
func (r *InventoryRepository) AddOrUpdate(ctx context.Context, draft domain.ProductDraft, stock domain.StockDraft) (*domain.Inventory, bool, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("upc = ?", draft.UPC).Take(&product).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		inv, err := r.create(ctx, draft, stock)
		if err != nil {
			return nil, false, err
		}
		return inv, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to find product by UPC: %w", err)
	}

	inv, err := r.merge(ctx, &product, draft, stock)
	if err != nil {
		return nil, false, err
	}
	return inv, false, nil
}

func (r *InventoryRepository) create(ctx context.Context, draft domain.ProductDraft, stock domain.StockDraft) (*domain.Inventory, error) {
	now := r.now().UTC()

	product := domain.Product{
		UPC:             draft.UPC,
		Title:           draft.Title,
		Brand:           draft.Brand,
		Model:           draft.Model,
		Category:        draft.Category,
		ImageURL:        draft.ImageURL,
		NutriScoreGrade: draft.NutriScoreGrade,
		EcoScore:        draft.EcoScore,
	}
	inv := domain.Inventory{
		Quantity:        stock.Quantity,
		ExpiryDate:      stock.ExpiryDate,
		StorageLocation: stock.StorageLocation,
		LastUpdated:     now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrDuplicateProduct
			}
			return fmt.Errorf("failed to create product: %w", err)
		}

		inv.ProductID = product.ID
		if err := tx.Omit(clause.Associations).Create(&inv).Error; err != nil {
			return fmt.Errorf("failed to create inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inv.Product = &product
	return &inv, nil
}

func (r *InventoryRepository) merge(ctx context.Context, product *domain.Product, draft domain.ProductDraft, stock domain.StockDraft) (*domain.Inventory, error) {
	now := r.now().UTC()

	product.Title = draft.Title
	product.Brand = draft.Brand
	product.Model = draft.Model
	product.Category = draft.Category
	if draft.ImageURL != "" {
		product.ImageURL = draft.ImageURL
	}
	if draft.NutriScoreGrade != nil {
		product.NutriScoreGrade = draft.NutriScoreGrade
	}
	if draft.EcoScore != nil {
		product.EcoScore = draft.EcoScore
	}

	var inv domain.Inventory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		query := tx.Where("product_id = ?", product.ID)
		if stock.StorageLocation != nil {
			query = query.Where("LOWER(storage_location) = LOWER(?)", *stock.StorageLocation)
		}
		err := query.Order("last_updated DESC").Order("id DESC").Take(&inv).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			inv = domain.Inventory{
				ProductID:       product.ID,
				Quantity:        stock.Quantity,
				ExpiryDate:      stock.ExpiryDate,
				StorageLocation: stock.StorageLocation,
				LastUpdated:     now,
			}
			if err := tx.Omit(clause.Associations).Create(&inv).Error; err != nil {
				return fmt.Errorf("failed to create inventory: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to find inventory: %w", err)
		}

		total := inv.Quantity + stock.Quantity
		if total > domain.MaxQuantity {
			return domain.NewValidationError("quantity",
				fmt.Sprintf("total quantity %d would exceed %d", total, domain.MaxQuantity))
		}

		inv.Quantity = total
		if stock.ExpiryDate != nil {
			inv.ExpiryDate = stock.ExpiryDate
		}
		if stock.StorageLocation != nil {
			inv.StorageLocation = stock.StorageLocation
		}
		inv.LastUpdated = now

		if err := tx.Omit(clause.Associations).Save(&inv).Error; err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inv.Product = product
	return &inv, nil
}

// GetByID returns one inventory row with its product
func (r *InventoryRepository) GetByID(ctx context.Context, id uint) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := r.db.WithContext(ctx).Preload("Product").Take(&inv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return &inv, nil
}

// UpdateStock replaces quantity, expiry and location of one row
func (r *InventoryRepository) UpdateStock(ctx context.Context, id uint, update domain.StockUpdate) (*domain.Inventory, error) {
	var inv domain.Inventory
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Product").Take(&inv, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrInventoryNotFound
			}
			return fmt.Errorf("failed to get inventory: %w", err)
		}

		inv.Quantity = update.Quantity
		inv.ExpiryDate = update.ExpiryDate
		inv.StorageLocation = update.StorageLocation
		inv.LastUpdated = r.now().UTC()

		if err := tx.Omit(clause.Associations).Save(&inv).Error; err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Delete removes one inventory row
func (r *InventoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Inventory{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete inventory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}

// DeleteProduct removes a product and every inventory row that references it
func (r *InventoryRepository) DeleteProduct(ctx context.Context, productID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&domain.Inventory{}).Error; err != nil {
			return fmt.Errorf("failed to delete product inventory: %w", err)
		}

		result := tx.Delete(&domain.Product{}, productID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		return nil
	})
}

// List returns inventory rows, most recently updated first
func (r *InventoryRepository) List(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Inventory{}).
		Select("inventories.*").
		Preload("Product")

	if filter.Search != "" {
		query = query.
			Joins("JOIN products ON products.id = inventories.product_id").
			Where("LOWER(products.title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Location != "" {
		query = query.Where("LOWER(inventories.storage_location) = ?", strings.ToLower(filter.Location))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var items []domain.Inventory
	err := query.
		Order("inventories.last_updated DESC").
		Order("inventories.id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return items, nil
}

// isDuplicateKey reports whether err is a unique constraint violation.
// gorm translates it when the dialect supports it; pgx and SQLite errors are
// matched directly otherwise.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "duplicate key")
}
