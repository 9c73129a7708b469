package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are stored serialized; Get decodes into dest.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProviderClient fetches the raw product document for a UPC from one provider.
type ProviderClient interface {
	Fetch(ctx context.Context, upc string) (*ProviderResponse, error)
}

// InventoryRepository defines persistence for products and their inventory.
type InventoryRepository interface {
	// AddOrUpdate creates the product on first sight of its UPC, otherwise
	// refreshes it and merges the stock. The bool reports whether the product
	// was created.
	AddOrUpdate(ctx context.Context, product ProductDraft, stock StockDraft) (*Inventory, bool, error)
	GetByID(ctx context.Context, id uint) (*Inventory, error)
	UpdateStock(ctx context.Context, id uint, update StockUpdate) (*Inventory, error)
	Delete(ctx context.Context, id uint) error
	DeleteProduct(ctx context.Context, productID uint) error
	List(ctx context.Context, filter InventoryFilter) ([]Inventory, error)
}
