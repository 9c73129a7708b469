package domain

import "time"

// Inventory quantity bounds
const (
	MinQuantity = 0
	MaxQuantity = 10000
)

// Product is a catalog entry identified by its UPC.
type Product struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UPC             string    `gorm:"column:upc;size:50;not null;uniqueIndex:idx_products_upc" json:"upc"`
	Title           string    `gorm:"size:500;not null" json:"title"`
	Brand           string    `gorm:"size:200" json:"brand,omitempty"`
	Model           string    `gorm:"size:200" json:"model,omitempty"`
	Category        string    `gorm:"size:500" json:"category,omitempty"`
	ImageURL        string    `gorm:"column:image_url;size:1000" json:"imageUrl,omitempty"`
	NutriScoreGrade *string   `gorm:"column:nutri_score_grade;size:1" json:"nutriScoreGrade,omitempty"`
	EcoScore        *int      `gorm:"column:eco_score" json:"ecoScore,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Inventory is a stock entry for one product at one storage location.
type Inventory struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProductID       uint       `gorm:"not null;index:idx_inventories_product_location,priority:1" json:"productId"`
	Product         *Product   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"product,omitempty"`
	Quantity        int        `gorm:"not null;default:0" json:"quantity"`
	ExpiryDate      *time.Time `gorm:"type:date" json:"expiryDate,omitempty"`
	StorageLocation *string    `gorm:"size:100;index:idx_inventories_product_location,priority:2" json:"storageLocation,omitempty"`
	LastUpdated     time.Time  `gorm:"not null;index" json:"lastUpdated"`

	// Expired is derived from ExpiryDate on every read and never stored.
	Expired bool `gorm:"-" json:"isExpired"`
}

// IsExpiredAt reports whether the expiry date lies before the day of now.
func (i *Inventory) IsExpiredAt(now time.Time) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return DateOf(*i.ExpiryDate).Before(DateOf(now))
}

// DateOf truncates t to midnight UTC of its UTC calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ProductDraft carries the descriptive fields for an add-or-update.
type ProductDraft struct {
	UPC             string
	Title           string
	Brand           string
	Model           string
	Category        string
	ImageURL        string
	NutriScoreGrade *string
	EcoScore        *int
}

// StockDraft carries the stock fields for an add-or-update.
type StockDraft struct {
	Quantity        int
	ExpiryDate      *time.Time
	StorageLocation *string
}

// StockUpdate replaces the stock fields of an existing inventory row.
type StockUpdate struct {
	Quantity        int
	ExpiryDate      *time.Time
	StorageLocation *string
}

// InventoryFilter narrows an inventory listing.
type InventoryFilter struct {
	Search   string // case-insensitive substring of the product title
	Location string // case-insensitive storage location
	Limit    int
}
