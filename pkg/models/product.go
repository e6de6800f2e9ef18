package models

import "time"

// Product is the normalized product row keyed by barcode. It doubles as the
// lookup cache: once a barcode is here, the external API is never asked again.
type Product struct {
	ID       uint   `gorm:"primaryKey"`
	Barcode  string `gorm:"size:64;uniqueIndex;not null"`
	Title    string `gorm:"size:500;not null"`
	Brand    string `gorm:"size:255"`
	Category string `gorm:"size:255"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Product) TableName() string {
	return "products"
}

// Store is a retailer offering products, identified by name.
type Store struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;uniqueIndex;not null"`
	Logo string `gorm:"size:500"`
	Link string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Store) TableName() string {
	return "stores"
}

// Price is one store's offer for one product. At most one row exists per
// (product, store) pair; re-ingesting a lookup updates it in place.
type Price struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;uniqueIndex:idx_prices_product_store"`
	StoreID   uint   `gorm:"not null;uniqueIndex:idx_prices_product_store"`
	Price     string `gorm:"size:32;not null"`
	Currency  string `gorm:"size:10;default:'USD'"`
	InStock   int    `gorm:"default:1"`
	UpdatedAt time.Time

	Product Product `gorm:"constraint:OnDelete:CASCADE"`
	Store   Store   `gorm:"constraint:OnDelete:CASCADE"`
}

func (Price) TableName() string {
	return "prices"
}
