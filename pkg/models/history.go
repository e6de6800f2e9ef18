package models

import (
	"encoding/json"
	"time"
)

// ScanHistory is an append-only log of successful lookups. ProductData is the
// full denormalized response snapshot; it is not reconciled with the
// products/prices tables afterwards.
type ScanHistory struct {
	ID          uint            `gorm:"primaryKey"`
	Barcode     string          `gorm:"size:64;index;not null"`
	ProductData json.RawMessage `gorm:"type:text;not null"`
	UserID      *string         `gorm:"size:64;index"`
	IsFavorite  bool            `gorm:"default:false"`
	ScannedAt   time.Time       `gorm:"index"`
}

func (ScanHistory) TableName() string {
	return "scan_history"
}

// SavedProduct is a favorite: one row per (user, barcode), with a NULL user
// for anonymous favorites. Saving again replaces the snapshot.
type SavedProduct struct {
	ID          uint            `gorm:"primaryKey"`
	Barcode     string          `gorm:"size:64;not null;uniqueIndex:idx_saved_user_barcode"`
	UserID      *string         `gorm:"size:64;uniqueIndex:idx_saved_user_barcode"`
	ProductData json.RawMessage `gorm:"type:text;not null"`
	SavedAt     time.Time
}

func (SavedProduct) TableName() string {
	return "saved_products"
}
