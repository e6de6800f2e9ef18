package models

import "time"

// DonationRecord is the local audit row for a PayPal donation order.
// Status moves created -> completed, or created -> failed.
type DonationRecord struct {
	ID              uint    `gorm:"primaryKey"`
	ExternalOrderID string  `gorm:"size:100;index"`
	Amount          string  `gorm:"size:32;not null"`
	Currency        string  `gorm:"size:10;default:'USD'"`
	Status          string  `gorm:"size:20;default:'created'"`
	UserID          *string `gorm:"size:64;index"`

	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (DonationRecord) TableName() string {
	return "donations"
}
