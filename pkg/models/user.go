package models

import "time"

// User carries at least one credential: a bcrypt PasswordHash for local
// accounts, a GoogleID for OAuth accounts, possibly both after linking.
// IDs are assigned by the application (UUID for local, Google subject for
// OAuth), never auto-incremented.
type User struct {
	ID              string  `gorm:"primaryKey;size:64"`
	Email           *string `gorm:"size:255;uniqueIndex"`
	FirstName       string  `gorm:"size:100"`
	LastName        string  `gorm:"size:100"`
	ProfileImageURL string  `gorm:"size:500"`
	PasswordHash    *string `gorm:"size:100"`
	GoogleID        *string `gorm:"size:64;uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

// HasPassword reports whether the account can be used for password login.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
