package storage

import (
	"context"
	"errors"

	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/schema"
)

// Expected repository failures. Anything else is an internal error and maps
// to a 500 at the route layer.
var (
	ErrNotFound  = errors.New("storage: record not found")
	ErrDuplicate = errors.New("storage: duplicate record")
)

// UserUpdate carries the user fields an update may change; nil fields are
// left untouched.
type UserUpdate struct {
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	GoogleID        *string
	PasswordHash    *string
}

// Storage is the repository shared by the memory and database backends.
// A nil userID means the anonymous scope: reads return the global view and
// clears wipe everything, matching the pre-auth behavior of the product.
type Storage interface {
	// Products (the lookup cache).
	GetProductByBarcode(ctx context.Context, barcode string) (*schema.ProductResponse, error)
	SaveProduct(ctx context.Context, product *schema.ProductResponse) error

	// Scan history.
	GetScanHistory(ctx context.Context, userID *string) ([]models.ScanHistory, error)
	SaveScanHistory(ctx context.Context, entry *models.ScanHistory) error
	ClearScanHistory(ctx context.Context, userID *string) error

	// Favorites.
	GetSavedProducts(ctx context.Context, userID *string) ([]schema.ProductResponse, error)
	SaveProductToFavorites(ctx context.Context, product *schema.ProductResponse, userID *string) error
	RemoveSavedProduct(ctx context.Context, barcode string, userID *string) error
	ClearSavedProducts(ctx context.Context, userID *string) error

	// Users.
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error)

	// Donations.
	SaveDonation(ctx context.Context, donation *models.DonationRecord) error
	UpdateDonationStatus(ctx context.Context, externalOrderID, status string) error
}
