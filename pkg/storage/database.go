package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/schema"
)

// Database is the Postgres-backed repository.
type Database struct {
	db *gorm.DB
}

// OpenDatabase connects to Postgres and migrates the schema.
func OpenDatabase(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	err = db.AutoMigrate(
		&models.Product{},
		&models.Store{},
		&models.Price{},
		&models.ScanHistory{},
		&models.SavedProduct{},
		&models.User{},
		&models.DonationRecord{},
	)
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (d *Database) GetProductByBarcode(ctx context.Context, barcode string) (*schema.ProductResponse, error) {
	var product models.Product
	err := d.db.WithContext(ctx).Where("barcode = ?", barcode).First(&product).Error
	if err != nil {
		return nil, translate(err)
	}

	var prices []models.Price
	err = d.db.WithContext(ctx).Preload("Store").
		Where("product_id = ?", product.ID).
		Order("id").
		Find(&prices).Error
	if err != nil {
		return nil, err
	}

	resp := &schema.ProductResponse{
		Barcode:  product.Barcode,
		Title:    product.Title,
		Brand:    product.Brand,
		Category: product.Category,
		Stores:   make([]schema.StoreOffer, 0, len(prices)),
	}
	for i, price := range prices {
		resp.Stores = append(resp.Stores, schema.StoreOffer{
			ID:        i + 1,
			Name:      price.Store.Name,
			Logo:      price.Store.Logo,
			Link:      price.Store.Link,
			Price:     price.Price,
			Currency:  price.Currency,
			InStock:   price.InStock,
			UpdatedAt: price.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	resp.MarkBestPrice()
	return resp, nil
}

// SaveProduct upserts the whole product/store/price cluster in one
// transaction; a failure on any row rolls back everything.
func (d *Database) SaveProduct(ctx context.Context, product *schema.ProductResponse) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		err := tx.Where("barcode = ?", product.Barcode).First(&existing).Error
		switch {
		case err == nil:
			err = tx.Model(&existing).Updates(map[string]interface{}{
				"title":    product.Title,
				"brand":    product.Brand,
				"category": product.Category,
			}).Error
			if err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = models.Product{
				Barcode:  product.Barcode,
				Title:    product.Title,
				Brand:    product.Brand,
				Category: product.Category,
			}
			if err := tx.Create(&existing).Error; err != nil {
				return err
			}
		default:
			return err
		}

		for _, offer := range product.Stores {
			storeID, err := upsertStore(tx, &offer)
			if err != nil {
				return err
			}
			if err := upsertPrice(tx, existing.ID, storeID, &offer); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertStore(tx *gorm.DB, offer *schema.StoreOffer) (uint, error) {
	var store models.Store
	err := tx.Where("name = ?", offer.Name).First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		store = models.Store{Name: offer.Name, Logo: offer.Logo, Link: offer.Link}
		if err := tx.Create(&store).Error; err != nil {
			return 0, err
		}
		return store.ID, nil
	}
	if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{}
	if offer.Logo != "" && offer.Logo != store.Logo {
		updates["logo"] = offer.Logo
	}
	if offer.Link != "" && offer.Link != store.Link {
		updates["link"] = offer.Link
	}
	if len(updates) > 0 {
		if err := tx.Model(&store).Updates(updates).Error; err != nil {
			return 0, err
		}
	}
	return store.ID, nil
}

func upsertPrice(tx *gorm.DB, productID, storeID uint, offer *schema.StoreOffer) error {
	var price models.Price
	err := tx.Where("product_id = ? AND store_id = ?", productID, storeID).First(&price).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.Price{
			ProductID: productID,
			StoreID:   storeID,
			Price:     offer.Price,
			Currency:  offer.Currency,
			InStock:   offer.InStock,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&price).Updates(map[string]interface{}{
		"price":      offer.Price,
		"currency":   offer.Currency,
		"in_stock":   offer.InStock,
		"updated_at": time.Now(),
	}).Error
}

func (d *Database) GetScanHistory(ctx context.Context, userID *string) ([]models.ScanHistory, error) {
	q := d.db.WithContext(ctx).Order("scanned_at DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var history []models.ScanHistory
	if err := q.Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

func (d *Database) SaveScanHistory(ctx context.Context, entry *models.ScanHistory) error {
	if entry.ScannedAt.IsZero() {
		entry.ScannedAt = time.Now()
	}
	return d.db.WithContext(ctx).Create(entry).Error
}

func (d *Database) ClearScanHistory(ctx context.Context, userID *string) error {
	q := d.db.WithContext(ctx)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("1 = 1")
	}
	return q.Delete(&models.ScanHistory{}).Error
}

func (d *Database) GetSavedProducts(ctx context.Context, userID *string) ([]schema.ProductResponse, error) {
	q := d.db.WithContext(ctx).Order("saved_at DESC")
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var rows []models.SavedProduct
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]schema.ProductResponse, 0, len(rows))
	for _, row := range rows {
		var p schema.ProductResponse
		if err := json.Unmarshal(row.ProductData, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *Database) SaveProductToFavorites(ctx context.Context, product *schema.ProductResponse, userID *string) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.SavedProduct
		q := tx.Where("barcode = ?", product.Barcode)
		q = scopeUser(q, userID)
		err := q.First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.SavedProduct{
				Barcode:     product.Barcode,
				UserID:      userID,
				ProductData: data,
				SavedAt:     time.Now(),
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).Updates(map[string]interface{}{
			"product_data": data,
			"saved_at":     time.Now(),
		}).Error
	})
}

// RemoveSavedProduct deletes the favorite matching the barcode and, when a
// user is present, that user. Anonymous removals touch only anonymous rows.
func (d *Database) RemoveSavedProduct(ctx context.Context, barcode string, userID *string) error {
	q := d.db.WithContext(ctx).Where("barcode = ?", barcode)
	q = scopeUser(q, userID)
	return q.Delete(&models.SavedProduct{}).Error
}

func (d *Database) ClearSavedProducts(ctx context.Context, userID *string) error {
	q := d.db.WithContext(ctx)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("1 = 1")
	}
	return q.Delete(&models.SavedProduct{}).Error
}

// scopeUser narrows a favorites query to the acting user; the anonymous
// scope matches rows with no owner.
func scopeUser(q *gorm.DB, userID *string) *gorm.DB {
	if userID != nil {
		return q.Where("user_id = ?", *userID)
	}
	return q.Where("user_id IS NULL")
}

func (d *Database) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *Database) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *Database) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	var user models.User
	err := d.db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (d *Database) CreateUser(ctx context.Context, user *models.User) error {
	return translate(d.db.WithContext(ctx).Create(user).Error)
}

func (d *Database) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.ProfileImageURL != nil {
		updates["profile_image_url"] = *update.ProfileImageURL
	}
	if update.GoogleID != nil {
		updates["google_id"] = *update.GoogleID
	}
	if update.PasswordHash != nil {
		updates["password_hash"] = *update.PasswordHash
	}

	var user models.User
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	if len(updates) > 0 {
		if err := d.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, translate(err)
		}
	}
	return &user, nil
}

func (d *Database) SaveDonation(ctx context.Context, donation *models.DonationRecord) error {
	return d.db.WithContext(ctx).Create(donation).Error
}

func (d *Database) UpdateDonationStatus(ctx context.Context, externalOrderID, status string) error {
	updates := map[string]interface{}{"status": status}
	if status == "completed" {
		updates["completed_at"] = time.Now()
	}
	res := d.db.WithContext(ctx).Model(&models.DonationRecord{}).
		Where("external_order_id = ?", externalOrderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Storage = (*Database)(nil)
