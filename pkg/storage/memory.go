package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/schema"
)

// Memory is the map-backed repository used when no database is configured,
// and in tests. Data lives for the process lifetime.
type Memory struct {
	mu sync.RWMutex

	products  map[string]*schema.ProductResponse
	history   []models.ScanHistory
	saved     map[savedKey]*savedEntry
	users     map[string]*models.User
	byEmail   map[string]string
	byGoogle  map[string]string
	donations []models.DonationRecord

	nextHistoryID  uint
	nextDonationID uint
}

type savedKey struct {
	userID  string // empty for anonymous
	barcode string
}

type savedEntry struct {
	product *schema.ProductResponse
	savedAt time.Time
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		products:       make(map[string]*schema.ProductResponse),
		saved:          make(map[savedKey]*savedEntry),
		users:          make(map[string]*models.User),
		byEmail:        make(map[string]string),
		byGoogle:       make(map[string]string),
		nextHistoryID:  1,
		nextDonationID: 1,
	}
}

func cloneProduct(p *schema.ProductResponse) *schema.ProductResponse {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Stores = append([]schema.StoreOffer(nil), p.Stores...)
	return &c
}

func (m *Memory) GetProductByBarcode(ctx context.Context, barcode string) (*schema.ProductResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[barcode]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneProduct(p), nil
}

func (m *Memory) SaveProduct(ctx context.Context, product *schema.ProductResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.Barcode] = cloneProduct(product)
	return nil
}

func (m *Memory) GetScanHistory(ctx context.Context, userID *string) ([]models.ScanHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.ScanHistory, 0, len(m.history))
	for _, h := range m.history {
		if userID != nil && (h.UserID == nil || *h.UserID != *userID) {
			continue
		}
		out = append(out, h)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScannedAt.After(out[j].ScannedAt)
	})
	return out, nil
}

func (m *Memory) SaveScanHistory(ctx context.Context, entry *models.ScanHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = m.nextHistoryID
	m.nextHistoryID++
	if entry.ScannedAt.IsZero() {
		entry.ScannedAt = time.Now()
	}
	m.history = append(m.history, *entry)
	return nil
}

func (m *Memory) ClearScanHistory(ctx context.Context, userID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if userID == nil {
		m.history = nil
		return nil
	}
	kept := m.history[:0]
	for _, h := range m.history {
		if h.UserID == nil || *h.UserID != *userID {
			kept = append(kept, h)
		}
	}
	m.history = kept
	return nil
}

func (m *Memory) GetSavedProducts(ctx context.Context, userID *string) ([]schema.ProductResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*savedEntry
	for key, entry := range m.saved {
		if userID != nil && key.userID != *userID {
			continue
		}
		rows = append(rows, entry)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].savedAt.After(rows[j].savedAt)
	})
	out := make([]schema.ProductResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, *cloneProduct(r.product))
	}
	return out, nil
}

func (m *Memory) SaveProductToFavorites(ctx context.Context, product *schema.ProductResponse, userID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := savedKey{barcode: product.Barcode}
	if userID != nil {
		key.userID = *userID
	}
	m.saved[key] = &savedEntry{product: cloneProduct(product), savedAt: time.Now()}
	return nil
}

func (m *Memory) RemoveSavedProduct(ctx context.Context, barcode string, userID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.saved {
		if key.barcode != barcode {
			continue
		}
		if userID != nil && key.userID != *userID {
			continue
		}
		delete(m.saved, key)
	}
	return nil
}

func (m *Memory) ClearSavedProducts(ctx context.Context, userID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if userID == nil {
		m.saved = make(map[savedKey]*savedEntry)
		return nil
	}
	for key := range m.saved {
		if key.userID == *userID {
			delete(m.saved, key)
		}
	}
	return nil
}

func (m *Memory) GetUser(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m.users[id]
	return &c, nil
}

func (m *Memory) GetUserByGoogleID(ctx context.Context, googleID string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byGoogle[googleID]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m.users[id]
	return &c, nil
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; ok {
		return ErrDuplicate
	}
	if user.Email != nil {
		if _, ok := m.byEmail[*user.Email]; ok {
			return ErrDuplicate
		}
	}
	if user.GoogleID != nil {
		if _, ok := m.byGoogle[*user.GoogleID]; ok {
			return ErrDuplicate
		}
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	c := *user
	m.users[user.ID] = &c
	if user.Email != nil {
		m.byEmail[*user.Email] = user.ID
	}
	if user.GoogleID != nil {
		m.byGoogle[*user.GoogleID] = user.ID
	}
	return nil
}

func (m *Memory) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Email != nil && (u.Email == nil || *update.Email != *u.Email) {
		if other, taken := m.byEmail[*update.Email]; taken && other != id {
			return nil, ErrDuplicate
		}
		if u.Email != nil {
			delete(m.byEmail, *u.Email)
		}
		u.Email = update.Email
		m.byEmail[*update.Email] = id
	}
	if update.GoogleID != nil && (u.GoogleID == nil || *update.GoogleID != *u.GoogleID) {
		if u.GoogleID != nil {
			delete(m.byGoogle, *u.GoogleID)
		}
		u.GoogleID = update.GoogleID
		m.byGoogle[*update.GoogleID] = id
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.ProfileImageURL != nil {
		u.ProfileImageURL = *update.ProfileImageURL
	}
	if update.PasswordHash != nil {
		u.PasswordHash = update.PasswordHash
	}
	u.UpdatedAt = time.Now()
	c := *u
	return &c, nil
}

func (m *Memory) SaveDonation(ctx context.Context, donation *models.DonationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	donation.ID = m.nextDonationID
	m.nextDonationID++
	donation.CreatedAt = time.Now()
	m.donations = append(m.donations, *donation)
	return nil
}

func (m *Memory) UpdateDonationStatus(ctx context.Context, externalOrderID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.donations {
		if m.donations[i].ExternalOrderID == externalOrderID {
			m.donations[i].Status = status
			m.donations[i].UpdatedAt = time.Now()
			if status == "completed" {
				now := time.Now()
				m.donations[i].CompletedAt = &now
			}
			return nil
		}
	}
	return ErrNotFound
}

var _ Storage = (*Memory)(nil)
