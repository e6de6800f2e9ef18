package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/schema"
)

func sampleProduct(barcode string) *schema.ProductResponse {
	p := &schema.ProductResponse{
		Barcode:  barcode,
		Title:    "Sample",
		Brand:    "Acme",
		Category: "Gadgets",
		Stores: []schema.StoreOffer{
			{ID: 1, Name: "Walmart", Price: "12.00", Currency: "USD", InStock: 1, UpdatedAt: "2024-01-01T00:00:00Z"},
			{ID: 2, Name: "Costco", Price: "9.50", Currency: "USD", InStock: 1, UpdatedAt: "2024-01-01T00:00:00Z"},
		},
	}
	p.MarkBestPrice()
	return p
}

func historyEntry(barcode string, userID *string, at time.Time) *models.ScanHistory {
	data, _ := json.Marshal(sampleProduct(barcode))
	return &models.ScanHistory{
		Barcode:     barcode,
		ProductData: data,
		UserID:      userID,
		ScannedAt:   at,
	}
}

func TestProductRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.GetProductByBarcode(ctx, "111"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store should miss, got %v", err)
	}

	saved := sampleProduct("111")
	if err := m.SaveProduct(ctx, saved); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := m.GetProductByBarcode(ctx, "111")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != saved.Title || got.Brand != saved.Brand || got.Category != saved.Category {
		t.Errorf("round trip mismatch: %+v", got)
	}

	// Mutating the returned value must not touch the stored copy.
	got.Stores[0].Price = "0.01"
	again, _ := m.GetProductByBarcode(ctx, "111")
	if again.Stores[0].Price == "0.01" {
		t.Error("stored product aliased by returned copy")
	}
}

func TestScanHistoryOrderAndScopedClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	alice, bob := "alice", "bob"
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	m.SaveScanHistory(ctx, historyEntry("1", &alice, base))
	m.SaveScanHistory(ctx, historyEntry("2", nil, base.Add(time.Minute)))
	m.SaveScanHistory(ctx, historyEntry("3", &bob, base.Add(2*time.Minute)))
	m.SaveScanHistory(ctx, historyEntry("4", &alice, base.Add(3*time.Minute)))

	all, err := m.GetScanHistory(ctx, nil)
	if err != nil {
		t.Fatalf("history read failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("global history = %d, want 4", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].ScannedAt.After(all[i-1].ScannedAt) {
			t.Fatal("history not sorted newest first")
		}
	}

	mine, _ := m.GetScanHistory(ctx, &alice)
	if len(mine) != 2 {
		t.Fatalf("alice history = %d, want 2", len(mine))
	}

	if err := m.ClearScanHistory(ctx, &alice); err != nil {
		t.Fatalf("scoped clear failed: %v", err)
	}
	remaining, _ := m.GetScanHistory(ctx, nil)
	if len(remaining) != 2 {
		t.Fatalf("after alice's clear: %d entries, want 2", len(remaining))
	}
	for _, h := range remaining {
		if h.UserID != nil && *h.UserID == alice {
			t.Error("alice's entry survived her clear")
		}
	}

	if err := m.ClearScanHistory(ctx, nil); err != nil {
		t.Fatalf("global clear failed: %v", err)
	}
	empty, _ := m.GetScanHistory(ctx, nil)
	if len(empty) != 0 {
		t.Errorf("global clear left %d entries", len(empty))
	}
}

func TestFavoritesScoping(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	alice, bob := "alice", "bob"

	m.SaveProductToFavorites(ctx, sampleProduct("111"), &alice)
	m.SaveProductToFavorites(ctx, sampleProduct("111"), &bob)
	m.SaveProductToFavorites(ctx, sampleProduct("222"), nil)

	mine, err := m.GetSavedProducts(ctx, &alice)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(mine) != 1 || mine[0].Barcode != "111" {
		t.Fatalf("alice favorites = %+v", mine)
	}

	// Removing alice's favorite must not touch bob's row for the same
	// barcode.
	if err := m.RemoveSavedProduct(ctx, "111", &alice); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if after, _ := m.GetSavedProducts(ctx, &alice); len(after) != 0 {
		t.Error("alice's favorite survived removal")
	}
	if bobs, _ := m.GetSavedProducts(ctx, &bob); len(bobs) != 1 {
		t.Error("bob's favorite removed by alice")
	}

	// Saving twice upserts rather than duplicating.
	m.SaveProductToFavorites(ctx, sampleProduct("222"), nil)
	if all, _ := m.GetSavedProducts(ctx, nil); len(all) != 2 {
		t.Errorf("favorites = %d, want 2 (bob's + anonymous)", len(all))
	}

	if err := m.ClearSavedProducts(ctx, &bob); err != nil {
		t.Fatalf("scoped clear failed: %v", err)
	}
	if bobs, _ := m.GetSavedProducts(ctx, &bob); len(bobs) != 0 {
		t.Error("bob's favorites survived his clear")
	}
}

func TestUserLifecycle(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	email := "user@example.com"
	hash := "bcrypt-hash"
	user := &models.User{ID: "u-1", Email: &email, FirstName: "Ada", PasswordHash: &hash}
	if err := m.CreateUser(ctx, user); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	dupe := &models.User{ID: "u-2", Email: &email}
	if err := m.CreateUser(ctx, dupe); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate email should conflict, got %v", err)
	}

	byEmail, err := m.GetUserByEmail(ctx, email)
	if err != nil || byEmail.ID != "u-1" {
		t.Fatalf("lookup by email: %v, %+v", err, byEmail)
	}

	newName := "Grace"
	updated, err := m.UpdateUser(ctx, "u-1", UserUpdate{FirstName: &newName})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FirstName != "Grace" {
		t.Errorf("first name = %q", updated.FirstName)
	}
	if updated.Email == nil || *updated.Email != email {
		t.Error("update clobbered untouched email")
	}

	if _, err := m.UpdateUser(ctx, "missing", UserUpdate{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating unknown user should be not found, got %v", err)
	}
}
