package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/schema"
	"github.com/pricescan/pricescan/pkg/storage"
)

type fakeClient struct {
	item  *Item
	err   error
	calls int
}

func (f *fakeClient) Lookup(ctx context.Context, barcode string) (*Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.item, nil
}

func twoOfferItem() *Item {
	return &Item{
		Title:    "The Practice of Programming",
		Brand:    "Addison-Wesley",
		Category: "Books",
		Offers: []Offer{
			{Merchant: "Walmart", Price: "12.00", Availability: "In Stock"},
			{Merchant: "Costco", Price: "9.50", Availability: "In Stock"},
		},
	}
}

func TestLookupFirstScan(t *testing.T) {
	store := storage.NewMemory()
	client := &fakeClient{item: twoOfferItem()}
	svc := NewService(store, client, nil)
	ctx := context.Background()

	resp, err := svc.Lookup(ctx, "9780201379624", nil)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("upstream called %d times, want 1", client.calls)
	}
	if len(resp.Stores) != 2 {
		t.Fatalf("got %d stores, want 2", len(resp.Stores))
	}
	for _, offer := range resp.Stores {
		if offer.IsBestPrice && offer.Price != "9.50" {
			t.Errorf("best price is %s, want 9.50", offer.Price)
		}
	}

	// The scan must be persisted and logged.
	if _, err := store.GetProductByBarcode(ctx, "9780201379624"); err != nil {
		t.Errorf("product not cached: %v", err)
	}
	history, err := store.GetScanHistory(ctx, nil)
	if err != nil || len(history) != 1 {
		t.Fatalf("history = %d entries, err %v", len(history), err)
	}
	var snapshot schema.ProductResponse
	if err := json.Unmarshal(history[0].ProductData, &snapshot); err != nil {
		t.Fatalf("bad history snapshot: %v", err)
	}
	if snapshot.Title != "The Practice of Programming" {
		t.Errorf("snapshot title = %q", snapshot.Title)
	}
}

func TestLookupServesCacheWithoutUpstream(t *testing.T) {
	store := storage.NewMemory()
	client := &fakeClient{item: twoOfferItem()}
	svc := NewService(store, client, nil)
	ctx := context.Background()

	if _, err := svc.Lookup(ctx, "9780201379624", nil); err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	resp, err := svc.Lookup(ctx, "9780201379624", nil)
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if client.calls != 1 {
		t.Errorf("upstream called %d times, want 1 (cache miss only)", client.calls)
	}
	if resp.Title != "The Practice of Programming" {
		t.Errorf("cached title = %q", resp.Title)
	}
}

func TestLookupNotFound(t *testing.T) {
	svc := NewService(storage.NewMemory(), &fakeClient{err: apperrors.ErrProductNotFound}, nil)

	_, err := svc.Lookup(context.Background(), "000", nil)
	var userErr *apperrors.UserError
	if !errors.As(err, &userErr) || userErr.Status != 404 {
		t.Fatalf("want 404 user error, got %v", err)
	}
}

func TestLookupUpstreamFailurePassthrough(t *testing.T) {
	upstream := apperrors.New(429, "lookup.upstream_failure", "quota exceeded")
	store := storage.NewMemory()
	svc := NewService(store, &fakeClient{err: upstream}, nil)
	ctx := context.Background()

	_, err := svc.Lookup(ctx, "123", nil)
	var userErr *apperrors.UserError
	if !errors.As(err, &userErr) || userErr.Status != 429 {
		t.Fatalf("want upstream status passthrough, got %v", err)
	}

	// A failed lookup must leave no trace.
	history, _ := store.GetScanHistory(ctx, nil)
	if len(history) != 0 {
		t.Errorf("failed lookup wrote %d history entries", len(history))
	}
}

func TestLookupInvalidUpstreamData(t *testing.T) {
	// No title: normalization output fails schema validation.
	client := &fakeClient{item: &Item{Offers: []Offer{{Merchant: "X", Price: "1.00"}}}}
	svc := NewService(storage.NewMemory(), client, nil)

	_, err := svc.Lookup(context.Background(), "123", nil)
	var userErr *apperrors.UserError
	if !errors.As(err, &userErr) || userErr.Status != 422 {
		t.Fatalf("want 422 validation error, got %v", err)
	}
}

func TestLookupTagsHistoryWithUser(t *testing.T) {
	store := storage.NewMemory()
	svc := NewService(store, &fakeClient{item: twoOfferItem()}, nil)
	ctx := context.Background()
	user := "user-1"

	if _, err := svc.Lookup(ctx, "9780201379624", &user); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}

	history, err := store.GetScanHistory(ctx, &user)
	if err != nil {
		t.Fatalf("history read failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("user history = %d entries, want 1", len(history))
	}
	if history[0].UserID == nil || *history[0].UserID != user {
		t.Errorf("history entry not tagged with user")
	}
}
