package lookup

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNormalizeOffers(t *testing.T) {
	item := &Item{
		Title:    "The Practice of Programming",
		Brand:    "Addison-Wesley",
		Category: "Books",
		Offers: []Offer{
			{Merchant: "Walmart", Price: 12.00, Availability: "In Stock", UpdatedT: int64(1700000000), Link: "https://example.com/w"},
			{Merchant: "Costco", Price: "9.50"},
		},
	}

	resp := Normalize("9780201379624", item, fixedNow)

	if resp.Barcode != "9780201379624" {
		t.Errorf("barcode = %q", resp.Barcode)
	}
	if len(resp.Stores) != 2 {
		t.Fatalf("got %d stores, want 2", len(resp.Stores))
	}

	first, second := resp.Stores[0], resp.Stores[1]
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ordinal ids = %d, %d", first.ID, second.ID)
	}
	if first.Price != "12.00" || second.Price != "9.50" {
		t.Errorf("prices = %q, %q", first.Price, second.Price)
	}
	if second.Currency != "USD" {
		t.Errorf("missing currency should default to USD, got %q", second.Currency)
	}
	if first.UpdatedAt != "2023-11-14T22:13:20Z" {
		t.Errorf("epoch conversion produced %q", first.UpdatedAt)
	}
	if second.UpdatedAt != fixedNow.Format(time.RFC3339) {
		t.Errorf("missing timestamp should fall back to now, got %q", second.UpdatedAt)
	}

	if first.IsBestPrice {
		t.Error("12.00 offer flagged as best price")
	}
	if !second.IsBestPrice {
		t.Error("9.50 offer not flagged as best price")
	}
}

func TestNormalizeSkipsUnpricedOffers(t *testing.T) {
	item := &Item{
		Title: "Thing",
		Offers: []Offer{
			{Merchant: "NoPrice"},
			{Merchant: "Zero", Price: 0},
			{Merchant: "Priced", Price: "3.99"},
		},
	}

	resp := Normalize("123", item, fixedNow)
	if len(resp.Stores) != 1 {
		t.Fatalf("got %d stores, want 1", len(resp.Stores))
	}
	if resp.Stores[0].Name != "Priced" || resp.Stores[0].ID != 1 {
		t.Errorf("surviving offer = %+v", resp.Stores[0])
	}
	if !resp.Stores[0].IsBestPrice {
		t.Error("sole offer should be best price")
	}
}

func TestNormalizeEmptyOffers(t *testing.T) {
	resp := Normalize("123", &Item{Title: "Thing"}, fixedNow)
	if len(resp.Stores) != 0 {
		t.Fatalf("got %d stores, want 0", len(resp.Stores))
	}
	if err := resp.Validate(); err != nil {
		t.Errorf("empty-offer response should validate: %v", err)
	}
}

func TestStockFlag(t *testing.T) {
	tests := []struct {
		availability string
		want         int
	}{
		{"In Stock", 1},
		{"", 1},
		{"Out of Stock", 0},
		{"Currently Unavailable", 0},
		{"Discontinued", 0},
	}
	for _, tt := range tests {
		if got := stockFlag(tt.availability); got != tt.want {
			t.Errorf("stockFlag(%q) = %d, want %d", tt.availability, got, tt.want)
		}
	}
}

func TestPriceText(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{12.5, "12.50"},
		{"9.50", "9.50"},
		{"  4.2 ", "4.20"},
		{nil, ""},
		{"free", ""},
		{0, ""},
	}
	for _, tt := range tests {
		if got := priceText(tt.in); got != tt.want {
			t.Errorf("priceText(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeRecordedBounds(t *testing.T) {
	item := &Item{
		Title:                "Thing",
		LowestRecordedPrice:  3.5,
		HighestRecordedPrice: "20",
	}
	resp := Normalize("123", item, fixedNow)
	if resp.LowestRecorded != "3.50" {
		t.Errorf("lowest = %q", resp.LowestRecorded)
	}
	if resp.HighestRecorded != "20.00" {
		t.Errorf("highest = %q", resp.HighestRecorded)
	}
}
