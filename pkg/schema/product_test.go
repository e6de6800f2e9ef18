package schema

import "testing"

func offer(id int, price string) StoreOffer {
	return StoreOffer{
		ID:        id,
		Name:      "Store",
		Price:     price,
		Currency:  "USD",
		InStock:   1,
		UpdatedAt: "2024-01-01T00:00:00Z",
	}
}

func TestMarkBestPrice(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   int // index expected to carry the flag, -1 for none
	}{
		{"single offer", []string{"4.99"}, 0},
		{"minimum wins", []string{"12.00", "9.50", "15.25"}, 1},
		{"tie goes to first", []string{"7.00", "7.00"}, 0},
		{"empty list", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ProductResponse{Barcode: "123", Title: "Thing"}
			for i, price := range tt.prices {
				p.Stores = append(p.Stores, offer(i+1, price))
			}
			p.MarkBestPrice()

			flagged := -1
			count := 0
			for i := range p.Stores {
				if p.Stores[i].IsBestPrice {
					flagged = i
					count++
				}
			}
			if tt.want == -1 {
				if count != 0 {
					t.Fatalf("expected no best-price flag, got %d", count)
				}
				return
			}
			if count != 1 {
				t.Fatalf("expected exactly one best-price flag, got %d", count)
			}
			if flagged != tt.want {
				t.Errorf("best price at index %d, want %d", flagged, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := ProductResponse{
		Barcode: "9780201379624",
		Title:   "Book",
		Stores:  []StoreOffer{offer(1, "9.50")},
	}
	valid.MarkBestPrice()
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid product rejected: %v", err)
	}

	t.Run("missing title", func(t *testing.T) {
		p := valid
		p.Title = ""
		if err := p.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("missing barcode", func(t *testing.T) {
		p := valid
		p.Barcode = ""
		if err := p.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("unparseable price", func(t *testing.T) {
		p := ProductResponse{
			Barcode: "123",
			Title:   "Thing",
			Stores:  []StoreOffer{offer(1, "cheap")},
		}
		p.Stores[0].IsBestPrice = true
		if err := p.Validate(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("no best price flagged", func(t *testing.T) {
		p := ProductResponse{
			Barcode: "123",
			Title:   "Thing",
			Stores:  []StoreOffer{offer(1, "1.00"), offer(2, "2.00")},
		}
		if err := p.Validate(); err == nil {
			t.Error("expected best-price invariant error")
		}
	})

	t.Run("empty offers still validate", func(t *testing.T) {
		p := ProductResponse{Barcode: "123", Title: "Thing"}
		if err := p.Validate(); err != nil {
			t.Errorf("empty offer list rejected: %v", err)
		}
	})
}
