package schema

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// StoreOffer is one store's offer inside a ProductResponse. Price stays
// decimal-as-text end to end; it is only parsed for comparison.
type StoreOffer struct {
	ID          int    `json:"id" validate:"min=1"`
	Name        string `json:"name" validate:"required"`
	Logo        string `json:"logo,omitempty"`
	Link        string `json:"link,omitempty"`
	Price       string `json:"price" validate:"required"`
	Currency    string `json:"currency" validate:"required"`
	InStock     int    `json:"inStock"`
	IsBestPrice bool   `json:"isBestPrice"`
	UpdatedAt   string `json:"updatedAt" validate:"required"`
}

// ProductResponse is the composite wire type the API returns and the shape
// stored in history/favorite snapshots.
type ProductResponse struct {
	Barcode         string       `json:"barcode" validate:"required"`
	Title           string       `json:"title" validate:"required"`
	Brand           string       `json:"brand,omitempty"`
	Category        string       `json:"category,omitempty"`
	Description     string       `json:"description,omitempty"`
	Model           string       `json:"model,omitempty"`
	Images          []string     `json:"images,omitempty"`
	LowestRecorded  string       `json:"lowestRecordedPrice,omitempty"`
	HighestRecorded string       `json:"highestRecordedPrice,omitempty"`
	Stores          []StoreOffer `json:"stores" validate:"dive"`
}

// Validate checks the response against the schema. Offer prices must parse as
// decimals; a non-empty offer list must carry exactly one best-price flag.
func (p *ProductResponse) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	best := 0
	for i := range p.Stores {
		if _, err := decimal.NewFromString(p.Stores[i].Price); err != nil {
			return err
		}
		if p.Stores[i].IsBestPrice {
			best++
		}
	}
	if len(p.Stores) > 0 && best != 1 {
		return &BestPriceError{Flagged: best}
	}
	return nil
}

// MarkBestPrice clears all best-price flags and sets exactly one on the offer
// with the minimum numeric price. The first occurrence wins on ties. An empty
// list is left untouched.
func (p *ProductResponse) MarkBestPrice() {
	bestIdx := -1
	var bestPrice decimal.Decimal
	for i := range p.Stores {
		p.Stores[i].IsBestPrice = false
		d, err := decimal.NewFromString(p.Stores[i].Price)
		if err != nil {
			continue
		}
		if bestIdx == -1 || d.LessThan(bestPrice) {
			bestIdx = i
			bestPrice = d
		}
	}
	if bestIdx >= 0 {
		p.Stores[bestIdx].IsBestPrice = true
	}
}
