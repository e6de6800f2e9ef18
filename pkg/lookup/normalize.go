package lookup

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/pricescan/pricescan/pkg/schema"
)

// Normalize reshapes one upstream item into the wire response: one offer per
// merchant with ordinal ids, currency defaulted to USD, availability text
// collapsed to a binary flag, epoch update times converted to RFC3339, and
// the best-price flag set.
func Normalize(barcode string, item *Item, now time.Time) *schema.ProductResponse {
	resp := &schema.ProductResponse{
		Barcode:         barcode,
		Title:           item.Title,
		Brand:           item.Brand,
		Category:        item.Category,
		Description:     item.Description,
		Model:           item.Model,
		Images:          item.Images,
		LowestRecorded:  priceText(item.LowestRecordedPrice),
		HighestRecorded: priceText(item.HighestRecordedPrice),
		Stores:          make([]schema.StoreOffer, 0, len(item.Offers)),
	}

	for _, offer := range item.Offers {
		price := priceText(offer.Price)
		if price == "" {
			continue
		}
		currency := offer.Currency
		if currency == "" {
			currency = "USD"
		}
		resp.Stores = append(resp.Stores, schema.StoreOffer{
			ID:        len(resp.Stores) + 1,
			Name:      offer.Merchant,
			Link:      offer.Link,
			Price:     price,
			Currency:  currency,
			InStock:   stockFlag(offer.Availability),
			UpdatedAt: updatedAt(offer.UpdatedT, now),
		})
	}

	resp.MarkBestPrice()
	return resp
}

// priceText coerces an upstream price scalar (number or numeric string) to
// two-decimal text. Unparseable or missing values collapse to "".
func priceText(v interface{}) string {
	if v == nil {
		return ""
	}
	s := strings.TrimSpace(cast.ToString(v))
	if s == "" {
		return ""
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ""
	}
	if d.IsZero() {
		return ""
	}
	return d.StringFixed(2)
}

// stockFlag collapses upstream availability text to 1 (in stock) or 0.
// Unknown or empty text counts as in stock, matching upstream's habit of
// omitting the field for available listings.
func stockFlag(availability string) int {
	s := strings.ToLower(availability)
	if strings.Contains(s, "out of stock") || strings.Contains(s, "unavailable") || strings.Contains(s, "discontinued") {
		return 0
	}
	return 1
}

// updatedAt converts an upstream Unix timestamp to RFC3339, falling back to
// the lookup time when absent or malformed.
func updatedAt(v interface{}, now time.Time) string {
	epoch := cast.ToInt64(v)
	if epoch <= 0 {
		return now.UTC().Format(time.RFC3339)
	}
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}
