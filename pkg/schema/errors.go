package schema

import "fmt"

// BestPriceError reports a violated best-price invariant: a non-empty offer
// list must flag exactly one offer.
type BestPriceError struct {
	Flagged int
}

func (e *BestPriceError) Error() string {
	return fmt.Sprintf("schema: %d offers flagged as best price, want exactly 1", e.Flagged)
}
