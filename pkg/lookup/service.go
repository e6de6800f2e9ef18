package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/schema"
	"github.com/pricescan/pricescan/pkg/storage"
)

// Service runs the lookup pipeline: cache check, upstream call,
// normalization, validation, persistence, history append.
type Service struct {
	store  storage.Storage
	client Client
	cache  Cache // nil when Redis is not configured
}

// NewService wires the pipeline. cache may be nil.
func NewService(store storage.Storage, client Client, cache Cache) *Service {
	return &Service{store: store, client: client, cache: cache}
}

// Lookup resolves a barcode to a validated ProductResponse. Cached products
// are returned without touching the upstream API; the cache never expires.
// A non-nil userID tags the history entry with the acting user.
func (s *Service) Lookup(ctx context.Context, barcode string, userID *string) (*schema.ProductResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, barcode); ok {
			return cached, nil
		}
	}

	cached, err := s.store.GetProductByBarcode(ctx, barcode)
	switch {
	case err == nil:
		if s.cache != nil {
			s.cache.Set(ctx, cached)
		}
		return cached, nil
	case errors.Is(err, storage.ErrNotFound):
		// first sighting, ask upstream
	default:
		return nil, err
	}

	item, err := s.client.Lookup(ctx, barcode)
	if err != nil {
		return nil, err
	}

	product := Normalize(barcode, item, time.Now())
	if err := product.Validate(); err != nil {
		logger.Error().Err(err).Str("barcode", barcode).Msg("normalized product failed validation")
		return nil, apperrors.ErrInvalidProduct.WithMessage("Invalid data format from API: " + err.Error())
	}

	if err := s.store.SaveProduct(ctx, product); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, product)
	}

	snapshot, err := json.Marshal(product)
	if err != nil {
		return nil, err
	}
	entry := &models.ScanHistory{
		Barcode:     barcode,
		ProductData: snapshot,
		UserID:      userID,
		ScannedAt:   time.Now(),
	}
	if err := s.store.SaveScanHistory(ctx, entry); err != nil {
		return nil, err
	}

	logger.Info().Str("barcode", barcode).Int("stores", len(product.Stores)).Msg("barcode resolved")
	return product, nil
}
