package payment

import (
	"context"

	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/storage"
)

// DonationService wraps the PayPal order lifecycle for the donation flow and
// keeps a local audit row per order.
type DonationService struct {
	client   *paypal.Client
	clientID string
	store    storage.Storage
}

// NewDonationService connects to PayPal (sandbox unless production) and
// verifies credentials by fetching an access token. Returns nil when PayPal
// is not configured so the routes can answer accordingly.
func NewDonationService(ctx context.Context, clientID, clientSecret string, production bool, store storage.Storage) (*DonationService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, nil
	}
	base := paypal.APIBaseSandBox
	if production {
		base = paypal.APIBaseLive
	}
	client, err := paypal.NewClient(clientID, clientSecret, base)
	if err != nil {
		return nil, err
	}
	if _, err := client.GetAccessToken(ctx); err != nil {
		return nil, err
	}
	logger.Info().Msg("paypal donation channel initialized")
	return &DonationService{client: client, clientID: clientID, store: store}, nil
}

// ClientID is handed to the browser SDK by the setup route.
func (s *DonationService) ClientID() string {
	return s.clientID
}

// CreateOrder opens a CAPTURE-intent order for the given amount and records
// it locally. The amount must be positive decimal text.
func (s *DonationService) CreateOrder(ctx context.Context, amount, currency string, userID *string) (*paypal.Order, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil || !d.IsPositive() {
		return nil, apperrors.ErrDonationBadAmount
	}
	if currency == "" {
		currency = "USD"
	}

	order, err := s.client.CreateOrder(ctx, paypal.OrderIntentCapture, []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: currency,
				Value:    d.StringFixed(2),
			},
		},
	}, nil, nil)
	if err != nil {
		return nil, err
	}

	record := &models.DonationRecord{
		ExternalOrderID: order.ID,
		Amount:          d.StringFixed(2),
		Currency:        currency,
		Status:          "created",
		UserID:          userID,
	}
	if err := s.store.SaveDonation(ctx, record); err != nil {
		// The PayPal order exists either way; losing the audit row is not
		// worth failing the donation.
		logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to record donation")
	}
	return order, nil
}

// CaptureOrder captures an approved order and settles the audit row.
func (s *DonationService) CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureOrderResponse, error) {
	capture, err := s.client.CaptureOrder(ctx, orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		if uerr := s.store.UpdateDonationStatus(ctx, orderID, "failed"); uerr != nil {
			logger.Warn().Err(uerr).Str("order_id", orderID).Msg("failed to mark donation failed")
		}
		return nil, err
	}

	status := "completed"
	if capture.Status != "COMPLETED" {
		status = "failed"
	}
	if err := s.store.UpdateDonationStatus(ctx, orderID, status); err != nil {
		logger.Warn().Err(err).Str("order_id", orderID).Msg("failed to update donation status")
	}
	logger.Info().Str("order_id", orderID).Str("status", capture.Status).Msg("donation capture processed")
	return capture, nil
}
