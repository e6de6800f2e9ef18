package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/metrics"
)

// Client resolves a barcode to the first matching upstream item.
// A nil item with a nil error never happens; zero matches surface as
// ErrProductNotFound.
type Client interface {
	Lookup(ctx context.Context, barcode string) (*Item, error)
}

// Item is the tolerant shape of one UPCItemDB match. Scalars that the API
// emits inconsistently (numbers vs strings) are kept as interface{} and
// coerced during normalization.
type Item struct {
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Model       string   `json:"model"`
	Images      []string `json:"images"`

	LowestRecordedPrice  interface{} `json:"lowest_recorded_price"`
	HighestRecordedPrice interface{} `json:"highest_recorded_price"`

	Offers []Offer `json:"offers"`
}

// Offer is one merchant listing inside an upstream item.
type Offer struct {
	Merchant     string      `json:"merchant"`
	Domain       string      `json:"domain"`
	Currency     string      `json:"currency"`
	Price        interface{} `json:"price"`
	ListPrice    interface{} `json:"list_price"`
	Availability string      `json:"availability"`
	Link         string      `json:"link"`
	UpdatedT     interface{} `json:"updated_t"`
}

type lookupResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Items   []Item `json:"items"`
}

// HTTPClient calls the UPCItemDB trial lookup endpoint. Calls are throttled
// client-side; the trial tier enforces a small daily quota and answers 429
// to bursts.
type HTTPClient struct {
	baseURL string
	apiKey  string
	limiter *rate.Limiter
	timeout time.Duration
}

// NewHTTPClient creates a client against baseURL, allowing rps requests per
// second upstream.
func NewHTTPClient(baseURL, apiKey string, rps float64) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		timeout: 10 * time.Second,
	}
}

func (c *HTTPClient) Lookup(ctx context.Context, barcode string) (*Item, error) {
	if c.apiKey == "" {
		return nil, apperrors.ErrAPIKeyMissing
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	args := url.Values{}
	args.Set("upc", barcode)
	args.Set("key", c.apiKey)
	args.Set("formatted", "y")

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + "?" + args.Encode())
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	metrics.RecordUpstreamCall()
	if err := fasthttp.DoTimeout(req, resp, c.timeout); err != nil {
		logger.Error().Err(err).Str("barcode", barcode).Msg("barcode lookup request failed")
		return nil, apperrors.ErrUpstreamFailure
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, upstreamError(resp.StatusCode(), resp.Body())
	}

	var parsed lookupResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		logger.Error().Err(err).Str("barcode", barcode).Msg("barcode lookup returned malformed JSON")
		return nil, apperrors.ErrUpstreamFailure
	}
	if len(parsed.Items) == 0 {
		return nil, apperrors.ErrProductNotFound
	}
	return &parsed.Items[0], nil
}

// upstreamError maps a non-2xx upstream answer to a client-visible error,
// passing the upstream status through.
func upstreamError(status int, body []byte) error {
	var parsed struct {
		Message string `json:"message"`
	}
	message := fmt.Sprintf("barcode lookup failed with status %d", status)
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}
	return apperrors.New(status, "lookup.upstream_failure", message)
}

var _ Client = (*HTTPClient)(nil)
