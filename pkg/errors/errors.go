package errors

import "fmt"

// UserError is an error that is safe to show to API clients. Status is the
// HTTP status the route layer answers with.
type UserError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *UserError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates a UserError with the given status, stable code and message.
func New(status int, code, message string) *UserError {
	return &UserError{Code: code, Message: message, Status: status}
}

// WithMessage returns a copy of e carrying a different message, keeping the
// code and status. Used to attach upstream detail to a known failure class.
func (e *UserError) WithMessage(message string) *UserError {
	return &UserError{Code: e.Code, Message: message, Status: e.Status}
}

// Lookup pipeline errors.
var (
	ErrProductNotFound = New(404, "lookup.product_not_found", "Product not found")
	ErrUpstreamFailure = New(502, "lookup.upstream_failure", "Barcode lookup service unavailable")
	ErrInvalidProduct  = New(422, "lookup.invalid_product", "Invalid data format from API")
	ErrAPIKeyMissing   = New(500, "lookup.api_key_missing", "API key not configured")
)

// Auth errors.
var (
	ErrInvalidCredentials = New(401, "auth.invalid_credentials", "Invalid credentials")
	ErrUnauthorized       = New(401, "auth.unauthorized", "Unauthorized")
	ErrEmailTaken         = New(409, "auth.email_taken", "User already exists")
	ErrMissingFields      = New(400, "auth.missing_fields", "Email and password are required")
	ErrUserNotFound       = New(404, "auth.user_not_found", "User not found")
	ErrOAuthNotConfigured = New(500, "auth.oauth_not_configured", "Google sign-in is not configured")
	ErrOAuthStateMismatch = New(401, "auth.oauth_state_mismatch", "OAuth state mismatch")
)

// Donation errors.
var (
	ErrDonationNotConfigured = New(500, "donation.not_configured", "PayPal is not configured")
	ErrDonationBadAmount     = New(400, "donation.bad_amount", "Invalid donation amount")
)
