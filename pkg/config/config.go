package config

// AppConfig holds every tunable of the service, sourced from environment
// variables (a local .env is loaded in development).
type AppConfig struct {
	Server struct {
		Addr          string `envconfig:"SERVER_ADDR" default:":5000"`
		Environment   string `envconfig:"APP_ENV" default:"development"`
		SessionSecret string `envconfig:"SESSION_SECRET" default:"local-dev-secret"`
		PublicURL     string `envconfig:"PUBLIC_URL" default:"http://localhost:5000"`
	}

	// Empty DatabaseURL selects the in-memory storage backend.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// Empty RedisURL disables the shared lookup cache.
	RedisURL string `envconfig:"REDIS_URL"`

	Barcode struct {
		APIKey  string  `envconfig:"BARCODE_LOOKUP_API_KEY"`
		BaseURL string  `envconfig:"BARCODE_LOOKUP_URL" default:"https://api.upcitemdb.com/prod/trial/lookup"`
		RPS     float64 `envconfig:"BARCODE_LOOKUP_RPS" default:"1"`
	}

	JWT struct {
		Secret     string `envconfig:"JWT_SECRET" default:"local-dev-secret"`
		ExpiryDays int    `envconfig:"JWT_EXPIRY_DAYS" default:"7"`
	}

	Google struct {
		ClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
		ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	}

	PayPal struct {
		ClientID     string `envconfig:"PAYPAL_CLIENT_ID"`
		ClientSecret string `envconfig:"PAYPAL_CLIENT_SECRET"`
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *AppConfig) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GoogleRedirectURL is the callback the OAuth client is registered with.
func (c *AppConfig) GoogleRedirectURL() string {
	return c.Server.PublicURL + "/api/auth/google/callback"
}
