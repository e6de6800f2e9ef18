package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/pricescan/pricescan/pkg/auth"
	"github.com/pricescan/pricescan/pkg/config"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/lookup"
	"github.com/pricescan/pricescan/pkg/payment"
	"github.com/pricescan/pricescan/pkg/storage"
	"github.com/pricescan/pricescan/pkg/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		// Fine in deployed environments; config comes from real env vars.
		logger.Debug().Err(err).Msg("no .env file loaded")
	}

	var cfg config.AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(&cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open storage")
	}

	var cache lookup.Cache
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("redis unreachable")
		}
		defer client.Close()
		cache = lookup.NewRedisCache(client)
		logger.Info().Msg("redis product cache enabled")
	}

	lookupClient := lookup.NewHTTPClient(cfg.Barcode.BaseURL, cfg.Barcode.APIKey, cfg.Barcode.RPS)
	lookupService := lookup.NewService(store, lookupClient, cache)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryDays)*24*time.Hour)
	authService := auth.NewService(store, tokens)
	sessions := auth.NewSessionStore(cfg.Server.SessionSecret, cfg.IsProduction())
	google := auth.NewGoogleOAuth(cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.GoogleRedirectURL())

	donations, err := payment.NewDonationService(ctx, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.IsProduction(), store)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize paypal")
	}

	router := web.NewRouter(&web.Server{
		Config:    &cfg,
		Store:     store,
		Lookup:    lookupService,
		Auth:      authService,
		Sessions:  sessions,
		Google:    google,
		Donations: donations,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Server.Addr).Str("env", cfg.Server.Environment).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

// openStorage picks the backend: Postgres when DATABASE_URL is configured,
// the in-memory repository otherwise.
func openStorage(cfg *config.AppConfig) (storage.Storage, error) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory storage")
		return storage.NewMemory(), nil
	}
	db, err := storage.OpenDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("connected to postgres")
	return db, nil
}
