package web

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pricescan/pricescan/pkg/auth"
	"github.com/pricescan/pricescan/pkg/config"
	"github.com/pricescan/pricescan/pkg/lookup"
	"github.com/pricescan/pricescan/pkg/payment"
	"github.com/pricescan/pricescan/pkg/storage"
)

// Server bundles the services the handlers dispatch to.
type Server struct {
	Config    *config.AppConfig
	Store     storage.Storage
	Lookup    *lookup.Service
	Auth      *auth.Service
	Sessions  *auth.SessionStore
	Google    *auth.GoogleOAuth        // nil when not configured
	Donations *payment.DonationService // nil when not configured
}

// NewRouter builds the gin engine with all API routes mounted.
func NewRouter(s *Server) *gin.Engine {
	if s.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(s.identify())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/lookup/:barcode", s.handleLookup)

		api.GET("/history", s.handleGetHistory)
		api.POST("/history/clear", s.handleClearHistory)
		api.GET("/history/export", s.handleExportHistory)

		api.GET("/saved", s.handleGetSaved)
		api.POST("/saved", s.handleSaveFavorite)
		api.DELETE("/saved/:barcode", s.handleRemoveFavorite)
		api.POST("/saved/clear", s.handleClearSaved)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", s.handleRegister)
			authGroup.POST("/login", s.handleLogin)
			authGroup.POST("/logout", s.handleLogout)
			authGroup.GET("/user", s.requireAuth(), s.handleCurrentUser)
			authGroup.GET("/google", s.handleGoogleLogin)
			authGroup.GET("/google/callback", s.handleGoogleCallback)
		}

		api.GET("/profile", s.requireAuth(), s.handleGetProfile)
		api.PATCH("/profile", s.requireAuth(), s.handleUpdateProfile)

		paypalGroup := api.Group("/paypal")
		{
			paypalGroup.GET("/setup", s.handlePayPalSetup)
			paypalGroup.POST("/order", s.handlePayPalOrder)
			paypalGroup.POST("/order/:orderID/capture", s.handlePayPalCapture)
		}
	}

	return r
}
