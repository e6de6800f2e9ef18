package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/metrics"
	"github.com/pricescan/pricescan/pkg/storage"
)

const ctxUserID = "userID"

// requestLogger emits one structured line per request and feeds the
// Prometheus counters.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RecordRequest(c.Request.Method, endpoint, c.Writer.Status(), duration)
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("request")
	}
}

// identify resolves the acting user from the session cookie or a bearer
// token and stashes the id in the gin context. Requests without either stay
// anonymous; nothing is rejected here.
func (s *Server) identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := s.Sessions.UserID(c.Request); ok {
			c.Set(ctxUserID, id)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			claims, err := s.Auth.Tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err == nil && claims.Subject != "" {
				c.Set(ctxUserID, claims.Subject)
			}
		}
		c.Next()
	}
}

// requireAuth gates protected routes behind an authenticated identity.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxUserID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// currentUserID returns the acting user's id, nil for anonymous requests.
func currentUserID(c *gin.Context) *string {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return nil
	}
	id, ok := v.(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}

// fail translates pipeline errors into the JSON error contract. Every
// handler funnels failures through here; nothing bubbles past the route
// layer.
func fail(c *gin.Context, err error) {
	var userErr *apperrors.UserError
	if errors.As(err, &userErr) {
		c.JSON(userErr.Status, gin.H{"message": userErr.Message})
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid data format", "details": validationErrs.Error()})
		return
	}

	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
		return
	}
	if errors.Is(err, storage.ErrDuplicate) {
		c.JSON(http.StatusConflict, gin.H{"message": "Already exists"})
		return
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
