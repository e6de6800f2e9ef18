package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
)

type donationOrderRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Intent   string `json:"intent"`
}

// handlePayPalSetup hands the browser SDK its client id.
func (s *Server) handlePayPalSetup(c *gin.Context) {
	if s.Donations == nil {
		fail(c, apperrors.ErrDonationNotConfigured)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientId": s.Donations.ClientID()})
}

func (s *Server) handlePayPalOrder(c *gin.Context) {
	if s.Donations == nil {
		fail(c, apperrors.ErrDonationNotConfigured)
		return
	}

	var req donationOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrDonationBadAmount)
		return
	}

	order, err := s.Donations.CreateOrder(c.Request.Context(), req.Amount, req.Currency, currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) handlePayPalCapture(c *gin.Context) {
	if s.Donations == nil {
		fail(c, apperrors.ErrDonationNotConfigured)
		return
	}

	capture, err := s.Donations.CaptureOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, capture)
}
