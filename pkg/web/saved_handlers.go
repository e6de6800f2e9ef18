package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/schema"
)

func (s *Server) handleGetSaved(c *gin.Context) {
	saved, err := s.Store.GetSavedProducts(c.Request.Context(), currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// handleSaveFavorite upserts a favorite from the posted product snapshot.
func (s *Server) handleSaveFavorite(c *gin.Context) {
	var product schema.ProductResponse
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product payload"})
		return
	}
	if err := product.Validate(); err != nil {
		fail(c, apperrors.ErrInvalidProduct.WithMessage("Invalid product snapshot: "+err.Error()))
		return
	}

	if err := s.Store.SaveProductToFavorites(c.Request.Context(), &product, currentUserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product saved"})
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Barcode is required"})
		return
	}
	if err := s.Store.RemoveSavedProduct(c.Request.Context(), barcode, currentUserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
}

func (s *Server) handleClearSaved(c *gin.Context) {
	if err := s.Store.ClearSavedProducts(c.Request.Context(), currentUserID(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Saved products cleared"})
}
