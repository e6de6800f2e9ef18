package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleLookup resolves GET /api/lookup/:barcode through the pipeline.
func (s *Server) handleLookup(c *gin.Context) {
	barcode := c.Param("barcode")
	if barcode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Barcode is required"})
		return
	}

	product, err := s.Lookup.Lookup(c.Request.Context(), barcode, currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
