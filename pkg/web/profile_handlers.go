package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricescan/pricescan/pkg/storage"
)

type profileUpdateRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (s *Server) handleGetProfile(c *gin.Context) {
	user, err := s.Store.GetUser(c.Request.Context(), *currentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}

// handleUpdateProfile applies a partial update; absent fields stay as they
// are.
func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid profile payload"})
		return
	}

	user, err := s.Store.UpdateUser(c.Request.Context(), *currentUserID(c), storage.UserUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userView(user))
}
