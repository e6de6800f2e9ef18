package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pricescan/pricescan/pkg/auth"
	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/models"
)

type credentialsRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// userView strips credentials before a user goes over the wire.
func userView(user *models.User) gin.H {
	view := gin.H{
		"id":              user.ID,
		"firstName":       user.FirstName,
		"lastName":        user.LastName,
		"profileImageUrl": user.ProfileImageURL,
	}
	if user.Email != nil {
		view["email"] = *user.Email
	}
	return view
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrMissingFields)
		return
	}

	user, err := s.Auth.Register(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.Auth.Tokens.Generate(user)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Sessions.Establish(c.Writer, c.Request, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": userView(user), "token": token})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.ErrMissingFields)
		return
	}

	user, err := s.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.Auth.Tokens.Generate(user)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Sessions.Establish(c.Writer, c.Request, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user), "token": token})
}

func (s *Server) handleLogout(c *gin.Context) {
	if err := s.Sessions.Destroy(c.Writer, c.Request); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCurrentUser(c *gin.Context) {
	userID := currentUserID(c)
	user, err := s.Store.GetUser(c.Request.Context(), *userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userView(user)})
}

// handleGoogleLogin starts the OAuth round trip with a state nonce bound to
// the session.
func (s *Server) handleGoogleLogin(c *gin.Context) {
	if s.Google == nil {
		fail(c, apperrors.ErrOAuthNotConfigured)
		return
	}
	state, err := auth.NewState()
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Sessions.SetOAuthState(c.Writer, c.Request, state); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, s.Google.AuthURL(state))
}

// handleGoogleCallback finishes the flow: verify state, exchange the code,
// create the account on first sign-in, establish a session and hand the SPA
// a token via redirect.
func (s *Server) handleGoogleCallback(c *gin.Context) {
	if s.Google == nil {
		fail(c, apperrors.ErrOAuthNotConfigured)
		return
	}

	stored, ok := s.Sessions.TakeOAuthState(c.Writer, c.Request)
	if !ok || stored != c.Query("state") {
		fail(c, apperrors.ErrOAuthStateMismatch)
		return
	}

	profile, err := s.Google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		logger.Error().Err(err).Msg("google oauth exchange failed")
		c.Redirect(http.StatusTemporaryRedirect, "/login")
		return
	}

	user, err := s.Auth.LoginWithGoogle(c.Request.Context(), profile)
	if err != nil {
		fail(c, err)
		return
	}

	token, err := s.Auth.Tokens.Generate(user)
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.Sessions.Establish(c.Writer, c.Request, user.ID); err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, "/login/success?token="+token)
}
