package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	apperrors "github.com/pricescan/pricescan/pkg/errors"
	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/models"
	"github.com/pricescan/pricescan/pkg/storage"
)

// Service implements registration, password login and just-in-time account
// creation for OAuth sign-ins.
type Service struct {
	store  storage.Storage
	Tokens *TokenManager
}

func NewService(store storage.Storage, tokens *TokenManager) *Service {
	return &Service{store: store, Tokens: tokens}
}

// Register creates a password account with a fresh UUID id. A registered
// email may only exist once.
func (s *Service) Register(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.ErrMissingFields
	}

	_, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, apperrors.ErrEmailTaken
	case errors.Is(err, storage.ErrNotFound):
		// free to register
	default:
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        &email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: &hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login verifies a password credential. Unknown accounts, OAuth-only
// accounts and mismatched passwords all answer the same way so the response
// leaks nothing about which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.ErrMissingFields
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !CheckPassword(password, *user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithGoogle resolves a verified Google profile to a local account,
// creating one on first sign-in. The Google subject doubles as the user id.
func (s *Service) LoginWithGoogle(ctx context.Context, profile *GoogleProfile) (*models.User, error) {
	user, err := s.store.GetUserByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:              profile.ID,
		FirstName:       profile.GivenName,
		LastName:        profile.FamilyName,
		ProfileImageURL: profile.Picture,
		GoogleID:        &profile.ID,
	}
	if profile.Email != "" {
		user.Email = &profile.Email
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logger.Info().Str("user_id", user.ID).Msg("google user created")
	return user, nil
}
