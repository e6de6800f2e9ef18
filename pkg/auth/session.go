package auth

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "pricescan_session"
	sessionUserID = "user_id"
	sessionState  = "oauth_state"

	sessionMaxAge = 7 * 24 * 60 * 60 // one week, matches the token expiry
)

// SessionStore wraps the cookie store with the handful of operations the
// service needs.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore builds an HTTP-only cookie store. secure should be true in
// production so the cookie is never sent over plain HTTP.
func NewSessionStore(secret string, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Establish starts an authenticated session for the user id.
func (s *SessionStore) Establish(w http.ResponseWriter, r *http.Request, userID string) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values[sessionUserID] = userID
	return session.Save(r, w)
}

// UserID returns the user id bound to the request's session, if any.
func (s *SessionStore) UserID(r *http.Request) (string, bool) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	id, ok := session.Values[sessionUserID].(string)
	return id, ok && id != ""
}

// Destroy ends the session.
func (s *SessionStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	delete(session.Values, sessionUserID)
	return session.Save(r, w)
}

// SetOAuthState stashes the state nonce for the OAuth round trip.
func (s *SessionStore) SetOAuthState(w http.ResponseWriter, r *http.Request, state string) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values[sessionState] = state
	return session.Save(r, w)
}

// TakeOAuthState returns and clears the stored state nonce.
func (s *SessionStore) TakeOAuthState(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, err := s.store.Get(r, sessionName)
	if err != nil {
		return "", false
	}
	state, ok := session.Values[sessionState].(string)
	delete(session.Values, sessionState)
	_ = session.Save(r, w)
	return state, ok && state != ""
}
