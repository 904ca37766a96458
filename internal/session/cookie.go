package session

import (
	"net/http"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/gorilla/sessions"
)

const (
	valueProfileID = "profile_id"
	valueUsername  = "profile_username"
)

// CookieSessions keeps the logged in profile in a signed cookie session
type CookieSessions struct {
	store sessions.Store
	name  string
}

// NewCookieSessions creates cookie sessions signed with secret
func NewCookieSessions(secret []byte, name string, secure bool) *CookieSessions {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessions{store: store, name: name}
}

// Profile returns the profile stored in the request's session, or nil
func (s *CookieSessions) Profile(r *http.Request) *models.Profile {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return nil
	}
	id, ok := sess.Values[valueProfileID].(string)
	if !ok || id == "" {
		return nil
	}
	username, _ := sess.Values[valueUsername].(string)
	return &models.Profile{ID: id, Username: username}
}

// Save stores profile in the session cookie
func (s *CookieSessions) Save(w http.ResponseWriter, r *http.Request, profile models.Profile) error {
	// a stale or foreign cookie fails to decode; start a fresh session instead
	sess, _ := s.store.Get(r, s.name)
	sess.Values[valueProfileID] = profile.ID
	sess.Values[valueUsername] = profile.Username
	return sess.Save(r, w)
}

// Clear expires the session cookie
func (s *CookieSessions) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values = map[interface{}]interface{}{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
