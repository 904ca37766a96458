// Package session resolves which user a request acts for.
package session

import "github.com/anonto42/tuiter-stars/backend/internal/models"

// Me is the path token that stands for the logged in user
const Me = "me"

// Resolution is the outcome of resolving a path user identifier: either a
// concrete user id, or unauthenticated when "me" was used without a session.
type Resolution struct {
	userID        string
	authenticated bool
}

// Resolved returns a resolution for a concrete user id
func Resolved(userID string) Resolution {
	return Resolution{userID: userID, authenticated: true}
}

// Unauthenticated returns the resolution for "me" without a session profile
func Unauthenticated() Resolution {
	return Resolution{}
}

// UserID returns the resolved id and whether one was resolved
func (r Resolution) UserID() (string, bool) {
	return r.userID, r.authenticated
}

// Resolve maps a raw path identifier to a user id. Only the literal "me" is
// substituted; it requires a profile carrying an id.
func Resolve(raw string, profile *models.Profile) Resolution {
	if raw != Me {
		return Resolved(raw)
	}
	if profile == nil || profile.ID == "" {
		return Unauthenticated()
	}
	return Resolved(profile.ID)
}
