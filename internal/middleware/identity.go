package middleware

import (
	"context"
	"strings"

	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/anonto42/tuiter-stars/backend/internal/session"
	"github.com/anonto42/tuiter-stars/backend/pkg/firebase"
	applog "github.com/anonto42/tuiter-stars/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

// ProfileKey is the echo context key holding the *models.Profile of the caller
const ProfileKey = "profile"

// FirebaseUserLookup finds the local account linked to a Firebase UID
type FirebaseUserLookup interface {
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
}

// IdentityConfig lists the sources a session profile can come from.
// Sessions is required; Tokens and Firebase are optional.
type IdentityConfig struct {
	Sessions *session.CookieSessions
	Tokens   *session.Tokens
	Firebase firebase.TokenVerifier
	Users    FirebaseUserLookup
}

// Identity attaches the caller's profile to the context when one can be
// established from the cookie session, a local bearer token, or a Firebase
// ID token, tried in that order. Missing or bad credentials never reject the
// request; the profile is simply left unset.
func Identity(cfg IdentityConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profile := cfg.Sessions.Profile(c.Request())
			if profile == nil {
				profile = cfg.profileFromBearer(c)
			}

			if profile != nil {
				c.Set(ProfileKey, profile)
				c.Set(applog.FieldUserID, profile.ID)
			}
			return next(c)
		}
	}
}

func (cfg IdentityConfig) profileFromBearer(c echo.Context) *models.Profile {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil
	}

	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil
	}
	tokenString := parts[1]

	if cfg.Tokens != nil {
		if profile, err := cfg.Tokens.Parse(tokenString); err == nil {
			return profile
		}
	}

	if cfg.Firebase == nil || cfg.Users == nil {
		return nil
	}
	ctx := c.Request().Context()
	token, err := cfg.Firebase.VerifyIDToken(ctx, tokenString)
	if err != nil {
		l := applog.Ctx(ctx)
		l.Debug().Err(err).Msg("firebase token rejected")
		return nil
	}
	user, err := cfg.Users.GetUserByFirebaseUID(ctx, token.UID)
	if err != nil {
		return nil
	}
	return &models.Profile{ID: user.ID.Hex(), Username: user.Username}
}

// CurrentProfile returns the caller's profile, or nil when there is no session
func CurrentProfile(c echo.Context) *models.Profile {
	profile, _ := c.Get(ProfileKey).(*models.Profile)
	return profile
}
