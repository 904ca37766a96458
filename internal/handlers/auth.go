package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/tuiter-stars/backend/internal/middleware"
	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/anonto42/tuiter-stars/backend/internal/repositories"
	"github.com/anonto42/tuiter-stars/backend/internal/session"
	"github.com/anonto42/tuiter-stars/backend/pkg/firebase"
	applog "github.com/anonto42/tuiter-stars/backend/pkg/log"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles authentication-related HTTP requests. It is the only
// producer of session profiles.
type AuthHandler struct {
	userRepository repositories.UserRepository
	sessions       *session.CookieSessions
	tokens         *session.Tokens
	firebaseAuth   firebase.TokenVerifier
}

// NewAuthHandler creates a new AuthHandler. firebaseAuth may be nil.
func NewAuthHandler(userRepo repositories.UserRepository, sessions *session.CookieSessions, tokens *session.Tokens, firebaseAuth firebase.TokenVerifier) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		sessions:       sessions,
		tokens:         tokens,
		firebaseAuth:   firebaseAuth,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.POST("/profile", h.Profile)
	if h.firebaseAuth != nil {
		g.POST("/firebase-login", h.FirebaseLogin)
	}
}

// Signup registers a local account and logs it in
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:  req.Username,
		Password:  string(hashedPassword),
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return echo.NewHTTPError(http.StatusConflict, "User with this username already registered")
		}
		return storeError(c, err, "create user")
	}

	if err := h.startSession(c, user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Login checks username and password, establishes the session and returns a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
		}
		return storeError(c, err, "look up user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid username or password")
	}

	return h.respondWithToken(c, user)
}

// Logout clears the session
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Clear(c.Response(), c.Request()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear session")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

// Profile returns the logged in user
func (h *AuthHandler) Profile(c echo.Context) error {
	profile := middleware.CurrentProfile(c)
	if profile == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No active session")
	}

	user, err := h.userRepository.GetUserByID(c.Request().Context(), profile.ID)
	if err != nil {
		return storeError(c, err, "load profile")
	}
	return c.JSON(http.StatusOK, user)
}

// FirebaseLogin verifies a Firebase ID token, links or creates the local
// account and establishes the session.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	var req models.FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebaseAuth.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}

	user, err := h.userRepository.GetUserByFirebaseUID(ctx, token.UID)
	if errors.Is(err, repositories.ErrNotFound) {
		email, _ := token.Claims["email"].(string)
		name, _ := token.Claims["name"].(string)
		username := email
		if username == "" {
			username = "firebase-" + token.UID
		}

		user = &models.User{
			Username:    username,
			Email:       email,
			FirstName:   name,
			FirebaseUID: token.UID,
		}
		if err := h.userRepository.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return echo.NewHTTPError(http.StatusConflict, "Username already taken by a local account")
			}
			return storeError(c, err, "create user")
		}
		l := applog.Ctx(ctx)
		l.Info().Str(applog.FieldUserID, user.ID.Hex()).Msg("created user from firebase login")
	} else if err != nil {
		return storeError(c, err, "look up user")
	}

	return h.respondWithToken(c, user)
}

func (h *AuthHandler) respondWithToken(c echo.Context, user *models.User) error {
	if err := h.startSession(c, user); err != nil {
		return err
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	profile := models.Profile{ID: user.ID.Hex(), Username: user.Username}
	if err := h.sessions.Save(c.Response(), c.Request(), profile); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save session")
	}
	return nil
}
