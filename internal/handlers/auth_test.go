package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signupBody = `{"username":"alice","password":"correct horse","email":"alice@example.com"}`

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestSignupStartsSession(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := withCookies(httptest.NewRequest(http.MethodGet, "/starred/me", nil), cookies)
	res := httptest.NewRecorder()
	srv.echo.ServeHTTP(res, req)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `[]`, res.Body.String())
}

func TestSignupValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(http.MethodPost, "/api/auth/signup", `{"username":"alice","password":"short","email":"alice@example.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/auth/signup", signupBody, "").Code)
	rec = srv.do(http.MethodPost, "/api/auth/signup", signupBody, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusCreated, srv.do(http.MethodPost, "/api/auth/signup", signupBody, "").Code)

	rec := srv.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong password"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodPost, "/api/auth/login", `{"username":"nobody","password":"whatever1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(http.MethodPost, "/api/auth/login", `{"username":"alice","password":"correct horse"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		User  models.UserCompact `json:"user"`
		Token string             `json:"token"`
	}](t, rec.Body.Bytes())
	assert.Equal(t, "alice", body.User.Username)
	require.NotEmpty(t, body.Token)

	rec = srv.do(http.MethodPost, "/api/auth/profile", "", body.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestProfileWithoutSession(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/api/auth/profile", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	srv := newTestServer(t)
	signup := srv.do(http.MethodPost, "/api/auth/signup", signupBody, "")
	require.Equal(t, http.StatusCreated, signup.Code)

	req := withCookies(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), signup.Result().Cookies())
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.True(t, cleared[0].MaxAge < 0)
}

type fakeFirebase struct{}

func (fakeFirebase) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if idToken != "good-token" {
		return nil, errors.New("token rejected")
	}
	return &auth.Token{UID: "fb-uid-1", Claims: map[string]interface{}{"email": "carol@example.com", "name": "Carol"}}, nil
}

func TestFirebaseLogin(t *testing.T) {
	srv := newTestServer(t)
	fb := NewAuthHandler(srv.store, srv.sessions, srv.tokens, fakeFirebase{})
	fb.RegisterAuthRoutes(srv.echo.Group("/fb"))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/fb/firebase-login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, post(`{"idToken":"bad-token"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{}`).Code)

	first := post(`{"idToken":"good-token"}`)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	second := post(`{"idToken":"good-token"}`)
	require.Equal(t, http.StatusOK, second.Code)

	u1 := decode[struct {
		User models.UserCompact `json:"user"`
	}](t, first.Body.Bytes()).User
	u2 := decode[struct {
		User models.UserCompact `json:"user"`
	}](t, second.Body.Bytes()).User
	assert.Equal(t, u1.ID, u2.ID, "second login reuses the linked account")
	assert.Equal(t, "carol@example.com", u1.Username)
}

func TestFirebaseLoginNotRegisteredWithoutVerifier(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(http.MethodPost, "/api/auth/firebase-login", `{"idToken":"good-token"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
