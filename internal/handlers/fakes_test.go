package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/tuiter-stars/backend/internal/middleware"
	"github.com/anonto42/tuiter-stars/backend/internal/models"
	"github.com/anonto42/tuiter-stars/backend/internal/repositories"
	"github.com/anonto42/tuiter-stars/backend/internal/session"
	"github.com/anonto42/tuiter-stars/backend/pkg/validators"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func parseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, fmt.Errorf("%w: %s %q", repositories.ErrInvalidID, kind, id)
	}
	return oid, nil
}

// fakeStore is an in-memory stand-in for the stars, messages and users
// collections.
type fakeStore struct {
	mu       sync.Mutex
	stars    []models.Star
	messages map[primitive.ObjectID]models.Message
	users    map[primitive.ObjectID]*models.User
	err      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		messages: map[primitive.ObjectID]models.Message{},
		users:    map[primitive.ObjectID]*models.User{},
	}
}

func (f *fakeStore) compact(id primitive.ObjectID) models.UserRef {
	if u, ok := f.users[id]; ok {
		c := u.ToCompact()
		return models.UserRef{ID: id, User: &c}
	}
	return models.UserRef{ID: id}
}

// StarRepository

func (f *fakeStore) FindStarredMessagesByUser(_ context.Context, userID string) ([]models.StarredMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.StarredMessage{}
	for _, s := range f.stars {
		if s.StarredBy != uid {
			continue
		}
		sm := models.StarredMessage{ID: s.ID, StarredBy: s.StarredBy}
		if m, ok := f.messages[s.Message]; ok {
			sm.Message = &models.PopulatedMessage{
				ID:      m.ID,
				Message: m.Message,
				From:    f.compact(m.From),
				To:      models.UserRef{ID: m.To},
				SentOn:  m.SentOn,
			}
		}
		out = append(out, sm)
	}
	return out, nil
}

func (f *fakeStore) CreateStar(_ context.Context, userID, messageID string) (*models.Star, error) {
	if f.err != nil {
		return nil, f.err
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	mid, err := parseID("message", messageID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	star := models.Star{ID: primitive.NewObjectID(), Message: mid, StarredBy: uid}
	f.stars = append(f.stars, star)
	return &star, nil
}

func (f *fakeStore) DeleteStar(_ context.Context, userID, messageID string) (*models.DeleteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	mid, err := parseID("message", messageID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.stars[:0]
	var n int64
	for _, s := range f.stars {
		if s.StarredBy == uid && s.Message == mid {
			n++
			continue
		}
		kept = append(kept, s)
	}
	f.stars = kept
	return &models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// MessageRepository

func (f *fakeStore) CreateMessage(_ context.Context, fromID, toID, text string) (*models.Message, error) {
	from, err := parseID("user", fromID)
	if err != nil {
		return nil, err
	}
	to, err := parseID("user", toID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	m := models.Message{ID: primitive.NewObjectID(), Message: text, From: from, To: to, SentOn: time.Now()}
	f.messages[m.ID] = m
	return &m, nil
}

func (f *fakeStore) GetMessageByID(_ context.Context, id string) (*models.Message, error) {
	mid, err := parseID("message", id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[mid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &m, nil
}

func (f *fakeStore) filterMessages(keep func(models.Message) bool) []models.PopulatedMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.PopulatedMessage{}
	for _, m := range f.messages {
		if keep(m) {
			out = append(out, models.PopulatedMessage{
				ID: m.ID, Message: m.Message, From: f.compact(m.From), To: f.compact(m.To),
				SentOn: m.SentOn, Edited: m.Edited,
			})
		}
	}
	return out
}

func (f *fakeStore) FindMessagesSentByUser(_ context.Context, userID string) ([]models.PopulatedMessage, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	return f.filterMessages(func(m models.Message) bool { return m.From == uid }), nil
}

func (f *fakeStore) FindMessagesReceivedByUser(_ context.Context, userID string) ([]models.PopulatedMessage, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	return f.filterMessages(func(m models.Message) bool { return m.To == uid }), nil
}

func (f *fakeStore) FindMessagesBetweenUsers(_ context.Context, userID, otherID string) ([]models.PopulatedMessage, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	oid, err := parseID("user", otherID)
	if err != nil {
		return nil, err
	}
	return f.filterMessages(func(m models.Message) bool {
		return (m.From == uid && m.To == oid) || (m.From == oid && m.To == uid)
	}), nil
}

func (f *fakeStore) FindLatestMessagesForUser(_ context.Context, userID string) ([]models.PopulatedMessage, error) {
	uid, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}
	return f.filterMessages(func(m models.Message) bool { return m.From == uid || m.To == uid }), nil
}

func (f *fakeStore) UpdateMessage(_ context.Context, id, text string) (*models.Message, error) {
	mid, err := parseID("message", id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[mid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	m.Message = text
	m.Edited = true
	f.messages[mid] = m
	return &m, nil
}

func (f *fakeStore) DeleteMessage(_ context.Context, id string) (*models.DeleteResult, error) {
	mid, err := parseID("message", id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	if _, ok := f.messages[mid]; ok {
		delete(f.messages, mid)
		n = 1
	}
	return &models.DeleteResult{Acknowledged: true, DeletedCount: n}, nil
}

// UserRepository

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.JoinedOn = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	uid, err := parseID("user", id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[uid]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) findUser(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.findUser(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeStore) GetUserByFirebaseUID(_ context.Context, firebaseUID string) (*models.User, error) {
	return f.findUser(func(u *models.User) bool { return u.FirebaseUID == firebaseUID })
}

func (f *fakeStore) addUser(username string) *models.User {
	u := &models.User{Username: username}
	if err := f.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fakeStore) addMessage(from, to primitive.ObjectID, text string) models.Message {
	m, err := f.CreateMessage(context.Background(), from.Hex(), to.Hex(), text)
	if err != nil {
		panic(err)
	}
	return *m
}

// testServer wires handlers over a fakeStore the same way the router does
type testServer struct {
	echo     *echo.Echo
	store    *fakeStore
	sessions *session.CookieSessions
	tokens   *session.Tokens
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := newFakeStore()
	sessions := session.NewCookieSessions([]byte("0123456789abcdef0123456789abcdef"), "test-session", false)
	tokens := session.NewTokens("test-secret", time.Hour)

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Use(middleware.Identity(middleware.IdentityConfig{Sessions: sessions, Tokens: tokens}))

	root := e.Group("")
	NewStarHandler(store).RegisterStarRoutes(root)
	NewMessageHandler(store).RegisterMessageRoutes(root)
	NewAuthHandler(store, sessions, tokens, nil).RegisterAuthRoutes(e.Group("/api/auth"))

	return &testServer{echo: e, store: store, sessions: sessions, tokens: tokens}
}

// do performs a request; bearer is an optional token for the caller
func (s *testServer) do(method, path, body, bearer string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	signed, err := s.tokens.Issue(u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed
}
