package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/auth"
	"github.com/voteguard/voteguard/internal/server/config"
	"github.com/voteguard/voteguard/internal/server/models"
	usersrepo "github.com/voteguard/voteguard/internal/server/repositories/users"
	votesrepo "github.com/voteguard/voteguard/internal/server/repositories/votes"
	"github.com/voteguard/voteguard/internal/server/services"
)

const testSecret = "test-secret"

type testEnv struct {
	router *gin.Engine
	users  *usersrepo.MemoryRepository
	votes  *votesrepo.MemoryRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: time.Hour,
	}

	users := usersrepo.NewMemoryRepository()
	votes := votesrepo.NewMemoryRepository(users)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	router := NewRouter(RouterDeps{
		Auth:      services.NewAuthService(users, cfg),
		Users:     services.NewUserService(users),
		Votes:     services.NewVoteService(votes, nil),
		JWTSecret: []byte(cfg.SecretKey),
		Logger:    logger,
	})

	return &testEnv{router: router, users: users, votes: votes}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin provisions a user through the public endpoints and returns
// the token and user id.
func (e *testEnv) registerAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	id, _ := user["id"].(string)
	require.NotEmpty(t, id)

	return token, id
}

// adminToken seeds an admin directly in the store and logs them in.
func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	hash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)
	_, err = e.users.Create(context.Background(), &models.User{
		Email:        "admin@x.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	})
	require.NoError(t, err)

	w := e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "admin@x.com", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@x.com", "password": "pw123456"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "User registered successfully", body["message"])

	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "password_hash")
}

func TestRegister_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", decode(t, w)["message"])
}

func TestRegister_Duplicate(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@x.com", "password": "other"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User already exists", decode(t, w)["message"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "a@x.com", "pw123456")

	// wrong password and unknown email produce the same response
	for _, creds := range []gin.H{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "pw123456"},
	} {
		w := env.do(t, http.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid credentials", decode(t, w)["message"])
	}
}

func TestAuthenticateGate(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/votes", "", gin.H{"name": "Alice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No token provided", decode(t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/votes", "not-a-jwt", gin.H{"name": "Alice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode(t, w)["message"])
}

func TestAuthenticateGate_ExpiredToken(t *testing.T) {
	env := newTestEnv(t)

	user := &models.User{ID: "u-1", Email: "a@x.com", Role: models.RoleUser}
	expired, err := auth.GenerateToken(user, []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/api/votes", expired, gin.H{"name": "Alice"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", decode(t, w)["message"])
}

func TestCastVote(t *testing.T) {
	env := newTestEnv(t)
	token, userID := env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	assert.Equal(t, "Vote cast successfully", body["message"])

	vote, _ := body["vote"].(map[string]any)
	require.NotNil(t, vote)
	assert.Equal(t, userID, vote["userId"])
	assert.Equal(t, "Alice", vote["name"])
}

func TestCastVote_Twice(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	// even a different name is rejected: one ballot per user
	w = env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": "Bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User has already voted", decode(t, w)["message"])
}

func TestCastVote_EmptyName(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Name is required", decode(t, w)["message"])
}

func TestMyVote(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "a@x.com", "pw123456")

	// before voting the body is an explicit null
	w := env.do(t, http.MethodGet, "/api/votes/my-vote", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/votes/my-vote", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice", decode(t, w)["name"])
}

func TestListVotesAndResults(t *testing.T) {
	env := newTestEnv(t)

	for i, vote := range []struct{ email, name string }{
		{"a@x.com", "Alice"},
		{"b@x.com", "Alice"},
		{"c@x.com", "Bob"},
	} {
		token, _ := env.registerAndLogin(t, vote.email, "pw123456")
		w := env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": vote.name})
		require.Equal(t, http.StatusCreated, w.Code, "vote %d", i)
	}

	// the listing is public
	w := env.do(t, http.MethodGet, "/api/votes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var votes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &votes))
	assert.Len(t, votes, 3)

	w = env.do(t, http.MethodGet, "/api/votes/result", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Alice", results[0]["name"])
	assert.Equal(t, float64(2), results[0]["count"])
	assert.Equal(t, "Bob", results[1]["name"])
	assert.Equal(t, float64(1), results[1]["count"])

	w = env.do(t, http.MethodGet, "/api/votes/names", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var names []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &names))
	assert.Equal(t, []string{"Alice", "Bob"}, names)
}

func TestAdminGate(t *testing.T) {
	env := newTestEnv(t)
	userToken, _ := env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodGet, "/api/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient permissions", decode(t, w)["message"])

	w = env.do(t, http.MethodGet, "/api/admin/users", env.adminToken(t), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodGet, "/api/admin/users", env.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotContains(t, u, "passwordHash")
	}
}

func TestAdminUpdateUser(t *testing.T) {
	env := newTestEnv(t)
	_, userID := env.registerAndLogin(t, "a@x.com", "pw123456")
	admin := env.adminToken(t)

	w := env.do(t, http.MethodPatch, "/api/admin/users/"+userID, admin, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "User updated successfully", body["message"])
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "admin", user["role"])
}

func TestAdminUpdateUser_InvalidRole(t *testing.T) {
	env := newTestEnv(t)
	_, userID := env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodPatch, "/api/admin/users/"+userID, env.adminToken(t), gin.H{"role": "superuser"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid role", decode(t, w)["message"])
}

func TestAdminUpdateUser_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPatch, "/api/admin/users/missing-id", env.adminToken(t), gin.H{"role": "admin"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
}

func TestAdminUpdateUser_EmailConflict(t *testing.T) {
	env := newTestEnv(t)
	env.registerAndLogin(t, "a@x.com", "pw123456")
	_, otherID := env.registerAndLogin(t, "b@x.com", "pw123456")

	w := env.do(t, http.MethodPatch, "/api/admin/users/"+otherID, env.adminToken(t), gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	_, userID := env.registerAndLogin(t, "a@x.com", "pw123456")
	admin := env.adminToken(t)

	w := env.do(t, http.MethodDelete, "/api/admin/users/"+userID, admin, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/users/"+userID, admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", decode(t, w)["message"])
}

func TestAdminDetailedVotes(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "a@x.com", "pw123456")

	w := env.do(t, http.MethodPost, "/api/votes", token, gin.H{"name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/votes", env.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var votes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &votes))
	require.Len(t, votes, 1)
	assert.Equal(t, "Alice", votes[0]["name"])
	assert.Equal(t, "a@x.com", votes[0]["voterEmail"])
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", decode(t, w)["message"])
}
