package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-secret"

type body struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) body {
	t.Helper()
	var b body
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	return b
}

func seedUser(t *testing.T, repo *repository.Repository, role entity.UserRole) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         "Test",
		Email:        uuid.NewString() + "@example.com",
		Role:         role,
	}
	require.NoError(t, repo.User.Create(context.Background(), u))
	return u
}

func bearer(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token, _, err := utils.GenerateToken(utils.JWTConfig{Secret: testSecret}, userID, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, _ := utils.GetUserIDFromContext(r.Context())
	role, _ := utils.GetRoleFromContext(r.Context())
	utils.ResponseSuccess(w, id.String()+":"+role, nil)
}

func TestAuth(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	user := seedUser(t, repo, entity.RoleUser)
	handler := Auth(testSecret, repo.User, zap.NewNop())(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "Missing authorization token"},
		{"wrong scheme", "Token abc", http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>"},
		{"bad token", "Bearer abc.def.ghi", http.StatusUnauthorized, "Invalid or expired token"},
		{"unknown user", bearer(t, uuid.New(), "user"), http.StatusUnauthorized, "User not found"},
		{"valid", bearer(t, user.ID, "user"), http.StatusOK, user.ID.String() + ":user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec).Message)
		})
	}
}

func TestAuth_RoleComesFromStore(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	user := seedUser(t, repo, entity.RoleUser)
	handler := Auth(testSecret, repo.User, zap.NewNop())(http.HandlerFunc(echoUser))

	// token claims admin, the stored user is not
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, user.ID, "admin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID.String()+":user", decode(t, rec).Message)
}

func TestAdmin(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	admin := seedUser(t, repo, entity.RoleAdmin)
	user := seedUser(t, repo, entity.RoleUser)

	chain := Auth(testSecret, repo.User, zap.NewNop())(Admin(zap.NewNop())(http.HandlerFunc(echoUser)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, user.ID, "user"))
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", decode(t, rec).Message)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, admin.ID, "admin"))
	rec = httptest.NewRecorder()
	chain.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Admin without Auth in front
	rec = httptest.NewRecorder()
	Admin(zap.NewNop())(http.HandlerFunc(echoUser)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec).Message)
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
		req.Header.Set("Origin", "http://shop.local")
		rec := httptest.NewRecorder()

		CORS([]string{"http://shop.local"})(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://shop.local", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.local")
		rec := httptest.NewRecorder()

		CORS([]string{"http://shop.local"})(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		CORS(nil)(next).ServeHTTP(rec, req)

		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestLogger_PassesThrough(t *testing.T) {
	handler := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
