package wire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Error   string            `json:"error"`
}

type testApp struct {
	t      *testing.T
	repo   *repository.Repository
	config *utils.Config
	server *httptest.Server
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	repo := repository.NewMemoryRepository(zap.NewNop())
	return newTestAppWithRepo(t, repo)
}

func newTestAppWithRepo(t *testing.T, repo *repository.Repository) *testApp {
	t.Helper()
	config := &utils.Config{
		JWT:   utils.JWTConfig{Secret: "wire-secret", ExpiryHours: 1},
		Order: utils.OrderConfig{TaxRate: 0.10, DeliveryFee: 3.99},
		CORS:  utils.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	app := Wiring(repo, usecase.Infra{}, config, zap.NewNop())
	srv := httptest.NewServer(app.Router)
	t.Cleanup(srv.Close)

	return &testApp{t: t, repo: repo, config: config, server: srv}
}

func (a *testApp) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (a *testApp) userToken(role entity.UserRole) (*entity.User, string) {
	a.t.Helper()
	now := time.Now()
	u := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         "Wire " + string(role),
		Email:        uuid.NewString() + "@example.com",
		Address:      "1 Wire St",
		Role:         role,
	}
	require.NoError(a.t, a.repo.User.Create(context.Background(), u))

	token, _, err := utils.GenerateToken(a.config.JWT, u.ID, string(role))
	require.NoError(a.t, err)
	return u, token
}

func (a *testApp) pizza(name string, price float64) *entity.Pizza {
	a.t.Helper()
	now := time.Now()
	p := &entity.Pizza{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:         name,
		Price:        price,
		Available:    true,
	}
	require.NoError(a.t, a.repo.Pizza.Create(context.Background(), p))
	return p
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	code, env := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Status)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)
	signup := map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1", "address": "1 Loop St"}

	code, env := app.do(http.MethodPost, "/api/auth/signup", "", signup)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Signup successful", env.Message)
	auth := decodeData[struct {
		Token string `json:"token"`
	}](t, env)
	assert.NotEmpty(t, auth.Token)

	code, env = app.do(http.MethodPost, "/api/auth/signup", "", signup)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email already in use.", env.Message)

	code, env = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "nope!!"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid credentials", env.Message)

	code, env = app.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodGet, "/api/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusOK, code)
	me := decodeData[struct {
		Email string `json:"email"`
	}](t, env)
	assert.Equal(t, "ada@example.com", me.Email)

	code, env = app.do(http.MethodPost, "/api/auth/signup", "", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", env.Message)

	code, env = app.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Contains(t, env.Errors, "name")
}

func TestPizzaRoutes(t *testing.T) {
	app := newTestApp(t)
	_, userToken := app.userToken(entity.RoleUser)
	_, adminToken := app.userToken(entity.RoleAdmin)
	body := map[string]any{"name": "Diavola", "price": 12.5, "veg": false, "ingredients": []string{"Salami"}}

	code, _ := app.do(http.MethodPost, "/api/pizzas", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := app.do(http.MethodPost, "/api/pizzas", userToken, body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access required", env.Message)

	code, env = app.do(http.MethodPost, "/api/pizzas", adminToken, body)
	require.Equal(t, http.StatusCreated, code)
	created := decodeData[struct {
		ID string `json:"id"`
	}](t, env)

	app.pizza("Marinara", 7)

	code, env = app.do(http.MethodGet, "/api/pizzas?veg=false&sort=-price&per_page=5", "", nil)
	require.Equal(t, http.StatusOK, code)
	page := decodeData[struct {
		Data []struct {
			Name string `json:"name"`
		} `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}](t, env)
	assert.EqualValues(t, 2, page.Pagination.Total)
	assert.Equal(t, "Diavola", page.Data[0].Name)

	code, _ = app.do(http.MethodGet, "/api/pizzas/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(http.MethodGet, "/api/pizzas/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = app.do(http.MethodPut, "/api/pizzas/"+created.ID, adminToken, map[string]any{"available": false})
	assert.Equal(t, http.StatusOK, code)
	updated := decodeData[struct {
		Available bool `json:"available"`
	}](t, env)
	assert.False(t, updated.Available)
}

func TestOrderRoutes(t *testing.T) {
	app := newTestApp(t)
	owner, ownerToken := app.userToken(entity.RoleUser)
	_, otherToken := app.userToken(entity.RoleUser)
	_, adminToken := app.userToken(entity.RoleAdmin)
	pizza := app.pizza("Margherita", 10)

	code, env := app.do(http.MethodPost, "/api/orders", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Missing authorization token", env.Message)

	orderBody := map[string]any{
		"items":            []map[string]any{{"pizza_id": pizza.ID.String(), "quantity": 2, "price": 10}},
		"delivery_address": map[string]any{"street": "1 Elm St", "city": "Springfield", "zipCode": "12345"},
		"delivery_notes":   "Knock twice",
	}
	code, env = app.do(http.MethodPost, "/api/orders", ownerToken, orderBody)
	require.Equal(t, http.StatusCreated, code, env.Message)
	order := decodeData[struct {
		ID              string         `json:"id"`
		UserID          string         `json:"user_id"`
		Status          string         `json:"status"`
		DeliveryAddress map[string]any `json:"delivery_address"`
		Pricing         entity.Pricing `json:"pricing"`
	}](t, env)
	assert.Equal(t, owner.ID.String(), order.UserID)
	assert.Equal(t, "pending", order.Status)
	assert.Equal(t, "12345", order.DeliveryAddress["zip_code"])
	assert.Equal(t, 25.99, order.Pricing.Total)

	code, env = app.do(http.MethodGet, "/api/orders/"+order.ID, otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not authorized to view this order", env.Message)

	code, env = app.do(http.MethodGet, "/api/orders/"+uuid.NewString(), ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Order not found", env.Message)

	code, _ = app.do(http.MethodGet, "/api/orders/"+order.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodGet, "/api/orders/mine", ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	mine := decodeData[struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}](t, env)
	require.Len(t, mine.Data, 1)
	assert.Equal(t, order.ID, mine.Data[0].ID)

	code, env = app.do(http.MethodGet, "/api/orders", otherToken, nil)
	require.Equal(t, http.StatusOK, code)
	others := decodeData[struct {
		Data []json.RawMessage `json:"data"`
	}](t, env)
	assert.Empty(t, others.Data)

	today := time.Now().UTC().Format("2006-01-02")
	code, env = app.do(http.MethodGet, "/api/orders?from="+today+"&to="+today, ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	sameDay := decodeData[struct {
		Data []json.RawMessage `json:"data"`
	}](t, env)
	assert.Len(t, sameDay.Data, 1)

	code, env = app.do(http.MethodGet, "/api/orders?from=not-a-date", ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = app.do(http.MethodPut, "/api/orders/"+order.ID+"/cancel", ownerToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Order cancelled", env.Message)

	code, env = app.do(http.MethodPut, "/api/orders/"+order.ID+"/cancel", ownerToken, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = app.do(http.MethodPut, "/api/orders/"+order.ID+"/notes", ownerToken, map[string]string{"delivery_notes": "Side door"})
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	owner, ownerToken := app.userToken(entity.RoleUser)
	_, adminToken := app.userToken(entity.RoleAdmin)
	pizza := app.pizza("Margherita", 10)

	code, env := app.do(http.MethodPost, "/api/orders", ownerToken, map[string]any{
		"items":            []map[string]any{{"pizza_id": pizza.ID.String(), "quantity": 1}},
		"delivery_address": "1 Elm St",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	order := decodeData[struct {
		ID string `json:"id"`
	}](t, env)

	code, _ = app.do(http.MethodGet, "/api/admin/orders", ownerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = app.do(http.MethodGet, "/api/admin/orders", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	list := decodeData[struct {
		Orders []struct {
			User struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			} `json:"user"`
			Items []struct {
				Pizza struct {
					Name string `json:"name"`
				} `json:"pizza"`
			} `json:"items"`
		} `json:"orders"`
	}](t, env)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, owner.Email, list.Orders[0].User.Email)
	assert.Empty(t, list.Orders[0].User.Password)
	assert.Equal(t, "Margherita", list.Orders[0].Items[0].Pizza.Name)

	code, env = app.do(http.MethodPut, "/api/admin/orders/"+order.ID+"/status", adminToken, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(http.MethodPut, "/api/admin/orders/"+order.ID+"/status", adminToken, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = app.do(http.MethodGet, "/api/admin/summary", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	summary := decodeData[struct {
		TotalOrders int64 `json:"total_orders"`
		ByStatus    map[string]struct {
			Count int64 `json:"count"`
		} `json:"by_status"`
	}](t, env)
	assert.EqualValues(t, 1, summary.TotalOrders)
	assert.EqualValues(t, 1, summary.ByStatus["confirmed"].Count)

	code, _ = app.do(http.MethodGet, "/api/admin/users?per_page=1", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(http.MethodGet, "/api/admin/users/"+owner.ID.String()+"/orders", adminToken, nil)
	assert.Equal(t, http.StatusOK, code)
}

type failingOrders struct {
	repository.OrderRepository
}

func (failingOrders) FindAll(context.Context, repository.OrderFilter, int, int) ([]*entity.Order, error) {
	return nil, errors.New("database is down")
}

func TestAdminOrders_StoreFailure(t *testing.T) {
	repo := repository.NewMemoryRepository(zap.NewNop())
	repo.Order = failingOrders{OrderRepository: repo.Order}
	app := newTestAppWithRepo(t, repo)
	_, adminToken := app.userToken(entity.RoleAdmin)

	code, env := app.do(http.MethodGet, "/api/admin/orders", adminToken, nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to fetch orders", env.Message)
	assert.Equal(t, "database is down", env.Error)
}

func TestWebhookRoute(t *testing.T) {
	app := newTestApp(t)
	_, ownerToken := app.userToken(entity.RoleUser)
	pizza := app.pizza("Margherita", 10)

	code, env := app.do(http.MethodPost, "/api/orders", ownerToken, map[string]any{
		"items":            []map[string]any{{"pizza_id": pizza.ID.String(), "quantity": 1}},
		"delivery_address": "1 Elm St",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	order := decodeData[struct {
		ID string `json:"id"`
	}](t, env)

	code, env = app.do(http.MethodPost, "/api/webhook/delivery-update", "", `{"event": "delivery.status_update", "data": `)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON payload", env.Message)

	code, env = app.do(http.MethodPost, "/api/webhook/delivery-update", "",
		fmt.Sprintf(`{"event":"delivery.status_update","data":{"orderId":%q,"status":"delivered","timestamp":"t1"}}`, uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, code)

	payload := fmt.Sprintf(`{"event":"delivery.status_update","data":{"orderId":%q,"status":"delivered","timestamp":"t1"}}`, order.ID)
	code, env = app.do(http.MethodPost, "/api/webhook/delivery-update", "", payload)
	require.Equal(t, http.StatusOK, code)
	result := decodeData[struct {
		Status  string   `json:"status"`
		Applied []string `json:"applied"`
	}](t, env)
	assert.Equal(t, "delivered", result.Status)
	assert.Len(t, result.Applied, 4)

	code, env = app.do(http.MethodPost, "/api/webhook/delivery-update", "", payload)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Duplicate delivery update ignored", env.Message)
}

func TestNotFoundRoute(t *testing.T) {
	app := newTestApp(t)
	code, env := app.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", env.Message)
}

func TestMetricsRoute(t *testing.T) {
	app := newTestApp(t)
	app.do(http.MethodGet, "/health", "", nil)

	resp, err := app.server.Client().Get(app.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "http_requests_total")
}
