package usecase

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type deliveryCall struct {
	Secret string
	Body   struct {
		Event string `json:"event"`
		Data  struct {
			OrderID   string `json:"orderId"`
			Status    string `json:"status"`
			Timestamp string `json:"timestamp"`
		} `json:"data"`
	}
}

func TestDeliverySimulator_PostsDelivered(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	calls := make(chan deliveryCall, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c deliveryCall
		c.Secret = r.Header.Get("X-Webhook-Secret")
		_ = json.NewDecoder(r.Body).Decode(&c.Body)
		calls <- c
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sim := NewDeliverySimulator(utils.DeliveryConfig{
		WebhookURL:    srv.URL,
		WebhookSecret: "hook",
		MinDelay:      10 * time.Millisecond,
		MaxDelay:      30 * time.Millisecond,
	}, zap.NewNop())
	defer sim.Stop()

	orderID := uuid.New()
	sim.Schedule(orderID)

	select {
	case c := <-calls:
		assert.Equal(t, "hook", c.Secret)
		assert.Equal(t, "delivery.status_update", c.Body.Event)
		assert.Equal(t, orderID.String(), c.Body.Data.OrderID)
		assert.Equal(t, "delivered", c.Body.Data.Status)
		_, err := time.Parse(time.RFC3339Nano, c.Body.Data.Timestamp)
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("delivery update was not sent")
	}
}

func TestDeliverySimulator_StopCancelsPending(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
	}))
	defer srv.Close()

	sim := NewDeliverySimulator(utils.DeliveryConfig{
		WebhookURL: srv.URL,
		MinDelay:   time.Hour,
		MaxDelay:   time.Hour,
	}, zap.NewNop())

	for i := 0; i < 5; i++ {
		sim.Schedule(uuid.New())
	}

	done := make(chan struct{})
	go func() {
		sim.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	// ignored once stopped
	sim.Schedule(uuid.New())
	sim.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, hits)
}

func TestDeliverySimulator_Delay(t *testing.T) {
	sim := NewDeliverySimulator(utils.DeliveryConfig{MinDelay: 5 * time.Second, MaxDelay: 11 * time.Second}, zap.NewNop())
	defer sim.Stop()

	for i := 0; i < 100; i++ {
		d := sim.delay()
		require.GreaterOrEqual(t, d, 5*time.Second)
		require.LessOrEqual(t, d, 11*time.Second)
	}

	fixed := NewDeliverySimulator(utils.DeliveryConfig{MinDelay: 2 * time.Second, MaxDelay: time.Second}, zap.NewNop())
	defer fixed.Stop()
	assert.Equal(t, 2*time.Second, fixed.delay())
}
