package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const deliveryEvent = "delivery.status_update"

// DeliverySimulator stands in for a courier: some seconds after an order is
// placed it reports the order as delivered through the delivery webhook.
type DeliverySimulator struct {
	url      string
	secret   string
	minDelay time.Duration
	maxDelay time.Duration
	client   *http.Client
	log      *zap.Logger

	mu      sync.Mutex
	stopped bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

func NewDeliverySimulator(config utils.DeliveryConfig, log *zap.Logger) *DeliverySimulator {
	minDelay, maxDelay := config.MinDelay, config.MaxDelay
	if minDelay <= 0 {
		minDelay = 5 * time.Second
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &DeliverySimulator{
		url:      config.WebhookURL,
		secret:   config.WebhookSecret,
		minDelay: minDelay,
		maxDelay: maxDelay,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.With(zap.String("service", "delivery")),
		stop:     make(chan struct{}),
	}
}

func (d *DeliverySimulator) delay() time.Duration {
	spread := d.maxDelay - d.minDelay
	if spread <= 0 {
		return d.minDelay
	}
	return d.minDelay + time.Duration(rand.Int63n(int64(spread+1)))
}

// Schedule returns immediately. Calls after Stop are ignored.
func (d *DeliverySimulator) Schedule(orderID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	wait := d.delay()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-d.stop:
			return
		case <-timer.C:
		}

		if err := d.notify(orderID); err != nil {
			d.log.Warn("Delivery update failed", zap.Error(err), zap.String("order_id", orderID.String()))
			return
		}
		d.log.Info("Delivery update sent", zap.String("order_id", orderID.String()), zap.Duration("after", wait))
	}()
}

func (d *DeliverySimulator) notify(orderID uuid.UUID) error {
	body, err := json.Marshal(map[string]any{
		"event": deliveryEvent,
		"data": map[string]string{
			"orderId":   orderID.String(),
			"status":    "delivered",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-d.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.secret != "" {
		req.Header.Set("X-Webhook-Secret", d.secret)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// Stop cancels pending deliveries and waits for in-flight ones.
func (d *DeliverySimulator) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.stop)
	d.mu.Unlock()

	d.wg.Wait()
	d.client.CloseIdleConnections()
}
