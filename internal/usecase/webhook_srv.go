package usecase

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/dto/response"
	"pizza-ordering/pkg/cache"
	"pizza-ordering/pkg/metrics"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WebhookService interface {
	// HandleDeliveryUpdate applies one delivery status report. The raw body is
	// archived whatever the outcome.
	HandleDeliveryUpdate(ctx context.Context, secret string, body []byte) (*response.WebhookResponse, error)
}

type webhookService struct {
	repo   *repository.Repository
	cache  cache.Cache
	orders OrderService
	secret string
	log    *zap.Logger
	now    func() time.Time
}

func NewWebhookService(repo *repository.Repository, infra Infra, orders OrderService, config *utils.Config, log *zap.Logger) WebhookService {
	c := infra.Cache
	if c == nil {
		c = cache.NewMemory()
	}
	return &webhookService{
		repo:   repo,
		cache:  c,
		orders: orders,
		secret: config.Delivery.WebhookSecret,
		log:    log.With(zap.String("service", "webhook")),
		now:    time.Now,
	}
}

func (s *webhookService) HandleDeliveryUpdate(ctx context.Context, secret string, body []byte) (*response.WebhookResponse, error) {
	if s.secret != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		s.log.Warn("Webhook rejected: bad secret")
		metrics.WebhookEvents.WithLabelValues(entity.DeliveryOutcomeRejected).Inc()
		return nil, unauthorized("Invalid webhook secret")
	}

	var req request.DeliveryWebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		metrics.WebhookEvents.WithLabelValues(entity.DeliveryOutcomeRejected).Inc()
		return nil, invalid("Invalid JSON payload")
	}
	data := req.Payload()

	event := &entity.DeliveryEvent{
		ID:         uuid.NewString(),
		Event:      req.Event,
		OrderID:    data.OrderID,
		Status:     data.Status,
		ReportedAt: data.Timestamp,
		Raw:        string(body),
		ReceivedAt: s.now().UTC(),
	}

	resp, err := s.apply(ctx, data)
	switch {
	case err != nil:
		event.Outcome = entity.DeliveryOutcomeRejected
	case resp.Duplicate:
		event.Outcome = entity.DeliveryOutcomeDuplicate
	default:
		event.Outcome = entity.DeliveryOutcomeApplied
	}
	metrics.WebhookEvents.WithLabelValues(event.Outcome).Inc()
	s.archive(ctx, event)

	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *webhookService) apply(ctx context.Context, data request.DeliveryWebhookData) (*response.WebhookResponse, error) {
	if data.OrderID == "" || data.Status == "" {
		return nil, invalid("orderId and status are required")
	}
	target, ok := entity.ParseOrderStatus(data.Status)
	if !ok {
		return nil, invalid(fmt.Sprintf("Invalid status: %s", data.Status))
	}
	id, err := uuid.Parse(data.OrderID)
	if err != nil {
		return nil, invalid("Invalid order ID")
	}

	key := cache.WebhookDedupKey(fmt.Sprintf("%s:%s:%s", id, target, data.Timestamp))
	stored, err := s.cache.SetNX(ctx, key, cache.TTLDedup)
	if err != nil {
		// without dedup the transition itself stays idempotent
		s.log.Warn("Webhook dedup unavailable", zap.Error(err))
		stored = true
	}
	if !stored {
		s.log.Info("Duplicate delivery update ignored",
			zap.String("order_id", id.String()),
			zap.String("status", string(target)))
		return &response.WebhookResponse{
			OrderID:   id.String(),
			Status:    string(target),
			Applied:   []string{},
			Duplicate: true,
		}, nil
	}

	order, path, err := s.orders.TransitionOrder(ctx, id, target, nil, SourceWebhook, true)
	if err != nil {
		// let the sender retry the same event
		if derr := s.cache.Delete(ctx, key); derr != nil {
			s.log.Warn("Failed to release webhook dedup key", zap.Error(derr))
		}
		return nil, err
	}

	applied := make([]string, 0, len(path))
	for _, st := range path {
		applied = append(applied, string(st))
	}
	return &response.WebhookResponse{
		OrderID: order.ID.String(),
		Status:  string(order.Status),
		Applied: applied,
	}, nil
}

func (s *webhookService) archive(ctx context.Context, event *entity.DeliveryEvent) {
	archiveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	if err := s.repo.DeliveryEvent.Insert(archiveCtx, event); err != nil {
		s.log.Error("Failed to archive delivery event",
			zap.Error(err),
			zap.String("order_id", event.OrderID),
			zap.String("outcome", event.Outcome))
	}
}
