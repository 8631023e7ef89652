package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/dto/response"
	"pizza-ordering/pkg/broker"
	"pizza-ordering/pkg/metrics"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transition sources, used for metrics and events.
const (
	SourceCustomer = "customer"
	SourceAdmin    = "admin"
	SourceWebhook  = "webhook"
)

type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error)
	// ListOrders returns every order to admins and the caller's own orders otherwise.
	ListOrders(ctx context.Context, userID uuid.UUID, isAdmin bool, query *request.OrderQuery) (*response.PaginatedResponse[response.OrderResponse], error)
	GetMyOrders(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetOrderByID(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID string) (*response.OrderResponse, error)
	CancelOrder(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error)
	UpdateDeliveryNotes(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID string, req *request.DeliveryNotesRequest) (*response.OrderResponse, error)

	// TransitionOrder moves the order to target. With walk set, every
	// intermediate status on the shortest forward path is applied and recorded.
	TransitionOrder(ctx context.Context, orderID uuid.UUID, target entity.OrderStatus, actor *uuid.UUID, source string, walk bool) (*entity.Order, []entity.OrderStatus, error)
}

// DeliveryScheduler is notified of every accepted order.
type DeliveryScheduler interface {
	Schedule(orderID uuid.UUID)
}

type noopScheduler struct{}

func (noopScheduler) Schedule(uuid.UUID) {}

type orderService struct {
	repo     *repository.Repository
	events   broker.Publisher
	delivery DeliveryScheduler
	config   utils.OrderConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewOrderService(repo *repository.Repository, infra Infra, config *utils.Config, log *zap.Logger) OrderService {
	events := infra.Events
	if events == nil {
		events = broker.NewLogPublisher(log)
	}
	delivery := infra.Delivery
	if delivery == nil {
		delivery = noopScheduler{}
	}
	return &orderService{
		repo:     repo,
		events:   events,
		delivery: delivery,
		config:   config.Order,
		log:      log.With(zap.String("service", "order")),
		now:      time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *request.CreateOrderRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create order validation failed", zap.Any("errors", errs))
		return nil, invalidFields("Validation failed", errs)
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if err := checkQuantity(item.Quantity); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(item.PizzaID)
		if err != nil {
			return nil, invalid("Invalid pizza ID")
		}
		ids = append(ids, id)
	}

	catalog, err := s.repo.Pizza.FindByIDs(ctx, ids)
	if err != nil {
		return nil, failed("Failed to create order", err)
	}

	items := make([]entity.OrderItem, 0, len(req.Items))
	var itemsSubtotal float64
	for i, item := range req.Items {
		pizza := catalog[ids[i]]
		if pizza == nil {
			return nil, invalid(fmt.Sprintf("Pizza %s not found", item.PizzaID))
		}
		if !pizza.Available {
			return nil, invalid(fmt.Sprintf("%s is currently unavailable", pizza.Name))
		}

		price := pizza.Price
		if item.Price != nil {
			if err := checkPriceSnapshot(pizza.Name, pizza.Price, *item.Price); err != nil {
				return nil, err
			}
			price = utils.RoundMoney(*item.Price)
		}

		subtotal, err := lineSubtotal(pizza.Name, item.Quantity, price, item.Subtotal)
		if err != nil {
			return nil, err
		}
		itemsSubtotal += subtotal

		items = append(items, entity.OrderItem{
			ID:           uuid.New(),
			PizzaID:      pizza.ID,
			Name:         pizza.Name,
			Quantity:     item.Quantity,
			PriceAtOrder: price,
			Subtotal:     subtotal,
		})
	}
	itemsSubtotal = utils.RoundMoney(itemsSubtotal)

	address, err := normalizeAddress(req.DeliveryAddress)
	if err != nil {
		return nil, err
	}
	instructions, err := cleanText(req.SpecialInstructions, maxInstructionsLen, "Special instructions")
	if err != nil {
		return nil, err
	}
	notes, err := cleanText(req.DeliveryNotes, maxDeliveryNotesLen, "Delivery notes")
	if err != nil {
		return nil, err
	}

	pricing := computePricing(itemsSubtotal, s.config.TaxRate, s.config.DeliveryFee)
	if req.Pricing != nil {
		pricing = entity.Pricing{
			Subtotal:    utils.RoundMoney(req.Pricing.Subtotal),
			Tax:         utils.RoundMoney(req.Pricing.Tax),
			DeliveryFee: utils.RoundMoney(req.Pricing.DeliveryFee),
			Total:       utils.RoundMoney(req.Pricing.Total),
		}
	}
	if err := checkPricing(pricing, itemsSubtotal); err != nil {
		return nil, err
	}
	totalAmount, err := checkTotalAmount(req.TotalAmount, pricing.Total)
	if err != nil {
		return nil, err
	}

	now := s.now()
	eta := entity.EstimatedDeliveryAt(now, len(items))
	order := &entity.Order{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OrderNumber: utils.GenerateOrderNumber(),
		UserID:      userID,
		Items:       items,
		Status:      entity.StatusPending,
		StatusHistory: []entity.StatusChange{{
			ID:        uuid.New(),
			Status:    entity.StatusPending,
			Timestamp: now,
			UpdatedBy: &userID,
		}},
		EstimatedDelivery:   &eta,
		DeliveryAddress:     address,
		Pricing:             pricing,
		PaymentStatus:       entity.PaymentPending,
		SpecialInstructions: instructions,
		DeliveryNotes:       notes,
		TotalAmount:         totalAmount,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	err = s.repo.Order.Create(ctx, order)
	if errors.Is(err, repository.ErrDuplicate) {
		// order number collision
		order.OrderNumber = utils.GenerateOrderNumber()
		err = s.repo.Order.Create(ctx, order)
	}
	if err != nil {
		return nil, failed("Failed to create order", err)
	}

	metrics.OrdersCreated.Inc()
	s.log.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID.String()),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Pricing.Total),
	)

	s.publish(ctx, broker.EventOrderCreated, order.ID, broker.OrderCreatedPayload{
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		UserID:      userID.String(),
		ItemCount:   len(order.Items),
		Total:       order.Pricing.Total,
		CreatedAt:   order.CreatedAt,
	})
	s.delivery.Schedule(order.ID)

	resp := toOrderResponse(order)
	return &resp, nil
}

func orderFilter(query *request.OrderQuery) (repository.OrderFilter, error) {
	var filter repository.OrderFilter
	if query.Status != "" {
		st, ok := entity.ParseOrderStatus(query.Status)
		if !ok {
			return filter, invalid("Invalid status filter")
		}
		filter.Status = &st
	}
	if query.From != nil && query.To != nil && query.From.After(*query.To) {
		return filter, invalid("from must be before to")
	}
	filter.From = query.From
	filter.To = query.To
	return filter, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, isAdmin bool, query *request.OrderQuery) (*response.PaginatedResponse[response.OrderResponse], error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}
	filter, err := orderFilter(query)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		filter.UserID = &userID
	}

	return s.page(ctx, filter, query.PaginatedRequest)
}

func (s *orderService) GetMyOrders(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	return s.page(ctx, repository.OrderFilter{UserID: &userID}, *req)
}

func (s *orderService) page(ctx context.Context, filter repository.OrderFilter, p request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	if p.Page < 1 {
		p.Page = 1
	}

	orders, err := s.repo.Order.FindAll(ctx, filter, p.Limit(), p.Offset())
	if err != nil {
		return nil, failed("Failed to fetch orders", err)
	}
	total, err := s.repo.Order.CountAll(ctx, filter)
	if err != nil {
		return nil, failed("Failed to fetch orders", err)
	}

	data := make([]response.OrderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, toOrderResponse(o))
	}
	return response.NewPaginatedResponse(data, p.Page, p.Limit(), total), nil
}

// loadOrder resolves the id or reports 400/404.
func (s *orderService) loadOrder(ctx context.Context, orderID string, op string) (*entity.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, invalid("Invalid order ID")
	}
	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, failed(op, err)
	}
	if order == nil {
		return nil, notFound("Order not found")
	}
	return order, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID string) (*response.OrderResponse, error) {
	order, err := s.loadOrder(ctx, orderID, "Failed to fetch order")
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.IsOwnedBy(userID) {
		s.log.Warn("Order access denied",
			zap.String("order_id", orderID),
			zap.String("user_id", userID.String()))
		return nil, forbidden("Not authorized to view this order")
	}

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID uuid.UUID, orderID string) (*response.OrderResponse, error) {
	order, err := s.loadOrder(ctx, orderID, "Failed to cancel order")
	if err != nil {
		return nil, err
	}
	if !order.IsOwnedBy(userID) {
		return nil, forbidden("Not authorized to modify this order")
	}

	updated, _, err := s.TransitionOrder(ctx, order.ID, entity.StatusCancelled, &userID, SourceCustomer, false)
	if err != nil {
		return nil, err
	}

	resp := toOrderResponse(updated)
	return &resp, nil
}

// UpdateDeliveryNotes is allowed in every status, final ones included.
func (s *orderService) UpdateDeliveryNotes(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID string, req *request.DeliveryNotesRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}

	order, err := s.loadOrder(ctx, orderID, "Failed to update delivery notes")
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.IsOwnedBy(userID) {
		return nil, forbidden("Not authorized to modify this order")
	}

	notes, err := cleanText(req.DeliveryNotes, maxDeliveryNotesLen, "Delivery notes")
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.repo.Order.UpdateDeliveryNotes(ctx, order.ID, notes, now); err != nil {
		return nil, failed("Failed to update delivery notes", err)
	}
	order.DeliveryNotes = notes
	order.UpdatedAt = now

	resp := toOrderResponse(order)
	return &resp, nil
}

func (s *orderService) TransitionOrder(ctx context.Context, orderID uuid.UUID, target entity.OrderStatus, actor *uuid.UUID, source string, walk bool) (*entity.Order, []entity.OrderStatus, error) {
	if !target.Valid() {
		return nil, nil, invalid(fmt.Sprintf("Invalid status: %s", target))
	}

	order, err := s.repo.Order.FindByID(ctx, orderID)
	if err != nil {
		return nil, nil, failed("Failed to update order status", err)
	}
	if order == nil {
		return nil, nil, notFound("Order not found")
	}

	if walk && order.Status == target {
		return order, nil, nil
	}
	if order.Status.IsFinal() {
		return nil, nil, immutable(fmt.Sprintf("Order is already %s and can no longer be modified", order.Status))
	}

	var path []entity.OrderStatus
	if walk {
		p, ok := entity.TransitionPath(order.Status, target)
		if !ok {
			return nil, nil, invalidTransition(fmt.Sprintf("Cannot move order from %s to %s", order.Status, target), nil)
		}
		path = p
	} else {
		if !entity.CanTransition(order.Status, target) {
			return nil, nil, invalidTransition(fmt.Sprintf("Cannot move order from %s to %s", order.Status, target), nil)
		}
		path = []entity.OrderStatus{target}
	}

	from := order.Status
	historyLen := len(order.StatusHistory)
	now := s.now()
	for i, next := range path {
		// distinct timestamps keep history order stable
		at := now.Add(time.Duration(i) * time.Microsecond)
		if err := order.ApplyStatus(next, actor, at); err != nil {
			return nil, nil, invalidTransition(fmt.Sprintf("Cannot move order from %s to %s", order.Status, next), err)
		}
	}

	changes := order.StatusHistory[historyLen:]
	if err := s.repo.Order.UpdateStatus(ctx, order, from, changes); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, nil, invalidTransition("Order status changed concurrently, please retry", err)
		}
		return nil, nil, failed("Failed to update order status", err)
	}

	prev := from
	for _, ch := range changes {
		metrics.StatusTransitions.WithLabelValues(string(ch.Status), source).Inc()

		payload := broker.StatusChangedPayload{
			OrderID:   order.ID.String(),
			From:      string(prev),
			To:        string(ch.Status),
			Source:    source,
			ChangedAt: ch.Timestamp,
		}
		if actor != nil {
			payload.UpdatedBy = actor.String()
		}
		s.publish(ctx, broker.EventOrderStatusChanged, order.ID, payload)
		prev = ch.Status
	}

	s.log.Info("Order status changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
		zap.Int("steps", len(changes)),
		zap.String("source", source),
	)

	return order, path, nil
}

// publish never fails the caller; lost events are logged.
func (s *orderService) publish(ctx context.Context, eventType string, orderID uuid.UUID, payload any) {
	env, err := broker.NewEnvelope(eventType, orderID.String(), payload)
	if err != nil {
		s.log.Error("Failed to build event", zap.Error(err), zap.String("event_type", eventType))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := s.events.Publish(pubCtx, env); err != nil {
		s.log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("order_id", orderID.String()))
	}
}

func toOrderResponse(o *entity.Order) response.OrderResponse {
	items := make([]response.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		item := response.OrderItemResponse{
			PizzaID:      it.PizzaID.String(),
			Name:         it.Name,
			Quantity:     it.Quantity,
			PriceAtOrder: it.PriceAtOrder,
			Subtotal:     it.Subtotal,
		}
		if it.Pizza != nil {
			p := toPizzaResponse(it.Pizza)
			item.Pizza = &p
		}
		items = append(items, item)
	}

	history := make([]response.StatusChangeResponse, 0, len(o.StatusHistory))
	for _, ch := range o.StatusHistory {
		h := response.StatusChangeResponse{
			Status:    string(ch.Status),
			Timestamp: ch.Timestamp,
		}
		if ch.UpdatedBy != nil {
			by := ch.UpdatedBy.String()
			h.UpdatedBy = &by
		}
		history = append(history, h)
	}

	resp := response.OrderResponse{
		ID:                    o.ID.String(),
		OrderNumber:           o.OrderNumber,
		UserID:                o.UserID.String(),
		Items:                 items,
		Status:                string(o.Status),
		StatusHistory:         history,
		EstimatedDeliveryTime: o.EstimatedDelivery,
		DeliveryAddress:       o.DeliveryAddress,
		Pricing:               o.Pricing,
		PaymentStatus:         string(o.PaymentStatus),
		SpecialInstructions:   o.SpecialInstructions,
		DeliveryNotes:         o.DeliveryNotes,
		TotalAmount:           o.TotalAmount,
		CanBeModified:         o.CanBeModified(),
		CreatedAt:             o.CreatedAt,
		UpdatedAt:             o.UpdatedAt,
	}
	if o.User != nil {
		resp.User = &response.OrderUserResponse{
			ID:      o.User.ID.String(),
			Name:    o.User.Name,
			Email:   o.User.Email,
			Address: o.User.Address,
		}
	}
	return resp
}
