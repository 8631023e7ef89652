package usecase

import (
	"context"
	"fmt"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/dto/response"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	GetOrders(ctx context.Context, query *request.OrderQuery) (*response.AdminOrdersResponse, error)
	UpdateOrderStatus(ctx context.Context, adminID uuid.UUID, orderID string, req *request.UpdateStatusRequest) (*response.OrderResponse, error)
	Summary(ctx context.Context, from, to *time.Time) (*response.SummaryResponse, error)
	GetUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	GetUserOrders(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetDeliveryEvents(ctx context.Context, orderID string, limit int) ([]response.DeliveryEventResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	orders OrderService
	log    *zap.Logger
}

func NewAdminService(repo *repository.Repository, orders OrderService, log *zap.Logger) AdminService {
	return &adminService{
		repo:   repo,
		orders: orders,
		log:    log.With(zap.String("service", "admin")),
	}
}

// GetOrders lists orders newest first with the owner and the item pizzas attached.
func (s *adminService) GetOrders(ctx context.Context, query *request.OrderQuery) (*response.AdminOrdersResponse, error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}
	filter, err := orderFilter(query)
	if err != nil {
		return nil, err
	}
	if query.Page < 1 {
		query.Page = 1
	}

	orders, err := s.repo.Order.FindAll(ctx, filter, query.Limit(), query.Offset())
	if err != nil {
		s.log.Error("Failed to fetch orders", zap.Error(err))
		return nil, failed("Failed to fetch orders", err)
	}
	total, err := s.repo.Order.CountAll(ctx, filter)
	if err != nil {
		return nil, failed("Failed to fetch orders", err)
	}

	if err := s.populate(ctx, orders); err != nil {
		return nil, failed("Failed to fetch orders", err)
	}

	data := make([]response.OrderResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, toOrderResponse(o))
	}
	page := response.NewPaginatedResponse(data, query.Page, query.Limit(), total)

	return &response.AdminOrdersResponse{
		Orders:     page.Data,
		Pagination: page.Pagination,
	}, nil
}

// populate attaches users and pizzas with one lookup each.
func (s *adminService) populate(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	userSeen := make(map[uuid.UUID]struct{})
	pizzaSeen := make(map[uuid.UUID]struct{})
	var userIDs, pizzaIDs []uuid.UUID
	for _, o := range orders {
		if _, ok := userSeen[o.UserID]; !ok {
			userSeen[o.UserID] = struct{}{}
			userIDs = append(userIDs, o.UserID)
		}
		for _, it := range o.Items {
			if _, ok := pizzaSeen[it.PizzaID]; !ok {
				pizzaSeen[it.PizzaID] = struct{}{}
				pizzaIDs = append(pizzaIDs, it.PizzaID)
			}
		}
	}

	users, err := s.repo.User.FindByIDs(ctx, userIDs)
	if err != nil {
		return err
	}
	pizzas, err := s.repo.Pizza.FindByIDs(ctx, pizzaIDs)
	if err != nil {
		return err
	}

	for _, o := range orders {
		o.User = users[o.UserID]
		for i := range o.Items {
			o.Items[i].Pizza = pizzas[o.Items[i].PizzaID]
		}
	}
	return nil
}

func (s *adminService) UpdateOrderStatus(ctx context.Context, adminID uuid.UUID, orderID string, req *request.UpdateStatusRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, invalid("Invalid order ID")
	}
	target, _ := entity.ParseOrderStatus(req.Status)

	order, _, err := s.orders.TransitionOrder(ctx, id, target, &adminID, SourceAdmin, false)
	if err != nil {
		return nil, err
	}

	resp := toOrderResponse(order)
	return &resp, nil
}

// Summary reports totals for the dashboard. Revenue leaves cancelled orders out.
func (s *adminService) Summary(ctx context.Context, from, to *time.Time) (*response.SummaryResponse, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, invalid("from must be before to")
	}

	stats, err := s.repo.Order.StatsByStatus(ctx, from, to)
	if err != nil {
		return nil, failed("Failed to build summary", err)
	}
	users, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, failed("Failed to build summary", err)
	}
	pizzas, err := s.repo.Pizza.CountAll(ctx, repository.PizzaFilter{})
	if err != nil {
		return nil, failed("Failed to build summary", err)
	}

	summary := &response.SummaryResponse{
		TotalUsers:  users,
		TotalPizzas: pizzas,
		ByStatus:    make(map[string]response.StatusSummary, len(entity.OrderStatuses)),
	}
	for _, st := range entity.OrderStatuses {
		summary.ByStatus[string(st)] = response.StatusSummary{}
	}
	for _, st := range stats {
		summary.TotalOrders += st.Count
		summary.ByStatus[string(st.Status)] = response.StatusSummary{
			Count:   st.Count,
			Revenue: utils.RoundMoney(st.Revenue),
		}
		if st.Status != entity.StatusCancelled {
			summary.Revenue += st.Revenue
		}
	}
	summary.Revenue = utils.RoundMoney(summary.Revenue)

	return summary, nil
}

func (s *adminService) GetUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}

	users, err := s.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, failed("Failed to fetch users", err)
	}
	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, failed("Failed to fetch users", err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, toUserResponse(u))
	}
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *adminService) GetUserOrders(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, invalid("Invalid user ID")
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, failed("Failed to fetch orders", err)
	}
	if user == nil {
		return nil, notFound("User not found")
	}

	return s.orders.GetMyOrders(ctx, id, req)
}

// GetDeliveryEvents returns the archived webhook calls of one order, newest first.
func (s *adminService) GetDeliveryEvents(ctx context.Context, orderID string, limit int) ([]response.DeliveryEventResponse, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, invalid("Invalid order ID")
	}
	switch {
	case limit < 1:
		limit = 50
	case limit > 100:
		limit = 100
	}

	events, err := s.repo.DeliveryEvent.FindByOrderID(ctx, id.String(), limit)
	if err != nil {
		return nil, failed(fmt.Sprintf("Failed to fetch delivery events for order %s", id), err)
	}

	out := make([]response.DeliveryEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, response.DeliveryEventResponse{
			ID:         ev.ID,
			Event:      ev.Event,
			Status:     ev.Status,
			ReportedAt: ev.ReportedAt,
			Outcome:    ev.Outcome,
			ReceivedAt: ev.ReceivedAt,
		})
	}
	return out, nil
}
