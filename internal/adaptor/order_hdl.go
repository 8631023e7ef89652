package adaptor

import (
	"net/http"

	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service usecase.OrderService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create order")
		return
	}

	utils.ResponseCreated(w, "Order placed successfully", order)
}

// ListOrders handles GET /api/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query, ok := parseOrderQuery(w, r)
	if !ok {
		return
	}

	orders, err := h.service.ListOrders(r.Context(), userID, utils.IsAdmin(r.Context()), query)
	if err != nil {
		handleServiceError(w, h.log, err, "list orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// MyOrders handles GET /api/orders/mine
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req := parsePagination(r)
	orders, err := h.service.GetMyOrders(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get my orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	order, err := h.service.GetOrderByID(r.Context(), userID, utils.IsAdmin(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get order")
		return
	}

	utils.ResponseSuccess(w, "Order retrieved successfully", order)
}

// CancelOrder handles PUT /api/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	order, err := h.service.CancelOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "cancel order")
		return
	}

	utils.ResponseSuccess(w, "Order cancelled", order)
}

// UpdateDeliveryNotes handles PUT /api/orders/{id}/notes
func (h *OrderHandler) UpdateDeliveryNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.DeliveryNotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.UpdateDeliveryNotes(r.Context(), userID, utils.IsAdmin(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update delivery notes")
		return
	}

	utils.ResponseSuccess(w, "Delivery notes updated", order)
}
