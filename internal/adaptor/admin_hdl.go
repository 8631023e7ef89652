package adaptor

import (
	"net/http"

	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AdminHandler struct {
	service usecase.AdminService
	log     *zap.Logger
}

func NewAdminHandler(service usecase.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// GetOrders handles GET /api/admin/orders
func (h *AdminHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	query, ok := parseOrderQuery(w, r)
	if !ok {
		return
	}

	orders, err := h.service.GetOrders(r.Context(), query)
	if err != nil {
		handleServiceError(w, h.log, err, "fetch orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	adminID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.service.UpdateOrderStatus(r.Context(), adminID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update order status")
		return
	}

	utils.ResponseSuccess(w, "Order status updated", order)
}

// GetDeliveryEvents handles GET /api/admin/orders/{id}/delivery-events
func (h *AdminHandler) GetDeliveryEvents(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 50)

	events, err := h.service.GetDeliveryEvents(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		handleServiceError(w, h.log, err, "fetch delivery events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// Summary handles GET /api/admin/summary
func (h *AdminHandler) Summary(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := utils.ParseTimePtr(query.Get("from"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid from date", nil)
		return
	}
	to, err := utils.ParseEndTimePtr(query.Get("to"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid to date", nil)
		return
	}

	summary, err := h.service.Summary(r.Context(), from, to)
	if err != nil {
		handleServiceError(w, h.log, err, "build summary")
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// GetUsers handles GET /api/admin/users
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	req := parsePagination(r)

	users, err := h.service.GetUsers(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "fetch users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// GetUserOrders handles GET /api/admin/users/{id}/orders
func (h *AdminHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	req := parsePagination(r)

	orders, err := h.service.GetUserOrders(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "fetch user orders")
		return
	}

	utils.ResponseSuccess(w, "success", orders)
}
