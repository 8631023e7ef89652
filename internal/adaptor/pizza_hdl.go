package adaptor

import (
	"net/http"

	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PizzaHandler struct {
	service usecase.PizzaService
	log     *zap.Logger
}

func NewPizzaHandler(service usecase.PizzaService, log *zap.Logger) *PizzaHandler {
	return &PizzaHandler{
		service: service,
		log:     log.With(zap.String("handler", "pizza")),
	}
}

// GetPizzas handles GET /api/pizzas
func (h *PizzaHandler) GetPizzas(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.PizzaQuery{
		PaginatedRequest: parsePagination(r),
		Veg:              utils.ParseBoolPtr(query.Get("veg")),
		Available:        utils.ParseBoolPtr(query.Get("available")),
		Search:           query.Get("search"),
		MinPrice:         utils.ParseFloatPtr(query.Get("min_price")),
		MaxPrice:         utils.ParseFloatPtr(query.Get("max_price")),
		Sort:             query.Get("sort"),
	}

	pizzas, err := h.service.GetPizzas(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get pizzas")
		return
	}

	utils.ResponseSuccess(w, "success", pizzas)
}

// GetPizzaByID handles GET /api/pizzas/{id}
func (h *PizzaHandler) GetPizzaByID(w http.ResponseWriter, r *http.Request) {
	pizza, err := h.service.GetPizzaByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get pizza")
		return
	}

	utils.ResponseSuccess(w, "Pizza retrieved successfully", pizza)
}

// CreatePizza handles POST /api/pizzas (admin)
func (h *PizzaHandler) CreatePizza(w http.ResponseWriter, r *http.Request) {
	var req request.PizzaRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pizza, err := h.service.CreatePizza(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create pizza")
		return
	}

	utils.ResponseCreated(w, "Pizza created successfully", pizza)
}

// UpdatePizza handles PUT /api/pizzas/{id} (admin)
func (h *PizzaHandler) UpdatePizza(w http.ResponseWriter, r *http.Request) {
	var req request.PizzaUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pizza, err := h.service.UpdatePizza(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update pizza")
		return
	}

	utils.ResponseSuccess(w, "Pizza updated successfully", pizza)
}
