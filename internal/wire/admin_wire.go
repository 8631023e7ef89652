package wire

import (
	"pizza-ordering/internal/adaptor"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/middleware"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAdmin(
	r chi.Router,
	adminHandler *adaptor.AdminHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Get("/orders", adminHandler.GetOrders)
		r.Put("/orders/{id}/status", adminHandler.UpdateOrderStatus)
		r.Get("/orders/{id}/delivery-events", adminHandler.GetDeliveryEvents)
		r.Get("/summary", adminHandler.Summary)
		r.Get("/users", adminHandler.GetUsers)
		r.Get("/users/{id}/orders", adminHandler.GetUserOrders)
	})
}
