package wire

import (
	"pizza-ordering/internal/adaptor"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/middleware"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT.Secret, repo.User, log))

		r.Get("/", orderHandler.ListOrders)
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/mine", orderHandler.MyOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Put("/{id}/cancel", orderHandler.CancelOrder)
		r.Put("/{id}/notes", orderHandler.UpdateDeliveryNotes)
	})
}
