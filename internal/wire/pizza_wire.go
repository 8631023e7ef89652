package wire

import (
	"pizza-ordering/internal/adaptor"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/middleware"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePizza(
	r chi.Router,
	pizzaHandler *adaptor.PizzaHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Route("/api/pizzas", func(r chi.Router) {
		// public menu
		r.Get("/", pizzaHandler.GetPizzas)
		r.Get("/{id}", pizzaHandler.GetPizzaByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(config.JWT.Secret, repo.User, log))
			r.Use(middleware.Admin(log))

			r.Post("/", pizzaHandler.CreatePizza)
			r.Put("/{id}", pizzaHandler.UpdatePizza)
		})
	})
}
