package wire

import (
	"net/http"

	"pizza-ordering/internal/adaptor"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/metrics"
	"pizza-ordering/pkg/middleware"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services behind it.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(repo *repository.Repository, infra usecase.Infra, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, infra, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())

	wireAuth(r, handler.Auth, repo, config, logger)
	wirePizza(r, handler.Pizza, repo, config, logger)
	wireOrder(r, handler.Order, repo, config, logger)
	wireAdmin(r, handler.Admin, repo, config, logger)
	wireWebhook(r, handler.Webhook)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"status": "ok"})
	})
	r.Get("/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})

	return r
}
