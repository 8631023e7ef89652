package wire

import (
	"pizza-ordering/internal/adaptor"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/middleware"
	"pizza-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	r.Post("/api/auth/signup", authHandler.Signup)
	r.Post("/api/auth/login", authHandler.Login)

	r.With(middleware.Auth(config.JWT.Secret, repo.User, log)).Get("/api/auth/me", authHandler.Me)
}
