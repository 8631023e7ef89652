package adaptor

import (
	"pizza-ordering/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Pizza   *PizzaHandler
	Order   *OrderHandler
	Admin   *AdminHandler
	Webhook *WebhookHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Pizza:   NewPizzaHandler(service.Pizza, log),
		Order:   NewOrderHandler(service.Order, log),
		Admin:   NewAdminHandler(service.Admin, log),
		Webhook: NewWebhookHandler(service.Webhook, log),
	}
}
