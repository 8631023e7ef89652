package usecase

import (
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/broker"
	"pizza-ordering/pkg/cache"
	"pizza-ordering/pkg/utils"

	"go.uber.org/zap"
)

// Infra groups the non-database collaborators of the services.
type Infra struct {
	Cache    cache.Cache
	Events   broker.Publisher
	Delivery DeliveryScheduler
}

type Service struct {
	Auth    AuthService
	Pizza   PizzaService
	Order   OrderService
	Admin   AdminService
	Webhook WebhookService
}

func NewService(repo *repository.Repository, infra Infra, config *utils.Config, log *zap.Logger) *Service {
	if infra.Cache == nil {
		infra.Cache = cache.NewMemory()
	}
	if infra.Events == nil {
		infra.Events = broker.NewLogPublisher(log)
	}
	if infra.Delivery == nil {
		infra.Delivery = noopScheduler{}
	}

	orders := NewOrderService(repo, infra, config, log)

	return &Service{
		Auth:    NewAuthService(repo, config, log),
		Pizza:   NewPizzaService(repo, infra.Cache, config, log),
		Order:   orders,
		Admin:   NewAdminService(repo, orders, log),
		Webhook: NewWebhookService(repo, infra, orders, config, log),
	}
}
