package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/dto/request"
	"pizza-ordering/internal/dto/response"
	"pizza-ordering/pkg/cache"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PizzaService interface {
	GetPizzas(ctx context.Context, query *request.PizzaQuery) (*response.PaginatedResponse[response.PizzaResponse], error)
	GetPizzaByID(ctx context.Context, pizzaID string) (*response.PizzaResponse, error)
	CreatePizza(ctx context.Context, req *request.PizzaRequest) (*response.PizzaResponse, error)
	UpdatePizza(ctx context.Context, pizzaID string, req *request.PizzaUpdateRequest) (*response.PizzaResponse, error)
}

type pizzaService struct {
	repo     *repository.Repository
	cache    cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewPizzaService(repo *repository.Repository, c cache.Cache, config *utils.Config, log *zap.Logger) PizzaService {
	ttl := config.Redis.PizzaCacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &pizzaService{
		repo:     repo,
		cache:    c,
		cacheTTL: ttl,
		log:      log.With(zap.String("service", "pizza")),
	}
}

func listingFingerprint(q *request.PizzaQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "p=%d&n=%d&s=%s&q=%s", q.Page, q.Limit(), q.Sort, strings.ToLower(strings.TrimSpace(q.Search)))
	if q.Veg != nil {
		fmt.Fprintf(&b, "&veg=%t", *q.Veg)
	}
	if q.Available != nil {
		fmt.Fprintf(&b, "&av=%t", *q.Available)
	}
	if q.MinPrice != nil {
		fmt.Fprintf(&b, "&min=%g", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		fmt.Fprintf(&b, "&max=%g", *q.MaxPrice)
	}
	return b.String()
}

func (s *pizzaService) GetPizzas(ctx context.Context, query *request.PizzaQuery) (*response.PaginatedResponse[response.PizzaResponse], error) {
	if errs := utils.ValidateStruct(query); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}
	if query.MinPrice != nil && query.MaxPrice != nil && *query.MinPrice > *query.MaxPrice {
		return nil, invalid("min_price cannot be greater than max_price")
	}
	if query.Page < 1 {
		query.Page = 1
	}

	key := cache.PizzaListKey(listingFingerprint(query))
	var cached response.PaginatedResponse[response.PizzaResponse]
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.log.Warn("Pizza cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	filter := repository.PizzaFilter{
		Veg:       query.Veg,
		Available: query.Available,
		Search:    query.Search,
		MinPrice:  query.MinPrice,
		MaxPrice:  query.MaxPrice,
		Sort:      repository.PizzaSort(query.Sort),
	}

	pizzas, err := s.repo.Pizza.FindAll(ctx, filter, query.Limit(), query.Offset())
	if err != nil {
		return nil, failed("Failed to fetch pizzas", err)
	}
	total, err := s.repo.Pizza.CountAll(ctx, filter)
	if err != nil {
		return nil, failed("Failed to fetch pizzas", err)
	}

	data := make([]response.PizzaResponse, 0, len(pizzas))
	for _, p := range pizzas {
		data = append(data, toPizzaResponse(p))
	}
	result := response.NewPaginatedResponse(data, query.Page, query.Limit(), total)

	if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
		s.log.Warn("Pizza cache write failed", zap.Error(err))
	}

	return result, nil
}

func (s *pizzaService) GetPizzaByID(ctx context.Context, pizzaID string) (*response.PizzaResponse, error) {
	id, err := uuid.Parse(pizzaID)
	if err != nil {
		return nil, invalid("Invalid pizza ID")
	}

	pizza, err := s.repo.Pizza.FindByID(ctx, id)
	if err != nil {
		return nil, failed("Failed to fetch pizza", err)
	}
	if pizza == nil {
		return nil, notFound("Pizza not found")
	}

	resp := toPizzaResponse(pizza)
	return &resp, nil
}

func (s *pizzaService) CreatePizza(ctx context.Context, req *request.PizzaRequest) (*response.PizzaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}

	now := time.Now()
	pizza := &entity.Pizza{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Ingredients: req.Ingredients,
		Price:       utils.RoundMoney(req.Price),
		Available:   true,
		Image:       req.Image,
	}
	if req.Veg != nil {
		pizza.Veg = *req.Veg
	}
	if req.Available != nil {
		pizza.Available = *req.Available
	}

	if err := s.repo.Pizza.Create(ctx, pizza); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("A pizza with this name already exists")
		}
		return nil, failed("Failed to create pizza", err)
	}

	s.invalidateListing(ctx)
	s.log.Info("Pizza created",
		zap.String("pizza_id", pizza.ID.String()),
		zap.String("name", pizza.Name),
		zap.Float64("price", pizza.Price))

	resp := toPizzaResponse(pizza)
	return &resp, nil
}

// UpdatePizza applies a partial update. Existing orders keep their price snapshot.
func (s *pizzaService) UpdatePizza(ctx context.Context, pizzaID string, req *request.PizzaUpdateRequest) (*response.PizzaResponse, error) {
	id, err := uuid.Parse(pizzaID)
	if err != nil {
		return nil, invalid("Invalid pizza ID")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidFields("Validation failed", errs)
	}

	pizza, err := s.repo.Pizza.FindByID(ctx, id)
	if err != nil {
		return nil, failed("Failed to update pizza", err)
	}
	if pizza == nil {
		return nil, notFound("Pizza not found")
	}

	if req.Name != nil {
		pizza.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		pizza.Description = req.Description
	}
	if req.Ingredients != nil {
		pizza.Ingredients = req.Ingredients
	}
	if req.Price != nil {
		pizza.Price = utils.RoundMoney(*req.Price)
	}
	if req.Veg != nil {
		pizza.Veg = *req.Veg
	}
	if req.Available != nil {
		pizza.Available = *req.Available
	}
	if req.Image != nil {
		pizza.Image = req.Image
	}
	pizza.UpdatedAt = time.Now()

	if err := s.repo.Pizza.Update(ctx, pizza); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("A pizza with this name already exists")
		}
		return nil, failed("Failed to update pizza", err)
	}

	s.invalidateListing(ctx)

	resp := toPizzaResponse(pizza)
	return &resp, nil
}

func (s *pizzaService) invalidateListing(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, cache.PrefixPizzaList); err != nil {
		s.log.Warn("Failed to invalidate pizza cache", zap.Error(err))
	}
}

func toPizzaResponse(p *entity.Pizza) response.PizzaResponse {
	ingredients := p.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return response.PizzaResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Ingredients: ingredients,
		Price:       p.Price,
		Veg:         p.Veg,
		Available:   p.Available,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
