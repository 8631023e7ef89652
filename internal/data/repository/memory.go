package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pizza-ordering/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewMemoryRepository backs every repository with process memory. Used for
// DB_DRIVER=memory and in tests.
func NewMemoryRepository(log *zap.Logger) *Repository {
	return &Repository{
		User:          &memoryUserRepository{users: map[uuid.UUID]entity.User{}},
		Pizza:         &memoryPizzaRepository{pizzas: map[uuid.UUID]entity.Pizza{}},
		Order:         &memoryOrderRepository{orders: map[uuid.UUID]*entity.Order{}},
		DeliveryEvent: newMemoryDeliveryEventRepository(),
	}
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ---------------- users ----------------

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]entity.User
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *memoryUserRepository) sorted() []*entity.User {
	users := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() > users[j].ID.String()
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users
}

func (r *memoryUserRepository) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.sorted(), limit, offset), nil
}

func (r *memoryUserRepository) CountAll(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *memoryUserRepository) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID.String())
	}
	for id, u := range r.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("update user %s: %w", user.ID.String(), ErrDuplicate)
		}
	}
	r.users[user.ID] = *user
	return nil
}

// ---------------- pizzas ----------------

type memoryPizzaRepository struct {
	mu     sync.RWMutex
	pizzas map[uuid.UUID]entity.Pizza
}

func clonePizza(p entity.Pizza) *entity.Pizza {
	p.Ingredients = append([]string(nil), p.Ingredients...)
	return &p
}

func (r *memoryPizzaRepository) Create(_ context.Context, pizza *entity.Pizza) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pizzas {
		if p.Name == pizza.Name {
			return fmt.Errorf("create pizza %s: %w", pizza.Name, ErrDuplicate)
		}
	}
	r.pizzas[pizza.ID] = *clonePizza(*pizza)
	return nil
}

func (r *memoryPizzaRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Pizza, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pizzas[id]
	if !ok {
		return nil, nil
	}
	return clonePizza(p), nil
}

func (r *memoryPizzaRepository) FindByName(_ context.Context, name string) (*entity.Pizza, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.pizzas {
		if p.Name == name {
			return clonePizza(p), nil
		}
	}
	return nil, nil
}

func (r *memoryPizzaRepository) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Pizza, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*entity.Pizza, len(ids))
	for _, id := range ids {
		if p, ok := r.pizzas[id]; ok {
			out[id] = clonePizza(p)
		}
	}
	return out, nil
}

func matchPizza(p entity.Pizza, f PizzaFilter) bool {
	if f.Veg != nil && p.Veg != *f.Veg {
		return false
	}
	if f.Available != nil && p.Available != *f.Available {
		return false
	}
	if s := strings.TrimSpace(f.Search); s != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(s)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	return true
}

func (r *memoryPizzaRepository) filtered(f PizzaFilter) []*entity.Pizza {
	out := []*entity.Pizza{}
	for _, p := range r.pizzas {
		if matchPizza(p, f) {
			out = append(out, clonePizza(p))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case PizzaSortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case PizzaSortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case PizzaSortNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		}
		return a.Name < b.Name
	})
	return out
}

func (r *memoryPizzaRepository) FindAll(_ context.Context, filter PizzaFilter, limit, offset int) ([]*entity.Pizza, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.filtered(filter), limit, offset), nil
}

func (r *memoryPizzaRepository) CountAll(_ context.Context, filter PizzaFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *memoryPizzaRepository) Update(_ context.Context, pizza *entity.Pizza) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pizzas[pizza.ID]; !ok {
		return fmt.Errorf("pizza %s not found", pizza.ID.String())
	}
	for id, p := range r.pizzas {
		if id != pizza.ID && p.Name == pizza.Name {
			return fmt.Errorf("update pizza %s: %w", pizza.Name, ErrDuplicate)
		}
	}
	r.pizzas[pizza.ID] = *clonePizza(*pizza)
	return nil
}

// ---------------- orders ----------------

type memoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*entity.Order
}

func cloneOrder(o *entity.Order) *entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	for i := range c.Items {
		c.Items[i].Pizza = nil
	}
	c.StatusHistory = append([]entity.StatusChange(nil), o.StatusHistory...)
	c.User = nil
	return &c
}

func (r *memoryOrderRepository) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.orders {
		if o.OrderNumber == order.OrderNumber {
			return fmt.Errorf("create order %s: %w", order.OrderNumber, ErrDuplicate)
		}
	}
	stored := cloneOrder(order)
	for i := range stored.Items {
		stored.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = stored
	return nil
}

func (r *memoryOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func matchOrder(o *entity.Order, f OrderFilter) bool {
	if f.UserID != nil && o.UserID != *f.UserID {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func (r *memoryOrderRepository) filtered(f OrderFilter) []*entity.Order {
	out := []*entity.Order{}
	for _, o := range r.orders {
		if matchOrder(o, f) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *memoryOrderRepository) FindAll(_ context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(r.filtered(filter), limit, offset), nil
}

func (r *memoryOrderRepository) CountAll(_ context.Context, filter OrderFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.filtered(filter))), nil
}

func (r *memoryOrderRepository) UpdateStatus(_ context.Context, order *entity.Order, from entity.OrderStatus, changes []entity.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return fmt.Errorf("order %s not found", order.ID.String())
	}
	if stored.Status != from {
		return fmt.Errorf("update order %s: %w", order.ID.String(), ErrStaleStatus)
	}

	stored.Status = order.Status
	stored.UpdatedAt = order.UpdatedAt
	stored.StatusHistory = append(stored.StatusHistory, changes...)
	return nil
}

func (r *memoryOrderRepository) UpdateDeliveryNotes(_ context.Context, id uuid.UUID, notes *string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id.String())
	}
	if notes != nil {
		n := *notes
		notes = &n
	}
	stored.DeliveryNotes = notes
	stored.UpdatedAt = at
	return nil
}

func (r *memoryOrderRepository) StatsByStatus(_ context.Context, from, to *time.Time) ([]StatusStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := map[entity.OrderStatus]*StatusStat{}
	for _, o := range r.orders {
		if !matchOrder(o, OrderFilter{From: from, To: to}) {
			continue
		}
		s, ok := byStatus[o.Status]
		if !ok {
			s = &StatusStat{Status: o.Status}
			byStatus[o.Status] = s
		}
		s.Count++
		s.Revenue += o.Pricing.Total
	}

	stats := make([]StatusStat, 0, len(byStatus))
	for _, s := range byStatus {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Status < stats[j].Status })
	return stats, nil
}
