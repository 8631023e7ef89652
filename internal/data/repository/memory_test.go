package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"pizza-ordering/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newPizza(name string, price float64, veg bool, created time.Time) *entity.Pizza {
	return &entity.Pizza{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
		Name:         name,
		Price:        price,
		Veg:          veg,
		Available:    true,
		Ingredients:  []string{"Cheese"},
	}
}

func TestMemoryUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository(zap.NewNop())
	ctx := context.Background()

	u := &entity.User{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Email: "a@b.com", Role: entity.RoleUser}
	require.NoError(t, repo.User.Create(ctx, u))

	dup := &entity.User{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, Email: "A@B.com"}
	assert.ErrorIs(t, repo.User.Create(ctx, dup), ErrDuplicate)

	found, err := repo.User.FindByEmail(ctx, "A@b.COM")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.ID, found.ID)

	missing, err := repo.User.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryPizzaRepository_FilterSortPaginate(t *testing.T) {
	repo := NewMemoryRepository(zap.NewNop())
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Pizza.Create(ctx, newPizza("Margherita", 8, true, base)))
	require.NoError(t, repo.Pizza.Create(ctx, newPizza("Pepperoni", 11, false, base.Add(time.Hour))))
	require.NoError(t, repo.Pizza.Create(ctx, newPizza("Veggie Supreme", 10, true, base.Add(2*time.Hour))))

	veg := true
	got, err := repo.Pizza.FindAll(ctx, PizzaFilter{Veg: &veg, Sort: PizzaSortPriceDesc}, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Veggie Supreme", got[0].Name)
	assert.Equal(t, "Margherita", got[1].Name)

	got, err = repo.Pizza.FindAll(ctx, PizzaFilter{Search: "PEPP"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pepperoni", got[0].Name)

	lo, hi := 9.0, 10.5
	total, err := repo.Pizza.CountAll(ctx, PizzaFilter{MinPrice: &lo, MaxPrice: &hi})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	got, err = repo.Pizza.FindAll(ctx, PizzaFilter{Sort: PizzaSortNewest}, 2, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pepperoni", got[0].Name)

	got, err = repo.Pizza.FindAll(ctx, PizzaFilter{}, 10, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemoryOrderRepository_StatusAndStats(t *testing.T) {
	repo := NewMemoryRepository(zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		o := &entity.Order{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now.Add(time.Duration(i) * time.Minute)},
			OrderNumber:  fmt.Sprintf("ORD-%d", i),
			UserID:       userID,
			Status:       entity.StatusPending,
			Pricing:      entity.Pricing{Subtotal: 10, Total: 10},
			Items:        []entity.OrderItem{{ID: uuid.New(), PizzaID: uuid.New(), Quantity: 1, PriceAtOrder: 10, Subtotal: 10}},
		}
		require.NoError(t, repo.Order.Create(ctx, o))
		ids = append(ids, o.ID)
	}

	orders, err := repo.Order.FindAll(ctx, OrderFilter{UserID: &userID}, 10, 0)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, ids[2], orders[0].ID, "newest first")
	assert.Equal(t, orders[0].ID, orders[0].Items[0].OrderID)

	o, err := repo.Order.FindByID(ctx, ids[0])
	require.NoError(t, err)
	require.NoError(t, o.ApplyStatus(entity.StatusCancelled, nil, now))
	require.NoError(t, repo.Order.UpdateStatus(ctx, o, entity.StatusPending, o.StatusHistory))

	err = repo.Order.UpdateStatus(ctx, o, entity.StatusPending, nil)
	assert.ErrorIs(t, err, ErrStaleStatus)

	stats, err := repo.Order.StatsByStatus(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, entity.StatusCancelled, stats[0].Status)
	assert.Equal(t, int64(1), stats[0].Count)
	assert.Equal(t, entity.StatusPending, stats[1].Status)
	assert.Equal(t, int64(2), stats[1].Count)
	assert.InDelta(t, 20.0, stats[1].Revenue, 0.001)
}

func TestMemoryDeliveryEventRepository(t *testing.T) {
	repo := NewMemoryRepository(zap.NewNop())
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.DeliveryEvent.Insert(ctx, &entity.DeliveryEvent{ID: "1", OrderID: "o1", ReceivedAt: now}))
	require.NoError(t, repo.DeliveryEvent.Insert(ctx, &entity.DeliveryEvent{ID: "2", OrderID: "o1", ReceivedAt: now.Add(time.Second)}))
	require.NoError(t, repo.DeliveryEvent.Insert(ctx, &entity.DeliveryEvent{ID: "3", OrderID: "o2", ReceivedAt: now}))

	events, err := repo.DeliveryEvent.FindByOrderID(ctx, "o1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2", events[0].ID)
}
