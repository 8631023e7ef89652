package repository

import (
	"errors"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleStatus is returned when the stored status no longer matches the
	// status the caller read.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

type Repository struct {
	User          UserRepository
	Pizza         PizzaRepository
	Order         OrderRepository
	DeliveryEvent DeliveryEventRepository
}

// NewRepository wires the postgres repositories. The delivery archive uses
// mongo when mdb is set and an in-process store otherwise.
func NewRepository(db database.PgxIface, mdb *mongo.Database, log *zap.Logger) *Repository {
	var events DeliveryEventRepository
	if mdb != nil {
		events = NewMongoDeliveryEventRepository(mdb, log)
	} else {
		events = newMemoryDeliveryEventRepository()
	}

	return &Repository{
		User:          NewUserRepository(db, log),
		Pizza:         NewPizzaRepository(db, log),
		Order:         NewOrderRepository(db, log),
		DeliveryEvent: events,
	}
}

type PizzaSort string

const (
	PizzaSortName      PizzaSort = "name"
	PizzaSortPriceAsc  PizzaSort = "price"
	PizzaSortPriceDesc PizzaSort = "-price"
	PizzaSortNewest    PizzaSort = "newest"
)

type PizzaFilter struct {
	Veg       *bool
	Available *bool
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	Sort      PizzaSort
}

type OrderFilter struct {
	UserID *uuid.UUID
	Status *entity.OrderStatus
	From   *time.Time
	To     *time.Time
}

// StatusStat aggregates orders of one status.
type StatusStat struct {
	Status  entity.OrderStatus
	Count   int64
	Revenue float64
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
