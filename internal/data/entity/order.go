package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusPreparing      OrderStatus = "preparing"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

var ErrInvalidTransition = errors.New("invalid status transition")

func ParseOrderStatus(s string) (OrderStatus, bool) {
	st := OrderStatus(s)
	_, ok := allowedTransitions[st]
	return st, ok
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// IsFinal reports delivered and cancelled.
func (s OrderStatus) IsFinal() bool {
	next, ok := allowedTransitions[s]
	return ok && len(next) == 0
}

func CanTransition(from, to OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// NextStatuses returns a copy of the statuses reachable in one step.
func NextStatuses(from OrderStatus) []OrderStatus {
	return append([]OrderStatus(nil), allowedTransitions[from]...)
}

// TransitionPath returns the shortest chain of statuses leading from `from`
// to `to`, excluding `from`. ok is false when `to` is unreachable.
func TransitionPath(from, to OrderStatus) ([]OrderStatus, bool) {
	if !from.Valid() || !to.Valid() || from == to {
		return nil, false
	}

	prev := map[OrderStatus]OrderStatus{}
	queue := []OrderStatus{from}
	seen := map[OrderStatus]bool{from: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			break
		}
		for _, next := range allowedTransitions[cur] {
			if seen[next] {
				continue
			}
			seen[next] = true
			prev[next] = cur
			queue = append(queue, next)
		}
	}

	if !seen[to] {
		return nil, false
	}

	var path []OrderStatus
	for s := to; s != from; s = prev[s] {
		path = append([]OrderStatus{s}, path...)
	}
	return path, true
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Pricing struct {
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
	Tax         float64 `db:"tax" json:"tax"`
	DeliveryFee float64 `db:"delivery_fee" json:"delivery_fee"`
	Total       float64 `db:"total" json:"total"`
}

type OrderItem struct {
	ID           uuid.UUID `db:"id"`
	OrderID      uuid.UUID `db:"order_id"`
	PizzaID      uuid.UUID `db:"pizza_id"`
	Name         string    `db:"name"`
	Quantity     int       `db:"quantity"`
	PriceAtOrder float64   `db:"price_at_order"`
	Subtotal     float64   `db:"subtotal"`

	// Pizza is populated only for admin listings.
	Pizza *Pizza `db:"-"`
}

type StatusChange struct {
	ID        uuid.UUID   `db:"id"`
	Status    OrderStatus `db:"status"`
	Timestamp time.Time   `db:"created_at"`
	UpdatedBy *uuid.UUID  `db:"updated_by"`
}

type Order struct {
	BaseNoDelete
	OrderNumber         string          `db:"order_number"`
	UserID              uuid.UUID       `db:"user_id"`
	Items               []OrderItem     `db:"-"`
	Status              OrderStatus     `db:"status"`
	StatusHistory       []StatusChange  `db:"-"`
	EstimatedDelivery   *time.Time      `db:"estimated_delivery_time"`
	DeliveryAddress     DeliveryAddress `db:"delivery_address"`
	Pricing             Pricing
	PaymentStatus       PaymentStatus `db:"payment_status"`
	SpecialInstructions *string       `db:"special_instructions"`
	DeliveryNotes       *string       `db:"delivery_notes"`
	TotalAmount         float64       `db:"total_amount"`

	// User is populated only for admin listings.
	User *User `db:"-"`
}

const (
	prepMinutesPerItem = 15
	deliveryMinutes    = 30
)

// EstimatedDeliveryAt is 15 minutes per line item plus 30 minutes of delivery.
func EstimatedDeliveryAt(from time.Time, itemCount int) time.Time {
	minutes := itemCount*prepMinutesPerItem + deliveryMinutes
	return from.Add(time.Duration(minutes) * time.Minute)
}

// CanBeModified is false once the order is delivered or cancelled.
func (o *Order) CanBeModified() bool {
	return !o.Status.IsFinal()
}

// ApplyStatus moves the order one step along the transition table and records it.
func (o *Order) ApplyStatus(to OrderStatus, by *uuid.UUID, at time.Time) error {
	if !CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	o.Status = to
	o.UpdatedAt = at
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:        uuid.New(),
		Status:    to,
		Timestamp: at,
		UpdatedBy: by,
	})
	return nil
}

func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID == userID
}
