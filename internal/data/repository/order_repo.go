package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type OrderRepository interface {
	// Create stores the order with its items and initial history in one transaction.
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	FindAll(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error)
	CountAll(ctx context.Context, filter OrderFilter) (int64, error)

	// UpdateStatus persists order.Status and appends changes to the history,
	// provided the stored status still equals from. Otherwise ErrStaleStatus.
	UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus, changes []entity.StatusChange) error
	UpdateDeliveryNotes(ctx context.Context, id uuid.UUID, notes *string, at time.Time) error

	StatsByStatus(ctx context.Context, from, to *time.Time) ([]StatusStat, error)
}

type orderRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOrderRepository(db database.PgxIface, log *zap.Logger) OrderRepository {
	return &orderRepository{
		db:  db,
		log: log.With(zap.String("repository", "order")),
	}
}

const orderColumns = `
	id, order_number, user_id, status, delivery_address,
	subtotal::float8, tax::float8, delivery_fee::float8, total::float8, total_amount::float8,
	payment_status, special_instructions, delivery_notes, estimated_delivery_time,
	created_at, updated_at`

func scanOrder(row pgx.Row, o *entity.Order) error {
	var address []byte
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&address,
		&o.Pricing.Subtotal,
		&o.Pricing.Tax,
		&o.Pricing.DeliveryFee,
		&o.Pricing.Total,
		&o.TotalAmount,
		&o.PaymentStatus,
		&o.SpecialInstructions,
		&o.DeliveryNotes,
		&o.EstimatedDelivery,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(address, &o.DeliveryAddress); err != nil {
		return fmt.Errorf("decode delivery address: %w", err)
	}
	return nil
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	address, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return fmt.Errorf("encode delivery address: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, order_number, user_id, status, delivery_address,
		                    subtotal, tax, delivery_fee, total, total_amount,
		                    payment_status, special_instructions, delivery_notes,
		                    estimated_delivery_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		order.ID,
		order.OrderNumber,
		order.UserID,
		order.Status,
		address,
		order.Pricing.Subtotal,
		order.Pricing.Tax,
		order.Pricing.DeliveryFee,
		order.Pricing.Total,
		order.TotalAmount,
		order.PaymentStatus,
		order.SpecialInstructions,
		order.DeliveryNotes,
		order.EstimatedDelivery,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create order %s: %w", order.OrderNumber, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create order",
			zap.Error(err),
			zap.String("order_number", order.OrderNumber),
			zap.String("user_id", order.UserID.String()),
		)
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}

	for i, item := range order.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, pizza_id, name, quantity, price_at_order, subtotal, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, item.ID, order.ID, item.PizzaID, item.Name, item.Quantity, item.PriceAtOrder, item.Subtotal, i)
		if err != nil {
			r.log.Error("Failed to create order item",
				zap.Error(err),
				zap.String("order_id", order.ID.String()),
				zap.String("pizza_id", item.PizzaID.String()),
			)
			return fmt.Errorf("create order item %d: %w", i, err)
		}
	}

	if err := insertHistory(ctx, tx, order.ID, order.StatusHistory); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func insertHistory(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, changes []entity.StatusChange) error {
	for _, ch := range changes {
		_, err := tx.Exec(ctx, `
			INSERT INTO order_status_history (id, order_id, status, updated_by, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, ch.ID, orderID, ch.Status, ch.UpdatedBy, ch.Timestamp)
		if err != nil {
			return fmt.Errorf("insert status history %s: %w", ch.Status, err)
		}
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order entity.Order
	err := scanOrder(r.db.QueryRow(ctx, query, id), &order)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find order by ID",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return nil, fmt.Errorf("find order %s: %w", id.String(), err)
	}

	if err := r.loadChildren(ctx, []*entity.Order{&order}); err != nil {
		return nil, err
	}

	return &order, nil
}

func buildOrderWhere(qb *strings.Builder, args *[]interface{}, filter OrderFilter) int {
	argCount := len(*args) + 1
	qb.WriteString(" WHERE 1=1")

	if filter.UserID != nil {
		qb.WriteString(fmt.Sprintf(" AND user_id = $%d", argCount))
		*args = append(*args, *filter.UserID)
		argCount++
	}
	if filter.Status != nil {
		qb.WriteString(fmt.Sprintf(" AND status = $%d", argCount))
		*args = append(*args, string(*filter.Status))
		argCount++
	}
	if filter.From != nil {
		qb.WriteString(fmt.Sprintf(" AND created_at >= $%d", argCount))
		*args = append(*args, *filter.From)
		argCount++
	}
	if filter.To != nil {
		qb.WriteString(fmt.Sprintf(" AND created_at <= $%d", argCount))
		*args = append(*args, *filter.To)
		argCount++
	}

	return argCount
}

// FindAll returns orders newest first, items and history included.
func (r *orderRepository) FindAll(ctx context.Context, filter OrderFilter, limit, offset int) ([]*entity.Order, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + ` FROM orders`)

	args := []interface{}{}
	argCount := buildOrderWhere(&queryBuilder, &args, filter)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find orders",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer rows.Close()

	orders := []*entity.Order{}
	for rows.Next() {
		var order entity.Order
		if err := scanOrder(rows, &order); err != nil {
			r.log.Error("Failed to scan order row", zap.Error(err))
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	rows.Close()

	if err := r.loadChildren(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// loadChildren fills Items and StatusHistory with one query each.
func (r *orderRepository) loadChildren(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*entity.Order, len(orders))
	ids := make([]uuid.UUID, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, pizza_id, name, quantity, price_at_order::float8, subtotal::float8
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position
	`, uuidStrings(ids))
	if err != nil {
		r.log.Error("Failed to load order items", zap.Error(err))
		return fmt.Errorf("load order items: %w", err)
	}
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.PizzaID, &item.Name,
			&item.Quantity, &item.PriceAtOrder, &item.Subtotal); err != nil {
			rows.Close()
			return fmt.Errorf("scan order item: %w", err)
		}
		if o := byID[item.OrderID]; o != nil {
			o.Items = append(o.Items, item)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate order items: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT id, order_id, status, updated_by, created_at
		FROM order_status_history
		WHERE order_id = ANY($1::uuid[])
		ORDER BY created_at, id
	`, uuidStrings(ids))
	if err != nil {
		r.log.Error("Failed to load status history", zap.Error(err))
		return fmt.Errorf("load status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ch      entity.StatusChange
			orderID uuid.UUID
		)
		if err := rows.Scan(&ch.ID, &orderID, &ch.Status, &ch.UpdatedBy, &ch.Timestamp); err != nil {
			return fmt.Errorf("scan status history: %w", err)
		}
		if o := byID[orderID]; o != nil {
			o.StatusHistory = append(o.StatusHistory, ch)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate status history: %w", err)
	}

	return nil
}

func (r *orderRepository) CountAll(ctx context.Context, filter OrderFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM orders`)

	args := []interface{}{}
	buildOrderWhere(&queryBuilder, &args, filter)

	var total int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&total); err != nil {
		r.log.Error("Failed to count orders", zap.Error(err))
		return 0, fmt.Errorf("count orders: %w", err)
	}

	return total, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, order *entity.Order, from entity.OrderStatus, changes []entity.StatusChange) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update status: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`, order.ID, order.Status, order.UpdatedAt, from)
	if err != nil {
		r.log.Error("Failed to update order status",
			zap.Error(err),
			zap.String("order_id", order.ID.String()),
			zap.String("status", string(order.Status)),
		)
		return fmt.Errorf("update order %s status: %w", order.ID.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("update order %s: %w", order.ID.String(), ErrStaleStatus)
	}

	if err := insertHistory(ctx, tx, order.ID, changes); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update status: %w", err)
	}
	return nil
}

func (r *orderRepository) UpdateDeliveryNotes(ctx context.Context, id uuid.UUID, notes *string, at time.Time) error {
	result, err := r.db.Exec(ctx,
		`UPDATE orders SET delivery_notes = $2, updated_at = $3 WHERE id = $1`,
		id, notes, at)
	if err != nil {
		r.log.Error("Failed to update delivery notes",
			zap.Error(err),
			zap.String("order_id", id.String()),
		)
		return fmt.Errorf("update order %s notes: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("order %s not found", id.String())
	}
	return nil
}

func (r *orderRepository) StatsByStatus(ctx context.Context, from, to *time.Time) ([]StatusStat, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT status, COUNT(*), COALESCE(SUM(total), 0)::float8 FROM orders`)

	args := []interface{}{}
	buildOrderWhere(&queryBuilder, &args, OrderFilter{From: from, To: to})
	queryBuilder.WriteString(" GROUP BY status ORDER BY status")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to aggregate orders", zap.Error(err))
		return nil, fmt.Errorf("order stats: %w", err)
	}
	defer rows.Close()

	var stats []StatusStat
	for rows.Next() {
		var s StatusStat
		if err := rows.Scan(&s.Status, &s.Count, &s.Revenue); err != nil {
			return nil, fmt.Errorf("scan order stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order stats: %w", err)
	}

	return stats, nil
}
