package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PizzaRepository interface {
	Create(ctx context.Context, pizza *entity.Pizza) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Pizza, error)
	FindByName(ctx context.Context, name string) (*entity.Pizza, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Pizza, error)
	FindAll(ctx context.Context, filter PizzaFilter, limit, offset int) ([]*entity.Pizza, error)
	CountAll(ctx context.Context, filter PizzaFilter) (int64, error)
	Update(ctx context.Context, pizza *entity.Pizza) error
}

type pizzaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPizzaRepository(db database.PgxIface, log *zap.Logger) PizzaRepository {
	return &pizzaRepository{
		db:  db,
		log: log.With(zap.String("repository", "pizza")),
	}
}

const pizzaColumns = `id, name, description, ingredients, price::float8, veg, available, image, created_at, updated_at`

func scanPizza(row pgx.Row, p *entity.Pizza) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Ingredients,
		&p.Price,
		&p.Veg,
		&p.Available,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *pizzaRepository) Create(ctx context.Context, pizza *entity.Pizza) error {
	query := `
		INSERT INTO pizzas (id, name, description, ingredients, price, veg, available, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	ingredients := pizza.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		pizza.ID,
		pizza.Name,
		pizza.Description,
		ingredients,
		pizza.Price,
		pizza.Veg,
		pizza.Available,
		pizza.Image,
		pizza.CreatedAt,
		pizza.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create pizza %s: %w", pizza.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create pizza",
			zap.Error(err),
			zap.String("name", pizza.Name),
		)
		return fmt.Errorf("create pizza %s: %w", pizza.Name, err)
	}

	return nil
}

func (r *pizzaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Pizza, error) {
	query := `SELECT ` + pizzaColumns + ` FROM pizzas WHERE id = $1`

	var pizza entity.Pizza
	err := scanPizza(r.db.QueryRow(ctx, query, id), &pizza)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pizza by ID",
			zap.Error(err),
			zap.String("pizza_id", id.String()),
		)
		return nil, fmt.Errorf("find pizza %s: %w", id.String(), err)
	}

	return &pizza, nil
}

func (r *pizzaRepository) FindByName(ctx context.Context, name string) (*entity.Pizza, error) {
	query := `SELECT ` + pizzaColumns + ` FROM pizzas WHERE name = $1`

	var pizza entity.Pizza
	err := scanPizza(r.db.QueryRow(ctx, query, name), &pizza)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find pizza by name", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("find pizza %s: %w", name, err)
	}

	return &pizza, nil
}

func (r *pizzaRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.Pizza, error) {
	pizzas := make(map[uuid.UUID]*entity.Pizza, len(ids))
	if len(ids) == 0 {
		return pizzas, nil
	}

	query := `SELECT ` + pizzaColumns + ` FROM pizzas WHERE id = ANY($1::uuid[])`

	rows, err := r.db.Query(ctx, query, uuidStrings(ids))
	if err != nil {
		r.log.Error("Failed to find pizzas by IDs", zap.Error(err), zap.Int("count", len(ids)))
		return nil, fmt.Errorf("find pizzas by IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pizza entity.Pizza
		if err := scanPizza(rows, &pizza); err != nil {
			return nil, fmt.Errorf("scan pizza: %w", err)
		}
		pizzas[pizza.ID] = &pizza
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pizza rows: %w", err)
	}

	return pizzas, nil
}

// buildPizzaWhere appends the filter conditions and returns the next placeholder index.
func buildPizzaWhere(qb *strings.Builder, args *[]interface{}, filter PizzaFilter) int {
	argCount := len(*args) + 1
	qb.WriteString(" WHERE 1=1")

	if filter.Veg != nil {
		qb.WriteString(fmt.Sprintf(" AND veg = $%d", argCount))
		*args = append(*args, *filter.Veg)
		argCount++
	}
	if filter.Available != nil {
		qb.WriteString(fmt.Sprintf(" AND available = $%d", argCount))
		*args = append(*args, *filter.Available)
		argCount++
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		qb.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argCount))
		*args = append(*args, "%"+escapeLike(search)+"%")
		argCount++
	}
	if filter.MinPrice != nil {
		qb.WriteString(fmt.Sprintf(" AND price >= $%d", argCount))
		*args = append(*args, *filter.MinPrice)
		argCount++
	}
	if filter.MaxPrice != nil {
		qb.WriteString(fmt.Sprintf(" AND price <= $%d", argCount))
		*args = append(*args, *filter.MaxPrice)
		argCount++
	}

	return argCount
}

func pizzaOrderBy(sort PizzaSort) string {
	switch sort {
	case PizzaSortPriceAsc:
		return " ORDER BY price ASC, name ASC"
	case PizzaSortPriceDesc:
		return " ORDER BY price DESC, name ASC"
	case PizzaSortNewest:
		return " ORDER BY created_at DESC, name ASC"
	default:
		return " ORDER BY name ASC"
	}
}

func (r *pizzaRepository) FindAll(ctx context.Context, filter PizzaFilter, limit, offset int) ([]*entity.Pizza, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + pizzaColumns + ` FROM pizzas`)

	args := []interface{}{}
	argCount := buildPizzaWhere(&queryBuilder, &args, filter)

	queryBuilder.WriteString(pizzaOrderBy(filter.Sort))
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find pizzas",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find pizzas: %w", err)
	}
	defer rows.Close()

	var pizzas []*entity.Pizza
	for rows.Next() {
		var pizza entity.Pizza
		if err := scanPizza(rows, &pizza); err != nil {
			r.log.Error("Failed to scan pizza row", zap.Error(err))
			return nil, fmt.Errorf("scan pizza: %w", err)
		}
		pizzas = append(pizzas, &pizza)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate pizza rows: %w", err)
	}

	r.log.Debug("Pizzas found",
		zap.Int("count", len(pizzas)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return pizzas, nil
}

func (r *pizzaRepository) CountAll(ctx context.Context, filter PizzaFilter) (int64, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT COUNT(*) FROM pizzas`)

	args := []interface{}{}
	buildPizzaWhere(&queryBuilder, &args, filter)

	var total int64
	if err := r.db.QueryRow(ctx, queryBuilder.String(), args...).Scan(&total); err != nil {
		r.log.Error("Failed to count pizzas", zap.Error(err))
		return 0, fmt.Errorf("count pizzas: %w", err)
	}

	return total, nil
}

func (r *pizzaRepository) Update(ctx context.Context, pizza *entity.Pizza) error {
	query := `
		UPDATE pizzas
		SET name = $2, description = $3, ingredients = $4, price = $5,
		    veg = $6, available = $7, image = $8, updated_at = $9
		WHERE id = $1
	`

	ingredients := pizza.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	result, err := r.db.Exec(ctx, query,
		pizza.ID,
		pizza.Name,
		pizza.Description,
		ingredients,
		pizza.Price,
		pizza.Veg,
		pizza.Available,
		pizza.Image,
		pizza.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("update pizza %s: %w", pizza.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update pizza",
			zap.Error(err),
			zap.String("pizza_id", pizza.ID.String()),
		)
		return fmt.Errorf("update pizza %s: %w", pizza.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("pizza %s not found", pizza.ID.String())
	}

	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
