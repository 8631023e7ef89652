package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          UUID PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		email       VARCHAR(255) NOT NULL UNIQUE,
		address     VARCHAR(500) NOT NULL,
		password    TEXT NOT NULL,
		role        VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS pizzas (
		id          UUID PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(500),
		ingredients TEXT[] NOT NULL DEFAULT '{}',
		price       NUMERIC(10,2) NOT NULL CHECK (price > 0),
		veg         BOOLEAN NOT NULL DEFAULT FALSE,
		available   BOOLEAN NOT NULL DEFAULT TRUE,
		image       TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pizzas_name ON pizzas (name)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                      UUID PRIMARY KEY,
		order_number            VARCHAR(40) NOT NULL UNIQUE,
		user_id                 UUID NOT NULL REFERENCES users(id),
		status                  VARCHAR(20) NOT NULL DEFAULT 'pending',
		delivery_address        JSONB NOT NULL,
		subtotal                NUMERIC(10,2) NOT NULL CHECK (subtotal >= 0),
		tax                     NUMERIC(10,2) NOT NULL CHECK (tax >= 0),
		delivery_fee            NUMERIC(10,2) NOT NULL CHECK (delivery_fee >= 0),
		total                   NUMERIC(10,2) NOT NULL CHECK (total >= 5),
		total_amount            NUMERIC(10,2) NOT NULL CHECK (total_amount > 0),
		payment_status          VARCHAR(20) NOT NULL DEFAULT 'pending',
		special_instructions    VARCHAR(500),
		delivery_notes          VARCHAR(200),
		estimated_delivery_time TIMESTAMPTZ,
		created_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders (status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_created ON orders (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id             UUID PRIMARY KEY,
		order_id       UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		pizza_id       UUID NOT NULL REFERENCES pizzas(id),
		name           VARCHAR(100) NOT NULL,
		quantity       INT NOT NULL CHECK (quantity BETWEEN 1 AND 100),
		price_at_order NUMERIC(10,2) NOT NULL CHECK (price_at_order >= 0),
		subtotal       NUMERIC(10,2) NOT NULL CHECK (subtotal >= 0),
		position       INT NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS order_status_history (
		id         UUID PRIMARY KEY,
		order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		status     VARCHAR(20) NOT NULL,
		updated_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_history_order ON order_status_history (order_id, created_at)`,
}

// Migrate creates tables and indexes. Every statement is idempotent.
func Migrate(ctx context.Context, db PgxIface) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
