// Package cache provides the key/value store behind the pizza listing cache
// and webhook de-duplication. Redis in production, an in-process map otherwise.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Key layouts.
const (
	// pizzas:list:{query hash} -> cached listing page
	KeyPizzaList    = "pizzas:list:%s"
	PrefixPizzaList = "pizzas:list:"

	// dedup:webhook:{order_id}:{status}:{timestamp}
	KeyWebhookDedup = "dedup:webhook:%s"
)

var TTLDedup = 48 * time.Hour

type Cache interface {
	// Get unmarshals the cached JSON value into dest and reports a hit.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// SetNX stores key only when absent and reports whether it was stored.
	SetNX(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

func PizzaListKey(fingerprint string) string {
	return fmt.Sprintf(KeyPizzaList, fingerprint)
}

func WebhookDedupKey(id string) string {
	return fmt.Sprintf(KeyWebhookDedup, id)
}
