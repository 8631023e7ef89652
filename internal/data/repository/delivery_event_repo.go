package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pizza-ordering/internal/data/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const deliveryEventCollection = "delivery_events"

// DeliveryEventRepository archives raw delivery webhook calls.
type DeliveryEventRepository interface {
	Insert(ctx context.Context, event *entity.DeliveryEvent) error
	FindByOrderID(ctx context.Context, orderID string, limit int) ([]*entity.DeliveryEvent, error)
}

type mongoDeliveryEventRepository struct {
	col *mongo.Collection
	log *zap.Logger
}

func NewMongoDeliveryEventRepository(db *mongo.Database, log *zap.Logger) DeliveryEventRepository {
	return &mongoDeliveryEventRepository{
		col: db.Collection(deliveryEventCollection),
		log: log.With(zap.String("repository", "delivery_event")),
	}
}

// EnsureDeliveryEventIndexes creates the order_id + received_at index.
func EnsureDeliveryEventIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(deliveryEventCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "received_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create delivery event index: %w", err)
	}
	return nil
}

func (r *mongoDeliveryEventRepository) Insert(ctx context.Context, event *entity.DeliveryEvent) error {
	if _, err := r.col.InsertOne(ctx, event); err != nil {
		r.log.Error("Failed to archive delivery event",
			zap.Error(err),
			zap.String("order_id", event.OrderID),
		)
		return fmt.Errorf("insert delivery event: %w", err)
	}
	return nil
}

func (r *mongoDeliveryEventRepository) FindByOrderID(ctx context.Context, orderID string, limit int) ([]*entity.DeliveryEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"order_id": orderID}, opts)
	if err != nil {
		r.log.Error("Failed to find delivery events", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("find delivery events: %w", err)
	}
	defer cur.Close(ctx)

	events := []*entity.DeliveryEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("decode delivery events: %w", err)
	}
	return events, nil
}

type memoryDeliveryEventRepository struct {
	mu     sync.RWMutex
	events []entity.DeliveryEvent
}

func newMemoryDeliveryEventRepository() *memoryDeliveryEventRepository {
	return &memoryDeliveryEventRepository{}
}

func (r *memoryDeliveryEventRepository) Insert(_ context.Context, event *entity.DeliveryEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *event)
	return nil
}

func (r *memoryDeliveryEventRepository) FindByOrderID(_ context.Context, orderID string, limit int) ([]*entity.DeliveryEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*entity.DeliveryEvent{}
	for i := range r.events {
		if r.events[i].OrderID == orderID {
			ev := r.events[i]
			out = append(out, &ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
