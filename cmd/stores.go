package cmd

import (
	"context"
	"errors"
	"fmt"

	"pizza-ordering/internal/data/repository"
	"pizza-ordering/internal/usecase"
	"pizza-ordering/pkg/broker"
	"pizza-ordering/pkg/cache"
	"pizza-ordering/pkg/database"
	"pizza-ordering/pkg/utils"

	"go.uber.org/zap"
)

// closers run in reverse registration order.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) closeAll() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

// openRepository connects postgres (or the in-memory store) and, when
// configured, the mongo delivery archive.
func openRepository(ctx context.Context, config *utils.Config, logger *zap.Logger, migrate bool, cl *closers) (*repository.Repository, error) {
	var repo *repository.Repository

	switch config.Database.Driver {
	case "memory":
		logger.Warn("Using in-memory store; data is lost on restart")
		repo = repository.NewMemoryRepository(logger)

	case "postgres", "":
		db, err := database.InitDB(config.Database)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		cl.add(db.Close)
		logger.Info("Database connected successfully")

		if migrate {
			if err := database.Migrate(ctx, db); err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		repo = repository.NewRepository(db, nil, logger)

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", config.Database.Driver)
	}

	if config.Mongo.URI != "" {
		client, mdb, err := database.InitMongo(ctx, config.Mongo)
		if err != nil {
			return nil, err
		}
		cl.add(func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Warn("Mongo disconnect failed", zap.Error(err))
			}
		})
		if err := repository.EnsureDeliveryEventIndexes(ctx, mdb); err != nil {
			logger.Warn("Failed to ensure delivery event indexes", zap.Error(err))
		}
		repo.DeliveryEvent = repository.NewMongoDeliveryEventRepository(mdb, logger)
		logger.Info("Mongo delivery archive connected", zap.String("database", config.Mongo.Database))
	}

	return repo, nil
}

// buildInfra picks redis and kafka when configured and falls back to the
// in-process cache and a logging publisher.
func buildInfra(ctx context.Context, config *utils.Config, logger *zap.Logger, cl *closers) (usecase.Infra, error) {
	var infra usecase.Infra

	if config.Redis.Addr != "" {
		rc, err := cache.NewRedis(ctx, config.Redis)
		if err != nil {
			return infra, fmt.Errorf("connect redis: %w", err)
		}
		cl.add(func() { _ = rc.Close() })
		infra.Cache = rc
		logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
	} else {
		infra.Cache = cache.NewMemory()
	}

	if len(config.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(config.Kafka.Brokers, config.Kafka.Topic, 1024, logger)
		producer.Start()
		cl.add(func() {
			if err := producer.Close(); err != nil && !errors.Is(err, broker.ErrProducerClosed) {
				logger.Warn("Kafka producer close failed", zap.Error(err))
			}
		})
		infra.Events = producer
		logger.Info("Kafka producer started", zap.Strings("brokers", config.Kafka.Brokers))
	} else {
		infra.Events = broker.NewLogPublisher(logger)
	}

	return infra, nil
}
