package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/config"
	repo "github.com/oksasatya/health-referral-api/internal/domain/repository"
	"github.com/oksasatya/health-referral-api/internal/infrastructure/memory"
	"github.com/oksasatya/health-referral-api/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/health-referral-api/internal/infrastructure/postgres"
)

// Stores are the user and case repositories for one driver plus a func releasing their connections.
type Stores struct {
	Users repo.UserRepository
	Cases repo.CaseRepository
	Close func()
}

// OpenStores connects the driver named by cfg.StoreDriver. Mongo and Postgres
// create their unique email/cnic guards here (indexes or migrations).
func OpenStores(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		db := client.Database(cfg.MongoDatabase)
		users, err := mongodb.NewUserRepository(ctx, db)
		if err != nil {
			closeFn()
			return nil, fmt.Errorf("mongo users: %w", err)
		}
		cases, err := mongodb.NewCaseRepository(ctx, db)
		if err != nil {
			closeFn()
			return nil, fmt.Errorf("mongo cases: %w", err)
		}
		logger.WithField("database", cfg.MongoDatabase).Info("mongo store ready")
		return &Stores{Users: users, Cases: cases, Close: closeFn}, nil

	case config.StorePostgres:
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.WithField("database", cfg.DBName).Info("postgres store ready")
		return &Stores{
			Users: pginfra.NewUserRepository(pool),
			Cases: pginfra.NewCaseRepository(pool),
			Close: pool.Close,
		}, nil

	case config.StoreMemory:
		logger.Warn("memory store in use; data is lost on restart")
		return &Stores{Users: memory.NewUserRepository(), Cases: memory.NewCaseRepository(), Close: func() {}}, nil

	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
