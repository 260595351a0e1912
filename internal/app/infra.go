package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"social-login/internal/config"
	"social-login/internal/db"
	"social-login/internal/logger"
	"social-login/internal/mongo"
	"social-login/internal/redis"
	"social-login/internal/session"
	"social-login/internal/user"

	_ "github.com/lib/pq"
)

type Infra struct {
	Users    user.Store
	Sessions session.Store

	closers []func(context.Context) error
}

func (i *Infra) Close(ctx context.Context) error {
	var errs []error
	for j := len(i.closers) - 1; j >= 0; j-- {
		if err := i.closers[j](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	users, err := setupUserStore(ctx, cfg, infra)
	if err != nil {
		_ = infra.Close(ctx)
		return nil, err
	}
	infra.Users = users

	sessions, err := setupSessionStore(cfg, infra)
	if err != nil {
		_ = infra.Close(ctx)
		return nil, err
	}
	infra.Sessions = sessions

	return infra, nil
}

func setupUserStore(ctx context.Context, cfg config.Config, infra *Infra) (user.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		infra.closers = append(infra.closers, client.Close)

		store, err := user.NewMongoStore(ctx, client.Database())
		if err != nil {
			return nil, err
		}

		logger.Info("mongo ready", map[string]any{"database": cfg.MongoDatabase})
		return store, nil

	case config.StorePostgres:
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		infra.closers = append(infra.closers, func(context.Context) error { return sqlDB.Close() })

		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		if err := db.RunMigration(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		logger.Info("database ready", nil)
		return user.NewPostgresStore(&db.DB{DB: sqlDB}), nil

	default:
		logger.Warn("using in-memory identity store", nil)
		return user.NewMemoryStore(), nil
	}
}

func setupSessionStore(cfg config.Config, infra *Infra) (session.Store, error) {
	if cfg.SessionStore == config.SessionMemory {
		logger.Warn("using in-memory session store", nil)
		return session.NewMemoryStore(), nil
	}

	redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	infra.closers = append(infra.closers, func(context.Context) error { return redisClient.Close() })

	logger.Info("redis ready", nil)

	return session.NewRedisStore(redisClient.Client), nil
}
