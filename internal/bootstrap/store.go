package bootstrap

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"

	"github.com/imageanchor/artaday-backend/config"
	"github.com/imageanchor/artaday-backend/internal/auth"
	"github.com/imageanchor/artaday-backend/internal/daily_art/repository"
	"github.com/imageanchor/artaday-backend/internal/logging"
	"github.com/imageanchor/artaday-backend/internal/storage/postgres"
)

// Resources holds the long-lived clients built from configuration.
type Resources struct {
	Store   repository.EntryStore
	Backend string

	// Auth is nil unless AUTH_REQUIRED is set.
	Auth *fbauth.Client

	closers []func() error
}

// Close releases every client in reverse order of creation.
func (r *Resources) Close() error {
	var firstErr error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	return firstErr
}

// OpenResources connects the configured entry store backend and, when needed, Firebase.
func OpenResources(ctx context.Context, cfg *config.Config) (*Resources, error) {
	res := &Resources{Backend: cfg.Store.Backend}
	logger := logging.NewLogger(ctx)

	var app *firebase.App
	if cfg.Store.Backend == config.StoreFirebase || cfg.Firebase.AuthRequired {
		var err error
		app, err = auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Firebase.AuthRequired {
		client, err := auth.AuthClient(ctx, app)
		if err != nil {
			return nil, err
		}
		res.Auth = client
	}

	switch cfg.Store.Backend {
	case config.StoreFirebase:
		client, err := auth.DatabaseClient(ctx, app, cfg.Firebase.DatabaseURL)
		if err != nil {
			return nil, err
		}
		res.Store = repository.NewFirebaseStore(client, cfg.Firebase.RootPath, cfg.Store.PollInterval)

	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		res.closers = append(res.closers, client.Close)
		res.Store = repository.NewRedisStore(client, cfg.Redis.Stream).WithBlock(time.Second)

	case config.StorePostgres:
		db, err := postgres.NewConnection(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		res.closers = append(res.closers, db.Close)
		store := repository.NewPostgresStore(db, cfg.Store.PollInterval)
		if err := store.EnsureSchema(ctx); err != nil {
			res.Close()
			return nil, err
		}
		res.Store = store
		logger.LogInfof("open_store", "postgres at %s", postgres.URL(&cfg.Database))

	case config.StoreMemory:
		res.Store = repository.NewMemoryStore()

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	logger.LogInfof("open_store", "entry store backend=%s", cfg.Store.Backend)
	return res, nil
}
