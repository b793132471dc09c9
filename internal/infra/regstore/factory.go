package regstore

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
	"github.com/avolkov/doorkeeper/internal/infra/config"
)

// New selects a store backend from the configuration, preferring Valkey,
// then Postgres, and falling back to process memory when neither backend is
// configured or reachable. Both the service and the seeding CLI go through
// this factory so they always address the same namespace.
func New(cfg *config.Config, logger *slog.Logger) registry.Store {
	if cfg.Store.Valkey.Enabled {
		if store := newValkeyBackend(cfg, logger); store != nil {
			return store
		}
	}
	if strings.TrimSpace(cfg.Store.Postgres.DSN) != "" {
		if store := newPostgresBackend(cfg, logger); store != nil {
			return store
		}
	}
	logger.Info("no store backend configured, using memory store")
	return NewMemoryStore()
}

func newValkeyBackend(cfg *config.Config, logger *slog.Logger) registry.Store {
	opt, err := valkeyOptions(cfg.Store.Valkey.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back", "error", err)
		return nil
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back", "error", err)
		client.Close()
		return nil
	}
	logger.Info("valkey store enabled", "addr", cfg.Store.Valkey.Addr)
	return NewValkeyStore(client, cfg.Store.KeyPrefix)
}

func newPostgresBackend(cfg *config.Config, logger *slog.Logger) registry.Store {
	poolConfig, err := pgxpool.ParseConfig(cfg.Store.Postgres.DSN)
	if err != nil {
		logger.Error("invalid postgres dsn, falling back", "error", err)
		return nil
	}
	if cfg.Store.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Store.Postgres.MaxConns
	}
	if cfg.Store.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Store.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, falling back", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, falling back", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres store enabled")
	return NewPostgresStore(pool)
}

// Describe names the backend a store was built on, for startup logging.
func Describe(store registry.Store) string {
	switch store.(type) {
	case *ValkeyStore:
		return "valkey"
	case *PostgresStore:
		return "postgres"
	case *MemoryStore:
		return "memory"
	default:
		return "unknown"
	}
}

func valkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
