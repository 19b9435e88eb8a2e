package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfsync/book-catalog/internal/api/handler"
	"github.com/shelfsync/book-catalog/internal/core/ports"
	"github.com/shelfsync/book-catalog/internal/infrastructure/config"
	"github.com/shelfsync/book-catalog/internal/infrastructure/db/memory"
	mongorepo "github.com/shelfsync/book-catalog/internal/infrastructure/db/mongo"
	pgrepo "github.com/shelfsync/book-catalog/internal/infrastructure/db/postgres"
	redisrepo "github.com/shelfsync/book-catalog/internal/infrastructure/db/redis"
	"github.com/shelfsync/book-catalog/internal/infrastructure/seed"
)

// backends groups the repositories selected by configuration together with
// their readiness probes and shutdown hooks.
type backends struct {
	books   ports.BookRepository
	users   ports.AuthRepository
	audit   ports.AuditRepository
	revoked ports.RevocationStore
	checks  map[string]handler.CheckFunc
	closers []func(context.Context) error
}

func (b *backends) close(ctx context.Context, log zerolog.Logger) {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](ctx); err != nil {
			log.Warn().Err(err).Msg("closing backend")
		}
	}
}

func openBackends(ctx context.Context, cfg *config.Config, data seed.Data, log zerolog.Logger) (*backends, error) {
	b := &backends{checks: make(map[string]handler.CheckFunc)}

	if err := b.openStore(ctx, cfg, data); err != nil {
		b.close(ctx, log)
		return nil, err
	}
	if err := b.openRevocation(ctx, cfg); err != nil {
		b.close(ctx, log)
		return nil, err
	}

	log.Info().
		Str("store", cfg.StoreBackend).
		Str("revocation", cfg.RevocationBackend).
		Int("books_seeded", len(data.Books)).
		Msg("backends ready")
	return b, nil
}

func (b *backends) openStore(ctx context.Context, cfg *config.Config, data seed.Data) error {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		conn, err := mongorepo.Connect(ctx, mongorepo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, conn.Close)
		b.checks["mongodb"] = conn.Ping
		db := conn.Database()

		books := mongorepo.NewBookRepository(db)
		if err := books.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo indexes: %w", err)
		}
		if err := books.Seed(ctx, data.Books); err != nil {
			return fmt.Errorf("mongo seed books: %w", err)
		}
		users := mongorepo.NewAuthRepository(db)
		if err := users.SeedRoster(ctx, data.Users); err != nil {
			return fmt.Errorf("mongo seed roster: %w", err)
		}
		b.books, b.users, b.audit = books, users, mongorepo.NewAuditRepository(db)
		return nil

	case config.BackendPostgres:
		db, err := pgrepo.Open(cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("postgres handle: %w", err)
		}
		b.closers = append(b.closers, func(context.Context) error { return sqlDB.Close() })
		b.checks["postgres"] = sqlDB.PingContext

		books := pgrepo.NewBookRepository(db)
		if err := books.Seed(ctx, data.Books); err != nil {
			return fmt.Errorf("postgres seed books: %w", err)
		}
		b.books, b.audit = books, pgrepo.NewAuditRepository(db)
	default:
		b.books = memory.NewBookRepository(data.Books)
		b.audit = memory.NewAuditRepository()
	}

	// Postgres and memory keep the roster in process.
	users, err := memory.NewAuthRepository(data.Users, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("build roster: %w", err)
	}
	b.users = users
	return nil
}

func (b *backends) openRevocation(ctx context.Context, cfg *config.Config) error {
	if cfg.RevocationBackend != config.BackendRedis {
		b.revoked = memory.NewRevocationStore()
		return nil
	}

	client, err := redisrepo.Connect(ctx, redisrepo.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	b.closers = append(b.closers, func(context.Context) error { return client.Close() })
	b.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	b.revoked = redisrepo.NewRevocationStore(client)
	return nil
}
