// Command catalogd serves the book catalog API.
//
// @title                       Book Catalog API
// @version                     1.0
// @description                 Book catalog record store with a token-gated mutation API.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shelfsync/book-catalog/internal/api"
	"github.com/shelfsync/book-catalog/internal/core/service"
	"github.com/shelfsync/book-catalog/internal/infrastructure/config"
	"github.com/shelfsync/book-catalog/internal/infrastructure/queue"
	"github.com/shelfsync/book-catalog/internal/infrastructure/seed"
	"github.com/shelfsync/book-catalog/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "catalogd:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalogd",
	})

	data, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}

	store, err := openBackends(ctx, cfg, data, logger.For("backends"))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		store.close(closeCtx, log)
	}()

	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, store.audit, logger.For("audit"))
	books := service.NewBookService(store.books, logger.For("books"),
		service.WithLatency(cfg.StoreLatency),
		service.WithAudit(dispatcher),
	)
	auth := service.NewAuthService(store.users, store.revoked, cfg.JWTSecret, cfg.TokenTTL, logger.For("auth"))

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(api.Deps{
			Books:  books,
			Auth:   auth,
			Logger: logger.For("http"),
			Checks: store.checks,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Workers keep draining until the server has stopped accepting mutations.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	dispatcher.Start(workerCtx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.StoreBackend).Msg("catalog server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		stopWorkers()
		dispatcher.Wait()
		log.Info().Msg("audit dispatcher drained")
		return err
	})

	return g.Wait()
}
