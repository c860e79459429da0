package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/noteboard/internal/authz"
	"github.com/kbukum/noteboard/internal/config"
	"github.com/kbukum/noteboard/internal/logger"
	"github.com/kbukum/noteboard/internal/password"
	"github.com/kbukum/noteboard/internal/server"
	"github.com/kbukum/noteboard/internal/storage"
	"github.com/kbukum/noteboard/internal/token"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault("noteboard").Fatal("failed to load configuration", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("service exited with error", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("failed to close storage", map[string]interface{}{
				logger.FieldError: cerr.Error(),
			})
		}
	}()

	tokens, err := token.NewService(&cfg.Session)
	if err != nil {
		return err
	}

	gates := authz.NewEngine(authz.NewResolver(tokens), store.Users(), store.Messages(), log)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterHealth(cfg.Name, store.Ping)

	handler := server.NewHandler(store.Users(), store.Messages(), tokens, password.NewBcryptHasher(), gates, log)
	handler.Register(srv.GinEngine())

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("service started", map[string]interface{}{
		"addr":        srv.Addr(),
		"environment": cfg.Environment,
		"version":     cfg.Version,
	})

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
