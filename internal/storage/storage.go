// Package storage provides the durable store for users and messages,
// built on GORM with connection pooling and auto-migration.
package storage

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/noteboard/internal/logger"
)

// Store owns the database handle and the repositories built on it. It is
// constructed once at startup and passed by reference into the collaborators.
type Store struct {
	db  *gorm.DB
	log *logger.Logger

	users    *UserRepo
	messages *MessageRepo
}

// Open connects to the database with retry logic, configures the connection
// pool, and runs auto-migration when enabled.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*Store, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slowThreshold, _ := time.ParseDuration(cfg.SlowQueryThreshold)
	gormCfg := &gorm.Config{
		Logger: newGormLogger(log, slowThreshold),
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("storage: connect canceled: %w", ctx.Err())
		}

		db, err = gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
		if err == nil {
			break
		}

		if attempt < cfg.MaxRetries {
			backoff := time.Duration(attempt) * time.Second
			log.Warn("Database connection attempt failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"error":   err.Error(),
				"backoff": backoff.String(),
			})
			if waitErr := contextSleep(ctx, backoff); waitErr != nil {
				return nil, fmt.Errorf("storage: connect canceled during retry: %w", waitErr)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("storage: connect after %d attempts: %w", cfg.MaxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storage: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	if lifetime, parseErr := time.ParseDuration(cfg.ConnMaxLifetime); parseErr == nil {
		sqlDB.SetConnMaxLifetime(lifetime)
	}

	if cfg.AutoMigrate {
		if err := db.AutoMigrate(&User{}, &Message{}); err != nil {
			return nil, fmt.Errorf("storage: migrate: %w", err)
		}
	}

	log.Info("Database connection established", map[string]interface{}{
		"dsn": cfg.DSN,
	})

	s := &Store{db: db, log: log.WithComponent("storage")}
	s.users = &UserRepo{db: db}
	s.messages = &MessageRepo{db: db}
	return s, nil
}

// Users returns the user repository.
func (s *Store) Users() *UserRepo { return s.users }

// Messages returns the message repository.
func (s *Store) Messages() *MessageRepo { return s.messages }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("storage: underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	s.log.Info("Database connection closed")
	return nil
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("storage: underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// contextSleep waits for the duration or returns early if ctx is canceled.
func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
