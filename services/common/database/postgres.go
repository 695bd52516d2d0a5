package database

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresConfig is the connection part of the service config.
type PostgresConfig struct {
	User     string
	Password string
	DB       string
	Host     string
	Port     string
	SSLMode  string
	TimeZone string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.DB, c.Port, c.SSLMode, c.TimeZone,
	)
}

const (
	connectAttempts = 10
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// ConnectPostgres waits for the database to accept connections, sizes the
// pool and migrates models. The wait grows by two seconds per attempt.
func ConnectPostgres(cfg PostgresConfig, logger *zap.Logger, models ...interface{}) (*gorm.DB, error) {
	c := connector{
		dialector: func() gorm.Dialector { return postgres.Open(cfg.DSN()) },
		attempts:  connectAttempts,
		backoff:   2 * time.Second,
		log:       logger.With(zap.String("host", cfg.Host), zap.String("db", cfg.DB)),
	}
	return c.connect(models...)
}

type connector struct {
	dialector func() gorm.Dialector
	attempts  int
	backoff   time.Duration
	log       *zap.Logger
}

func (c connector) connect(models ...interface{}) (*gorm.DB, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		db, err := c.open()
		if err == nil {
			c.log.Info("Connected to PostgreSQL", zap.Int("attempt", attempt))
			if len(models) > 0 {
				if err := db.AutoMigrate(models...); err != nil {
					return nil, fmt.Errorf("auto migrate: %w", err)
				}
			}
			return db, nil
		}
		lastErr = err
		c.log.Warn("PostgreSQL not ready, retrying", zap.Int("attempt", attempt), zap.Error(err))
		if attempt < c.attempts {
			time.Sleep(time.Duration(attempt) * c.backoff)
		}
	}
	return nil, fmt.Errorf("postgres unreachable after %d attempts: %w", c.attempts, lastErr)
}

func (c connector) open() (*gorm.DB, error) {
	db, err := gorm.Open(c.dialector(), &gorm.Config{TranslateError: true, DisableAutomaticPing: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
