package db

import (
	"database/sql"
	"fmt"
	"go-shop-api/config"
	"go-shop-api/logger"
	"time"

	_ "github.com/lib/pq"
)

const (
	maxOpenConns    = 25
	connMaxLifetime = 5 * time.Minute
)

func dsn(includePassword bool) string {
	cfg := config.AppConfig.Database
	s := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Name)
	if includePassword {
		s += fmt.Sprintf(" password=%s", cfg.Password)
	}
	return s
}

// Connect opens the postgres pool and verifies it with a ping.
func Connect() (*sql.DB, error) {
	logger.Log.WithField("connection", dsn(false)).Info("Connecting to postgres")

	database, err := sql.Open("postgres", dsn(true))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	database.SetMaxOpenConns(maxOpenConns)
	database.SetConnMaxLifetime(connMaxLifetime)

	if err = database.Ping(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Postgres connection established")
	return database, nil
}
