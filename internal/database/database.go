package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/openlobby/registry/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by lookups that matched no row.
var ErrNotFound = errors.New("record not found")

// DB wraps the GORM database connection
type DB struct {
	*gorm.DB
	logger *slog.Logger
}

// New creates a new database connection
func New(dbPath string, log *slog.Logger) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Configure GORM logger to be quiet (we use slog instead)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established", "path", dbPath)

	if err := db.AutoMigrate(
		&models.Server{},
		&models.ServerInfo{},
		&models.ServerGame{},
		&models.FastToken{},
	); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate schemas: %w", err)
	}

	log.Info("Database schemas migrated successfully")

	return &DB{
		DB:     db,
		logger: log,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
