package db

import (
	"database/sql"
	"fmt"
	"kidbank/logger"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Connect opens the sqlite database at path, creating the parent directory on
// first run. The handle is opened once per process and closed at shutdown.
func Connect(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	logger.Log.WithField("path", path).Info("Opening database")

	database, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database")
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// sqlite allows a single writer; one connection keeps transactions from
	// tripping over each other inside the process.
	database.SetMaxOpenConns(1)

	if err = database.Ping(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return database, nil
}
