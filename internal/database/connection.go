package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

var errNotConnected = errors.New("database connection not established")

// ConnectionConfig describes the institution database handle
type ConnectionConfig struct {
	DatabasePath    string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// AutoMigrate applies pending migrations on Connect. Tools that inspect
	// or roll back the schema leave it off.
	AutoMigrate bool
	Logger      *logrus.Logger
}

// ConnectionManager owns the *sql.DB behind the SQLite institution store
type ConnectionManager struct {
	cfg    ConnectionConfig
	dbPath string
	db     *sql.DB
}

// NewConnectionManager creates a manager for cfg. Connect must be called before use.
func NewConnectionManager(cfg ConnectionConfig) *ConnectionManager {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &ConnectionManager{cfg: cfg}
}

// Connect opens the database file, migrating it first when AutoMigrate is set
func (cm *ConnectionManager) Connect() error {
	if cm.db != nil {
		return errors.New("database connection already established")
	}

	dbPath, err := filepath.Abs(cm.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute database path: %w", err)
	}

	var db *sql.DB
	if cm.cfg.AutoMigrate {
		db, err = OpenDatabase(dbPath, cm.cfg.Logger)
	} else {
		db, err = Open(dbPath)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if cm.cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cm.cfg.MaxOpenConns)
	}
	if cm.cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cm.cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cm.cfg.ConnMaxLifetime)

	cm.db = db
	cm.dbPath = dbPath
	cm.cfg.Logger.WithFields(logrus.Fields{
		"db_path":      dbPath,
		"auto_migrate": cm.cfg.AutoMigrate,
	}).Info("Database connection established")
	return nil
}

// GetDB returns the open handle, or nil before Connect and after Close
func (cm *ConnectionManager) GetDB() *sql.DB {
	return cm.db
}

// Close releases the handle. Closing twice is a no-op.
func (cm *ConnectionManager) Close() error {
	if cm.db == nil {
		return nil
	}

	db := cm.db
	cm.db = nil
	if err := db.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	cm.cfg.Logger.Debug("Database connection closed")
	return nil
}

// Ping checks that the database is reachable
func (cm *ConnectionManager) Ping(ctx context.Context) error {
	if cm.db == nil {
		return errNotConnected
	}
	if err := cm.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// GetMigrationManager returns a migration manager bound to this database, or nil when not connected
func (cm *ConnectionManager) GetMigrationManager() *MigrationManager {
	if cm.db == nil {
		return nil
	}
	return NewMigrationManager(cm.db, cm.dbPath, cm.cfg.Logger)
}

// HealthCheck pings the database and reads from the institutions table
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.Ping(ctx); err != nil {
		return err
	}

	var n int
	if err := cm.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM institutions").Scan(&n); err != nil {
		return fmt.Errorf("institutions table unreadable: %w", err)
	}
	return nil
}
