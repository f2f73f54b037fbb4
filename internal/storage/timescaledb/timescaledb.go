// Package timescaledb stores feature records in a TimescaleDB hypertable.
package timescaledb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chrissnell/thermocline/internal/log"
	"github.com/chrissnell/thermocline/internal/storage"
)

// Storage holds the connection to a TimescaleDB database
type Storage struct {
	TimescaleDBConn *gorm.DB
}

// CreateConnection opens a database connection with the standard GORM configuration
func CreateConnection(connectionString string) (*gorm.DB, error) {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	log.Info("connecting to TimescaleDB...")
	db, err := gorm.Open(postgres.Open(connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return nil, err
	}
	return db, nil
}

// New connects to TimescaleDB and creates the feature hypertable.
func New(ctx context.Context, connectionString string) (*Storage, error) {
	db, err := CreateConnection(connectionString)
	if err != nil {
		return nil, err
	}
	return NewWithDB(ctx, db)
}

// NewWithDB sets up the schema on an existing connection.
func NewWithDB(ctx context.Context, db *gorm.DB) (*Storage, error) {
	t := &Storage{TimescaleDBConn: db}

	steps := []struct {
		what string
		sql  string
	}{
		{"TimescaleDB extension", createExtensionSQL},
		{"feature table", createTableSQL},
		{"hypertable", createHypertableSQL},
		{"profile index", createProfileIndexSQL},
	}
	for _, s := range steps {
		log.Infof("creating %s...", s.what)
		if err := db.WithContext(ctx).Exec(s.sql).Error; err != nil {
			log.Warnf("warning: could not create %s", s.what)
			return nil, fmt.Errorf("create %s: %w", s.what, err)
		}
	}
	return t, nil
}

// StoreRecord implements storage.Store
func (t *Storage) StoreRecord(ctx context.Context, r storage.Record) error {
	row := rowFromRecord(r)
	if err := t.TimescaleDBConn.WithContext(ctx).Create(&row).Error; err != nil {
		log.Errorf("could not store record for %s: %v", r.Profile, err)
		return err
	}
	return nil
}

// GetRecord implements storage.Store
func (t *Storage) GetRecord(ctx context.Context, id uuid.UUID) (storage.Record, error) {
	var row FeatureRow
	err := t.TimescaleDBConn.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return storage.Record{}, fmt.Errorf("%s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return storage.Record{}, fmt.Errorf("error querying database for record %s: %w", id, err)
	}
	return row.record(), nil
}

// CheckHealth implements storage.Store
func (t *Storage) CheckHealth(ctx context.Context) error {
	if t.TimescaleDBConn == nil {
		return errors.New("TimescaleDB connection is nil")
	}
	sqlDB, err := t.TimescaleDBConn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	var result int
	return t.TimescaleDBConn.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error
}

// Close closes the underlying connection pool
func (t *Storage) Close() error {
	sqlDB, err := t.TimescaleDBConn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
