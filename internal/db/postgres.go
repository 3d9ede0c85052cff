/**
 * @description
 * PostgreSQL connection manager using GORM.
 * Handles connection pooling and initialization.
 *
 * @dependencies
 * - gorm.io/gorm: ORM library
 * - gorm.io/driver/postgres: Postgres driver
 */

package db

import (
	"fmt"
	"time"

	"github.com/oracle-observer/backend/internal/config"
	"github.com/oracle-observer/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectPostgres initializes the PostgreSQL connection and runs the
// domain auto-migration.
func ConnectPostgres(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Error
	if cfg.Server.Env == "development" {
		gormLogLevel = logger.Info
	}

	conn, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting generic db handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := conn.AutoMigrate(models.AllModels()...); err != nil {
		return nil, fmt.Errorf("auto-migrating schema: %w", err)
	}

	return conn, nil
}
