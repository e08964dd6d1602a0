package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sjperalta/backoffice-api/internal/models"
	pkgLogger "github.com/sjperalta/backoffice-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by databaseURL. PostgreSQL URLs are the
// production target; "sqlite:" URLs open a local file for development.
func Connect(databaseURL string) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Silent
	if os.Getenv("ENVIRONMENT") != "production" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	db, err := gorm.Open(dialector(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func dialector(databaseURL string) gorm.Dialector {
	if path, ok := strings.CutPrefix(databaseURL, "sqlite:"); ok {
		return sqlite.Open(strings.TrimPrefix(path, "//"))
	}
	return postgres.Open(databaseURL)
}

// Migrate creates or updates the schema for every model
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Admin{},
		&models.User{},
		&models.Customer{},
		&models.CustomerAddress{},
		&models.CustomerContact{},
		&models.Sample{},
		&models.Order{},
		&models.Employee{},
		&models.OperationLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
