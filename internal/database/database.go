package database

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"election-service/internal/config"
	"election-service/internal/models"

	"github.com/matryer/try"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// retryDelay is the pause between connection attempts.
var retryDelay = 2 * time.Second

func dialector(driver, uri string) (gorm.Dialector, error) {
	switch driver {
	case "postgres", "":
		return postgres.Open(uri), nil
	case "mysql":
		return mysql.Open(uri), nil
	case "sqlite":
		return sqlite.Open(uri), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// NewConnection opens the configured database, retrying while it comes up.
func NewConnection(cfg config.DatabaseConfig) (*gorm.DB, error) {
	d, err := dialector(cfg.Driver, cfg.URI)
	if err != nil {
		return nil, err
	}

	maxAttempts := cfg.MaxRetries
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	// try.Do gives up after try.MaxRetries attempts regardless of fn
	if maxAttempts > try.MaxRetries {
		try.MaxRetries = maxAttempts
	}

	var (
		db       *gorm.DB
		lastErr  error
		attempts int
	)
	err = try.Do(func(attempt int) (bool, error) {
		attempts = attempt
		db, lastErr = gorm.Open(d, &gorm.Config{
			TranslateError:                           true,
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   logger.Default.LogMode(logger.Warn),
		})
		if lastErr == nil {
			lastErr = ping(db)
		}
		if lastErr != nil {
			slog.Warn("Database not ready", "driver", cfg.Driver, "attempt", attempt, "error", lastErr)
			if attempt < maxAttempts {
				time.Sleep(retryDelay)
			}
		}
		return attempt < maxAttempts, lastErr
	})
	if err != nil {
		if try.IsMaxRetries(err) {
			err = lastErr
		}
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY under load
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	slog.Info("Database connection established", "driver", cfg.Driver)
	return db, nil
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates or updates the schema and the secondary indexes.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Party{},
		&models.Election{},
		&models.Candidate{},
		&models.Vote{},
	)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			slog.Warn("Tables already exist, continuing with existing schema")
		} else {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	if err := addIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		columns []string
	}{
		{"votes", []string{"created_at"}},
		{"candidates", []string{"created_at"}},
	}

	for _, idx := range indexes {
		for _, column := range idx.columns {
			indexName := fmt.Sprintf("idx_%s_%s", idx.table, column)
			if db.Migrator().HasIndex(idx.table, indexName) {
				continue
			}
			if err := db.Exec(fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
				indexName, idx.table, column)).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// IsUniqueViolation matches duplicate-key errors from any supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "Duplicate entry")
}
