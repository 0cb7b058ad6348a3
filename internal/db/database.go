package db

import (
	"fmt"

	"github.com/ikkim/foodgram-backend/config"
	appLogger "github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Initialize opens the configured database and stores it in DB.
func Initialize(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		appLogger.Info("Opening sqlite database", map[string]interface{}{
			"path": cfg.Path,
		})
		dialector = sqlite.Open(cfg.Path + "?_foreign_keys=on")
	default:
		appLogger.Info("Connecting to database", map[string]interface{}{
			"host":     cfg.Host,
			"port":     cfg.Port,
			"database": cfg.DBName,
			"user":     cfg.User,
		})
		dialector = postgres.Open(cfg.DSN())
	}

	var err error
	DB, err = gorm.Open(dialector, gormConfig())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	maxOpen := 100
	if cfg.Driver == "sqlite" {
		// sqlite serialises writers anyway
		maxOpen = 1
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpen)

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"driver":         cfg.Driver,
		"max_open_conns": maxOpen,
	})
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // queries are logged by repositories
		TranslateError: true,
	}
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
