package database

import (
	"fmt"
	"time"

	"messaging-gateway/internal/config"
	"messaging-gateway/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured store. Driver errors are translated so
// unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	level := logger.Silent
	if cfg.DBLogging {
		level = logger.Info
	}
	gormConfig := &gorm.Config{
		Logger: logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), gormConfig)
	case "sqlite":
		db, err = OpenSQLite(cfg.DBPath, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	log.Info("database connected", zap.String("driver", cfg.DBDriver))
	return db, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced. A single
// connection is used so ":memory:" databases are shared by every query.
func OpenSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table, parents first.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}

// All returns the models in dependency order.
func All() []interface{} {
	return []interface{}{
		&models.Tenant{},
		&models.Contact{},
		&models.Conversation{},
		&models.Message{},
		&models.Template{},
	}
}
