package main

import (
	"log"

	"messaging-gateway/internal/config"
	"messaging-gateway/internal/database"
	"messaging-gateway/internal/logger"
	"messaging-gateway/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Copies a local sqlite database (DB_PATH) into postgres (DATABASE_URL).
// Rows that already exist in postgres are left untouched, so the copy can be
// re-run.
func main() {
	cfg := config.LoadConfig()
	zl, err := logger.New(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zl.Sync()

	sqliteDB, err := database.OpenSQLite(cfg.DBPath, nil)
	if err != nil {
		zl.Fatal("failed to open sqlite source", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	pgCfg := *cfg
	pgCfg.DBDriver = "postgres"
	if err := pgCfg.Validate(); err != nil {
		zl.Fatal("invalid destination config", zap.Error(err))
	}
	pgDB, err := database.Open(&pgCfg, zl)
	if err != nil {
		zl.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := database.Migrate(pgDB); err != nil {
		zl.Fatal("schema migration failed", zap.Error(err))
	}

	// parents before children so foreign keys resolve
	steps := []struct {
		table string
		rows  interface{}
	}{
		{"tenants", &[]models.Tenant{}},
		{"contacts", &[]models.Contact{}},
		{"conversations", &[]models.Conversation{}},
		{"messages", &[]models.Message{}},
		{"templates", &[]models.Template{}},
	}
	for _, step := range steps {
		n, err := copyTable(sqliteDB, pgDB, step.rows)
		if err != nil {
			zl.Fatal("table copy failed", zap.String("table", step.table), zap.Error(err))
		}
		zl.Info("table copied", zap.String("table", step.table), zap.Int64("rows", n))
	}
	zl.Info("migration completed")
}

func copyTable(src, dst *gorm.DB, rows interface{}) (int64, error) {
	if err := src.Find(rows).Error; err != nil {
		return 0, err
	}
	var inserted int64
	err := dst.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 200)
		inserted = res.RowsAffected
		return res.Error
	})
	return inserted, err
}
