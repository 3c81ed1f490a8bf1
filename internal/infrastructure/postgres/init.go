package postgres

import (
	"log/slog"
	"os"

	"github.com/LavaJover/shvark-transfer-service/internal/config"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-transfer-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MustInitDB opens the database and brings the schema up to date, either from
// the SQL migrations (when a path is configured) or with gorm AutoMigrate.
func MustInitDB(cfg *config.TransferConfig) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.TransferDB.Dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		slog.Error("failed to init db", "error", err.Error())
		os.Exit(1)
	}

	if cfg.TransferDB.MigrationsPath != "" {
		if _, err := migrate.RunMigrations(db, cfg.TransferDB.MigrationsPath); err != nil {
			slog.Error("failed to apply migrations", "error", err.Error())
			os.Exit(1)
		}
		return db
	}

	if err := db.AutoMigrate(&models.AccountModel{}, &models.TransactionModel{}, &models.OutboxMessageModel{}); err != nil {
		slog.Error("failed to auto-migrate", "error", err.Error())
		os.Exit(1)
	}
	return db
}
