package postgres

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SocialApp/internal/config"
	"github.com/GoArmGo/SocialApp/internal/database/client"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open открывает подключение GORM к PostgreSQL (STORAGE_DRIVER=gorm) и применяет те же миграции,
// что и sqlx-клиент
func Open(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	start := time.Now()

	if err := client.ApplyMigrations(cfg.DatabaseURL, logger); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Error("failed to open GORM connection", "error", err)
		return nil, fmt.Errorf("open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger.Info("GORM connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return db, nil
}
