package config

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/resume-analyzer/internal/models"
)

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.Server.Env == "development" {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to job description store: %w", err)
	}

	log.Println("✅ Job description store connected successfully")

	if err := db.AutoMigrate(&models.JobDescription{}); err != nil {
		return nil, fmt.Errorf("failed to migrate job description store: %w", err)
	}

	log.Println("✅ Job description store migration completed")

	return db, nil
}
