package utils

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"trainhub/backend/config"
	"trainhub/backend/models"
)

// InitDB opens the PostgreSQL connection and runs migrations.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model. Shared with the test setup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.Program{},
		&models.ProgramModule{},
		&models.Unit{},
		&models.ContentItem{},
		&models.Question{},
		&models.QuestionOption{},
		&models.Assessment{},
		&models.AssessmentQuestion{},
		&models.AssessmentAttempt{},
		&models.Enrollment{},
		&models.Certificate{},
	)
}
