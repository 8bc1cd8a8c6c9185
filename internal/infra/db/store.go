package db

import (
	"fmt"

	"paprd/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Store struct {
	DB *gorm.DB
}

// NewStore connects to postgres and runs the schema migration. TranslateError
// is on so unique-constraint races surface as gorm.ErrDuplicatedKey and can be
// mapped to domain.ErrConflict by the repositories.
func NewStore(cfg *config.Config) (*Store, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{DB: gdb}, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&ResearcherModel{},
		&ArticleModel{},
		&ManuscriptModel{},
		&ReviewRequestModel{},
		&ReviewModel{},
		&RecommendationModel{},
	)
}
