package repository

import (
	"backend/internal/app/ds"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	// TranslateError нужен, чтобы нарушение уникальных индексов
	// (email, CIN, пара кандидат-IPO) приходило как gorm.ErrDuplicatedKey
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Автоматическая миграция всех таблиц
	err = db.AutoMigrate(
		&ds.Company{},
		&ds.Candidate{},
		&ds.IPO{},
		&ds.IPOApplication{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}

// NewWithDB оборачивает уже открытое соединение (используется в тестах).
func NewWithDB(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB отдаёт соединение движку распределения лотов.
func (r *Repository) DB() *gorm.DB {
	return r.db
}
