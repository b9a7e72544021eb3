package repository

import (
	"context"
	"errors"

	"unimarket/internal/domain/catalog"
	"unimarket/internal/domain/user"
	apperrors "unimarket/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresLookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &PostgresLookupRepository{db: db}
}

func (r *PostgresLookupRepository) Universities(ctx context.Context) ([]user.University, error) {
	var universities []user.University
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&universities).Error; err != nil {
		return nil, err
	}
	return universities, nil
}

func (r *PostgresLookupRepository) UniversityByID(ctx context.Context, id uuid.UUID) (user.University, error) {
	var u user.University
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.University{}, apperrors.ErrNotFound
		}
		return user.University{}, err
	}
	return u, nil
}

func (r *PostgresLookupRepository) Categories(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
