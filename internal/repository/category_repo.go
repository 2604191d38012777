package repository

import (
	"context"

	"yayasan-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionCategory, error)
	ListActive(ctx context.Context) ([]model.TransactionCategory, error)
	ListByType(ctx context.Context, categoryType string) ([]model.TransactionCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TransactionCategory, error) {
	var cat model.TransactionCategory
	if err := GetDB(ctx, r.db).First(&cat, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]model.TransactionCategory, error) {
	var categories []model.TransactionCategory
	err := GetDB(ctx, r.db).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) ListByType(ctx context.Context, categoryType string) ([]model.TransactionCategory, error) {
	var categories []model.TransactionCategory
	err := GetDB(ctx, r.db).
		Where("type = ? AND is_active = ?", categoryType, true).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
