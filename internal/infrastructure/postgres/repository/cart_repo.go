package repository

import (
	"context"

	"github.com/questgg/checkout-service/internal/domain"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/mappers"
	"github.com/questgg/checkout-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCartRepository struct {
	DB *gorm.DB
}

func NewDefaultCartRepository(db *gorm.DB) *DefaultCartRepository {
	return &DefaultCartRepository{DB: db}
}

func (r *DefaultCartRepository) ItemsByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var itemModels []models.CartItemModel
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]domain.CartItem, len(itemModels))
	for i, itemModel := range itemModels {
		items[i] = *mappers.ToDomainCartItem(&itemModel)
	}

	return items, nil
}

func (r *DefaultCartRepository) Clear(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItemModel{}).Error
}
