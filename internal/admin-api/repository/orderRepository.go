package repository

import (
	"context"
	"fmt"
	"time"

	"ebookstore/internal/admin-api/models"

	"gorm.io/gorm"
)

type OrderRepository interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Order, int64, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)
	// ListPaidBetween returns paid orders created within [from, to).
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Order, int64, error) {
	var list []models.Order
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.db.WithContext(ctx).Preload("User").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) GetByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var list []models.Order
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get orders by user: %w", err)
	}
	return list, nil
}

func (r *orderRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	var list []models.Order
	if err := r.db.WithContext(ctx).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?", models.PaymentStatusPaid, from, to).
		Order("created_at desc").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	return list, nil
}
