package repository

import (
	"context"

	"ebookstore/internal/admin-api/models"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetAll(ctx context.Context, page, pageSize int) ([]models.Notification, int64, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	// UpdateDelivery records the gateway's reported per-call counts.
	UpdateDelivery(ctx context.Context, id string, successCount, failureCount int) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Notification, int64, error) {
	var list []models.Notification
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Notification{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) UpdateDelivery(ctx context.Context, id string, successCount, failureCount int) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"success_count": successCount,
			"failure_count": failureCount,
		}).Error
}
