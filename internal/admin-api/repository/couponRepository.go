package repository

import (
	"context"
	"fmt"
	"time"

	"ebookstore/internal/admin-api/models"

	"gorm.io/gorm"
)

type CouponRepository interface {
	GetAll(ctx context.Context) ([]models.Coupon, error)
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Update(ctx context.Context, c *models.Coupon) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) GetAll(ctx context.Context) ([]models.Coupon, error) {
	var list []models.Coupon
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get coupons: %w", err)
	}
	return list, nil
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	var c models.Coupon
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *couponRepository) Create(ctx context.Context, c *models.Coupon) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCouponCodeInUse
		}
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) Update(ctx context.Context, c *models.Coupon) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCouponCodeInUse
		}
		return fmt.Errorf("update coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Coupon{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("set coupon active: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Coupon{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	return nil
}
