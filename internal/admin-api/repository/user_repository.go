package repository

import (
	"context"
	"fmt"
	"time"

	"ebookstore/internal/admin-api/models"

	"gorm.io/gorm"
)

// AudienceFilter narrows the user set for a notification dispatch. Nil
// fields apply no constraint; set fields compose as a logical AND.
type AudienceFilter struct {
	PurchasedBookID *string
	InactiveSince   *time.Time
}

type UserRepository interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	AddDeviceToken(ctx context.Context, id, token string) error
	FindAudience(ctx context.Context, f AudienceFilter) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	var list []models.User
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
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

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update user status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at":  at,
			"last_active_at": at,
		}).Error
}

// AddDeviceToken registers a push token for the user. Idempotent.
func (r *userRepository) AddDeviceToken(ctx context.Context, id, token string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.First(&u, "id = ?", id).Error; err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if containsString(u.DeviceTokens, token) {
			return nil
		}
		tokens := append(u.DeviceTokens, token)
		return tx.Model(&models.User{}).
			Where("id = ?", id).
			Update("device_tokens", models.StringList(tokens)).Error
	})
}

func (r *userRepository) FindAudience(ctx context.Context, f AudienceFilter) ([]models.User, error) {
	db := r.db.WithContext(ctx).Model(&models.User{})

	if f.PurchasedBookID != nil {
		// jsonb containment on the purchased-books list
		db = db.Where("purchased_books @> ?", fmt.Sprintf(`[{"book_id":%q}]`, *f.PurchasedBookID))
	}
	if f.InactiveSince != nil {
		db = db.Where("last_active_at < ?", *f.InactiveSince)
	}

	var list []models.User
	if err := db.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find audience: %w", err)
	}
	return list, nil
}
