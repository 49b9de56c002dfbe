package repository

import (
	"context"
	"fmt"
	"time"

	"ebookstore/internal/admin-api/models"

	"gorm.io/gorm"
)

// CategoryRemoval identifies a category queued for deletion by the set
// editor. Name and Type are the fallback when the entry never had a
// persisted identifier.
type CategoryRemoval struct {
	ID   string
	Name string
	Type string
}

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	UpdateType(ctx context.Context, id, newType string) error
	Delete(ctx context.Context, id string) error
	// ApplyBatch commits all pending set-editor changes in one transaction.
	ApplyBatch(ctx context.Context, creates []models.Category, typeChanges map[string]string, removals []CategoryRemoval) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("type asc, name asc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get categories: %w", err)
	}
	return list, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrCategoryExists
		}
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) UpdateType(ctx context.Context, id, newType string) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"type":       newType,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrCategoryExists
		}
		return fmt.Errorf("update category type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *categoryRepository) ApplyBatch(ctx context.Context, creates []models.Category, typeChanges map[string]string, removals []CategoryRemoval) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range creates {
			if err := tx.Create(&creates[i]).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: %q", ErrCategoryExists, creates[i].Name)
				}
				return fmt.Errorf("create category %q: %w", creates[i].Name, err)
			}
		}

		for id, newType := range typeChanges {
			if err := tx.Model(&models.Category{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{
					"type":       newType,
					"updated_at": time.Now(),
				}).Error; err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%w: move of %s", ErrCategoryExists, id)
				}
				return fmt.Errorf("change category type: %w", err)
			}
		}

		for _, rm := range removals {
			if rm.ID != "" {
				if err := tx.Delete(&models.Category{}, "id = ?", rm.ID).Error; err != nil {
					return fmt.Errorf("delete category %s: %w", rm.ID, err)
				}
				continue
			}
			// Never-persisted entry removed in the same session; delete by
			// normalized name, scoped to its type.
			key := models.NormalizeCategoryName(rm.Name)
			if err := tx.Where("name_key = ? AND type = ?", key, rm.Type).
				Delete(&models.Category{}).Error; err != nil {
				return fmt.Errorf("delete category %q: %w", rm.Name, err)
			}
		}

		return nil
	})
}
