package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ebookstore/internal/admin-api/models"

	"gorm.io/gorm"
)

// Missing-category policies applied when a book references a category name
// that has no backing record.
const (
	MissingCategorySkip   = "skip"
	MissingCategoryCreate = "create"
	MissingCategoryReject = "reject"
)

type BookRepository interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Search(ctx context.Context, query string) ([]models.Book, error)
	// SaveWithMembership upserts the book and applies category membership
	// additions/removals in a single transaction. It returns the names that
	// had no backing category record (only under the skip policy).
	SaveWithMembership(ctx context.Context, book *models.Book, added, removed []string, policy string) ([]string, error)
	DeleteWithMembership(ctx context.Context, id string) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	// Count total records
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Count(&total).Error; err != nil {
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

func (r *bookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Search performs case-insensitive partial match on title, writer and tag.
// Splits query into tokens and requires each token to appear in at least one
// of the fields.
func (r *bookRepository) Search(ctx context.Context, query string) ([]models.Book, error) {
	var list []models.Book
	tokens := strings.Fields(query)

	// if empty tokens, return empty list
	if len(tokens) == 0 {
		return list, nil
	}

	clauses := make([]string, 0, len(tokens))
	args := make([]interface{}, 0, len(tokens)*3)
	for _, t := range tokens {
		p := "%" + t + "%"
		clauses = append(clauses, "(title ILIKE ? OR COALESCE(writer,'') ILIKE ? OR COALESCE(tag,'') ILIKE ?)")
		args = append(args, p, p, p)
	}

	where := strings.Join(clauses, " AND ")
	if err := r.db.WithContext(ctx).Where(where, args...).Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) SaveWithMembership(ctx context.Context, book *models.Book, added, removed []string, policy string) ([]string, error) {
	var missing []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(book).Error; err != nil {
			return fmt.Errorf("save book: %w", err)
		}

		for _, name := range added {
			cats, err := categoriesByName(tx, name)
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				switch policy {
				case MissingCategoryCreate:
					cat := models.Category{
						Name:    strings.TrimSpace(name),
						Type:    models.CategoryTypeStandard,
						BookIDs: models.StringList{book.ID},
					}
					if err := tx.Create(&cat).Error; err != nil {
						return fmt.Errorf("create category %q: %w", name, err)
					}
				case MissingCategoryReject:
					return fmt.Errorf("%w: %q", ErrCategoryMissing, name)
				default:
					missing = append(missing, name)
				}
				continue
			}
			for i := range cats {
				if containsString(cats[i].BookIDs, book.ID) {
					continue
				}
				ids := append(cats[i].BookIDs, book.ID)
				if err := updateMembership(tx, cats[i].ID, ids); err != nil {
					return err
				}
			}
		}

		for _, name := range removed {
			cats, err := categoriesByName(tx, name)
			if err != nil {
				return err
			}
			if len(cats) == 0 {
				missing = append(missing, name)
				continue
			}
			for i := range cats {
				if !containsString(cats[i].BookIDs, book.ID) {
					continue
				}
				ids := removeString(cats[i].BookIDs, book.ID)
				if err := updateMembership(tx, cats[i].ID, ids); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return missing, nil
}

func (r *bookRepository) DeleteWithMembership(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		if err := tx.First(&book, "id = ?", id).Error; err != nil {
			return fmt.Errorf("find book: %w", err)
		}

		for _, name := range book.CategoryNames {
			cats, err := categoriesByName(tx, name)
			if err != nil {
				return err
			}
			for i := range cats {
				if !containsString(cats[i].BookIDs, book.ID) {
					continue
				}
				ids := removeString(cats[i].BookIDs, book.ID)
				if err := updateMembership(tx, cats[i].ID, ids); err != nil {
					return err
				}
			}
		}

		if err := tx.Delete(&models.Book{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return nil
	})
}

// categoriesByName fetches every category matching the normalized name,
// whatever its type. Membership is kept consistent across both types when a
// name exists in each.
func categoriesByName(tx *gorm.DB, name string) ([]models.Category, error) {
	var cats []models.Category
	key := models.NormalizeCategoryName(name)
	if err := tx.Where("name_key = ?", key).Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	return cats, nil
}

func updateMembership(tx *gorm.DB, categoryID string, ids models.StringList) error {
	if err := tx.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Updates(map[string]interface{}{
			"book_ids":   ids,
			"updated_at": time.Now(),
		}).Error; err != nil {
		return fmt.Errorf("update category membership: %w", err)
	}
	return nil
}

func containsString(list []string, item string) bool {
	for _, s := range list {
		if s == item {
			return true
		}
	}
	return false
}

func removeString(list []string, item string) models.StringList {
	out := make(models.StringList, 0, len(list))
	for _, s := range list {
		if s != item {
			out = append(out, s)
		}
	}
	return out
}
