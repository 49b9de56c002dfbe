package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ebookstore/internal/admin-api/events"
	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/repository"
)

var (
	ErrTitleRequired   = errors.New("book title required")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidDiscount = errors.New("invalid discount")
)

type BookService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	Search(ctx context.Context, query string) ([]models.Book, error)
	// Create and Update return the category names that had no backing
	// record and were skipped; callers surface them as warnings.
	Create(ctx context.Context, b *models.Book) ([]string, error)
	Update(ctx context.Context, id string, b *models.Book) ([]string, error)
	Delete(ctx context.Context, id string) error
}

type bookService struct {
	repo          repository.BookRepository
	bus           *events.Bus
	missingPolicy string
	logger        *slog.Logger
}

func NewBookService(repo repository.BookRepository, bus *events.Bus, missingPolicy string, logger *slog.Logger) BookService {
	return &bookService{
		repo:          repo,
		bus:           bus,
		missingPolicy: missingPolicy,
		logger:        logger,
	}
}

func (s *bookService) GetAll(ctx context.Context, page, pageSize int) ([]models.Book, int64, error) {
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *bookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *bookService) Search(ctx context.Context, query string) ([]models.Book, error) {
	return s.repo.Search(ctx, query)
}

func (s *bookService) Create(ctx context.Context, b *models.Book) ([]string, error) {
	if err := validateBook(b); err != nil {
		return nil, err
	}

	// Brand-new book: every declared category is an addition.
	added, removed := diffCategoryNames(nil, b.CategoryNames)

	missing, err := s.repo.SaveWithMembership(ctx, b, added, removed, s.missingPolicy)
	if err != nil {
		return nil, err
	}
	s.warnMissing(missing)

	s.bus.Publish(ctx, events.Event{Entity: "book", Action: "created", ID: b.ID})
	return missing, nil
}

func (s *bookService) Update(ctx context.Context, id string, b *models.Book) ([]string, error) {
	if err := validateBook(b); err != nil {
		return nil, err
	}

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b.ID = id
	b.CreatedAt = old.CreatedAt

	added, removed := diffCategoryNames(old.CategoryNames, b.CategoryNames)

	missing, err := s.repo.SaveWithMembership(ctx, b, added, removed, s.missingPolicy)
	if err != nil {
		return nil, err
	}
	s.warnMissing(missing)

	s.bus.Publish(ctx, events.Event{Entity: "book", Action: "updated", ID: id})
	return missing, nil
}

func (s *bookService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWithMembership(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "book", Action: "deleted", ID: id})
	return nil
}

func (s *bookService) warnMissing(names []string) {
	for _, name := range names {
		s.logger.Warn("book references category with no backing record", "category", name)
	}
}

func validateBook(b *models.Book) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return ErrTitleRequired
	}

	if b.Status == "" {
		b.Status = models.BookStatusDraft
	}
	switch b.Status {
	case models.BookStatusPublished, models.BookStatusDraft, models.BookStatusArchived:
	default:
		return ErrInvalidStatus
	}

	if b.DiscountType != "" {
		switch b.DiscountType {
		case models.DiscountTypePercentage:
			if b.DiscountValue < 0 || b.DiscountValue > 100 {
				return ErrInvalidDiscount
			}
		case models.DiscountTypeFixed:
			if b.DiscountValue < 0 {
				return ErrInvalidDiscount
			}
		default:
			return ErrInvalidDiscount
		}
	}

	return nil
}

// diffCategoryNames computes the membership changes implied by replacing
// oldNames with newNames. Comparison is case-insensitive after trimming;
// duplicates within one list collapse. The returned names keep the caller's
// spelling (trimmed) since lookups renormalize anyway.
func diffCategoryNames(oldNames, newNames []string) (added, removed []string) {
	oldSet := make(map[string]bool, len(oldNames))
	for _, n := range oldNames {
		if key := models.NormalizeCategoryName(n); key != "" {
			oldSet[key] = true
		}
	}
	newSet := make(map[string]bool, len(newNames))
	for _, n := range newNames {
		if key := models.NormalizeCategoryName(n); key != "" {
			newSet[key] = true
		}
	}

	seen := make(map[string]bool)
	for _, n := range newNames {
		key := models.NormalizeCategoryName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if !oldSet[key] {
			added = append(added, strings.TrimSpace(n))
		}
	}

	seen = make(map[string]bool)
	for _, n := range oldNames {
		key := models.NormalizeCategoryName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if !newSet[key] {
			removed = append(removed, strings.TrimSpace(n))
		}
	}

	return added, removed
}
