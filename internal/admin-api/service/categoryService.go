package service

import (
	"context"
	"errors"
	"strings"

	"ebookstore/internal/admin-api/events"
	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/repository"
)

var (
	ErrCategoryNameRequired = errors.New("category name required")
	ErrInvalidCategoryType  = errors.New("invalid category type")
)

type CategoryService interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	UpdateType(ctx context.Context, id, newType string) error
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo repository.CategoryRepository
	bus  *events.Bus
}

func NewCategoryService(repo repository.CategoryRepository, bus *events.Bus) CategoryService {
	return &categoryService{repo: repo, bus: bus}
}

func (s *categoryService) GetAll(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if c.Type == "" {
		c.Type = models.CategoryTypeStandard
	}
	if err := validateCategoryType(c.Type); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "category", Action: "created", ID: c.ID})
	return nil
}

func (s *categoryService) UpdateType(ctx context.Context, id, newType string) error {
	if err := validateCategoryType(newType); err != nil {
		return err
	}
	if err := s.repo.UpdateType(ctx, id, newType); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "category", Action: "updated", ID: id})
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "category", Action: "deleted", ID: id})
	return nil
}

func validateCategoryType(t string) error {
	switch t {
	case models.CategoryTypeStandard, models.CategoryTypeFeatured:
		return nil
	default:
		return ErrInvalidCategoryType
	}
}
