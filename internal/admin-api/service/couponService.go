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
	ErrCouponCodeRequired = errors.New("coupon code required")
)

type CouponService interface {
	GetAll(ctx context.Context) ([]models.Coupon, error)
	GetByID(ctx context.Context, id string) (*models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	Update(ctx context.Context, id string, c *models.Coupon) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type couponService struct {
	repo repository.CouponRepository
	bus  *events.Bus
}

func NewCouponService(repo repository.CouponRepository, bus *events.Bus) CouponService {
	return &couponService{repo: repo, bus: bus}
}

func (s *couponService) GetAll(ctx context.Context) ([]models.Coupon, error) {
	return s.repo.GetAll(ctx)
}

func (s *couponService) GetByID(ctx context.Context, id string) (*models.Coupon, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *couponService) Create(ctx context.Context, c *models.Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "coupon", Action: "created", ID: c.ID})
	return nil
}

func (s *couponService) Update(ctx context.Context, id string, c *models.Coupon) error {
	if err := validateCoupon(c); err != nil {
		return err
	}

	old, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = old.CreatedAt

	if err := s.repo.Update(ctx, c); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "coupon", Action: "updated", ID: id})
	return nil
}

func (s *couponService) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "coupon", Action: "updated", ID: id})
	return nil
}

func (s *couponService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "coupon", Action: "deleted", ID: id})
	return nil
}

func validateCoupon(c *models.Coupon) error {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	if c.Code == "" {
		return ErrCouponCodeRequired
	}

	switch c.DiscountType {
	case models.DiscountTypePercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return ErrInvalidDiscount
		}
	case models.DiscountTypeFixed:
		if c.DiscountValue <= 0 {
			return ErrInvalidDiscount
		}
	default:
		return ErrInvalidDiscount
	}

	return nil
}
