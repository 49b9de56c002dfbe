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
	ErrInvalidUserStatus = errors.New("invalid user status")
	ErrTokenRequired     = errors.New("device token required")
)

type UserService interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	RegisterDeviceToken(ctx context.Context, id, token string) error
	GetOrders(ctx context.Context, id string) ([]models.Order, error)
}

type userService struct {
	repo      repository.UserRepository
	orderRepo repository.OrderRepository
	bus       *events.Bus
}

func NewUserService(repo repository.UserRepository, orderRepo repository.OrderRepository, bus *events.Bus) UserService {
	return &userService{repo: repo, orderRepo: orderRepo, bus: bus}
}

func (s *userService) GetAll(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusBanned:
	default:
		return ErrInvalidUserStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.bus.Publish(ctx, events.Event{Entity: "user", Action: "updated", ID: id})
	return nil
}

func (s *userService) RegisterDeviceToken(ctx context.Context, id, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrTokenRequired
	}
	return s.repo.AddDeviceToken(ctx, id, token)
}

func (s *userService) GetOrders(ctx context.Context, id string) ([]models.Order, error) {
	// confirm the user exists before listing
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByUser(ctx, id)
}
