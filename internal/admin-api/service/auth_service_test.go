package service

import (
	"context"
	"testing"
	"time"

	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/config"
	"ebookstore/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (*MockUserRepository, AuthService, *models.User) {
	t.Helper()

	hash, err := auth.HashPassword("correct horse battery staple")
	assert.NoError(t, err)

	admin := &models.User{
		ID:       "admin-1",
		Email:    "admin@ebookstore.test",
		Password: hash,
	}

	repo := new(MockUserRepository)
	cfg := &config.Config{
		JWTSecret:  "0123456789abcdef0123456789abcdef",
		JWTExpiry:  time.Hour,
		AdminEmail: "admin@ebookstore.test",
	}
	return repo, NewAuthService(repo, cfg), admin
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, svc, admin := newAuthFixture(t)
		repo.On("FindByEmail", mock.Anything, admin.Email).Return(admin, nil).Once()
		repo.On("UpdateLastLogin", mock.Anything, admin.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		token, err := svc.Login(ctx, admin.Email, "correct horse battery staple")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		repo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo, svc, admin := newAuthFixture(t)
		repo.On("FindByEmail", mock.Anything, admin.Email).Return(admin, nil).Once()

		_, err := svc.Login(ctx, admin.Email, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		repo, svc, _ := newAuthFixture(t)
		repo.On("FindByEmail", mock.Anything, "nobody@ebookstore.test").Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.Login(ctx, "nobody@ebookstore.test", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("NonAdminRejected", func(t *testing.T) {
		repo, svc, _ := newAuthFixture(t)

		hash, err := auth.HashPassword("password123")
		assert.NoError(t, err)
		customer := &models.User{ID: "u-2", Email: "customer@ebookstore.test", Password: hash}
		repo.On("FindByEmail", mock.Anything, customer.Email).Return(customer, nil).Once()

		_, err = svc.Login(ctx, customer.Email, "password123")
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("AdminEmailCaseInsensitive", func(t *testing.T) {
		repo, svc, admin := newAuthFixture(t)
		admin.Email = "Admin@Ebookstore.Test"
		repo.On("FindByEmail", mock.Anything, admin.Email).Return(admin, nil).Once()
		repo.On("UpdateLastLogin", mock.Anything, admin.ID, mock.AnythingOfType("time.Time")).Return(nil).Once()

		_, err := svc.Login(ctx, admin.Email, "correct horse battery staple")
		assert.NoError(t, err)
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		repo, svc, admin := newAuthFixture(t)
		repo.On("FindByEmail", mock.Anything, admin.Email).Return(admin, nil).Once()
		repo.On("UpdateLastLogin", mock.Anything, admin.ID, mock.Anything).Return(nil).Once()

		token, err := svc.Login(ctx, admin.Email, "correct horse battery staple")
		assert.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, admin.ID, claims.UserID)
		assert.Equal(t, admin.Email, claims.Email)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, svc, _ := newAuthFixture(t)

		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		repo1, svc1, admin := newAuthFixture(t)
		repo1.On("FindByEmail", mock.Anything, admin.Email).Return(admin, nil).Once()
		repo1.On("UpdateLastLogin", mock.Anything, admin.ID, mock.Anything).Return(nil).Once()

		token, err := svc1.Login(ctx, admin.Email, "correct horse battery staple")
		assert.NoError(t, err)

		other := NewAuthService(new(MockUserRepository), &config.Config{
			JWTSecret:  "another-secret-another-secret-xx",
			JWTExpiry:  time.Hour,
			AdminEmail: admin.Email,
		})
		_, err = other.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
