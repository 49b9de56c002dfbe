package dto

import (
	"time"

	"ebookstore/internal/admin-api/models"
)

// UpdateUserStatusDTO used for PATCH /api/admin/users/:user_id/status
type UpdateUserStatusDTO struct {
	Status string `json:"status" binding:"required"`
}

// RegisterDeviceTokenDTO used for POST /api/admin/users/:user_id/device-tokens
type RegisterDeviceTokenDTO struct {
	Token string `json:"token" binding:"required"`
}

type PurchaseResponse struct {
	BookID        string    `json:"book_id"`
	PurchasedAt   time.Time `json:"purchased_at"`
	PricePaid     float64   `json:"price_paid"`
	PaymentMethod string    `json:"payment_method"`
}

type UserResponse struct {
	ID             string             `json:"id"`
	Username       string             `json:"username"`
	Email          string             `json:"email"`
	Status         string             `json:"status"`
	PurchasedBooks []PurchaseResponse `json:"purchased_books"`
	DeviceTokens   int                `json:"device_token_count"`
	CreatedAt      time.Time          `json:"created_at"`
	LastLoginAt    *time.Time         `json:"last_login_at,omitempty"`
	LastActiveAt   *time.Time         `json:"last_active_at,omitempty"`
}

// UserBasicResponse keeps list payloads small
type UserBasicResponse struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Status      string     `json:"status"`
	Purchases   int        `json:"purchase_count"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func FromUserToResponse(u models.User) UserResponse {
	purchases := make([]PurchaseResponse, 0, len(u.PurchasedBooks))
	for _, p := range u.PurchasedBooks {
		purchases = append(purchases, PurchaseResponse{
			BookID:        p.BookID,
			PurchasedAt:   p.PurchasedAt,
			PricePaid:     p.PricePaid,
			PaymentMethod: p.PaymentMethod,
		})
	}
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Status:         u.Status,
		PurchasedBooks: purchases,
		DeviceTokens:   len(u.DeviceTokens),
		CreatedAt:      u.CreatedAt,
		LastLoginAt:    u.LastLoginAt,
		LastActiveAt:   u.LastActiveAt,
	}
}

func FromUserToBasicResponse(u models.User) UserBasicResponse {
	return UserBasicResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Status:      u.Status,
		Purchases:   len(u.PurchasedBooks),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
