package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusBanned   = "banned"
)

type User struct {
	ID             string       `gorm:"primaryKey;type:uuid" json:"id"`
	Username       string       `gorm:"uniqueIndex;not null" json:"username"`
	Email          string       `gorm:"uniqueIndex;not null" json:"email"`
	Password       string       `gorm:"column:password_hash;not null" json:"-"`
	Status         string       `gorm:"default:'active'" json:"status"` // active, inactive, banned
	PurchasedBooks PurchaseList `gorm:"type:jsonb" json:"purchased_books"`
	DeviceTokens   StringList   `gorm:"type:jsonb" json:"device_tokens"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	LastLoginAt    *time.Time   `json:"last_login_at,omitempty"`
	LastActiveAt   *time.Time   `gorm:"index" json:"last_active_at,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// HasPurchased reports whether the user owns the given book.
func (u *User) HasPurchased(bookID string) bool {
	for _, p := range u.PurchasedBooks {
		if p.BookID == bookID {
			return true
		}
	}
	return false
}

func (User) TableName() string {
	return "users"
}
