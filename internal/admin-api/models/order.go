package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

type Order struct {
	ID            string        `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Items         OrderItemList `gorm:"type:jsonb" json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"payment_method"`
	PaymentStatus string        `gorm:"default:'pending';index" json:"payment_status"` // pending, paid, failed
	CreatedAt     time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

func (Order) TableName() string {
	return "orders"
}
