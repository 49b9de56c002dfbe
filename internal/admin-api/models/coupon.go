package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Coupon struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Code          string     `gorm:"uniqueIndex;not null" json:"code"`
	DiscountType  string     `gorm:"not null" json:"discount_type"` // percentage, fixed
	DiscountValue float64    `gorm:"not null" json:"discount_value"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Active        bool       `gorm:"default:true" json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

// Expired reports whether the coupon's expiry, if set, has passed.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

func (Coupon) TableName() string {
	return "coupons"
}
