package dto

import (
	"time"

	"ebookstore/internal/admin-api/models"
)

// CreateCouponDTO used for POST /api/admin/coupons
type CreateCouponDTO struct {
	Code          string     `json:"code" binding:"required"`
	DiscountType  string     `json:"discount_type" binding:"required"`
	DiscountValue float64    `json:"discount_value" binding:"required"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

// UpdateCouponDTO used for PUT /api/admin/coupons/:coupon_id
type UpdateCouponDTO struct {
	Code          *string    `json:"code,omitempty"`
	DiscountType  *string    `json:"discount_type,omitempty"`
	DiscountValue *float64   `json:"discount_value,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Active        *bool      `json:"active,omitempty"`
}

type CouponResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	DiscountType  string     `json:"discount_type"`
	DiscountValue float64    `json:"discount_value"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Active        bool       `json:"active"`
	Expired       bool       `json:"expired"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (d CreateCouponDTO) ToModel() models.Coupon {
	c := models.Coupon{
		Code:          d.Code,
		DiscountType:  d.DiscountType,
		DiscountValue: d.DiscountValue,
		ExpiresAt:     d.ExpiresAt,
		Active:        true,
	}
	if d.Active != nil {
		c.Active = *d.Active
	}
	return c
}

func (d UpdateCouponDTO) ApplyTo(c *models.Coupon) {
	if d.Code != nil {
		c.Code = *d.Code
	}
	if d.DiscountType != nil {
		c.DiscountType = *d.DiscountType
	}
	if d.DiscountValue != nil {
		c.DiscountValue = *d.DiscountValue
	}
	if d.ExpiresAt != nil {
		c.ExpiresAt = d.ExpiresAt
	}
	if d.Active != nil {
		c.Active = *d.Active
	}
}

func FromCouponToResponse(c models.Coupon) CouponResponse {
	return CouponResponse{
		ID:            c.ID,
		Code:          c.Code,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		ExpiresAt:     c.ExpiresAt,
		Active:        c.Active,
		Expired:       c.Expired(time.Now()),
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
