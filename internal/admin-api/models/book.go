package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookStatusPublished = "published"
	BookStatusDraft     = "draft"
	BookStatusArchived  = "archived"
)

const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

type Book struct {
	ID                 string      `gorm:"primaryKey;type:uuid" json:"id"`
	Title              string      `gorm:"not null" json:"title"`
	Writer             string      `json:"writer"`
	Description        string      `json:"description"`
	CategoryNames      StringList  `gorm:"type:jsonb" json:"category_names"`
	Language           string      `json:"language"`
	ReleaseDate        *time.Time  `json:"release_date,omitempty"`
	PricePKR           float64     `json:"price_pkr"`
	PriceUSD           float64     `json:"price_usd"`
	DiscountedPricePKR float64     `json:"discounted_price_pkr"`
	DiscountType       string      `json:"discount_type"` // percentage, fixed
	DiscountValue      float64     `json:"discount_value"`
	RestrictedPages    int         `json:"restricted_pages"` // free-preview page cutoff
	Tag                string      `json:"tag"`
	Keywords           StringList  `gorm:"type:jsonb" json:"keywords"`
	CoverURL           string      `json:"cover_url"`
	FrontPageURL       string      `json:"front_page_url"`
	BackPageURL        string      `json:"back_page_url"`
	Chapters           ChapterList `gorm:"type:jsonb" json:"chapters"`
	Status             string      `gorm:"default:'draft'" json:"status"` // published, draft, archived
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

func (Book) TableName() string {
	return "books"
}
