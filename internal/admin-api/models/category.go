package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryTypeStandard = "standard"
	CategoryTypeFeatured = "featured"
)

// NormalizeCategoryName is the canonical form used for all category name
// comparisons: trimmed and case-folded.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Category struct {
	ID   string `gorm:"primaryKey;type:uuid" json:"id"`
	Name string `gorm:"not null" json:"name"`
	// NameKey holds the normalized name; unique together with Type so the
	// same name cannot exist twice within one type.
	NameKey   string     `gorm:"not null;uniqueIndex:idx_categories_name_key_type" json:"-"`
	Type      string     `gorm:"default:'standard';uniqueIndex:idx_categories_name_key_type" json:"type"` // standard, featured
	BookIDs   StringList `gorm:"type:jsonb" json:"book_ids"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return c.BeforeSave(tx)
}

func (c *Category) BeforeSave(tx *gorm.DB) (err error) {
	c.Name = strings.TrimSpace(c.Name)
	c.NameKey = NormalizeCategoryName(c.Name)
	return
}

func (Category) TableName() string {
	return "categories"
}
