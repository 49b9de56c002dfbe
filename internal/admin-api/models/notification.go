package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationStatusScheduled = "scheduled"
	NotificationStatusSent      = "sent"
	NotificationStatusProcessed = "processed"
)

type Notification struct {
	ID                  string     `gorm:"primaryKey;type:uuid" json:"id"`
	Message             string     `gorm:"not null" json:"message"`
	Type                string     `gorm:"not null" json:"type"`
	Target              StringList `gorm:"type:jsonb" json:"target"`
	BookID              *string    `gorm:"type:uuid" json:"book_id"`
	Status              string     `gorm:"not null;index" json:"status"` // scheduled, sent, processed
	ScheduledAt         *time.Time `json:"scheduled_at,omitempty"`
	SentAt              *time.Time `json:"sent_at,omitempty"`
	EstimatedRecipients int        `json:"estimated_recipients"`
	SuccessCount        int        `json:"success_count"`
	FailureCount        int        `json:"failure_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}

func (Notification) TableName() string {
	return "notifications"
}
