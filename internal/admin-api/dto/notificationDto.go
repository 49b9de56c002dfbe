package dto

import (
	"time"

	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/service"
)

// DispatchNotificationDTO used for POST /api/admin/notifications/dispatch.
// Every field is optional; the dispatcher applies defensive defaults.
type DispatchNotificationDTO struct {
	Message     string     `json:"message"`
	Type        string     `json:"type"`
	Target      []string   `json:"target"`
	BookID      *string    `json:"book_id,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

type NotificationResponse struct {
	ID                  string     `json:"id"`
	Message             string     `json:"message"`
	Type                string     `json:"type"`
	Target              []string   `json:"target"`
	BookID              *string    `json:"book_id"`
	Status              string     `json:"status"`
	ScheduledAt         *time.Time `json:"scheduled_at,omitempty"`
	SentAt              *time.Time `json:"sent_at,omitempty"`
	EstimatedRecipients int        `json:"estimated_recipients"`
	SuccessCount        int        `json:"success_count"`
	FailureCount        int        `json:"failure_count"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (d DispatchNotificationDTO) ToInput() service.DispatchInput {
	return service.DispatchInput{
		Message:     d.Message,
		Type:        d.Type,
		Target:      d.Target,
		BookID:      d.BookID,
		ScheduledAt: d.ScheduledAt,
	}
}

func FromNotificationToResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:                  n.ID,
		Message:             n.Message,
		Type:                n.Type,
		Target:              n.Target,
		BookID:              n.BookID,
		Status:              n.Status,
		ScheduledAt:         n.ScheduledAt,
		SentAt:              n.SentAt,
		EstimatedRecipients: n.EstimatedRecipients,
		SuccessCount:        n.SuccessCount,
		FailureCount:        n.FailureCount,
		CreatedAt:           n.CreatedAt,
	}
}
