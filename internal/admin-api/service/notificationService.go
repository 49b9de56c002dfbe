package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"ebookstore/internal/admin-api/events"
	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/repository"
	"ebookstore/internal/push"
)

// Audience selectors recognized by the dispatcher. Unknown selectors are
// recorded on the notification but apply no filter.
const (
	TargetSpecificBookBuyers = "Specific Book Buyers"
	TargetInactiveUsers      = "Inactive Users"
)

const (
	defaultMessage = "You have a new notification"
	defaultType    = "General"
	// screen the client app navigates to when the push is tapped
	notificationScreen = "Notifications"
)

// DispatchInput is the admin's dispatch request. Every field is optional;
// missing values fall back to defensive defaults on the stored record.
type DispatchInput struct {
	Message     string
	Type        string
	Target      []string
	BookID      *string
	ScheduledAt *time.Time
}

type NotificationService interface {
	Dispatch(ctx context.Context, in DispatchInput) (*models.Notification, error)
	GetAll(ctx context.Context, page, pageSize int) ([]models.Notification, int64, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
}

type notificationService struct {
	repo           repository.NotificationRepository
	userRepo       repository.UserRepository
	gateway        push.Gateway
	bus            *events.Bus
	inactiveWindow time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	gateway push.Gateway,
	bus *events.Bus,
	inactiveWindow time.Duration,
	logger *slog.Logger,
) NotificationService {
	return &notificationService{
		repo:           repo,
		userRepo:       userRepo,
		gateway:        gateway,
		bus:            bus,
		inactiveWindow: inactiveWindow,
		logger:         logger,
		now:            time.Now,
	}
}

// Dispatch resolves the target audience into device tokens, always persists
// an auditable notification record, and delivers immediately unless a
// scheduled date was given. Zero matching recipients is not an error; only
// storage failures propagate to the caller.
func (s *notificationService) Dispatch(ctx context.Context, in DispatchInput) (*models.Notification, error) {
	filter := s.resolveAudience(in)

	users, err := s.userRepo.FindAudience(ctx, filter)
	if err != nil {
		return nil, err
	}

	tokens := uniqueTokens(users)

	n := s.buildRecord(in, len(tokens))
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if n.Status == models.NotificationStatusSent {
		s.deliver(ctx, n, tokens)
	}

	s.bus.Publish(ctx, events.Event{Entity: "notification", Action: "created", ID: n.ID})
	return n, nil
}

func (s *notificationService) GetAll(ctx context.Context, page, pageSize int) ([]models.Notification, int64, error) {
	return s.repo.GetAll(ctx, page, pageSize)
}

func (s *notificationService) GetByID(ctx context.Context, id string) (*models.Notification, error) {
	return s.repo.GetByID(ctx, id)
}

// resolveAudience maps the selector list onto the filter's predicate
// fields. The fields compose as a logical AND in a fixed order, so the
// input order of selectors does not matter.
func (s *notificationService) resolveAudience(in DispatchInput) repository.AudienceFilter {
	var filter repository.AudienceFilter
	applied := false

	for _, sel := range in.Target {
		switch strings.TrimSpace(sel) {
		case TargetSpecificBookBuyers:
			if in.BookID == nil || *in.BookID == "" {
				s.logger.Warn("specific-book-buyers selector without book id; selector ignored")
				continue
			}
			filter.PurchasedBookID = in.BookID
			applied = true
		case TargetInactiveUsers:
			cutoff := s.now().Add(-s.inactiveWindow)
			filter.InactiveSince = &cutoff
			applied = true
		default:
			if trimmed := strings.TrimSpace(sel); trimmed != "" {
				s.logger.Warn("unknown audience selector", "selector", trimmed)
			}
		}
	}

	if !applied {
		s.logger.Warn("no audience filter applied; considering all users")
	}
	return filter
}

func (s *notificationService) buildRecord(in DispatchInput, recipients int) *models.Notification {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		message = defaultMessage
	}
	notifType := strings.TrimSpace(in.Type)
	if notifType == "" {
		notifType = defaultType
	}
	target := make(models.StringList, 0, len(in.Target))
	for _, sel := range in.Target {
		if trimmed := strings.TrimSpace(sel); trimmed != "" {
			target = append(target, trimmed)
		}
	}
	if len(target) == 0 {
		target = models.StringList{"Unknown"}
	}

	n := &models.Notification{
		Message:             message,
		Type:                notifType,
		Target:              target,
		BookID:              in.BookID,
		ScheduledAt:         in.ScheduledAt,
		EstimatedRecipients: recipients,
	}

	switch {
	case in.ScheduledAt != nil:
		n.Status = models.NotificationStatusScheduled
		n.SentAt = in.ScheduledAt
	case recipients > 0:
		n.Status = models.NotificationStatusSent
		now := s.now()
		n.SentAt = &now
	default:
		n.Status = models.NotificationStatusProcessed
	}

	return n
}

// deliver makes the single gateway call and writes the reported counts back
// onto the record. Gateway failures never surface as dispatch errors.
func (s *notificationService) deliver(ctx context.Context, n *models.Notification, tokens []string) {
	bookID := ""
	if n.BookID != nil {
		bookID = *n.BookID
	}

	payload := push.Payload{
		Notification: push.Notification{
			Title: n.Type,
			Body:  n.Message,
		},
		Data: push.Data{
			Type:   n.Type,
			BookID: bookID,
			Screen: notificationScreen,
		},
	}

	result, err := s.gateway.Send(ctx, tokens, payload)
	if err != nil {
		s.logger.Error("push delivery failed", "notification_id", n.ID, "tokens", len(tokens), "error", err)
		result = push.Result{SuccessCount: 0, FailureCount: len(tokens)}
	}

	if err := s.repo.UpdateDelivery(ctx, n.ID, result.SuccessCount, result.FailureCount); err != nil {
		s.logger.Error("failed to record delivery stats", "notification_id", n.ID, "error", err)
	}
	n.SuccessCount = result.SuccessCount
	n.FailureCount = result.FailureCount
}

// uniqueTokens unions every matched user's device tokens, preserving
// first-seen order.
func uniqueTokens(users []models.User) []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, u := range users {
		for _, t := range u.DeviceTokens {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			tokens = append(tokens, t)
		}
	}
	return tokens
}
