package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"charityhub/internal/domain"
)

// notify records a notification for the recipient. Delivery is
// best-effort: a failure is logged and never fails the operation that
// produced the event.
func notify(ctx context.Context, repo domain.NotificationRepository, logger zerolog.Logger, recipientID, title, message string, typ domain.NotificationType) {
	if repo == nil || recipientID == "" {
		return
	}
	n := &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        typ,
		CreatedAt:   time.Now(),
	}
	if err := repo.CreateNotification(ctx, n); err != nil {
		logger.Error().Err(err).Str("recipient_id", recipientID).Msg("create notification failed")
	}
}
