package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"charityhub/internal/access"
	"charityhub/internal/auth"
	"charityhub/internal/domain"
)

// NotificationService lets recipients read and manage their own
// notifications. Creation happens only as a side effect of domain
// events elsewhere.
type NotificationService struct {
	notifications domain.NotificationRepository
	logger        zerolog.Logger
}

// NewNotificationService builds a NotificationService.
func NewNotificationService(notifications domain.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// List returns the actor's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor auth.Identity) ([]domain.Notification, error) {
	return s.notifications.ListNotificationsByRecipient(ctx, actor.UserID)
}

// MarkRead flags a notification as read; recipient only.
func (s *NotificationService) MarkRead(ctx context.Context, actor auth.Identity, id string) (*domain.Notification, error) {
	n, err := s.notifications.GetNotificationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, access.ActionNotificationUpdate, access.ForSelf(n.RecipientID)); err != nil {
		return nil, err
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	if err := s.notifications.UpdateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	return n, nil
}

// Delete removes a notification; recipient only.
func (s *NotificationService) Delete(ctx context.Context, actor auth.Identity, id string) error {
	n, err := s.notifications.GetNotificationByID(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Authorize(actor, access.ActionNotificationDelete, access.ForSelf(n.RecipientID)); err != nil {
		return err
	}
	return s.notifications.DeleteNotification(ctx, id)
}
