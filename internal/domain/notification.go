package domain

import "time"

// NotificationType enumerates notification categories.
type NotificationType string

const (
	NotificationTypeMembership NotificationType = "membership"
	NotificationTypeIssue      NotificationType = "issue"
	NotificationTypeDonation   NotificationType = "donation"
	NotificationTypeSystem     NotificationType = "system"
)

// Notification is a message delivered to a single recipient as a side
// effect of a domain event.
type Notification struct {
	ID          string
	RecipientID string
	Title       string
	Message     string
	Type        NotificationType
	Read        bool
	CreatedAt   time.Time
}
