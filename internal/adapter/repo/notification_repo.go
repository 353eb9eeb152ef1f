package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"charityhub/internal/domain"
)

// NotificationRepositoryPG implements domain.NotificationRepository
// backed by PostgreSQL.
type NotificationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepositoryPG.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepositoryPG {
	return &NotificationRepositoryPG{pool: pool}
}

const notificationColumns = `id, recipient_id, title, message, type, read, created_at`

// CreateNotification inserts a new notification row.
func (r *NotificationRepositoryPG) CreateNotification(ctx context.Context, n *domain.Notification) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO notifications (id, recipient_id, title, message, type, read)
VALUES ($1, $2, $3, $4, $5, $6);
`, n.ID, n.RecipientID, n.Title, n.Message, n.Type, n.Read)
	return err
}

// GetNotificationByID fetches a notification by id.
func (r *NotificationRepositoryPG) GetNotificationByID(ctx context.Context, id string) (*domain.Notification, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	return scanNotification(row)
}

// UpdateNotification persists the read flag.
func (r *NotificationRepositoryPG) UpdateNotification(ctx context.Context, n *domain.Notification) error {
	tag, err := r.pool.Exec(ctx, `UPDATE notifications SET read = $2 WHERE id = $1`, n.ID, n.Read)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteNotification removes a notification.
func (r *NotificationRepositoryPG) DeleteNotification(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListNotificationsByRecipient returns a recipient's notifications,
// most recent first.
func (r *NotificationRepositoryPG) ListNotificationsByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+notificationColumns+`
FROM notifications
WHERE recipient_id = $1
ORDER BY created_at DESC;
`, recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}
