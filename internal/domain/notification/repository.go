package notification

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrNotificationNotFound is returned when a notification does not exist
// or belongs to another user.
var ErrNotificationNotFound = errors.New("notification not found")

// Repository handles notification persistence
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new notification repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a notification
func (r *Repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, body, data, created_at)
		VALUES (:id, :user_id, :type, :title, :body, :data, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, n)
	return err
}

// ListByUser returns the user's notifications, newest first
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*Notification, int, error) {
	where := "WHERE user_id = $1"
	if unreadOnly {
		where += " AND read_at IS NULL"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM notifications "+where, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, type, title, body, data, read_at, created_at
		FROM notifications ` + where + `
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`
	notifications := []*Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnread returns the number of unread notifications for the user
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL", userID)
	return count, err
}

// MarkRead marks a single notification as read, scoped to the owner
func (r *Repository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read_at = $1 WHERE id = $2 AND user_id = $3 AND read_at IS NULL",
		time.Now(), id, userID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Distinguish already-read from missing
		var exists bool
		err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND user_id = $2)", id, userID)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if !exists {
			return ErrNotificationNotFound
		}
	}
	return nil
}

// MarkAllRead marks every unread notification of the user as read
func (r *Repository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND read_at IS NULL",
		time.Now(), userID)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}

// DeleteOlderThan removes read notifications past the retention window
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM notifications WHERE read_at IS NOT NULL AND created_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	return int(rows), err
}
