// internal/notification/repository.go

package notification

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	FindRecentDuplicate(ctx context.Context, userID string, typ Type, message string, since time.Time) (*Notification, error)
	GetUnreadNotifications(ctx context.Context, userID string, limit int) ([]*Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) (int64, error)

	GetRecipient(ctx context.Context, userID string) (*Recipient, error)
	GetUserName(ctx context.Context, userID string) (string, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateNotification persists a new in-app notification
func (r *postgresRepository) CreateNotification(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	query := `
        INSERT INTO notifications (id, user_id, type, title, message, data, is_read)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data, n.IsRead,
	).Scan(&n.CreatedAt)
}

// FindRecentDuplicate looks for an identical (user, type, message) notification
// created at or after the given instant. This is the persisted dedup-window
// query: it must hit the database, not process memory, so it holds across
// multiple service instances.
func (r *postgresRepository) FindRecentDuplicate(ctx context.Context, userID string, typ Type, message string, since time.Time) (*Notification, error) {
	var n Notification
	query := `
        SELECT id, user_id, type, title, message, data, is_read, read_at, created_at
        FROM notifications
        WHERE user_id = $1 AND type = $2 AND message = $3 AND created_at >= $4
        ORDER BY created_at DESC
        LIMIT 1`

	err := r.db.GetContext(ctx, &n, query, userID, typ, message, since)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetUnreadNotifications returns the newest unread notifications for a user
func (r *postgresRepository) GetUnreadNotifications(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	var notifications []*Notification
	query := `
        SELECT id, user_id, type, title, message, data, is_read, read_at, created_at
        FROM notifications
        WHERE user_id = $1 AND is_read = false
        ORDER BY created_at DESC
        LIMIT $2`

	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	return notifications, err
}

// MarkAsRead marks a notification as read and returns the updated record
func (r *postgresRepository) MarkAsRead(ctx context.Context, notificationID string) (*Notification, error) {
	var n Notification
	query := `
        UPDATE notifications
        SET is_read = true, read_at = NOW()
        WHERE id = $1
        RETURNING id, user_id, type, title, message, data, is_read, read_at, created_at`

	err := r.db.QueryRowxContext(ctx, query, notificationID).StructScan(&n)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkAllAsRead marks all unread notifications as read for a user
func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	query := `
        UPDATE notifications
        SET is_read = true, read_at = NOW()
        WHERE user_id = $1 AND is_read = false`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetRecipient loads a user together with presence fields and settings.
// A missing user_settings row leaves Settings nil.
func (r *postgresRepository) GetRecipient(ctx context.Context, userID string) (*Recipient, error) {
	query := `
        SELECT u.id, u.name, u.email, u.is_online, u.last_seen,
               s.email_notifications, s.match_notifications,
               s.message_notifications, s.push_notifications
        FROM users u
        LEFT JOIN user_settings s ON s.user_id = u.id
        WHERE u.id = $1`

	var rec Recipient
	var emailNotif, matchNotif, messageNotif, pushNotif sql.NullBool

	err := r.db.QueryRowxContext(ctx, query, userID).Scan(
		&rec.ID, &rec.Name, &rec.Email, &rec.IsOnline, &rec.LastSeen,
		&emailNotif, &matchNotif, &messageNotif, &pushNotif,
	)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if emailNotif.Valid {
		rec.Settings = &Settings{
			EmailNotifications:   emailNotif.Bool,
			MatchNotifications:   matchNotif.Bool,
			MessageNotifications: messageNotif.Bool,
			PushNotifications:    pushNotif.Bool,
		}
	}

	return &rec, nil
}

// GetUserName looks up a display name for notification text
func (r *postgresRepository) GetUserName(ctx context.Context, userID string) (string, error) {
	var name string
	err := r.db.GetContext(ctx, &name, `SELECT name FROM users WHERE id = $1`, userID)
	if err == sql.ErrNoRows {
		return "", ErrUserNotFound
	}
	return name, err
}
