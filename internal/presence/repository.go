// internal/presence/repository.go

package presence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// SetPresence writes the online flag and stamps last_seen. Going
	// offline stamps it too, so "last seen" reflects the disconnect.
	SetPresence(ctx context.Context, userID string, online bool) (*Presence, error)

	GetPresence(ctx context.Context, userID string) (*Presence, error)

	// SweepStale demotes users still flagged online whose last activity is
	// older than the cutoff. Returns how many were demoted.
	SweepStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SetPresence(ctx context.Context, userID string, online bool) (*Presence, error) {
	p := Presence{UserID: userID}

	query := `
		UPDATE users
		SET is_online = $2, last_seen = NOW()
		WHERE id = $1
		RETURNING is_online, last_seen`

	err := r.db.QueryRowxContext(ctx, query, userID, online).Scan(&p.IsOnline, &p.LastSeen)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set presence: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) GetPresence(ctx context.Context, userID string) (*Presence, error) {
	var p Presence
	query := `SELECT id, is_online, last_seen FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get presence: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) SweepStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		UPDATE users
		SET is_online = FALSE
		WHERE is_online = TRUE AND (last_seen IS NULL OR last_seen < $1)`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep stale presence: %w", err)
	}
	return result.RowsAffected()
}
