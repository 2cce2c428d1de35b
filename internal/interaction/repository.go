// internal/interaction/repository.go

package interaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	// ErrLikeExists signals a unique violation on (sender_id, receiver_id)
	ErrLikeExists = errors.New("like already exists")
	// ErrMatchExists signals a unique violation on the normalized match pair
	ErrMatchExists = errors.New("match already exists")
)

type Repository interface {
	CreateLike(ctx context.Context, like *Like) error
	GetLike(ctx context.Context, senderID, receiverID string) (*Like, error)
	GetLikeByID(ctx context.Context, id string) (*Like, error)
	GetIncomingLikes(ctx context.Context, receiverID string) ([]*Like, error)
	DeleteLikesForPair(ctx context.Context, userA, userB string) error

	CreatePass(ctx context.Context, senderID, targetID string) error

	CreateMatch(ctx context.Context, match *Match) error
	FindMatch(ctx context.Context, userA, userB string) (*Match, error)
	GetMatch(ctx context.Context, id string) (*Match, error)
	DeleteMatch(ctx context.Context, id string) error
	GetUserMatches(ctx context.Context, userID string) ([]*MatchView, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateLike(ctx context.Context, like *Like) error {
	if like.ID == "" {
		like.ID = uuid.NewString()
	}

	query := `
		INSERT INTO likes (id, sender_id, receiver_id, is_super)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		like.ID, like.SenderID, like.ReceiverID, like.IsSuper,
	).Scan(&like.CreatedAt)

	if isUniqueViolation(err) {
		return ErrLikeExists
	}
	if err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetLike(ctx context.Context, senderID, receiverID string) (*Like, error) {
	var like Like
	query := `
		SELECT id, sender_id, receiver_id, is_super, created_at
		FROM likes
		WHERE sender_id = $1 AND receiver_id = $2`

	err := r.db.GetContext(ctx, &like, query, senderID, receiverID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

func (r *postgresRepository) GetLikeByID(ctx context.Context, id string) (*Like, error) {
	var like Like
	query := `
		SELECT id, sender_id, receiver_id, is_super, created_at
		FROM likes
		WHERE id = $1`

	err := r.db.GetContext(ctx, &like, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrLikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

// GetIncomingLikes returns likes received by a user, newest first, with the
// sender's public info joined in.
func (r *postgresRepository) GetIncomingLikes(ctx context.Context, receiverID string) ([]*Like, error) {
	query := `
		SELECT l.id, l.sender_id, l.receiver_id, l.is_super, l.created_at,
		       u.id AS sender_uid, u.name, u.is_online, u.last_seen
		FROM likes l
		JOIN users u ON u.id = l.sender_id
		WHERE l.receiver_id = $1
		ORDER BY l.created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to get incoming likes: %w", err)
	}
	defer rows.Close()

	var likes []*Like
	for rows.Next() {
		var like Like
		var sender UserInfo
		err := rows.Scan(
			&like.ID, &like.SenderID, &like.ReceiverID, &like.IsSuper, &like.CreatedAt,
			&sender.ID, &sender.Name, &sender.IsOnline, &sender.LastSeen,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		like.Sender = &sender
		likes = append(likes, &like)
	}
	return likes, rows.Err()
}

// DeleteLikesForPair removes the likes in both directions between two users
func (r *postgresRepository) DeleteLikesForPair(ctx context.Context, userA, userB string) error {
	query := `
		DELETE FROM likes
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)`

	if _, err := r.db.ExecContext(ctx, query, userA, userB); err != nil {
		return fmt.Errorf("failed to delete likes: %w", err)
	}
	return nil
}

func (r *postgresRepository) CreatePass(ctx context.Context, senderID, targetID string) error {
	query := `
		INSERT INTO passes (sender_id, target_id)
		VALUES ($1, $2)
		ON CONFLICT (sender_id, target_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, senderID, targetID); err != nil {
		return fmt.Errorf("failed to create pass: %w", err)
	}
	return nil
}

// CreateMatch stores the pair normalized so the unique constraint catches a
// concurrent create from either side.
func (r *postgresRepository) CreateMatch(ctx context.Context, match *Match) error {
	if match.ID == "" {
		match.ID = uuid.NewString()
	}
	match.User1ID, match.User2ID = normalizePair(match.User1ID, match.User2ID)

	query := `
		INSERT INTO matches (id, user1_id, user2_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		match.ID, match.User1ID, match.User2ID,
	).Scan(&match.CreatedAt)

	if isUniqueViolation(err) {
		return ErrMatchExists
	}
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindMatch(ctx context.Context, userA, userB string) (*Match, error) {
	user1, user2 := normalizePair(userA, userB)

	var match Match
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM matches
		WHERE user1_id = $1 AND user2_id = $2`

	err := r.db.GetContext(ctx, &match, query, user1, user2)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &match, nil
}

func (r *postgresRepository) GetMatch(ctx context.Context, id string) (*Match, error) {
	var match Match
	query := `
		SELECT id, user1_id, user2_id, created_at
		FROM matches
		WHERE id = $1`

	err := r.db.GetContext(ctx, &match, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &match, nil
}

func (r *postgresRepository) DeleteMatch(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// GetUserMatches returns a user's matches, newest first, each with the other
// participant and the latest message in the conversation.
func (r *postgresRepository) GetUserMatches(ctx context.Context, userID string) ([]*MatchView, error) {
	query := `
		SELECT m.id, m.created_at,
		       u.id, u.name, u.is_online, u.last_seen,
		       lm.content, lm.created_at, lm.sender_id
		FROM matches m
		JOIN users u ON u.id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
		LEFT JOIN LATERAL (
			SELECT content, created_at, sender_id
			FROM messages
			WHERE match_id = m.id
			ORDER BY created_at DESC
			LIMIT 1
		) lm ON TRUE
		WHERE m.user1_id = $1 OR m.user2_id = $1
		ORDER BY m.created_at DESC`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	defer rows.Close()

	var views []*MatchView
	for rows.Next() {
		var view MatchView
		var user UserInfo
		var content, senderID sql.NullString
		var sentAt sql.NullTime

		err := rows.Scan(
			&view.ID, &view.CreatedAt,
			&user.ID, &user.Name, &user.IsOnline, &user.LastSeen,
			&content, &sentAt, &senderID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}

		view.User = &user
		if content.Valid {
			view.LastMessage = &LastMessage{
				Content:   content.String,
				Timestamp: sentAt.Time,
				SenderID:  senderID.String,
			}
		}
		views = append(views, &view)
	}
	return views, rows.Err()
}

// normalizePair orders two user IDs so a pair always maps to one match row
func normalizePair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
