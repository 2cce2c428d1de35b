// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	CreateMessage(ctx context.Context, msg *Message) error
	ListByMatch(ctx context.Context, matchID string) ([]*Message, error)

	// MarkDelivered stamps every undelivered message addressed to the user
	// in a match. Returns how many rows changed.
	MarkDelivered(ctx context.Context, matchID, receiverID string) (int64, error)

	// MarkRead stamps the given messages read. Reading also delivers;
	// already-read messages are untouched. A non-empty receiverID restricts
	// the update to messages addressed to that user.
	MarkRead(ctx context.Context, receiverID string, messageIDs []string) (int64, error)

	GetMatchPair(ctx context.Context, matchID string) (user1ID, user2ID string, err error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// CreateMessage inserts a message already stamped delivered. There is no
// offline queue; a message that lands in the conversation is considered
// delivered the moment it is stored.
func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	query := `
		INSERT INTO messages (id, match_id, sender_id, receiver_id, content, is_delivered, delivered_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW())
		RETURNING is_delivered, delivered_at, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		msg.ID, msg.MatchID, msg.SenderID, msg.ReceiverID, msg.Content,
	).Scan(&msg.IsDelivered, &msg.DeliveredAt, &msg.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *postgresRepository) ListByMatch(ctx context.Context, matchID string) ([]*Message, error) {
	var messages []*Message
	query := `
		SELECT id, match_id, sender_id, receiver_id, content,
		       is_delivered, delivered_at, is_read, read_at, created_at
		FROM messages
		WHERE match_id = $1
		ORDER BY created_at ASC`

	if err := r.db.SelectContext(ctx, &messages, query, matchID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) MarkDelivered(ctx context.Context, matchID, receiverID string) (int64, error) {
	query := `
		UPDATE messages
		SET is_delivered = TRUE, delivered_at = NOW()
		WHERE match_id = $1 AND receiver_id = $2 AND is_delivered = FALSE`

	result, err := r.db.ExecContext(ctx, query, matchID, receiverID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages delivered: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) MarkRead(ctx context.Context, receiverID string, messageIDs []string) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = TRUE, read_at = NOW(),
		    is_delivered = TRUE, delivered_at = COALESCE(delivered_at, NOW())
		WHERE id = ANY($1) AND is_read = FALSE`

	args := []interface{}{pq.Array(messageIDs)}
	if receiverID != "" {
		query += ` AND receiver_id = $2`
		args = append(args, receiverID)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) GetMatchPair(ctx context.Context, matchID string) (string, string, error) {
	var pair struct {
		User1ID string `db:"user1_id"`
		User2ID string `db:"user2_id"`
	}

	query := `SELECT user1_id, user2_id FROM matches WHERE id = $1`
	err := r.db.GetContext(ctx, &pair, query, matchID)
	if err == sql.ErrNoRows {
		return "", "", ErrMatchNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to get match: %w", err)
	}
	return pair.User1ID, pair.User2ID, nil
}
