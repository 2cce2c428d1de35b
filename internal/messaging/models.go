// internal/messaging/models.go

package messaging

import (
	"time"
)

// Message is one chat message inside a match. Delivery is stamped when the
// message reaches the recipient's client; read is stamped explicitly and
// implies delivered.
type Message struct {
	ID          string     `json:"id" db:"id"`
	MatchID     string     `json:"matchId" db:"match_id"`
	SenderID    string     `json:"senderId" db:"sender_id"`
	ReceiverID  string     `json:"receiverId" db:"receiver_id"`
	Content     string     `json:"content" db:"content"`
	IsDelivered bool       `json:"isDelivered" db:"is_delivered"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty" db:"delivered_at"`
	IsRead      bool       `json:"isRead" db:"is_read"`
	ReadAt      *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

type SendMessageRequest struct {
	SenderID string `json:"senderId" validate:"required"`
	Content  string `json:"content" validate:"required,max=2000"`
}

// MarkReadRequest marks messages read. UserID is optional: when set, only
// messages addressed to that user are touched; when absent the id list is
// trusted as-is.
type MarkReadRequest struct {
	UserID     string   `json:"userId"`
	MessageIDs []string `json:"messageIds" validate:"required,min=1"`
}
