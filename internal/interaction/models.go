// internal/interaction/models.go

package interaction

import (
	"time"
)

// Like is a directed interaction: sender liked receiver. At most one Like
// exists per ordered pair; a repeat like is a no-op.
type Like struct {
	ID         string    `json:"id" db:"id"`
	SenderID   string    `json:"senderId" db:"sender_id"`
	ReceiverID string    `json:"receiverId" db:"receiver_id"`
	IsSuper    bool      `json:"isSuper" db:"is_super"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`

	// Joined fields
	Sender *UserInfo `json:"sender,omitempty"`
}

// Match is the undirected relationship formed by mutual likes. The stored
// pair is normalized (user1 < user2) so (a,b) and (b,a) hit the same row.
type Match struct {
	ID        string    `json:"id" db:"id"`
	User1ID   string    `json:"user1Id" db:"user1_id"`
	User2ID   string    `json:"user2Id" db:"user2_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Contains reports whether the user is one of the match participants
func (m *Match) Contains(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Other returns the match participant that is not the given user
func (m *Match) Other(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

type UserInfo struct {
	ID       string     `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	IsOnline bool       `json:"isOnline" db:"is_online"`
	LastSeen *time.Time `json:"lastSeen,omitempty" db:"last_seen"`
}

// MatchView is the feed shape for a user's match list: the other
// participant plus the most recent message, newest match first.
type MatchView struct {
	ID          string       `json:"id"`
	User        *UserInfo    `json:"user"`
	LastMessage *LastMessage `json:"lastMessage"`
	CreatedAt   time.Time    `json:"createdAt"`
}

type LastMessage struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	SenderID  string    `json:"senderId"`
}

// LikeResult reports the outcome of a like: the (possibly pre-existing)
// Like row, the Match when a mutual like exists, and whether this call was
// a retried duplicate.
type LikeResult struct {
	Like         *Like  `json:"like"`
	Match        *Match `json:"match"`
	IsMatch      bool   `json:"isMatch"`
	AlreadyLiked bool   `json:"alreadyLiked,omitempty"`
}

// RespondResult reports the outcome of responding to an incoming like
type RespondResult struct {
	Success        bool   `json:"success"`
	Accepted       bool   `json:"accepted"`
	Match          *Match `json:"match,omitempty"`
	ReciprocalLike *Like  `json:"reciprocalLike,omitempty"`
}

// Request DTOs

type LikeRequest struct {
	SenderID   string `json:"senderId" validate:"required"`
	ReceiverID string `json:"receiverId" validate:"required"`
	IsSuper    bool   `json:"isSuper"`
}

type PassRequest struct {
	SenderID string `json:"senderId" validate:"required"`
	TargetID string `json:"targetId" validate:"required"`
}

type RespondToLikeRequest struct {
	UserID string `json:"userId" validate:"required"`
	Accept bool   `json:"accept"`
}
