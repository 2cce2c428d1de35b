// internal/presence/models.go

package presence

import (
	"time"
)

// Presence is the stored online flag plus the last activity stamp
type Presence struct {
	UserID   string     `json:"userId" db:"id"`
	IsOnline bool       `json:"isOnline" db:"is_online"`
	LastSeen *time.Time `json:"lastSeen,omitempty" db:"last_seen"`
}

// Status is the client-facing view. OnlineNow is derived: the stored flag
// only counts while the last activity is fresh.
type Status struct {
	UserID    string     `json:"userId"`
	IsOnline  bool       `json:"isOnline"`
	OnlineNow bool       `json:"onlineNow"`
	LastSeen  *time.Time `json:"lastSeen,omitempty"`
}

type PresenceRequest struct {
	UserID string `json:"userId" validate:"required"`
}
