// internal/notification/models.go

package notification

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Type represents different notification types
type Type string

const (
	TypeMatch   Type = "match"
	TypeLike    Type = "like"
	TypeMessage Type = "message"
)

// Notification represents an in-app notification entity
type Notification struct {
	ID        string     `json:"id" db:"id"`
	UserID    string     `json:"userId" db:"user_id"`
	Type      Type       `json:"type" db:"type"`
	Title     string     `json:"title" db:"title"`
	Message   string     `json:"message" db:"message"`
	Data      Data       `json:"data" db:"data"`
	IsRead    bool       `json:"isRead" db:"is_read"`
	ReadAt    *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

// Data represents additional notification data
type Data map[string]interface{}

// Scan implements sql.Scanner interface
func (d *Data) Scan(value interface{}) error {
	if value == nil {
		*d = make(Data)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, d)
}

// Value implements driver.Valuer interface
func (d Data) Value() (driver.Value, error) {
	if d == nil {
		return "{}", nil
	}
	return json.Marshal(d)
}

// Settings holds a user's per-category notification preferences.
// A missing settings row means every category is enabled.
type Settings struct {
	EmailNotifications   bool `json:"emailNotifications" db:"email_notifications"`
	MatchNotifications   bool `json:"matchNotifications" db:"match_notifications"`
	MessageNotifications bool `json:"messageNotifications" db:"message_notifications"`
	PushNotifications    bool `json:"pushNotifications" db:"push_notifications"`
}

// Recipient is the routing view of a user: identity, presence and settings.
type Recipient struct {
	ID       string     `db:"id"`
	Name     string     `db:"name"`
	Email    *string    `db:"email"`
	IsOnline bool       `db:"is_online"`
	LastSeen *time.Time `db:"last_seen"`
	Settings *Settings
}

// AllowsInApp reports whether the recipient accepts in-app notifications
// of the given type.
func (r *Recipient) AllowsInApp(typ Type) bool {
	if r.Settings == nil {
		return true
	}
	switch typ {
	case TypeMessage:
		return r.Settings.MessageNotifications
	case TypeMatch, TypeLike:
		return r.Settings.MatchNotifications
	default:
		return r.Settings.PushNotifications
	}
}

// AllowsEmail reports whether the recipient accepts email at all.
// Presence is checked separately by the router.
func (r *Recipient) AllowsEmail() bool {
	if r.Email == nil || *r.Email == "" {
		return false
	}
	return r.Settings == nil || r.Settings.EmailNotifications
}

// RecentlyOnline reports whether the recipient counts as online right now.
// A user flagged online with no last_seen stamp is trusted; otherwise the
// flag only counts while last_seen is within the freshness window.
func (r *Recipient) RecentlyOnline(now time.Time, freshness time.Duration) bool {
	if !r.IsOnline {
		return false
	}
	if r.LastSeen == nil {
		return true
	}
	return now.Sub(*r.LastSeen) < freshness
}

// Result reports what the router attempted and what actually happened.
// Partial failures (email bounced, duplicate suppressed) live here, never
// in the returned error.
type Result struct {
	Sent                bool    `json:"sent"`
	Duplicate           bool    `json:"duplicate,omitempty"`
	CreatedNotification bool    `json:"createdNotification"`
	Email               *string `json:"email,omitempty"`
	Subject             string  `json:"subject"`
	Message             string  `json:"message"`
	EmailError          string  `json:"emailError,omitempty"`
}

// CreateNotificationRequest represents a direct notification create call
type CreateNotificationRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Type    Type   `json:"type" validate:"required"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
	Data    Data   `json:"data,omitempty"`
}
