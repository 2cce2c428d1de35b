// internal/notification/service.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
)

type Service interface {
	// Notify routes a semantic event to the recipient's channels:
	// in-app record, email, or neither, depending on settings and presence.
	// It only errors when the recipient cannot be loaded; everything after
	// that is reported in the Result.
	Notify(ctx context.Context, userID string, typ Type, data Data) (*Result, error)

	// Event helpers used by the interaction and messaging services
	SendLikeNotification(ctx context.Context, likerID, receiverID string, isSuper bool) error
	SendMatchNotification(ctx context.Context, user1ID, user2ID string, matchID string) error
	SendMessageNotification(ctx context.Context, senderID, receiverID, matchID, messageID, preview string) error

	// Feed operations
	CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*Notification, error)
	GetUnreadNotifications(ctx context.Context, userID string) ([]*Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*Notification, error)
	MarkAllAsRead(ctx context.Context, userID string) error
}

// Options tune the router's windows. Zero values fall back to the
// behavior the clients are built against.
type Options struct {
	DedupWindow       time.Duration
	PresenceFreshness time.Duration
	EmailTimeout      time.Duration
	FeedLimit         int
}

func (o *Options) withDefaults() Options {
	opts := Options{
		DedupWindow:       5 * time.Second,
		PresenceFreshness: 2 * time.Minute,
		EmailTimeout:      5 * time.Second,
		FeedLimit:         10,
	}
	if o == nil {
		return opts
	}
	if o.DedupWindow > 0 {
		opts.DedupWindow = o.DedupWindow
	}
	if o.PresenceFreshness > 0 {
		opts.PresenceFreshness = o.PresenceFreshness
	}
	if o.EmailTimeout > 0 {
		opts.EmailTimeout = o.EmailTimeout
	}
	if o.FeedLimit > 0 {
		opts.FeedLimit = o.FeedLimit
	}
	return opts
}

type service struct {
	repo         Repository
	emailService EmailService
	opts         Options
	now          func() time.Time
}

func NewService(repo Repository, emailService EmailService, opts *Options) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
		opts:         opts.withDefaults(),
		now:          time.Now,
	}
}

// Notify implements the routing algorithm: load recipient, resolve text,
// gate by settings, gate email by presence, suppress duplicates inside the
// dedup window, then fire best-effort email and persist the in-app record.
func (s *service) Notify(ctx context.Context, userID string, typ Type, data Data) (*Result, error) {
	rec, err := s.repo.GetRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}

	subject, message, payload := s.resolveContent(ctx, typ, data)

	now := s.now()
	allowInApp := rec.AllowsInApp(typ)
	onlineNow := rec.RecentlyOnline(now, s.opts.PresenceFreshness)
	allowEmail := rec.AllowsEmail() && !onlineNow

	result := &Result{
		Email:   rec.Email,
		Subject: subject,
		Message: message,
	}

	if allowInApp {
		dup, err := s.repo.FindRecentDuplicate(ctx, userID, typ, message, now.Add(-s.opts.DedupWindow))
		if err != nil {
			log.Printf("Duplicate check failed for user %s: %v", userID, err)
		}
		if dup != nil {
			recordDeduped(typ)
			result.Duplicate = true
			return result, nil
		}
	}

	if allowEmail {
		emailCtx, cancel := context.WithTimeout(ctx, s.opts.EmailTimeout)
		err := s.emailService.Send(emailCtx, &Email{
			To:      *rec.Email,
			Subject: subject,
			Body:    message,
		})
		cancel()

		if err != nil {
			result.EmailError = err.Error()
			recordEmailFailure()
			log.Printf("Email send failed for user %s: %v", userID, err)
		} else {
			result.Sent = true
			recordRouted(typ, "email")
		}
	}

	if allowInApp {
		n := &Notification{
			UserID:  userID,
			Type:    typ,
			Title:   subject,
			Message: message,
			Data:    payload,
		}
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			// The email may already be out; report the miss, don't fail the event.
			log.Printf("Failed to persist notification for user %s: %v", userID, err)
		} else {
			result.CreatedNotification = true
			recordRouted(typ, "in_app")
		}
	}

	return result, nil
}

// resolveContent builds subject and message for a notification type,
// looking up the counterpart user's name where the text needs it. A failed
// lookup falls back to a placeholder rather than failing the notification.
func (s *service) resolveContent(ctx context.Context, typ Type, data Data) (subject, message string, payload Data) {
	payload = Data{}
	for k, v := range data {
		payload[k] = v
	}

	switch typ {
	case TypeMatch:
		subject = "💕 New Match on LoveMatch!"
		name := s.counterpartName(ctx, stringValue(data, "match_user_id"), "someone special")
		message = fmt.Sprintf("Great news! You have a new match with %s. They liked you back! Open LoveMatch to start chatting.", name)
		payload["userName"] = name

	case TypeMessage:
		subject = "💬 New Message on LoveMatch"
		name := s.counterpartName(ctx, stringValue(data, "sender_id"), "Someone")
		preview := stringValue(data, "message_preview")
		if preview == "" {
			preview = "New message"
		}
		message = fmt.Sprintf("%s sent you a message: %q Open LoveMatch to reply.", name, preview)
		payload["senderName"] = name
		payload["messagePreview"] = preview

	case TypeLike:
		name := s.counterpartName(ctx, stringValue(data, "liker_id"), "Someone")
		if boolValue(data, "is_super") {
			subject = "⭐ Super Like on LoveMatch!"
			message = fmt.Sprintf("%s super liked your profile! They really want to meet you. Like them back to start a conversation.", name)
		} else {
			subject = "❤️ Someone Liked You on LoveMatch!"
			message = fmt.Sprintf("%s liked your profile! Check out who it is and like them back to start a conversation.", name)
		}
		payload["likerName"] = name

	default:
		subject = "LoveMatch Notifications"
		message = "You have new activity on LoveMatch. Open the app to see what's happening!"
	}

	return subject, message, payload
}

func (s *service) counterpartName(ctx context.Context, userID, fallback string) string {
	if userID == "" {
		return fallback
	}
	name, err := s.repo.GetUserName(ctx, userID)
	if err != nil || name == "" {
		return fallback
	}
	return name
}

func stringValue(data Data, key string) string {
	if data == nil {
		return ""
	}
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func boolValue(data Data, key string) bool {
	if data == nil {
		return false
	}
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

// Event helpers

func (s *service) SendLikeNotification(ctx context.Context, likerID, receiverID string, isSuper bool) error {
	_, err := s.Notify(ctx, receiverID, TypeLike, Data{
		"liker_id": likerID,
		"is_super": isSuper,
	})
	return err
}

func (s *service) SendMatchNotification(ctx context.Context, user1ID, user2ID string, matchID string) error {
	// Both participants get a match notification; a failure on one side
	// must not suppress the other.
	_, err1 := s.Notify(ctx, user1ID, TypeMatch, Data{
		"match_id":      matchID,
		"match_user_id": user2ID,
	})
	if err1 != nil {
		log.Printf("Match notification to %s failed: %v", user1ID, err1)
	}

	_, err2 := s.Notify(ctx, user2ID, TypeMatch, Data{
		"match_id":      matchID,
		"match_user_id": user1ID,
	})
	if err2 != nil {
		log.Printf("Match notification to %s failed: %v", user2ID, err2)
	}

	if err1 != nil {
		return err1
	}
	return err2
}

func (s *service) SendMessageNotification(ctx context.Context, senderID, receiverID, matchID, messageID, preview string) error {
	_, err := s.Notify(ctx, receiverID, TypeMessage, Data{
		"sender_id":       senderID,
		"match_id":        matchID,
		"message_id":      messageID,
		"message_preview": preview,
	})
	return err
}

// Feed operations

func (s *service) CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*Notification, error) {
	n := &Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
		Data:    req.Data,
	}
	if n.Data == nil {
		n.Data = Data{}
	}

	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) GetUnreadNotifications(ctx context.Context, userID string) ([]*Notification, error) {
	return s.repo.GetUnreadNotifications(ctx, userID, s.opts.FeedLimit)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID string) (*Notification, error) {
	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	_, err := s.repo.MarkAllAsRead(ctx, userID)
	return err
}
