package interaction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovematch/backend/internal/notification"
)

// End-to-end flow through the real notification router: like -> email to the
// offline receiver, mutual like -> match notifications to both sides.

type fakeNotificationRepo struct {
	recipients    map[string]*notification.Recipient
	names         map[string]string
	notifications []*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{
		recipients: make(map[string]*notification.Recipient),
		names:      make(map[string]string),
	}
}

func (f *fakeNotificationRepo) CreateNotification(ctx context.Context, n *notification.Notification) error {
	if n.ID == "" {
		n.ID = fmt.Sprintf("n-%d", len(f.notifications)+1)
	}
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationRepo) FindRecentDuplicate(ctx context.Context, userID string, typ notification.Type, message string, since time.Time) (*notification.Notification, error) {
	for i := len(f.notifications) - 1; i >= 0; i-- {
		n := f.notifications[i]
		if n.UserID == userID && n.Type == typ && n.Message == message && !n.CreatedAt.Before(since) {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeNotificationRepo) GetUnreadNotifications(ctx context.Context, userID string, limit int) ([]*notification.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID string) (*notification.Notification, error) {
	return nil, notification.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) GetRecipient(ctx context.Context, userID string) (*notification.Recipient, error) {
	rec, ok := f.recipients[userID]
	if !ok {
		return nil, notification.ErrUserNotFound
	}
	return rec, nil
}

func (f *fakeNotificationRepo) GetUserName(ctx context.Context, userID string) (string, error) {
	name, ok := f.names[userID]
	if !ok {
		return "", notification.ErrUserNotFound
	}
	return name, nil
}

func (f *fakeNotificationRepo) byType(typ notification.Type, userID string) []*notification.Notification {
	var out []*notification.Notification
	for _, n := range f.notifications {
		if n.Type == typ && n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func TestLikeThenMutualLikeNotificationFlow(t *testing.T) {
	email := "alice@example.com"
	lastSeen := time.Now().Add(-time.Hour)

	notifRepo := newFakeNotificationRepo()
	notifRepo.recipients["alice"] = &notification.Recipient{
		ID:       "alice",
		Name:     "Alice",
		Email:    &email,
		IsOnline: false,
		LastSeen: &lastSeen,
	}
	notifRepo.recipients["bob"] = &notification.Recipient{ID: "bob", Name: "Bob"}
	notifRepo.names["alice"] = "Alice"
	notifRepo.names["bob"] = "Bob"

	mailer := notification.NewMockEmailService()
	notifier := notification.NewService(notifRepo, mailer, nil)
	svc := NewService(newFakeRepo(), notifier)

	// Bob likes Alice: one like notification for her, one email out
	result, err := svc.Like(context.Background(), "bob", "alice", false)
	require.NoError(t, err)
	assert.False(t, result.IsMatch)

	likeNotifs := notifRepo.byType(notification.TypeLike, "alice")
	require.Len(t, likeNotifs, 1)
	assert.Contains(t, likeNotifs[0].Message, "Bob")
	require.Len(t, mailer.Sent(), 1)
	assert.Equal(t, email, mailer.Sent()[0].To)

	// Alice likes back: one match, a match notification on each side,
	// and no re-fired like notification for her
	result, err = svc.Like(context.Background(), "alice", "bob", false)
	require.NoError(t, err)
	assert.True(t, result.IsMatch)
	require.NotNil(t, result.Match)

	assert.Len(t, notifRepo.byType(notification.TypeMatch, "alice"), 1)
	assert.Len(t, notifRepo.byType(notification.TypeMatch, "bob"), 1)
	assert.Len(t, notifRepo.byType(notification.TypeLike, "alice"), 1)

	// Retry of the mutual like changes nothing
	retry, err := svc.Like(context.Background(), "alice", "bob", false)
	require.NoError(t, err)
	assert.True(t, retry.AlreadyLiked)
	assert.Equal(t, result.Match.ID, retry.Match.ID)
	assert.Len(t, notifRepo.byType(notification.TypeMatch, "alice"), 1)
	assert.Len(t, notifRepo.byType(notification.TypeLike, "bob"), 1)
}
