package notification

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	recipients    map[string]*Recipient
	names         map[string]string
	notifications []*Notification
	failCreate    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recipients: make(map[string]*Recipient),
		names:      make(map[string]string),
	}
}

func (f *fakeRepo) CreateNotification(ctx context.Context, n *Notification) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	if n.ID == "" {
		n.ID = fmt.Sprintf("n-%d", len(f.notifications)+1)
	}
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeRepo) FindRecentDuplicate(ctx context.Context, userID string, typ Type, message string, since time.Time) (*Notification, error) {
	for i := len(f.notifications) - 1; i >= 0; i-- {
		n := f.notifications[i]
		if n.UserID == userID && n.Type == typ && n.Message == message && !n.CreatedAt.Before(since) {
			return n, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetUnreadNotifications(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	var out []*Notification
	for i := len(f.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		n := f.notifications[i]
		if n.UserID == userID && !n.IsRead {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkAsRead(ctx context.Context, notificationID string) (*Notification, error) {
	for _, n := range f.notifications {
		if n.ID == notificationID {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			return n, nil
		}
	}
	return nil, ErrNotificationNotFound
}

func (f *fakeRepo) MarkAllAsRead(ctx context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetRecipient(ctx context.Context, userID string) (*Recipient, error) {
	rec, ok := f.recipients[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return rec, nil
}

func (f *fakeRepo) GetUserName(ctx context.Context, userID string) (string, error) {
	name, ok := f.names[userID]
	if !ok {
		return "", ErrUserNotFound
	}
	return name, nil
}

func strptr(s string) *string { return &s }

func newTestService(repo *fakeRepo, email *MockEmailService) *service {
	svc := NewService(repo, email, nil).(*service)
	return svc
}

func TestNotifyCreatesInAppRecord(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	result, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)

	assert.True(t, result.CreatedNotification)
	assert.False(t, result.Duplicate)
	require.Len(t, repo.notifications, 1)
	assert.Equal(t, "alice", repo.notifications[0].UserID)
	assert.Contains(t, repo.notifications[0].Message, "Bob")
	assert.Equal(t, "Bob", repo.notifications[0].Data["likerName"])
}

func TestNotifyUnknownRecipient(t *testing.T) {
	svc := newTestService(newFakeRepo(), NewMockEmailService())

	_, err := svc.Notify(context.Background(), "ghost", TypeLike, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestNotifySuppressesDuplicateInsideWindow(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	repo.names["bob"] = "Bob"
	svc := newTestService(repo, NewMockEmailService())

	first, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)
	assert.True(t, first.CreatedNotification)

	second, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.False(t, second.CreatedNotification)
	assert.Len(t, repo.notifications, 1)
}

func TestNotifyAllowsRepeatOutsideWindow(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	repo.names["bob"] = "Bob"
	svc := newTestService(repo, NewMockEmailService())

	_, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)

	// Age the stored record past the dedup window
	repo.notifications[0].CreatedAt = time.Now().Add(-10 * time.Second)

	second, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)
	assert.False(t, second.Duplicate)
	assert.Len(t, repo.notifications, 2)
}

func TestNotifyEmailsOfflineRecipient(t *testing.T) {
	lastSeen := time.Now().Add(-time.Hour)
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{
		ID:       "alice",
		Name:     "Alice",
		Email:    strptr("alice@example.com"),
		IsOnline: false,
		LastSeen: &lastSeen,
	}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	result, err := svc.Notify(context.Background(), "alice", TypeMatch, Data{"match_user_id": "bob"})
	require.NoError(t, err)

	assert.True(t, result.Sent)
	require.Len(t, email.Sent(), 1)
	assert.Equal(t, "alice@example.com", email.Sent()[0].To)
	assert.Contains(t, email.Sent()[0].Body, "Bob")
}

func TestNotifySkipsEmailForOnlineRecipient(t *testing.T) {
	lastSeen := time.Now().Add(-30 * time.Second)
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{
		ID:       "alice",
		Name:     "Alice",
		Email:    strptr("alice@example.com"),
		IsOnline: true,
		LastSeen: &lastSeen,
	}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	result, err := svc.Notify(context.Background(), "alice", TypeMatch, Data{"match_user_id": "bob"})
	require.NoError(t, err)

	assert.False(t, result.Sent)
	assert.Empty(t, email.Sent())
	assert.True(t, result.CreatedNotification)
}

func TestNotifyEmailsWhenOnlineFlagIsStale(t *testing.T) {
	// Flagged online but silent for longer than the freshness window:
	// treated as away, so email goes out.
	lastSeen := time.Now().Add(-5 * time.Minute)
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{
		ID:       "alice",
		Name:     "Alice",
		Email:    strptr("alice@example.com"),
		IsOnline: true,
		LastSeen: &lastSeen,
	}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	result, err := svc.Notify(context.Background(), "alice", TypeMessage, Data{"sender_id": "bob", "message_preview": "hey"})
	require.NoError(t, err)

	assert.True(t, result.Sent)
	require.Len(t, email.Sent(), 1)
}

func TestNotifyRespectsSettingsGates(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{
		ID:    "alice",
		Name:  "Alice",
		Email: strptr("alice@example.com"),
		Settings: &Settings{
			EmailNotifications:   false,
			MatchNotifications:   false,
			MessageNotifications: true,
			PushNotifications:    true,
		},
	}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	// Match notifications disabled: nothing persisted, email opted out too
	result, err := svc.Notify(context.Background(), "alice", TypeMatch, Data{"match_user_id": "bob"})
	require.NoError(t, err)
	assert.False(t, result.CreatedNotification)
	assert.False(t, result.Sent)
	assert.Empty(t, repo.notifications)

	// Message notifications still enabled
	result, err = svc.Notify(context.Background(), "alice", TypeMessage, Data{"sender_id": "bob"})
	require.NoError(t, err)
	assert.True(t, result.CreatedNotification)
	assert.Empty(t, email.Sent())
}

func TestNotifyMissingSettingsMeansAllEnabled(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{
		ID:    "alice",
		Name:  "Alice",
		Email: strptr("alice@example.com"),
	}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	result, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)
	assert.True(t, result.CreatedNotification)
	assert.True(t, result.Sent)
}

func TestNotifyPersistFailureStillReportsEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.failCreate = true
	repo.recipients["alice"] = &Recipient{
		ID:    "alice",
		Name:  "Alice",
		Email: strptr("alice@example.com"),
	}
	repo.names["bob"] = "Bob"
	email := NewMockEmailService()
	svc := newTestService(repo, email)

	result, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob"})
	require.NoError(t, err)
	assert.True(t, result.Sent)
	assert.False(t, result.CreatedNotification)
}

func TestNotifySuperLikeGetsDistinctText(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	repo.names["bob"] = "Bob"
	svc := newTestService(repo, NewMockEmailService())

	plain, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob", "is_super": false})
	require.NoError(t, err)
	super, err := svc.Notify(context.Background(), "alice", TypeLike, Data{"liker_id": "bob", "is_super": true})
	require.NoError(t, err)

	assert.NotEqual(t, plain.Subject, super.Subject)
	assert.Contains(t, super.Subject, "Super Like")
	assert.Contains(t, super.Message, "super liked")
	assert.False(t, super.Duplicate)
}

func TestNotifyFallbackNamesOnLookupFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	svc := newTestService(repo, NewMockEmailService())

	result, err := svc.Notify(context.Background(), "alice", TypeMatch, Data{"match_user_id": "unknown"})
	require.NoError(t, err)
	assert.Contains(t, result.Message, "someone special")
}

func TestSendMatchNotificationReachesBothUsers(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	repo.recipients["bob"] = &Recipient{ID: "bob", Name: "Bob"}
	repo.names["alice"] = "Alice"
	repo.names["bob"] = "Bob"
	svc := newTestService(repo, NewMockEmailService())

	err := svc.SendMatchNotification(context.Background(), "alice", "bob", "match-1")
	require.NoError(t, err)

	require.Len(t, repo.notifications, 2)
	assert.Equal(t, "alice", repo.notifications[0].UserID)
	assert.Equal(t, "bob", repo.notifications[1].UserID)
}

func TestSendMatchNotificationPartialFailure(t *testing.T) {
	// Only bob exists; alice's failure must not suppress bob's notification
	repo := newFakeRepo()
	repo.recipients["bob"] = &Recipient{ID: "bob", Name: "Bob"}
	repo.names["alice"] = "Alice"
	svc := newTestService(repo, NewMockEmailService())

	err := svc.SendMatchNotification(context.Background(), "alice", "bob", "match-1")
	assert.Error(t, err)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, "bob", repo.notifications[0].UserID)
}

func TestMarkAsReadUnknownNotification(t *testing.T) {
	svc := newTestService(newFakeRepo(), NewMockEmailService())

	_, err := svc.MarkAsRead(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestGetUnreadNotificationsHonorsLimit(t *testing.T) {
	repo := newFakeRepo()
	repo.recipients["alice"] = &Recipient{ID: "alice", Name: "Alice"}
	svc := NewService(repo, NewMockEmailService(), &Options{FeedLimit: 3})

	for i := 0; i < 5; i++ {
		err := repo.CreateNotification(context.Background(), &Notification{
			UserID:  "alice",
			Type:    TypeLike,
			Message: fmt.Sprintf("like %d", i),
		})
		require.NoError(t, err)
	}

	unread, err := svc.GetUnreadNotifications(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, unread, 3)
}
