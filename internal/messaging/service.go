// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"log"
	"strings"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrEmptyMessage     = errors.New("message content cannot be empty")
	ErrSenderNotInMatch = errors.New("sender is not part of this match")
)

const previewLength = 50

// Notifier is the slice of the notification service this package needs
type Notifier interface {
	SendMessageNotification(ctx context.Context, senderID, receiverID, matchID, messageID, preview string) error
}

type Service interface {
	// Send stores a message in a match. The sender must be one of the
	// match participants; the other participant is the recipient.
	Send(ctx context.Context, matchID string, req *SendMessageRequest) (*Message, error)

	// List returns a match's messages oldest first. When userID is set,
	// undelivered messages addressed to that user are stamped delivered
	// before the list is built.
	List(ctx context.Context, matchID, userID string) ([]*Message, error)

	// MarkRead stamps the given messages read and returns how many
	// actually changed. A non-empty userID restricts the update to
	// messages addressed to that user.
	MarkRead(ctx context.Context, userID string, messageIDs []string) (int64, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *service) Send(ctx context.Context, matchID string, req *SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	user1, user2, err := s.repo.GetMatchPair(ctx, matchID)
	if err != nil {
		return nil, err
	}

	var receiverID string
	switch req.SenderID {
	case user1:
		receiverID = user2
	case user2:
		receiverID = user1
	default:
		return nil, ErrSenderNotInMatch
	}

	msg := &Message{
		MatchID:    matchID,
		SenderID:   req.SenderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	recordMessageSent()

	preview := messagePreview(content)
	if err := s.notifier.SendMessageNotification(ctx, msg.SenderID, msg.ReceiverID, matchID, msg.ID, preview); err != nil {
		log.Printf("Message notification to %s failed: %v", msg.ReceiverID, err)
	}

	return msg, nil
}

func (s *service) List(ctx context.Context, matchID, userID string) ([]*Message, error) {
	if userID != "" {
		n, err := s.repo.MarkDelivered(ctx, matchID, userID)
		if err != nil {
			// Delivery stamping is a side effect of reading the list;
			// the list itself still works.
			log.Printf("Failed to mark messages delivered for user %s in match %s: %v", userID, matchID, err)
		} else if n > 0 {
			recordDelivered(n)
		}
	}

	return s.repo.ListByMatch(ctx, matchID)
}

func (s *service) MarkRead(ctx context.Context, userID string, messageIDs []string) (int64, error) {
	n, err := s.repo.MarkRead(ctx, userID, messageIDs)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		recordRead(n)
	}
	return n, nil
}

// messagePreview truncates content for the notification text
func messagePreview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
