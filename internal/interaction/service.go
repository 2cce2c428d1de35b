// internal/interaction/service.go

package interaction

import (
	"context"
	"errors"
	"fmt"
	"log"
)

var (
	ErrLikeNotFound    = errors.New("like not found")
	ErrMatchNotFound   = errors.New("match not found")
	ErrSelfInteraction = errors.New("cannot interact with yourself")
)

// Notifier is the slice of the notification service this package needs.
// Notification failures are logged and never fail the interaction.
type Notifier interface {
	SendLikeNotification(ctx context.Context, likerID, receiverID string, isSuper bool) error
	SendMatchNotification(ctx context.Context, user1ID, user2ID string, matchID string) error
}

type Service interface {
	// Like records a directed like and creates a match when the reverse
	// like already exists. A repeat like returns the existing state.
	Like(ctx context.Context, senderID, receiverID string, isSuper bool) (*LikeResult, error)

	// Pass records a skip. Passes are silent: no notifications, no match.
	Pass(ctx context.Context, senderID, targetID string) error

	// RespondToLike accepts or rejects an incoming like. Accepting creates
	// the reciprocal like and the match; rejecting changes nothing.
	RespondToLike(ctx context.Context, likeID, userID string, accept bool) (*RespondResult, error)

	// Unmatch deletes the match and both directional likes, so either user
	// can like the other again from scratch.
	Unmatch(ctx context.Context, matchID string) error

	GetIncomingLikes(ctx context.Context, userID string) ([]*Like, error)
	GetMatches(ctx context.Context, userID string) ([]*MatchView, error)
	GetMatch(ctx context.Context, matchID string) (*Match, error)
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

func (s *service) Like(ctx context.Context, senderID, receiverID string, isSuper bool) (*LikeResult, error) {
	if senderID == receiverID {
		return nil, ErrSelfInteraction
	}

	existing, err := s.repo.GetLike(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.existingLikeResult(ctx, existing)
	}

	like := &Like{
		SenderID:   senderID,
		ReceiverID: receiverID,
		IsSuper:    isSuper,
	}
	err = s.repo.CreateLike(ctx, like)
	if errors.Is(err, ErrLikeExists) {
		// Lost a race against an identical like; report the winner's state
		winner, err := s.repo.GetLike(ctx, senderID, receiverID)
		if err != nil {
			return nil, err
		}
		if winner == nil {
			return nil, fmt.Errorf("like vanished after conflict for %s -> %s", senderID, receiverID)
		}
		return s.existingLikeResult(ctx, winner)
	}
	if err != nil {
		return nil, err
	}
	recordLike(isSuper)

	reverse, err := s.repo.GetLike(ctx, receiverID, senderID)
	if err != nil {
		return nil, err
	}

	var match *Match
	if reverse != nil {
		var created bool
		match, created, err = s.ensureMatch(ctx, senderID, receiverID)
		if err != nil {
			return nil, err
		}
		if created {
			if err := s.notifier.SendMatchNotification(ctx, senderID, receiverID, match.ID); err != nil {
				log.Printf("Match notification for %s failed: %v", match.ID, err)
			}
		}
	}

	if err := s.notifier.SendLikeNotification(ctx, senderID, receiverID, isSuper); err != nil {
		log.Printf("Like notification to %s failed: %v", receiverID, err)
	}

	return &LikeResult{
		Like:    like,
		Match:   match,
		IsMatch: match != nil,
	}, nil
}

// existingLikeResult reports the current state for a duplicate like without
// re-triggering notifications or match creation.
func (s *service) existingLikeResult(ctx context.Context, like *Like) (*LikeResult, error) {
	match, err := s.repo.FindMatch(ctx, like.SenderID, like.ReceiverID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{
		Like:         like,
		Match:        match,
		IsMatch:      match != nil,
		AlreadyLiked: true,
	}, nil
}

func (s *service) Pass(ctx context.Context, senderID, targetID string) error {
	if senderID == targetID {
		return ErrSelfInteraction
	}
	if err := s.repo.CreatePass(ctx, senderID, targetID); err != nil {
		return err
	}
	recordPass()
	return nil
}

func (s *service) RespondToLike(ctx context.Context, likeID, userID string, accept bool) (*RespondResult, error) {
	like, err := s.repo.GetLikeByID(ctx, likeID)
	if err != nil {
		return nil, err
	}

	if !accept {
		return &RespondResult{Success: true}, nil
	}

	// Accepting is just liking back; reuse the same path so idempotency,
	// match creation, and notifications behave identically.
	result, err := s.Like(ctx, userID, like.SenderID, false)
	if err != nil {
		return nil, err
	}

	return &RespondResult{
		Success:        true,
		Accepted:       true,
		Match:          result.Match,
		ReciprocalLike: result.Like,
	}, nil
}

func (s *service) Unmatch(ctx context.Context, matchID string) error {
	match, err := s.repo.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteMatch(ctx, matchID); err != nil && !errors.Is(err, ErrMatchNotFound) {
		return err
	}

	if err := s.repo.DeleteLikesForPair(ctx, match.User1ID, match.User2ID); err != nil {
		return err
	}

	recordUnmatch()
	return nil
}

func (s *service) GetIncomingLikes(ctx context.Context, userID string) ([]*Like, error) {
	return s.repo.GetIncomingLikes(ctx, userID)
}

func (s *service) GetMatches(ctx context.Context, userID string) ([]*MatchView, error) {
	return s.repo.GetUserMatches(ctx, userID)
}

func (s *service) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	return s.repo.GetMatch(ctx, matchID)
}

// ensureMatch returns the match for a pair, creating it when absent. A
// concurrent create from the other side resolves to the same row via the
// unique constraint on the normalized pair.
func (s *service) ensureMatch(ctx context.Context, userA, userB string) (*Match, bool, error) {
	match, err := s.repo.FindMatch(ctx, userA, userB)
	if err != nil {
		return nil, false, err
	}
	if match != nil {
		return match, false, nil
	}

	match = &Match{User1ID: userA, User2ID: userB}
	err = s.repo.CreateMatch(ctx, match)
	if errors.Is(err, ErrMatchExists) {
		match, err = s.repo.FindMatch(ctx, userA, userB)
		if err != nil {
			return nil, false, err
		}
		if match == nil {
			return nil, false, fmt.Errorf("match vanished after conflict for %s/%s", userA, userB)
		}
		return match, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	recordMatch()
	return match, true, nil
}
