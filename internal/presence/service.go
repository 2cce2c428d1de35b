// internal/presence/service.go

package presence

import (
	"context"
	"errors"
	"log"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type Service interface {
	SetOnline(ctx context.Context, userID string) (*Presence, error)
	SetOffline(ctx context.Context, userID string) (*Presence, error)
	GetStatus(ctx context.Context, userID string) (*Status, error)

	// SweepStale demotes users whose heartbeat went quiet. Returns how
	// many users were marked offline.
	SweepStale(ctx context.Context) (int64, error)
}

type Options struct {
	// Freshness bounds how old last_seen may be for the stored online
	// flag to still count as online now.
	Freshness time.Duration

	// StaleThreshold is how long a user may stay flagged online without
	// activity before the sweeper demotes them.
	StaleThreshold time.Duration
}

func (o *Options) withDefaults() Options {
	opts := Options{
		Freshness:      2 * time.Minute,
		StaleThreshold: 60 * time.Second,
	}
	if o == nil {
		return opts
	}
	if o.Freshness > 0 {
		opts.Freshness = o.Freshness
	}
	if o.StaleThreshold > 0 {
		opts.StaleThreshold = o.StaleThreshold
	}
	return opts
}

type service struct {
	repo  Repository
	cache *OnlineCache
	opts  Options
	now   func() time.Time
}

func NewService(repo Repository, cache *OnlineCache, opts *Options) Service {
	return &service{
		repo:  repo,
		cache: cache,
		opts:  opts.withDefaults(),
		now:   time.Now,
	}
}

func (s *service) SetOnline(ctx context.Context, userID string) (*Presence, error) {
	return s.setPresence(ctx, userID, true)
}

func (s *service) SetOffline(ctx context.Context, userID string) (*Presence, error) {
	return s.setPresence(ctx, userID, false)
}

func (s *service) setPresence(ctx context.Context, userID string, online bool) (*Presence, error) {
	p, err := s.repo.SetPresence(ctx, userID, online)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, p); err != nil {
		log.Printf("Failed to cache presence for user %s: %v", userID, err)
	}

	recordPresenceUpdate(online)
	return p, nil
}

func (s *service) GetStatus(ctx context.Context, userID string) (*Status, error) {
	p, ok := s.cache.Get(ctx, userID)
	if !ok {
		var err error
		p, err = s.repo.GetPresence(ctx, userID)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, p); err != nil {
			log.Printf("Failed to cache presence for user %s: %v", userID, err)
		}
	}

	return &Status{
		UserID:    p.UserID,
		IsOnline:  p.IsOnline,
		OnlineNow: s.onlineNow(p),
		LastSeen:  p.LastSeen,
	}, nil
}

func (s *service) SweepStale(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.opts.StaleThreshold)
	n, err := s.repo.SweepStale(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		recordSwept(n)
	}
	return n, nil
}

// onlineNow applies the freshness rule: the stored flag only counts while
// last activity is recent. A flagged-online user with no stamp at all is
// trusted until the sweeper catches them.
func (s *service) onlineNow(p *Presence) bool {
	if !p.IsOnline {
		return false
	}
	if p.LastSeen == nil {
		return true
	}
	return s.now().Sub(*p.LastSeen) < s.opts.Freshness
}
