// internal/presence/sweeper.go

package presence

import (
	"context"
	"log"
	"time"
)

// Sweeper periodically demotes users whose online flag went stale. Running
// more than one sweeper is harmless; the demotion is idempotent.
type Sweeper struct {
	service  Service
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(service Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Sweeper{
		service:  service,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Sweeper) Start() {
	go s.run()
	log.Printf("Presence sweeper started (interval %s)", s.interval)
}

func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.service.SweepStale(ctx)
	if err != nil {
		log.Printf("Presence sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Presence sweep marked %d user(s) offline", n)
	}
}
