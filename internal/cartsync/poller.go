package cartsync

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Run performs an immediate refresh and then re-enters the loading state on
// every tick until ctx is cancelled. Refresh failures do not stop the loop;
// each tick is an independent retry. Returns nil on cancellation.
func (s *Synchronizer) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Debug("initial refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("cart poller stopped")
			return nil
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.logger.Debug("poll tick refresh failed", zap.Error(err))
			}
		}
	}
}

// Start launches Run in a goroutine and returns a stop function that
// cancels the loop and waits for it to exit. Stop is idempotent; the timer
// is released exactly once on teardown.
func (s *Synchronizer) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = s.Run(ctx)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
