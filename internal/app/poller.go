package app

import (
	"context"
	"log"
	"time"

	"daylist/internal/store"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// StartPoller launches a background goroutine that refreshes the store
// at a fixed cadence. Consecutive failures stretch the wait with
// exponential backoff so an unreachable server is not hammered. It
// returns immediately.
func StartPoller(ctx context.Context, taskStore *store.Store, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := taskStore.Refresh(ctx); err != nil {
				failures++
				log.Printf("refresh poll failed (attempt %d): %v", failures, err)
			} else {
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
}

// calculateBackoff doubles the base interval per consecutive failure,
// capped at maxBackoff. Zero failures yield the base interval.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
