package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/five82/cattery/internal/session"
)

const (
	defaultRetryInterval = 2 * time.Second
	maxBackoff           = 30 * time.Second
)

// StartTagPrefetch loads the tag vocabulary in the background, retrying with
// exponential backoff until one load lands or ctx is cancelled. It returns
// immediately; the returned channel closes when the goroutine exits.
func StartTagPrefetch(ctx context.Context, sess *session.Session, interval time.Duration) <-chan struct{} {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	done := make(chan struct{})
	go func() {
		defer close(done)

		failures := 0
		for {
			err := sess.LoadTags(ctx)
			if err == nil || errors.Is(err, session.ErrSuperseded) {
				// A superseded load means someone else is already fetching.
				return
			}
			if ctx.Err() != nil {
				return
			}
			wait := calculateBackoff(failures, interval)
			failures++
			log.Printf("tag prefetch failed, retry in %s: %v", wait, err)

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
	return done
}

// calculateBackoff doubles base for each consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
