package session

import (
	"context"
	"log"
	"sync"
	"time"
)

// Janitor defaults.
const (
	DefaultTTL           = 24 * time.Hour
	DefaultPurgeInterval = 30 * time.Minute
)

// Janitor periodically purges idle sessions.
type Janitor struct {
	store    Store
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewJanitor creates a background purger. Zero durations select the
// defaults.
func NewJanitor(store Store, ttl, interval time.Duration) *Janitor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &Janitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// RunOnce purges sessions idle for longer than the TTL.
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	return j.store.Purge(ctx, j.now().Add(-j.ttl))
}

// Start begins the purge loop.
func (j *Janitor) Start() {
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			n, err := j.RunOnce(ctx)
			cancel()

			if err != nil {
				log.Printf("Session janitor error: %v", err)
			} else if n > 0 {
				log.Printf("Session janitor: purged %d idle sessions from %s store", n, j.store.Kind())
			}

			select {
			case <-j.stopChan:
				return
			case <-time.After(j.interval):
			}
		}
	}()
}

// Stop stops the janitor gracefully.
func (j *Janitor) Stop() {
	close(j.stopChan)
	j.wg.Wait()
}
