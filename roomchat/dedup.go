package roomchat

import (
	"sync"
	"time"
)

// joinedTracker suppresses repeated user-joined notifications. A username is
// recorded when first shown; arrivals inside the window are dropped without
// refreshing the timestamp, so the window is fixed rather than sliding.
type joinedTracker struct {
	window time.Duration
	now    func() time.Time

	mu    sync.Mutex
	shown map[string]time.Time
}

func newJoinedTracker(window time.Duration) *joinedTracker {
	return &joinedTracker{
		window: window,
		now:    time.Now,
		shown:  make(map[string]time.Time),
	}
}

// shouldNotify reports whether a notification for username is due and, if so,
// records it. Expired entries are pruned on the way through.
func (t *joinedTracker) shouldNotify(username string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for u, at := range t.shown {
		if now.Sub(at) >= t.window {
			delete(t.shown, u)
		}
	}
	if at, ok := t.shown[username]; ok && now.Sub(at) < t.window {
		return false
	}
	t.shown[username] = now
	return true
}

func (t *joinedTracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.shown = make(map[string]time.Time)
}
