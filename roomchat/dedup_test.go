package roomchat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinedTrackerSuppressesWithinWindow(t *testing.T) {
	tr := newJoinedTracker(5 * time.Second)
	now := time.Unix(1000, 0)
	tr.now = func() time.Time { return now }

	assert.True(t, tr.shouldNotify("alice"))
	assert.False(t, tr.shouldNotify("alice"))

	now = now.Add(4 * time.Second)
	assert.False(t, tr.shouldNotify("alice"), "window is fixed, not sliding")

	now = now.Add(time.Second)
	assert.True(t, tr.shouldNotify("alice"), "expired entry notifies again")
	assert.False(t, tr.shouldNotify("alice"), "and starts a fresh window")
}

func TestJoinedTrackerIsPerUser(t *testing.T) {
	tr := newJoinedTracker(5 * time.Second)
	now := time.Unix(1000, 0)
	tr.now = func() time.Time { return now }

	assert.True(t, tr.shouldNotify("alice"))
	assert.True(t, tr.shouldNotify("bob"))
	assert.False(t, tr.shouldNotify("alice"))
	assert.False(t, tr.shouldNotify("bob"))
}

func TestJoinedTrackerReset(t *testing.T) {
	tr := newJoinedTracker(5 * time.Second)
	now := time.Unix(1000, 0)
	tr.now = func() time.Time { return now }

	assert.True(t, tr.shouldNotify("alice"))
	tr.reset()
	assert.True(t, tr.shouldNotify("alice"), "reset clears the window")
}

func TestJoinedTrackerPrunesExpiredEntries(t *testing.T) {
	tr := newJoinedTracker(5 * time.Second)
	now := time.Unix(1000, 0)
	tr.now = func() time.Time { return now }

	tr.shouldNotify("alice")
	tr.shouldNotify("bob")
	now = now.Add(6 * time.Second)
	tr.shouldNotify("carol")

	tr.mu.Lock()
	defer tr.mu.Unlock()
	assert.Len(t, tr.shown, 1)
}
