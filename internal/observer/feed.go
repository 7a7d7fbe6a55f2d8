// Package observer publishes game snapshots to spectators: a latest-value
// feed the game writes into, a websocket hub fanning it out, and an HTTP
// router exposing the current board.
package observer

import (
	"sync"

	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/metrics"
)

// Feed is a game.SnapshotSink holding at most one undelivered snapshot.
// Publishing never blocks; a snapshot nobody consumed is replaced by the
// newer one.
type Feed struct {
	updates chan game.Snapshot

	mu     sync.RWMutex
	latest *game.Snapshot
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{updates: make(chan game.Snapshot, 1)}
}

// Publish implements game.SnapshotSink. It is meant to be called from the
// single goroutine driving the game.
func (f *Feed) Publish(s game.Snapshot) {
	f.mu.Lock()
	f.latest = &s
	f.mu.Unlock()

	select {
	case f.updates <- s:
		return
	default:
	}
	select {
	case <-f.updates:
		metrics.SnapshotDropped()
	default:
	}
	select {
	case f.updates <- s:
	default:
	}
}

// Updates delivers published snapshots. Slow readers only see the newest.
func (f *Feed) Updates() <-chan game.Snapshot {
	return f.updates
}

// Latest returns the most recently published snapshot.
func (f *Feed) Latest() (game.Snapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.latest == nil {
		return game.Snapshot{}, false
	}
	return *f.latest, true
}
