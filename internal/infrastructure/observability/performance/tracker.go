package performance

import (
	"fmt"
	"sync"
	"time"
)

// Tracker manages performance markers and provides metrics aggregation
type Tracker struct {
	markers    map[string]*Marker
	maxMarkers int
	mu         sync.RWMutex
	started    time.Time
	sequence   uint64
}

// NewTracker creates a new performance tracker
func NewTracker() *Tracker {
	return &Tracker{
		markers:    make(map[string]*Marker),
		maxMarkers: 1000,
		started:    time.Now(),
	}
}

// StartOperation creates and registers a marker for a new operation
func (t *Tracker) StartOperation(operation string) *Marker {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sequence++
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
	}

	if len(t.markers) >= t.maxMarkers {
		t.evictOldestLocked()
	}

	key := fmt.Sprintf("%s:%d", operation, t.sequence)
	t.markers[key] = marker
	return marker
}

// GetRecentMarkers returns completed markers for the given operation
func (t *Tracker) GetRecentMarkers(operation string) []*Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var result []*Marker
	for _, m := range t.markers {
		if m.Operation == operation && m.Completed {
			result = append(result, m)
		}
	}
	return result
}

// Uptime returns how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}

func (t *Tracker) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, m := range t.markers {
		if oldestKey == "" || m.StartTime.Before(oldest) {
			oldestKey = key
			oldest = m.StartTime
		}
	}
	if oldestKey != "" {
		delete(t.markers, oldestKey)
	}
}
