// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/types"
)

// ReportStore implements lifecycle report caching with TTL-based expiry.
type ReportStore struct {
	bins map[string]*types.ReportBin
	mu   sync.RWMutex
}

// NewReportStore creates a new report cache store
func NewReportStore() *ReportStore {
	return &ReportStore{
		bins: make(map[string]*types.ReportBin),
	}
}

// GetReport retrieves a cached report if present and not expired.
func (rs *ReportStore) GetReport(key string, now time.Time) (*analytics.LifecycleReport, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	bin, exists := rs.bins[key]
	if !exists || bin.Expired(now) {
		return nil, false
	}
	return bin.Report, true
}

// SetReport stores a report under the given key with the given TTL.
func (rs *ReportStore) SetReport(key string, report *analytics.LifecycleReport, ttl time.Duration) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.bins[key] = &types.ReportBin{
		Report:     report,
		ComputedAt: time.Now().UTC(),
		TTL:        ttl,
	}
}

// PurgeExpired removes expired bins and returns how many were removed.
func (rs *ReportStore) PurgeExpired(now time.Time) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	removed := 0
	for key, bin := range rs.bins {
		if bin.Expired(now) {
			delete(rs.bins, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached bins, expired or not.
func (rs *ReportStore) Len() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.bins)
}
