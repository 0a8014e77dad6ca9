// Package types defines cache entry structures for the analytics engine.
package types

import (
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
)

// ReportBin wraps a computed lifecycle report with its cache metadata.
type ReportBin struct {
	Report     *analytics.LifecycleReport `json:"report"`
	ComputedAt time.Time                  `json:"computedAt"`
	TTL        time.Duration              `json:"ttl"`
}

// Expired reports whether the bin is past its TTL at the given instant.
func (b *ReportBin) Expired(now time.Time) bool {
	return now.Sub(b.ComputedAt) >= b.TTL
}
