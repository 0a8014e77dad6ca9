// Package interfaces defines cache operation contracts for the analytics engine.
package interfaces

import (
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
)

// ReportCache defines operations for lifecycle report caching
type ReportCache interface {
	GetLifecycleReport(key string) (*analytics.LifecycleReport, bool)
	SetLifecycleReport(key string, report *analytics.LifecycleReport, ttl time.Duration)
	PurgeExpired(now time.Time) int
}
