// Package manager provides centralized cache operations by delegating to
// specialized stores.
package manager

import (
	"sync"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/interfaces"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/stores"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
)

// Interface assertion to ensure Manager implements the cache contract.
var _ interfaces.ReportCache = (*Manager)(nil)

// Manager provides centralized cache operations.
type Manager struct {
	Mu           sync.RWMutex
	LastAccessed map[string]time.Time
	reportStore  *stores.ReportStore
	logger       *logging.ChanneledLogger
}

func NewManager(logger *logging.ChanneledLogger) *Manager {
	if logger != nil {
		logger.Cache().Info("Initializing cache manager", "stores", []string{"reports"})
	}

	return &Manager{
		LastAccessed: make(map[string]time.Time),
		reportStore:  stores.NewReportStore(),
		logger:       logger,
	}
}

// GetLifecycleReport returns a cached report when present and fresh.
func (m *Manager) GetLifecycleReport(key string) (*analytics.LifecycleReport, bool) {
	report, hit := m.reportStore.GetReport(key, time.Now().UTC())

	m.Mu.Lock()
	m.LastAccessed[key] = time.Now().UTC()
	m.Mu.Unlock()

	if m.logger != nil {
		m.logger.Cache().Debug("Lifecycle report cache lookup", "key", key, "hit", hit)
	}
	return report, hit
}

// SetLifecycleReport stores a computed report for the given TTL.
func (m *Manager) SetLifecycleReport(key string, report *analytics.LifecycleReport, ttl time.Duration) {
	m.reportStore.SetReport(key, report, ttl)
	if m.logger != nil {
		m.logger.Cache().Debug("Lifecycle report cached", "key", key, "ttl", ttl)
	}
}

// PurgeExpired removes expired report bins and returns the count removed.
func (m *Manager) PurgeExpired(now time.Time) int {
	return m.reportStore.PurgeExpired(now)
}
