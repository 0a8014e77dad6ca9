// Package cleanup provides the background cache cleanup worker.
package cleanup

import (
	"time"

	"github.com/HearthApp/hearth-go/pkg/config"
)

// Config controls the cleanup worker cadence.
type Config struct {
	CleanupInterval time.Duration
}

// NewConfigFromDefaults builds a worker config from the central defaults.
func NewConfigFromDefaults() *Config {
	return &Config{
		CleanupInterval: config.CacheCleanupInterval,
	}
}
