package services

import (
	"sort"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
)

// TimeToValueService computes signup-to-first-meaningful-action latency
// statistics across the population.
type TimeToValueService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewTimeToValueService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *TimeToValueService {
	return &TimeToValueService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ComputeTimeToValue finds each user's earliest meaningful event and measures
// the hours elapsed since signup. Negative samples are data noise (clock skew
// or backfilled events) and are discarded.
func (s *TimeToValueService) ComputeTimeToValue(users []analytics.User, allEvents []analytics.FeatureEvent) analytics.TimeToValue {
	start := time.Now()
	marker := s.perfTracker.StartOperation("compute_time_to_value")
	defer marker.Complete()

	firstMeaningful := make(map[string]time.Time)
	for _, e := range allEvents {
		if !e.IsMeaningful() {
			continue
		}
		if first, ok := firstMeaningful[e.UserID]; !ok || e.CreatedAt.Before(first) {
			firstMeaningful[e.UserID] = e.CreatedAt
		}
	}

	var samples []float64
	for _, user := range users {
		first, ok := firstMeaningful[user.ID]
		if !ok {
			continue
		}
		hours := first.Sub(user.CreatedAt).Hours()
		if hours < 0 {
			continue
		}
		samples = append(samples, hours)
	}

	result := analytics.TimeToValue{
		MedianHours:  roundOneDecimal(median(samples)),
		AverageHours: roundOneDecimal(mean(samples)),
	}

	s.logger.Analytics().Info("Successfully computed time-to-value",
		"samples", len(samples),
		"medianHours", result.MedianHours,
		"averageHours", result.AverageHours,
		"duration", time.Since(start))
	marker.SetSuccess(true)

	return result
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
