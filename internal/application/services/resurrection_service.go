package services

import (
	"math"
	"sort"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
)

// ResurrectionService measures the win-back rate: of every user who ever went
// dormant, how many came back.
type ResurrectionService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewResurrectionService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ResurrectionService {
	return &ResurrectionService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ComputeResurrection scans every multi-event timeline for churn-qualifying
// gaps, then sweeps the population once more for users dormant since signup
// or dormant after a single action.
func (s *ResurrectionService) ComputeResurrection(now time.Time, users []analytics.User, allEvents []analytics.FeatureEvent) analytics.Resurrection {
	start := time.Now()
	marker := s.perfTracker.StartOperation("compute_resurrection")
	defer marker.Complete()

	timelines := make(map[string][]time.Time)
	for _, e := range allEvents {
		timelines[e.UserID] = append(timelines[e.UserID], e.CreatedAt)
	}

	totalChurned := 0
	resurrected := 0

	// Pass one: gap detection over multi-event timelines. A ≥30-day interval
	// between consecutive events qualifies; the event closing the gap is the
	// user's return.
	for _, timestamps := range timelines {
		if len(timestamps) < 2 {
			continue
		}

		sort.Slice(timestamps, func(i, j int) bool {
			return timestamps[i].Before(timestamps[j])
		})

		churnedOnce := false
		for i := 0; i < len(timestamps)-1; i++ {
			if timestamps[i+1].Sub(timestamps[i]) >= churnThreshold {
				churnedOnce = true
				break
			}
		}

		if churnedOnce {
			totalChurned++
			resurrected++
		}
	}

	// Pass two: users the gap scan cannot see. Dormant since signup (no
	// events at all on an account older than 30 days) or dormant after one
	// action (a single event, now ≥30 days stale).
	for _, user := range users {
		timestamps := timelines[user.ID]
		switch {
		case len(timestamps) == 0:
			if now.Sub(user.CreatedAt) > churnThreshold {
				totalChurned++
			}
		case len(timestamps) == 1:
			if now.Sub(timestamps[0]) >= churnThreshold {
				totalChurned++
			}
		}
	}

	rate := 0.0
	if totalChurned > 0 {
		rate = math.Round(float64(resurrected)/float64(totalChurned)*1000) / 10
	}

	result := analytics.Resurrection{
		ResurrectedUsers: resurrected,
		TotalChurned:     totalChurned,
		ResurrectionRate: rate,
	}

	s.logger.Analytics().Info("Successfully computed resurrection metrics",
		"resurrectedUsers", result.ResurrectedUsers,
		"totalChurned", result.TotalChurned,
		"resurrectionRate", result.ResurrectionRate,
		"duration", time.Since(start))
	marker.SetSuccess(true)

	return result
}
