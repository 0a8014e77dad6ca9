package services

import (
	"math"
	"sort"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
)

const maxActiveSpaces = 5

// SpaceAnalyticsService computes household composition statistics: size
// distribution and the most-active-space ranking.
type SpaceAnalyticsService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewSpaceAnalyticsService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SpaceAnalyticsService {
	return &SpaceAnalyticsService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// ComputeSpaceAnalytics aggregates system-wide membership rows, the space
// name lookup and 30-day space-scoped events into one report section.
func (s *SpaceAnalyticsService) ComputeSpaceAnalytics(allMemberships []analytics.SpaceMembership, spaces []analytics.Space, spaceEvents []analytics.FeatureEvent) analytics.SpaceAnalytics {
	start := time.Now()
	marker := s.perfTracker.StartOperation("compute_space_analytics")
	defer marker.Complete()

	memberCounts := make(map[string]int)
	for _, m := range allMemberships {
		memberCounts[m.SpaceID]++
	}

	spaceNames := make(map[string]string, len(spaces))
	for _, space := range spaces {
		spaceNames[space.ID] = space.Name
	}

	var distribution analytics.SizeDistribution
	totalMembers := 0
	for _, count := range memberCounts {
		totalMembers += count
		switch {
		case count == 1:
			distribution.SingleUser++
		case count <= 3:
			distribution.TwoToThree++
		default:
			distribution.FourPlus++
		}
	}

	avgMembers := 0.0
	if len(memberCounts) > 0 {
		avgMembers = roundOneDecimal(float64(totalMembers) / float64(len(memberCounts)))
	}

	result := analytics.SpaceAnalytics{
		AvgMembersPerSpace: avgMembers,
		Distribution:       distribution,
		MostActiveSpaces:   s.rankActiveSpaces(spaceEvents, memberCounts, spaceNames),
		TotalSpaces:        len(spaces),
	}

	s.logger.Analytics().Info("Successfully computed space analytics",
		"totalSpaces", result.TotalSpaces,
		"spacesWithMembers", len(memberCounts),
		"avgMembersPerSpace", result.AvgMembersPerSpace,
		"duration", time.Since(start))
	marker.SetSuccess(true)

	return result
}

// rankActiveSpaces groups 30-day events by space and returns the top entries
// by event count.
func (s *SpaceAnalyticsService) rankActiveSpaces(spaceEvents []analytics.FeatureEvent, memberCounts map[string]int, spaceNames map[string]string) []analytics.ActiveSpace {
	eventCounts := make(map[string]int)
	for _, e := range spaceEvents {
		if e.SpaceID == nil {
			continue
		}
		eventCounts[*e.SpaceID]++
	}

	ranked := make([]analytics.ActiveSpace, 0, len(eventCounts))
	for spaceID, eventCount := range eventCounts {
		name, found := spaceNames[spaceID]
		if !found {
			name = "Unknown"
		}
		ranked = append(ranked, analytics.ActiveSpace{
			SpaceID:     spaceID,
			Name:        name,
			MemberCount: memberCounts[spaceID],
			EventCount:  eventCount,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].EventCount != ranked[j].EventCount {
			return ranked[i].EventCount > ranked[j].EventCount
		}
		return ranked[i].SpaceID < ranked[j].SpaceID
	})

	if len(ranked) > maxActiveSpaces {
		ranked = ranked[:maxActiveSpaces]
	}
	return ranked
}

// roundOneDecimal rounds to one decimal place.
func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
