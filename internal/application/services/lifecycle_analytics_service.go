package services

import (
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
)

const (
	newUserWindow     = 7 * 24 * time.Hour
	powerUserDayFloor = 5
	atRiskThreshold   = 14 * 24 * time.Hour
	churnThreshold    = 30 * 24 * time.Hour
)

// StageIndexes holds the precomputed lookup sets a classification run needs.
// Building them once up front keeps each user's classification an isolated,
// side-effect-free call.
type StageIndexes struct {
	UsersWithSpaces           map[string]bool
	UsersWithMeaningfulAction map[string]bool
	UsersActiveLastSevenDays  map[string]bool
	ActiveDaysCount           map[string]int
	LastEventAt               map[string]time.Time
}

// LifecycleAnalyticsService classifies every user into exactly one behavioral
// stage. Classification is a pure function of the injected instant, the
// user's creation time and that user's events.
type LifecycleAnalyticsService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewLifecycleAnalyticsService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *LifecycleAnalyticsService {
	return &LifecycleAnalyticsService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// BuildIndexes precomputes the lookup sets for a classification run.
// Memberships and allEvents cover all-time history; recentEvents is the
// 30-day collection and feeds the 7-day recency sets.
func (s *LifecycleAnalyticsService) BuildIndexes(now time.Time, memberships []analytics.SpaceMembership, allEvents, recentEvents []analytics.FeatureEvent) *StageIndexes {
	idx := &StageIndexes{
		UsersWithSpaces:           make(map[string]bool),
		UsersWithMeaningfulAction: make(map[string]bool),
		UsersActiveLastSevenDays:  make(map[string]bool),
		ActiveDaysCount:           make(map[string]int),
		LastEventAt:               make(map[string]time.Time),
	}

	for _, m := range memberships {
		idx.UsersWithSpaces[m.UserID] = true
	}

	for _, e := range allEvents {
		if e.IsMeaningful() {
			idx.UsersWithMeaningfulAction[e.UserID] = true
		}
		if last, ok := idx.LastEventAt[e.UserID]; !ok || e.CreatedAt.After(last) {
			idx.LastEventAt[e.UserID] = e.CreatedAt
		}
	}

	sevenDaysAgo := now.Add(-newUserWindow)
	activeDates := make(map[string]map[string]bool)
	for _, e := range recentEvents {
		if e.CreatedAt.Before(sevenDaysAgo) {
			continue
		}
		idx.UsersActiveLastSevenDays[e.UserID] = true

		day := e.CreatedAt.UTC().Format("2006-01-02")
		if activeDates[e.UserID] == nil {
			activeDates[e.UserID] = make(map[string]bool)
		}
		activeDates[e.UserID][day] = true
	}
	for userID, dates := range activeDates {
		idx.ActiveDaysCount[userID] = len(dates)
	}

	return idx
}

// Classify assigns the single lifecycle stage for a user. Rules are evaluated
// in strict priority order; the first matching rule wins.
func (s *LifecycleAnalyticsService) Classify(now time.Time, user analytics.User, idx *StageIndexes) analytics.LifecycleStage {
	if now.Sub(user.CreatedAt) < newUserWindow {
		return analytics.StageNew
	}

	if idx.ActiveDaysCount[user.ID] >= powerUserDayFloor {
		return analytics.StagePowerUser
	}

	if idx.UsersActiveLastSevenDays[user.ID] {
		return analytics.StageEngaged
	}

	if idx.UsersWithSpaces[user.ID] && idx.UsersWithMeaningfulAction[user.ID] {
		// Activated: joined a space and performed a meaningful action.
		return s.classifyDormancy(now, user, idx)
	}

	// Not yet activated. The same dormancy thresholds apply; a user stuck
	// before activation still ages into at_risk and churned.
	return s.classifyDormancy(now, user, idx)
}

// classifyDormancy applies the recency sub-rules. A user with no events at
// all is measured from signup.
func (s *LifecycleAnalyticsService) classifyDormancy(now time.Time, user analytics.User, idx *StageIndexes) analytics.LifecycleStage {
	lastEventAt, ok := idx.LastEventAt[user.ID]
	if !ok {
		lastEventAt = user.CreatedAt
	}

	sinceLastEvent := now.Sub(lastEventAt)
	sinceSignup := now.Sub(user.CreatedAt)

	if sinceLastEvent >= churnThreshold && sinceSignup > churnThreshold {
		return analytics.StageChurned
	}
	if sinceLastEvent >= atRiskThreshold && sinceSignup > atRiskThreshold {
		return analytics.StageAtRisk
	}
	return analytics.StageActivated
}

// ComputeStageCounts classifies the whole population and returns aggregate
// counts only; no per-user detail leaves this service.
func (s *LifecycleAnalyticsService) ComputeStageCounts(now time.Time, users []analytics.User, idx *StageIndexes) analytics.StageCounts {
	start := time.Now()
	marker := s.perfTracker.StartOperation("compute_stage_counts")
	defer marker.Complete()

	var counts analytics.StageCounts
	for _, user := range users {
		counts.Add(s.Classify(now, user, idx))
	}

	s.logger.Analytics().Info("Successfully computed lifecycle stage counts",
		"total", len(users),
		"new", counts.New,
		"activated", counts.Activated,
		"engaged", counts.Engaged,
		"powerUser", counts.PowerUser,
		"atRisk", counts.AtRisk,
		"churned", counts.Churned,
		"duration", time.Since(start))
	marker.SetSuccess(true)

	return counts
}
