package services

import (
	"sync"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching"
	"github.com/HearthApp/hearth-go/internal/infrastructure/caching/interfaces"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
	"github.com/HearthApp/hearth-go/pkg/config"
)

// ReportCacheKey is the fixed key the composed report is memoized under.
const ReportCacheKey = "lifecycle:report"

const recentEventWindow = 30 * 24 * time.Hour

// interactionData is the settled result of the parallel interaction-store
// queries. Any collection may be empty if its query failed.
type interactionData struct {
	memberships    []analytics.SpaceMembership
	allEvents      []analytics.FeatureEvent
	recentEvents   []analytics.FeatureEvent
	spaces         []analytics.Space
	allMemberships []analytics.SpaceMembership
	spaceEvents    []analytics.FeatureEvent
}

// LifecycleReportService composes the full lifecycle report: it pages the
// user directory, fans out the interaction-store queries, runs the four
// analytic computations, and memoizes the result.
type LifecycleReportService struct {
	directory    analytics.UserDirectory
	interactions analytics.InteractionStore
	lifecycle    *LifecycleAnalyticsService
	spaces       *SpaceAnalyticsService
	timeToValue  *TimeToValueService
	resurrection *ResurrectionService
	cache        interfaces.ReportCache
	computeLock  *caching.ComputeLock
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
}

func NewLifecycleReportService(
	directory analytics.UserDirectory,
	interactions analytics.InteractionStore,
	lifecycle *LifecycleAnalyticsService,
	spaces *SpaceAnalyticsService,
	timeToValue *TimeToValueService,
	resurrection *ResurrectionService,
	cache interfaces.ReportCache,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *LifecycleReportService {
	return &LifecycleReportService{
		directory:    directory,
		interactions: interactions,
		lifecycle:    lifecycle,
		spaces:       spaces,
		timeToValue:  timeToValue,
		resurrection: resurrection,
		cache:        cache,
		computeLock:  caching.NewComputeLock(),
		logger:       logger,
		perfTracker:  perfTracker,
	}
}

// GetReport returns the cached report when fresh, otherwise computes and
// caches a new one. Every data-source failure degrades rather than fails, so
// a report always comes back.
func (s *LifecycleReportService) GetReport(now time.Time) *analytics.LifecycleReport {
	if cached, hit := s.cache.GetLifecycleReport(ReportCacheKey); hit {
		s.logger.Analytics().Debug("Serving lifecycle report from cache")
		return cached
	}

	// Serialize concurrent misses; a caller queued behind the computing one
	// finds the cache filled on re-check.
	unlock := s.computeLock.Lock(ReportCacheKey)
	defer unlock()

	if cached, hit := s.cache.GetLifecycleReport(ReportCacheKey); hit {
		return cached
	}

	report := s.ComputeReport(now)
	s.cache.SetLifecycleReport(ReportCacheKey, report, config.LifecycleReportTTL)
	return report
}

// ComputeReport runs the full batch computation for the given instant. The
// four analytic components are pure and independent; only the data fetch
// fans out.
func (s *LifecycleReportService) ComputeReport(now time.Time) *analytics.LifecycleReport {
	start := time.Now()
	marker := s.perfTracker.StartOperation("compute_lifecycle_report")
	defer marker.Complete()

	users := s.fetchUsers()
	data := s.fetchInteractions(now, users)

	indexes := s.lifecycle.BuildIndexes(now, data.memberships, data.allEvents, data.recentEvents)
	stages := s.lifecycle.ComputeStageCounts(now, users, indexes)

	report := &analytics.LifecycleReport{
		Stages:         stages,
		Total:          len(users),
		SpaceAnalytics: s.spaces.ComputeSpaceAnalytics(data.allMemberships, data.spaces, data.spaceEvents),
		TimeToValue:    s.timeToValue.ComputeTimeToValue(users, data.allEvents),
		Resurrection:   s.resurrection.ComputeResurrection(now, users, data.allEvents),
		LastUpdated:    now.UTC().Format(time.RFC3339),
	}

	s.logger.Analytics().Info("Successfully computed lifecycle report",
		"total", report.Total,
		"events", len(data.allEvents),
		"duration", time.Since(start))
	marker.SetSuccess(true)
	s.logger.Perf().Info("Performance for ComputeReport", "duration", marker.Duration, "success", true)

	return report
}

// fetchUsers pages through the directory with a fixed page size. Paging stops
// when a page comes back short or empty. A page error stops enumeration and
// keeps whatever was collected so far; a partial population is better than no
// report.
func (s *LifecycleReportService) fetchUsers() []analytics.User {
	pageSize := config.DirectoryPageSize
	var users []analytics.User

	for offset := 0; ; offset += pageSize {
		page, err := s.directory.ListUsersPage(pageSize, offset)
		if err != nil {
			s.logger.Analytics().Error("Directory page fetch failed, stopping enumeration",
				"error", err.Error(),
				"offset", offset,
				"collected", len(users))
			break
		}

		users = append(users, page...)
		if len(page) < pageSize {
			break
		}
	}

	return users
}

// fetchInteractions runs the six interaction-store queries concurrently and
// waits for all of them to settle. Each query is failure-isolated: an error
// degrades that collection to empty and the rest still contribute.
func (s *LifecycleReportService) fetchInteractions(now time.Time, users []analytics.User) *interactionData {
	userIDs := make([]string, 0, len(users))
	for _, u := range users {
		userIDs = append(userIDs, u.ID)
	}

	since := now.UTC().Add(-recentEventWindow)
	data := &interactionData{}
	var wg sync.WaitGroup
	wg.Add(6)

	go func() {
		defer wg.Done()
		var err error
		data.memberships, err = s.interactions.MembershipsForUsers(userIDs)
		if err != nil {
			s.degrade("memberships_for_users", err)
			data.memberships = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		data.allEvents, err = s.interactions.EventsForUsers(userIDs)
		if err != nil {
			s.degrade("events_for_users", err)
			data.allEvents = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		data.recentEvents, err = s.interactions.RecentEventsForUsers(userIDs, since, config.RecentEventRowCap)
		if err != nil {
			s.degrade("recent_events_for_users", err)
			data.recentEvents = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		data.spaces, err = s.interactions.AllSpaces()
		if err != nil {
			s.degrade("all_spaces", err)
			data.spaces = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		data.allMemberships, err = s.interactions.AllMemberships()
		if err != nil {
			s.degrade("all_memberships", err)
			data.allMemberships = nil
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		data.spaceEvents, err = s.interactions.RecentSpaceEvents(since)
		if err != nil {
			s.degrade("recent_space_events", err)
			data.spaceEvents = nil
		}
	}()

	wg.Wait()
	return data
}

func (s *LifecycleReportService) degrade(query string, err error) {
	s.logger.Analytics().Error("Interaction store query failed, degrading to empty collection",
		"query", query,
		"error", err.Error())
}
