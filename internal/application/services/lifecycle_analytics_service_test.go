package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}
	return logger
}

func newLifecycleService(t *testing.T) *LifecycleAnalyticsService {
	t.Helper()
	return NewLifecycleAnalyticsService(newTestLogger(t), performance.NewTracker())
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(days int) time.Time {
	return testNow.Add(-time.Duration(days) * 24 * time.Hour)
}

func event(userID string, action string, at time.Time) analytics.FeatureEvent {
	return analytics.FeatureEvent{UserID: userID, Action: action, CreatedAt: at}
}

func TestClassifyPriorityOrder(t *testing.T) {
	svc := newLifecycleService(t)

	tests := []struct {
		name         string
		user         analytics.User
		memberships  []analytics.SpaceMembership
		allEvents    []analytics.FeatureEvent
		recentEvents []analytics.FeatureEvent
		want         analytics.LifecycleStage
	}{
		{
			name: "created under 7 days ago is new regardless of history",
			user: analytics.User{ID: "u1", CreatedAt: daysAgo(3)},
			allEvents: []analytics.FeatureEvent{
				event("u1", "chore_completed", daysAgo(1)),
			},
			recentEvents: []analytics.FeatureEvent{
				event("u1", "chore_completed", daysAgo(1)),
				event("u1", "chore_completed", daysAgo(2)),
				event("u1", "chore_completed", daysAgo(3)),
				event("u1", "chore_completed", daysAgo(4)),
				event("u1", "chore_completed", daysAgo(5)),
			},
			want: analytics.StageNew,
		},
		{
			name: "five distinct active days wins over engaged",
			user: analytics.User{ID: "u2", CreatedAt: daysAgo(60)},
			recentEvents: []analytics.FeatureEvent{
				event("u2", "page_view", daysAgo(1)),
				event("u2", "page_view", daysAgo(2)),
				event("u2", "page_view", daysAgo(3)),
				event("u2", "page_view", daysAgo(4)),
				event("u2", "page_view", daysAgo(5)),
			},
			want: analytics.StagePowerUser,
		},
		{
			name: "active this week but under five days is engaged",
			user: analytics.User{ID: "u3", CreatedAt: daysAgo(60)},
			recentEvents: []analytics.FeatureEvent{
				event("u3", "page_view", daysAgo(2)),
				event("u3", "page_view", daysAgo(3)),
			},
			want: analytics.StageEngaged,
		},
		{
			name: "activated with recent-enough last event",
			user: analytics.User{ID: "u4", CreatedAt: daysAgo(60)},
			memberships: []analytics.SpaceMembership{
				{UserID: "u4", SpaceID: "s1"},
			},
			allEvents: []analytics.FeatureEvent{
				event("u4", "list_created", daysAgo(10)),
			},
			want: analytics.StageActivated,
		},
		{
			name: "activated but idle 20 days is at risk",
			user: analytics.User{ID: "u5", CreatedAt: daysAgo(60)},
			memberships: []analytics.SpaceMembership{
				{UserID: "u5", SpaceID: "s1"},
			},
			allEvents: []analytics.FeatureEvent{
				event("u5", "list_created", daysAgo(20)),
			},
			want: analytics.StageAtRisk,
		},
		{
			name: "activated but idle 40 days is churned",
			user: analytics.User{ID: "u6", CreatedAt: daysAgo(60)},
			memberships: []analytics.SpaceMembership{
				{UserID: "u6", SpaceID: "s1"},
			},
			allEvents: []analytics.FeatureEvent{
				event("u6", "list_created", daysAgo(40)),
			},
			want: analytics.StageChurned,
		},
		{
			name: "not yet activated with no events ages into churned",
			user: analytics.User{ID: "u7", CreatedAt: daysAgo(45)},
			want: analytics.StageChurned,
		},
		{
			name: "not yet activated but recently created short of thresholds stays activated",
			user: analytics.User{ID: "u8", CreatedAt: daysAgo(10)},
			want: analytics.StageActivated,
		},
		{
			name: "page views alone never satisfy meaningful action",
			user: analytics.User{ID: "u9", CreatedAt: daysAgo(60)},
			memberships: []analytics.SpaceMembership{
				{UserID: "u9", SpaceID: "s1"},
			},
			allEvents: []analytics.FeatureEvent{
				event("u9", "page_view", daysAgo(10)),
			},
			want: analytics.StageActivated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := svc.BuildIndexes(testNow, tt.memberships, tt.allEvents, tt.recentEvents)
			got := svc.Classify(testNow, tt.user, idx)
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActiveDaysCountDistinctDates(t *testing.T) {
	svc := newLifecycleService(t)

	// Three events on the same UTC date count as one active day.
	sameDay := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)
	recent := []analytics.FeatureEvent{
		event("u1", "page_view", sameDay),
		event("u1", "page_view", sameDay.Add(2*time.Hour)),
		event("u1", "page_view", sameDay.Add(9*time.Hour)),
		event("u1", "page_view", daysAgo(1)),
	}

	idx := svc.BuildIndexes(testNow, nil, nil, recent)
	if got := idx.ActiveDaysCount["u1"]; got != 2 {
		t.Errorf("ActiveDaysCount = %d, want 2", got)
	}
}

func TestBuildIndexesIgnoresEventsOlderThanSevenDays(t *testing.T) {
	svc := newLifecycleService(t)

	recent := []analytics.FeatureEvent{
		event("u1", "page_view", daysAgo(10)),
	}

	idx := svc.BuildIndexes(testNow, nil, nil, recent)
	if idx.UsersActiveLastSevenDays["u1"] {
		t.Error("event 10 days old should not mark the user active this week")
	}
}

func TestComputeStageCountsEndToEnd(t *testing.T) {
	svc := newLifecycleService(t)

	var users []analytics.User
	var memberships []analytics.SpaceMembership
	var allEvents, recentEvents []analytics.FeatureEvent

	addUser := func(id string, createdAt time.Time) {
		users = append(users, analytics.User{ID: id, CreatedAt: createdAt})
	}

	// Two signed up today.
	addUser("new1", testNow.Add(-2*time.Hour))
	addUser("new2", testNow.Add(-5*time.Hour))

	// Three with five distinct active days this week.
	for _, id := range []string{"pw1", "pw2", "pw3"} {
		addUser(id, daysAgo(90))
		for d := 1; d <= 5; d++ {
			recentEvents = append(recentEvents, event(id, "chore_completed", daysAgo(d)))
		}
	}

	// One active this week but short of power.
	addUser("eng1", daysAgo(90))
	recentEvents = append(recentEvents, event("eng1", "page_view", daysAgo(2)))

	// Two activated but idle 20 days.
	for _, id := range []string{"risk1", "risk2"} {
		addUser(id, daysAgo(90))
		memberships = append(memberships, analytics.SpaceMembership{UserID: id, SpaceID: "s1"})
		allEvents = append(allEvents, event(id, "list_created", daysAgo(20)))
	}

	// Two idle 40+ days.
	for _, id := range []string{"gone1", "gone2"} {
		addUser(id, daysAgo(90))
		memberships = append(memberships, analytics.SpaceMembership{UserID: id, SpaceID: "s2"})
		allEvents = append(allEvents, event(id, "list_created", daysAgo(45)))
	}

	idx := svc.BuildIndexes(testNow, memberships, allEvents, recentEvents)
	counts := svc.ComputeStageCounts(testNow, users, idx)

	want := analytics.StageCounts{New: 2, PowerUser: 3, Engaged: 1, Activated: 0, AtRisk: 2, Churned: 2}
	if counts != want {
		t.Errorf("ComputeStageCounts() = %+v, want %+v", counts, want)
	}
	if counts.Sum() != len(users) {
		t.Errorf("stage counts sum to %d, want %d", counts.Sum(), len(users))
	}
}
