package services

import (
	"testing"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/performance"
)

func newResurrectionService(t *testing.T) *ResurrectionService {
	t.Helper()
	return NewResurrectionService(newTestLogger(t), performance.NewTracker())
}

func TestComputeResurrectionGapScan(t *testing.T) {
	svc := newResurrectionService(t)

	epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return epoch.Add(time.Duration(d) * 24 * time.Hour) }

	users := []analytics.User{
		{ID: "back", CreatedAt: epoch},
		{ID: "steady", CreatedAt: epoch},
	}
	events := []analytics.FeatureEvent{
		// Events at day 0 and day 40: one churn-qualifying gap, resurrected.
		event("back", "list_created", day(0)),
		event("back", "list_created", day(40)),
		// Steady activity, no qualifying gap.
		event("steady", "list_created", day(0)),
		event("steady", "list_created", day(10)),
		event("steady", "list_created", day(20)),
	}

	result := svc.ComputeResurrection(day(45), users, events)

	if result.TotalChurned != 1 {
		t.Errorf("TotalChurned = %d, want 1", result.TotalChurned)
	}
	if result.ResurrectedUsers != 1 {
		t.Errorf("ResurrectedUsers = %d, want 1", result.ResurrectedUsers)
	}
	if result.ResurrectionRate != 100.0 {
		t.Errorf("ResurrectionRate = %v, want 100.0", result.ResurrectionRate)
	}
}

func TestComputeResurrectionSecondPass(t *testing.T) {
	svc := newResurrectionService(t)

	epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := epoch.Add(60 * 24 * time.Hour)

	users := []analytics.User{
		// No events at all, account 60 days old: dormant since birth.
		{ID: "silent", CreatedAt: epoch},
		// No events, but the account is too young to count.
		{ID: "fresh", CreatedAt: now.Add(-10 * 24 * time.Hour)},
		// One event, 40 days stale: dormant after one action.
		{ID: "once", CreatedAt: epoch},
		// One event, recent enough.
		{ID: "recent", CreatedAt: epoch},
	}
	events := []analytics.FeatureEvent{
		event("once", "list_created", now.Add(-40*24*time.Hour)),
		event("recent", "list_created", now.Add(-5*24*time.Hour)),
	}

	result := svc.ComputeResurrection(now, users, events)

	if result.TotalChurned != 2 {
		t.Errorf("TotalChurned = %d, want 2", result.TotalChurned)
	}
	if result.ResurrectedUsers != 0 {
		t.Errorf("ResurrectedUsers = %d, want 0", result.ResurrectedUsers)
	}
	if result.ResurrectionRate != 0 {
		t.Errorf("ResurrectionRate = %v, want 0", result.ResurrectionRate)
	}
}

func TestComputeResurrectionRateRounding(t *testing.T) {
	svc := newResurrectionService(t)

	epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return epoch.Add(time.Duration(d) * 24 * time.Hour) }
	now := day(100)

	var users []analytics.User
	var events []analytics.FeatureEvent

	// Three users with a qualifying gap: churned and resurrected.
	for _, id := range []string{"r1", "r2", "r3"} {
		users = append(users, analytics.User{ID: id, CreatedAt: epoch})
		events = append(events,
			event(id, "list_created", day(0)),
			event(id, "list_created", day(40)),
			event(id, "list_created", day(95)),
		)
	}
	// Seven silent users older than 30 days: churned, never resurrected.
	for i := 0; i < 7; i++ {
		users = append(users, analytics.User{ID: string(rune('a' + i)), CreatedAt: epoch})
	}

	result := svc.ComputeResurrection(now, users, events)

	if result.TotalChurned != 10 {
		t.Errorf("TotalChurned = %d, want 10", result.TotalChurned)
	}
	if result.ResurrectedUsers != 3 {
		t.Errorf("ResurrectedUsers = %d, want 3", result.ResurrectedUsers)
	}
	if result.ResurrectionRate != 30.0 {
		t.Errorf("ResurrectionRate = %v, want 30.0", result.ResurrectionRate)
	}
}

func TestComputeResurrectionEmptyPopulation(t *testing.T) {
	svc := newResurrectionService(t)

	result := svc.ComputeResurrection(testNow, nil, nil)

	if result != (analytics.Resurrection{}) {
		t.Errorf("want zero-value metrics, got %+v", result)
	}
}
