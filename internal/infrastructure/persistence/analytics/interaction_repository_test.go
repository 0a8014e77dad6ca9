package analytics

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/database"
)

func newTestStore(t *testing.T) (*SQLInteractionStore, *database.DB) {
	t.Helper()

	cfg := logging.DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := logging.NewChanneledLogger(cfg)
	if err != nil {
		t.Fatalf("failed to build test logger: %v", err)
	}

	db, err := database.NewConnection("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.NewTableCreator().CreateSchema(db.DB); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return NewSQLInteractionStore(db, logger), db
}

func insertEvent(t *testing.T, db *database.DB, userID, action string, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO feature_events (user_id, action, created_at) VALUES (?, ?, ?)`,
		userID, action, at.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}
}

func TestRecentEventsForUsersCapShedsOldestRows(t *testing.T) {
	store, db := newTestStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		insertEvent(t, db, "u1", fmt.Sprintf("action_%d", i), base.Add(time.Duration(i)*time.Hour))
	}

	events, err := store.RecentEventsForUsers([]string{"u1"}, base.Add(-time.Hour), 3)
	if err != nil {
		t.Fatalf("RecentEventsForUsers() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	// The newest three survive the cap; the two oldest are shed.
	want := map[string]bool{"action_4": true, "action_3": true, "action_2": true}
	for _, e := range events {
		if !want[e.Action] {
			t.Errorf("event %q returned; the cap must shed the oldest rows, not the newest", e.Action)
		}
	}
	if events[0].Action != "action_4" {
		t.Errorf("first event = %q, want the most recent action_4", events[0].Action)
	}
}

func TestRecentEventsForUsersRespectsCutoff(t *testing.T) {
	store, db := newTestStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	insertEvent(t, db, "u1", "old", base.Add(-48*time.Hour))
	insertEvent(t, db, "u1", "recent", base)

	events, err := store.RecentEventsForUsers([]string{"u1"}, base.Add(-time.Hour), 100)
	if err != nil {
		t.Fatalf("RecentEventsForUsers() error = %v", err)
	}
	if len(events) != 1 || events[0].Action != "recent" {
		t.Errorf("got %+v, want only the event inside the window", events)
	}
}

func TestEventsForUsersAscendingOrder(t *testing.T) {
	store, db := newTestStore(t)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	insertEvent(t, db, "u1", "second", base.Add(time.Hour))
	insertEvent(t, db, "u1", "first", base)

	events, err := store.EventsForUsers([]string{"u1"})
	if err != nil {
		t.Fatalf("EventsForUsers() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Action != "first" || events[1].Action != "second" {
		t.Errorf("full history must stay time ascending, got [%s, %s]", events[0].Action, events[1].Action)
	}
}
