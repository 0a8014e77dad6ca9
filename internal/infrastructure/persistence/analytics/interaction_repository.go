// Package analytics provides the concrete SQL-based implementation of the
// interaction store reader.
//
// Every method is a single independent query. The report orchestrator treats
// each one as failure-isolated: a failed query degrades to an empty
// collection instead of failing the report.
package analytics

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/database"
	"github.com/HearthApp/hearth-go/pkg/config"
)

// SQLInteractionStore reads events, memberships and spaces from the
// interaction store. Read-only; the engine never writes here.
type SQLInteractionStore struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLInteractionStore creates a new instance of the store reader.
func NewSQLInteractionStore(db *database.DB, logger *logging.ChanneledLogger) *SQLInteractionStore {
	return &SQLInteractionStore{
		db:     db,
		logger: logger,
	}
}

// MembershipsForUsers retrieves all space memberships for the given user set.
func (r *SQLInteractionStore) MembershipsForUsers(userIDs []string) ([]analytics.SpaceMembership, error) {
	if len(userIDs) == 0 {
		return []analytics.SpaceMembership{}, nil
	}

	query := fmt.Sprintf(`
		SELECT user_id, space_id
		FROM space_memberships
		WHERE user_id IN (%s)`, placeholders(len(userIDs)))

	start := time.Now()
	rows, err := r.db.Query(query, toArgs(userIDs)...)
	if err != nil {
		r.logger.Database().Error("Failed to query memberships for users", "error", err.Error(), "userCount", len(userIDs))
		return nil, fmt.Errorf("failed to query memberships: %w", err)
	}
	defer rows.Close()

	var memberships []analytics.SpaceMembership
	for rows.Next() {
		var m analytics.SpaceMembership
		if err := rows.Scan(&m.UserID, &m.SpaceID); err != nil {
			r.logger.Database().Error("Failed to scan membership row", "error", err.Error())
			continue
		}
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for memberships", "error", err.Error())
		return nil, err
	}

	r.finish("memberships_for_users", query, start, len(memberships))
	return memberships, nil
}

// EventsForUsers retrieves the complete event history for the given user set,
// ordered by time ascending. Unbounded history; used for time-to-value and
// resurrection analysis.
func (r *SQLInteractionStore) EventsForUsers(userIDs []string) ([]analytics.FeatureEvent, error) {
	if len(userIDs) == 0 {
		return []analytics.FeatureEvent{}, nil
	}

	query := fmt.Sprintf(`
		SELECT user_id, action, space_id, created_at
		FROM feature_events
		WHERE user_id IN (%s)
		ORDER BY created_at ASC`, placeholders(len(userIDs)))

	start := time.Now()
	rows, err := r.db.Query(query, toArgs(userIDs)...)
	if err != nil {
		r.logger.Database().Error("Failed to query events for users", "error", err.Error(), "userCount", len(userIDs))
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events, err := r.scanEvents(rows)
	if err != nil {
		return nil, err
	}

	r.finish("events_for_users", query, start, len(events))
	return events, nil
}

// RecentEventsForUsers retrieves events since the given cutoff for the user
// set, capped at limit rows to bound memory. Newest first, so when the cap
// binds it is the oldest rows of the window that are shed; the trailing-week
// recency signal this collection feeds must survive the cut.
func (r *SQLInteractionStore) RecentEventsForUsers(userIDs []string, since time.Time, limit int) ([]analytics.FeatureEvent, error) {
	if len(userIDs) == 0 {
		return []analytics.FeatureEvent{}, nil
	}

	query := fmt.Sprintf(`
		SELECT user_id, action, space_id, created_at
		FROM feature_events
		WHERE user_id IN (%s) AND created_at >= ?
		ORDER BY created_at DESC
		LIMIT ?`, placeholders(len(userIDs)))

	args := toArgs(userIDs)
	args = append(args, since.UTC().Format("2006-01-02 15:04:05"), limit)

	start := time.Now()
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to query recent events for users", "error", err.Error(), "userCount", len(userIDs), "since", since)
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer rows.Close()

	events, err := r.scanEvents(rows)
	if err != nil {
		return nil, err
	}

	r.finish("recent_events_for_users", query, start, len(events))
	return events, nil
}

// AllSpaces retrieves every space record with its display name.
func (r *SQLInteractionStore) AllSpaces() ([]analytics.Space, error) {
	const query = `SELECT id, name FROM spaces`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query spaces", "error", err.Error())
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	defer rows.Close()

	var spaces []analytics.Space
	for rows.Next() {
		var s analytics.Space
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			r.logger.Database().Error("Failed to scan space row", "error", err.Error())
			continue
		}
		spaces = append(spaces, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for spaces", "error", err.Error())
		return nil, err
	}

	r.finish("all_spaces", query, start, len(spaces))
	return spaces, nil
}

// AllMemberships retrieves every membership row system-wide, not just the
// current user set. Used for the household-size distribution.
func (r *SQLInteractionStore) AllMemberships() ([]analytics.SpaceMembership, error) {
	const query = `SELECT user_id, space_id FROM space_memberships`

	start := time.Now()
	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Database().Error("Failed to query all memberships", "error", err.Error())
		return nil, fmt.Errorf("failed to query all memberships: %w", err)
	}
	defer rows.Close()

	var memberships []analytics.SpaceMembership
	for rows.Next() {
		var m analytics.SpaceMembership
		if err := rows.Scan(&m.UserID, &m.SpaceID); err != nil {
			r.logger.Database().Error("Failed to scan membership row", "error", err.Error())
			continue
		}
		memberships = append(memberships, m)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for all memberships", "error", err.Error())
		return nil, err
	}

	r.finish("all_memberships", query, start, len(memberships))
	return memberships, nil
}

// RecentSpaceEvents retrieves space-scoped events since the given cutoff.
// Used for the most-active-space ranking.
func (r *SQLInteractionStore) RecentSpaceEvents(since time.Time) ([]analytics.FeatureEvent, error) {
	const query = `
		SELECT user_id, action, space_id, created_at
		FROM feature_events
		WHERE space_id IS NOT NULL AND created_at >= ?
		ORDER BY created_at ASC`

	start := time.Now()
	rows, err := r.db.Query(query, since.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		r.logger.Database().Error("Failed to query recent space events", "error", err.Error(), "since", since)
		return nil, fmt.Errorf("failed to query recent space events: %w", err)
	}
	defer rows.Close()

	events, err := r.scanEvents(rows)
	if err != nil {
		return nil, err
	}

	r.finish("recent_space_events", query, start, len(events))
	return events, nil
}

// scanEvents reads feature event rows, skipping rows that fail to scan or
// parse rather than aborting the whole result.
func (r *SQLInteractionStore) scanEvents(rows *sql.Rows) ([]analytics.FeatureEvent, error) {
	var events []analytics.FeatureEvent
	for rows.Next() {
		var event analytics.FeatureEvent
		var spaceID *string
		var createdAtStr string

		if err := rows.Scan(&event.UserID, &event.Action, &spaceID, &createdAtStr); err != nil {
			r.logger.Database().Error("Failed to scan feature event row", "error", err.Error())
			continue
		}

		createdAt, err := parseTimestamp(createdAtStr)
		if err != nil {
			r.logger.Database().Error("Failed to parse feature event timestamp", "error", err.Error(), "timestamp", createdAtStr)
			continue
		}

		event.SpaceID = spaceID
		event.CreatedAt = createdAt
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for feature events", "error", err.Error())
		return nil, err
	}
	return events, nil
}

func (r *SQLInteractionStore) finish(operation, query string, start time.Time, count int) {
	duration := time.Since(start)
	r.logger.Database().Debug("Interaction store query completed",
		"operation", operation,
		"count", count,
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
}

// placeholders builds a "?,?,?" list for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(ids []string) []any {
	args := make([]any, 0, len(ids)+2)
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}

// parseTimestamp handles multiple timestamp formats
func parseTimestamp(timestampStr string) (time.Time, error) {
	// Try RFC3339 first
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}

	// Try SQLite format
	if t, err := time.Parse("2006-01-02 15:04:05", timestampStr); err == nil {
		return t, nil
	}

	// Try ISO format with milliseconds
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", timestampStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}
