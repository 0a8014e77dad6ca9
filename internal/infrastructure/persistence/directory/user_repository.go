// Package directory provides the SQL-backed implementation of the user
// directory, read one page at a time.
package directory

import (
	"fmt"
	"time"

	"github.com/HearthApp/hearth-go/internal/domain/analytics"
	"github.com/HearthApp/hearth-go/internal/infrastructure/observability/logging"
	"github.com/HearthApp/hearth-go/internal/infrastructure/persistence/database"
	"github.com/HearthApp/hearth-go/pkg/config"
)

// SQLUserDirectory reads the user population from the users table.
type SQLUserDirectory struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserDirectory creates a new instance of the directory.
func NewSQLUserDirectory(db *database.DB, logger *logging.ChanneledLogger) *SQLUserDirectory {
	return &SQLUserDirectory{
		db:     db,
		logger: logger,
	}
}

// ListUsersPage retrieves one page of users ordered by id for stable paging.
func (r *SQLUserDirectory) ListUsersPage(limit, offset int) ([]analytics.User, error) {
	const query = `
		SELECT id, created_at
		FROM users
		ORDER BY id
		LIMIT ? OFFSET ?`

	start := time.Now()
	r.logger.Database().Debug("Loading user directory page", "limit", limit, "offset", offset)

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		r.logger.Database().Error("Failed to query user directory page",
			"error", err.Error(),
			"limit", limit,
			"offset", offset)
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []analytics.User
	for rows.Next() {
		var user analytics.User
		var createdAtStr string

		if err := rows.Scan(&user.ID, &createdAtStr); err != nil {
			r.logger.Database().Error("Failed to scan user row", "error", err.Error())
			continue
		}

		user.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			r.logger.Database().Error("Failed to parse user timestamp", "error", err.Error(), "timestamp", createdAtStr)
			continue
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Database().Error("Row iteration error for user directory", "error", err.Error())
		return nil, err
	}

	duration := time.Since(start)
	r.logger.Database().Debug("User directory page loaded",
		"limit", limit,
		"offset", offset,
		"count", len(users),
		"duration", duration)
	if duration > config.SlowQueryThreshold {
		r.logger.LogSlowQuery(query, duration)
	}
	return users, nil
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
