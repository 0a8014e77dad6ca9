package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles creation of the schema for a fresh local database.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and
// indexes. Every statement is idempotent; running against an existing
// database is a no-op.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS spaces (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS space_memberships (
		user_id TEXT NOT NULL,
		space_id TEXT NOT NULL,
		PRIMARY KEY (user_id, space_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (space_id) REFERENCES spaces(id)
	)`,
	`CREATE TABLE IF NOT EXISTS feature_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		action TEXT NOT NULL,
		space_id TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_feature_events_user_created ON feature_events(user_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_feature_events_space_created ON feature_events(space_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_space_memberships_space ON space_memberships(space_id)`,
}
