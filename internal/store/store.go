// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package store persists canonical records to SQLite. Inserts ignore
// identifier conflicts so re-ingesting the same document is a no-op rather
// than an error; existing rows are never updated.
package store

import (
	"database/sql"
	"fmt"

	"github.com/proplens/internal/schema"
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// New creates the store and its schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS project_tasks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id INTEGER NOT NULL UNIQUE,
		task_name TEXT,
		duration_days INTEGER,
		start_date DATE,
		finish_date DATE
	);

	CREATE TABLE IF NOT EXISTS regulatory_rules (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		rule_id TEXT NOT NULL UNIQUE,
		rule_summary TEXT NOT NULL,
		measurement_basis TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_project_tasks_task_id ON project_tasks(task_id);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// SaveTasks bulk-inserts task records in one transaction, ignoring task_id
// conflicts.
func (s *Store) SaveTasks(records []schema.TaskRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT OR IGNORE INTO project_tasks (task_id, task_name, duration_days, start_date, finish_date) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var start, finish interface{}
		if r.StartDate != nil {
			start = r.StartDate.Format("2006-01-02")
		}
		if r.FinishDate != nil {
			finish = r.FinishDate.Format("2006-01-02")
		}
		if _, err := stmt.Exec(r.TaskID, r.TaskName, r.DurationDays, start, finish); err != nil {
			return fmt.Errorf("failed to insert task %d: %w", r.TaskID, err)
		}
	}

	return tx.Commit()
}

// SaveRules bulk-inserts rule records, ignoring rule_id conflicts. Ids are
// clipped to 250 characters; the model occasionally hallucinates paragraphs
// into the id field.
func (s *Store) SaveRules(rules []schema.RuleRecord) error {
	if len(rules) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT OR IGNORE INTO regulatory_rules (rule_id, rule_summary, measurement_basis) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rules {
		id := r.RuleID
		if len(id) > 250 {
			id = id[:250]
		}
		if _, err := stmt.Exec(id, r.RuleSummary, r.MeasurementBasis); err != nil {
			return fmt.Errorf("failed to insert rule %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// CountTasks returns the number of stored task rows.
func (s *Store) CountTasks() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM project_tasks").Scan(&n)
	return n, err
}

// CountRules returns the number of stored rule rows.
func (s *Store) CountRules() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM regulatory_rules").Scan(&n)
	return n, err
}
