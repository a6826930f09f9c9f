// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Event records a pipeline action against a document.
type Event struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	EventType    string    `json:"event_type"` // ingest, index, error
	DocumentName string    `json:"document_name"`
	Details      string    `json:"details"`
}

// EventLog handles event logging to SQLite.
type EventLog struct {
	db *sql.DB
}

// NewEventLog creates a new event log.
func NewEventLog(db *sql.DB) (*EventLog, error) {
	log := &EventLog{db: db}
	if err := log.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize events schema: %w", err)
	}
	return log, nil
}

func (e *EventLog) initSchema() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		event_type TEXT NOT NULL,
		document_name TEXT NOT NULL,
		details TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_events_document_name ON events(document_name);
	`
	_, err := e.db.Exec(ddl)
	return err
}

// LogEvent appends a new event.
func (e *EventLog) LogEvent(eventType, documentName, details string) error {
	_, err := e.db.Exec(
		"INSERT INTO events (timestamp, event_type, document_name, details) VALUES (?, ?, ?, ?)",
		time.Now(),
		eventType,
		documentName,
		details,
	)
	return err
}

// RecentEvents returns the last N events, newest first.
func (e *EventLog) RecentEvents(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := e.db.Query(
		"SELECT id, timestamp, event_type, document_name, details FROM events ORDER BY timestamp DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.Timestamp, &event.EventType, &event.DocumentName, &event.Details); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}
