// Package repository provides the SQLite-backed audit trail.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/deckhand-io/deckhand/internal/domain"
)

// AuditStore records audit events.
type AuditStore interface {
	RecordEvent(ctx context.Context, event *domain.AuditEvent) error
	Close() error
}

// SQLiteAudit implements AuditStore using SQLite.
type SQLiteAudit struct {
	db *sql.DB
}

// NewSQLiteAudit opens the audit database and runs migrations.
func NewSQLiteAudit(dsn string) (*SQLiteAudit, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid the schema disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteAudit{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteAudit) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			request_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_request ON events(request_id, ts)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// RecordEvent inserts one audit event.
func (s *SQLiteAudit) RecordEvent(ctx context.Context, event *domain.AuditEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, request_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.RequestID, event.TS, string(event.Type), string(event.Payload),
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteAudit) Close() error {
	return s.db.Close()
}
