// Package journal records a session transcript in SQLite: every notification
// plus periodic state snapshots. It is write-only observability — sessions
// are never restored from it.
package journal

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/calebmoore/clipfactory/internal/engine"
	"github.com/calebmoore/clipfactory/internal/notify"
)

// Journal wraps a SQLite transcript for one session.
type Journal struct {
	conn      *sqlx.DB
	sessionID string

	// Tick reports the current simulation tick for row stamping.
	Tick func() uint64
}

// Open opens or creates the transcript database and registers a new session.
func Open(path string, tick func() uint64) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{
		conn:      conn,
		sessionID: uuid.NewString(),
		Tick:      tick,
	}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	_, err = conn.Exec(
		"INSERT INTO sessions (id, started_at) VALUES (?, ?)",
		j.sessionID, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("register session: %w", err)
	}

	return j, nil
}

// SessionID returns the identifier of the session being recorded.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		channel TEXT NOT NULL,
		message TEXT NOT NULL,
		severity TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		clips_made INTEGER NOT NULL,
		clips_sold INTEGER NOT NULL,
		inventory INTEGER NOT NULL,
		funds REAL NOT NULL,
		price REAL NOT NULL,
		demand REAL NOT NULL,
		wire INTEGER NOT NULL,
		clippers INTEGER NOT NULL,
		factories INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_session ON notifications(session_id, tick);
	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id, tick);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// Notify implements notify.Sink: every notification becomes a transcript
// row. Write failures log and drop; the session must not stall on disk.
func (j *Journal) Notify(n notify.Notification) {
	_, err := j.conn.Exec(
		"INSERT INTO notifications (session_id, tick, channel, message, severity) VALUES (?, ?, ?, ?, ?)",
		j.sessionID, j.currentTick(), n.Channel, n.Message, string(n.Severity),
	)
	if err != nil {
		slog.Warn("journal write failed", "error", err)
	}
}

// Snapshot records the current factory state.
func (j *Journal) Snapshot(v engine.View) error {
	_, err := j.conn.Exec(
		`INSERT INTO snapshots
		 (session_id, tick, clips_made, clips_sold, inventory, funds, price, demand, wire, clippers, factories)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.sessionID, j.currentTick(),
		v.ClipsMade, v.ClipsSold, v.Inventory,
		v.Funds, v.Price, v.Demand,
		v.Wire, v.Clippers, v.Factories,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// TranscriptRow is one recorded notification.
type TranscriptRow struct {
	Tick     uint64 `db:"tick"`
	Channel  string `db:"channel"`
	Message  string `db:"message"`
	Severity string `db:"severity"`
}

// Recent returns the latest notifications for this session, newest first.
func (j *Journal) Recent(limit int) ([]TranscriptRow, error) {
	var rows []TranscriptRow
	err := j.conn.Select(&rows,
		`SELECT tick, channel, message, severity FROM notifications
		 WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		j.sessionID, limit,
	)
	return rows, err
}

func (j *Journal) currentTick() uint64 {
	if j.Tick == nil {
		return 0
	}
	return j.Tick()
}
