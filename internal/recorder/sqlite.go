package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the invocation history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS render_events (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			ticker      TEXT NOT NULL,
			start_date  TEXT,
			end_date    TEXT,
			windows     TEXT,
			include_rsi INTEGER,
			row_count   INTEGER,
			status      TEXT,
			diagnostic  TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_render_ts ON render_events(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_render_ticker ON render_events(ticker)`,

		`CREATE TABLE IF NOT EXISTS watch_snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			ticker    TEXT NOT NULL,
			as_of     TEXT,
			close     REAL,
			rsi       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_ticker_ts ON watch_snapshots(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS snapshot_mas (
			snapshot_id INTEGER NOT NULL REFERENCES watch_snapshots(id),
			ma_window   INTEGER NOT NULL,
			value       REAL,
			PRIMARY KEY (snapshot_id, ma_window)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRender(evt *RenderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO render_events
		(id, timestamp, ticker, start_date, end_date, windows, include_rsi, row_count, status, diagnostic, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		evt.ID, time.Now().Unix(), evt.Ticker,
		formatDate(evt.Start), formatDate(evt.End), joinWindows(evt.Windows),
		evt.IncludeRSI, evt.Rows, evt.Status, evt.Diagnostic, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordSnapshot(snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO watch_snapshots (timestamp, ticker, as_of, close, rsi) VALUES (?,?,?,?,?)`,
		time.Now().Unix(), snap.Ticker, formatDate(snap.AsOf), snap.Close, snap.RSI)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	for _, ma := range snap.MovingAverages {
		if _, err := tx.Exec(`INSERT INTO snapshot_mas (snapshot_id, ma_window, value) VALUES (?,?,?)`,
			id, ma.Window, ma.Value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func joinWindows(windows []int) string {
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ",")
}
