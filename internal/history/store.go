// Package history provides SQLite persistence for past briefing runs,
// used for cross-run story deltas and streak tracking.
package history

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abelbrown/briefing/internal/card"
)

// keepRuns caps retained history; older runs are pruned on save.
const keepRuns = 168

// Run is one recorded briefing run.
type Run struct {
	ID        int64
	Timestamp time.Time
	Mode      string
	Runtime   time.Duration
	Cards     []StoredCard
}

// StoredCard is the persisted shape of a card: title plus rendered
// body, treated as opaque strings by the delta logic.
type StoredCard struct {
	Title string
	Body  string
}

// Delta classifies a card against the previous run.
type Delta string

const (
	DeltaNew        Delta = "new"
	DeltaUpdated    Delta = "updated"
	DeltaContinuing Delta = "continuing"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at the given database path, creating tables as
// needed. WAL mode is enabled for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		mode TEXT NOT NULL,
		runtime_ms INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS run_cards (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		body TEXT,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveRun records a completed run and prunes history beyond the
// retention window.
func (s *Store) SaveRun(mode string, runtime time.Duration, cards []card.Card) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO runs (timestamp, mode, runtime_ms) VALUES (?, ?, ?)",
		time.Now().UTC(), mode, runtime.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for i, c := range cards {
		if _, err := tx.Exec(
			"INSERT INTO run_cards (run_id, position, title, body) VALUES (?, ?, ?, ?)",
			runID, i, c.Title, c.Body,
		); err != nil {
			return 0, fmt.Errorf("insert card: %w", err)
		}
	}

	if _, err := tx.Exec(`
		DELETE FROM runs WHERE id NOT IN (
			SELECT id FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?
		)`, keepRuns); err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	if _, err := tx.Exec(
		"DELETE FROM run_cards WHERE run_id NOT IN (SELECT id FROM runs)",
	); err != nil {
		return 0, fmt.Errorf("prune cards: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit most recent runs, newest first, with
// their cards in position order.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, timestamp, mode, runtime_ms FROM runs ORDER BY timestamp DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Mode, &ms); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Runtime = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		cards, err := s.runCards(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Cards = cards
	}
	return runs, nil
}

func (s *Store) runCards(runID int64) ([]StoredCard, error) {
	rows, err := s.db.Query(
		"SELECT title, body FROM run_cards WHERE run_id = ? ORDER BY position",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []StoredCard
	for rows.Next() {
		var c StoredCard
		if err := rows.Scan(&c.Title, &c.Body); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ClassifyDelta compares a fresh card against the previous run's
// cards. A title sharing more than half its words with a prior card is
// the same story; the body word overlap then splits "updated"
// (substantial new content) from "continuing".
func ClassifyDelta(c card.Card, previous []StoredCard) Delta {
	title := wordSet(c.Title)
	for _, prev := range previous {
		prevTitle := wordSet(prev.Title)
		if overlapMin(title, prevTitle) <= 0.5 {
			continue
		}
		body := wordSet(c.Body)
		prevBody := wordSet(prev.Body)
		if overlapMax(body, prevBody) < 0.6 {
			return DeltaUpdated
		}
		return DeltaContinuing
	}
	return DeltaNew
}

// Streak counts how many consecutive recent runs, newest first,
// carried a card matching this title.
func Streak(c card.Card, runs []Run) int {
	title := wordSet(c.Title)
	streak := 0
	for _, run := range runs {
		found := false
		for _, prev := range run.Cards {
			if overlapMin(title, wordSet(prev.Title)) > 0.5 {
				found = true
				break
			}
		}
		if !found {
			break
		}
		streak++
	}
	return streak
}

func wordSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,:;!?\"'()")
		if w != "" {
			out[w] = true
		}
	}
	return out
}

// overlapMin is intersection over the smaller set.
func overlapMin(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return float64(intersect(a, b)) / float64(n)
}

// overlapMax is intersection over the larger set.
func overlapMax(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	return float64(intersect(a, b)) / float64(n)
}

func intersect(a, b map[string]bool) int {
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	n := 0
	for w := range small {
		if large[w] {
			n++
		}
	}
	return n
}
