// Package meta provides SQLite-based persistence for cross-run progression:
// best run, lifetime coins, unlocks, and run history. Uses the pure-Go
// modernc.org/sqlite driver to avoid CGO dependencies.
//
// Run state is never stored here; the run package owns it in memory. The
// store only receives additive deltas at run end.
package meta

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// schemaVersion is the current persisted schema version. Older JSON blobs
// from the original app are upgraded explicitly via ImportLegacy.
const schemaVersion = 2

// State holds the cross-run aggregates.
type State struct {
	BestRun    int      `json:"bestRun"`
	TotalCoins int      `json:"totalCoins"`
	Unlocks    []string `json:"unlocks"`
}

// RunRecord is one finished run.
type RunRecord struct {
	ID            int64
	Puzzles       int // Puzzles completed before the run ended
	Coins         int // Coins earned during the run
	MistakeWordID string
	CreatedAt     time.Time
}

// Store manages the SQLite database connection for meta progression.
// Mutations are serialized so queued updates from a single run-end handler
// land in order rather than racing each other.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("meta: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("meta: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("meta: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("meta: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("meta: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			schema_version INTEGER NOT NULL,
			best_run INTEGER NOT NULL DEFAULT 0,
			total_coins INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS unlocks (
			id TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			puzzles INTEGER NOT NULL,
			coins INTEGER NOT NULL,
			mistake_word_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_puzzles ON runs(puzzles DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO meta (id, schema_version) VALUES (1, ?)`,
		schemaVersion,
	)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load returns the persisted cross-run state.
func (s *Store) Load() (State, error) {
	var st State
	err := s.db.QueryRow(
		`SELECT best_run, total_coins FROM meta WHERE id = 1`,
	).Scan(&st.BestRun, &st.TotalCoins)
	if err != nil {
		return State{}, fmt.Errorf("meta: cannot load state: %w", err)
	}

	rows, err := s.db.Query(`SELECT id FROM unlocks ORDER BY created_at, id`)
	if err != nil {
		return State{}, fmt.Errorf("meta: cannot query unlocks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return State{}, fmt.Errorf("meta: cannot scan unlock: %w", err)
		}
		st.Unlocks = append(st.Unlocks, id)
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("meta: row iteration error: %w", err)
	}
	return st, nil
}

// UpdateBestRun raises the stored best run length if puzzlesCompleted
// exceeds it. Lower values are ignored.
func (s *Store) UpdateBestRun(puzzlesCompleted int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`UPDATE meta SET best_run = ? WHERE id = 1 AND best_run < ?`,
		puzzlesCompleted, puzzlesCompleted,
	)
	if err != nil {
		return fmt.Errorf("meta: cannot update best run: %w", err)
	}
	return nil
}

// AddCoins adds delta to the lifetime coin total.
func (s *Store) AddCoins(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`UPDATE meta SET total_coins = total_coins + ? WHERE id = 1`,
		delta,
	)
	if err != nil {
		return fmt.Errorf("meta: cannot add coins: %w", err)
	}
	return nil
}

// AddUnlock records an unlock. Idempotent: adding the same id twice keeps
// a single entry.
func (s *Store) AddUnlock(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT OR IGNORE INTO unlocks (id) VALUES (?)`, id)
	if err != nil {
		return fmt.Errorf("meta: cannot add unlock: %w", err)
	}
	return nil
}

// SaveRun records a finished run in the history table.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(rec RunRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec(
		`INSERT INTO runs (puzzles, coins, mistake_word_id) VALUES (?, ?, ?)`,
		rec.Puzzles, rec.Coins, rec.MistakeWordID,
	)
	if err != nil {
		return 0, fmt.Errorf("meta: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("meta: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, puzzles, coins, COALESCE(mistake_word_id, ''), created_at
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("meta: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Puzzles, &r.Coins, &r.MistakeWordID, &createdAt); err != nil {
			return nil, fmt.Errorf("meta: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("meta: row iteration error: %w", err)
	}
	return records, nil
}

// BestRun returns the best run length. Returns 0 if no runs are recorded.
func (s *Store) BestRun() (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRow(`SELECT best_run FROM meta WHERE id = 1`).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("meta: cannot query best run: %w", err)
	}
	if !best.Valid {
		return 0, nil
	}
	return int(best.Int64), nil
}

// RecordRunEnd applies the run-end deltas in order: run history, lifetime
// coins, best run. Called exactly once per run end by the session layer.
func (s *Store) RecordRunEnd(rec RunRecord) error {
	if _, err := s.SaveRun(rec); err != nil {
		return err
	}
	if err := s.AddCoins(rec.Coins); err != nil {
		return err
	}
	return s.UpdateBestRun(rec.Puzzles)
}

// legacyState matches the JSON blob the original app persisted under its
// "meta" storage key. Older blobs may lack the unlocks field entirely.
type legacyState struct {
	BestRun    int      `json:"bestRun"`
	TotalCoins int      `json:"totalCoins"`
	Unlocks    []string `json:"unlocks"`
}

// ImportLegacy migrates a legacy JSON meta blob into the store. The import
// is additive and monotone: best run only rises, coins only accumulate,
// unlocks merge idempotently, so a repeated import cannot corrupt state.
func (s *Store) ImportLegacy(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("meta: read legacy blob %s: %w", path, err)
	}

	var legacy legacyState
	if err := json.Unmarshal(data, &legacy); err != nil {
		return State{}, fmt.Errorf("meta: parse legacy blob %s: %w", path, err)
	}
	if legacy.BestRun < 0 || legacy.TotalCoins < 0 {
		return State{}, fmt.Errorf("meta: legacy blob %s has negative aggregates", path)
	}

	if err := s.UpdateBestRun(legacy.BestRun); err != nil {
		return State{}, err
	}
	if legacy.TotalCoins > 0 {
		if err := s.AddCoins(legacy.TotalCoins); err != nil {
			return State{}, err
		}
	}
	for _, id := range legacy.Unlocks {
		if err := s.AddUnlock(id); err != nil {
			return State{}, err
		}
	}
	return s.Load()
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
