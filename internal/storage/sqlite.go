// Package storage provides SQLite-based persistence for built navigation
// meshes and simulation run records.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tilenav/internal/navmesh"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// MeshEntry describes a cached mesh without its payload.
type MeshEntry struct {
	Key       string
	LevelID   string
	Nodes     int
	Edges     int
	CreatedAt time.Time
}

// RunRecord is the outcome of one headless simulation run.
type RunRecord struct {
	ID           int64
	LevelID      string
	Seed         int64
	Ticks        int
	Agents       int
	Arrivals     int
	Catches      int
	Plans        int
	PlanFailures int
	Replans      int
	Stalls       int
	BlockedMoves int
	CreatedAt    time.Time
}

// LevelStats aggregates the runs recorded for a level.
type LevelStats struct {
	Runs         int
	TotalTicks   int
	Arrivals     int
	Catches      int
	Plans        int
	PlanFailures int
	Replans      int
	Stalls       int
	BlockedMoves int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS meshes (
			cache_key TEXT PRIMARY KEY,
			level_id TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			edges INTEGER NOT NULL,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_meshes_level_id ON meshes(level_id);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			agents INTEGER NOT NULL,
			arrivals INTEGER NOT NULL DEFAULT 0,
			catches INTEGER NOT NULL DEFAULT 0,
			plans INTEGER NOT NULL DEFAULT 0,
			plan_failures INTEGER NOT NULL DEFAULT 0,
			replans INTEGER NOT NULL DEFAULT 0,
			stalls INTEGER NOT NULL DEFAULT 0,
			blocked_moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_level_id ON runs(level_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.addRunColumns("catches", "plans", "plan_failures", "stalls")
}

// addRunColumns adds counters introduced after a runs table was created.
func (s *Store) addRunColumns(names ...string) error {
	rows, err := s.db.Query("PRAGMA table_info(runs)")
	if err != nil {
		return err
	}
	have := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		have[name] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for _, name := range names {
		if have[name] {
			continue
		}
		if _, err := s.db.Exec("ALTER TABLE runs ADD COLUMN " + name + " INTEGER NOT NULL DEFAULT 0"); err != nil {
			return fmt.Errorf("add column %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMesh stores m under key, replacing any previous entry.
func (s *Store) SaveMesh(key, levelID string, m *navmesh.Mesh) error {
	data, err := msgpack.Marshal(m.Snapshot())
	if err != nil {
		return fmt.Errorf("storage: cannot encode mesh: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO meshes (cache_key, level_id, nodes, edges, data)
		 VALUES (?, ?, ?, ?, ?)`,
		key, levelID, m.Len(), m.EdgeCount(), data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save mesh: %w", err)
	}
	return nil
}

// LoadMesh returns the mesh stored under key, or nil when there is none.
func (s *Store) LoadMesh(key string) (*navmesh.Mesh, error) {
	var data []byte
	err := s.db.QueryRow("SELECT data FROM meshes WHERE cache_key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query mesh: %w", err)
	}

	var snap navmesh.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("storage: cannot decode mesh %s: %w", key, err)
	}
	return navmesh.FromSnapshot(snap), nil
}

// Meshes lists the cached meshes of a level, newest first.
// An empty levelID lists every level.
func (s *Store) Meshes(levelID string) ([]MeshEntry, error) {
	rows, err := s.db.Query(
		`SELECT cache_key, level_id, nodes, edges, created_at
		 FROM meshes
		 WHERE ? = '' OR level_id = ?
		 ORDER BY created_at DESC, cache_key`,
		levelID, levelID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query meshes: %w", err)
	}
	defer rows.Close()

	var entries []MeshEntry
	for rows.Next() {
		var e MeshEntry
		var createdAt any
		if err := rows.Scan(&e.Key, &e.LevelID, &e.Nodes, &e.Edges, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// ClearMeshes deletes the cached meshes of a level and returns how many
// were removed.
func (s *Store) ClearMeshes(levelID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM meshes WHERE level_id = ?", levelID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear meshes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted meshes: %w", err)
	}
	return n, nil
}

// SaveRun records a simulation run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO runs (level_id, seed, ticks, agents, arrivals, catches, plans, plan_failures, replans, stalls, blocked_moves)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.LevelID, r.Seed, r.Ticks, r.Agents, r.Arrivals, r.Catches, r.Plans, r.PlanFailures, r.Replans, r.Stalls, r.BlockedMoves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// RecentRuns retrieves the most recent runs of a level.
func (s *Store) RecentRuns(levelID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, level_id, seed, ticks, agents, arrivals, catches, plans, plan_failures, replans, stalls, blocked_moves, created_at
		 FROM runs
		 WHERE level_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		levelID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.LevelID,
			&r.Seed,
			&r.Ticks,
			&r.Agents,
			&r.Arrivals,
			&r.Catches,
			&r.Plans,
			&r.PlanFailures,
			&r.Replans,
			&r.Stalls,
			&r.BlockedMoves,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// LevelStats sums every run recorded for a level.
func (s *Store) LevelStats(levelID string) (LevelStats, error) {
	var st LevelStats
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(ticks), 0),
		        COALESCE(SUM(arrivals), 0),
		        COALESCE(SUM(catches), 0),
		        COALESCE(SUM(plans), 0),
		        COALESCE(SUM(plan_failures), 0),
		        COALESCE(SUM(replans), 0),
		        COALESCE(SUM(stalls), 0),
		        COALESCE(SUM(blocked_moves), 0)
		 FROM runs
		 WHERE level_id = ?`,
		levelID,
	).Scan(&st.Runs, &st.TotalTicks, &st.Arrivals, &st.Catches, &st.Plans, &st.PlanFailures,
		&st.Replans, &st.Stalls, &st.BlockedMoves)
	if err != nil {
		return LevelStats{}, fmt.Errorf("storage: cannot query level stats: %w", err)
	}
	return st, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
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
