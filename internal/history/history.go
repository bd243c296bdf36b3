// Package history persists one row per completed health check cycle to
// SQLite, so operators can answer "when did this forest go down" after the
// fact instead of only seeing the latest snapshot.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tiation/tiation-active-directory-setup/internal/status"
)

// Recorder writes and reads the health check history database.
type Recorder struct {
	db *sql.DB
}

// Check is one recorded health check cycle.
type Check struct {
	At           time.Time
	Docker       bool
	ForestCount  int
	HealthyCount int
	Forests      []ForestCheck
}

// ForestCheck is one forest's state inside a recorded cycle.
type ForestCheck struct {
	Forest      string
	ContainerID string
	Status      string
	Health      string
}

// Open creates or opens the history database at path and ensures the
// schema exists. A single connection is enough: the daemon is the only
// writer and the CLI reads in short bursts.
func Open(path string) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS checks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    checked_at INTEGER NOT NULL,
    docker INTEGER NOT NULL,
    forest_count INTEGER NOT NULL,
    healthy_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS forest_checks (
    check_id INTEGER NOT NULL,
    forest TEXT NOT NULL,
    container_id TEXT,
    status TEXT,
    health TEXT
);
CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks(checked_at);
CREATE INDEX IF NOT EXISTS idx_forest_checks_check_id ON forest_checks(check_id);`
	_, err := db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (r *Recorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Record stores one completed cycle. Forest rows are written in name order
// so repeated reads come back deterministic.
func (r *Recorder) Record(at time.Time, docker bool, forests map[string]status.Forest) error {
	healthy := 0
	names := make([]string, 0, len(forests))
	for name, forest := range forests {
		names = append(names, name)
		if forest.Health == status.HealthHealthy {
			healthy++
		}
	}
	sort.Strings(names)

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO checks (checked_at, docker, forest_count, healthy_count) VALUES (?, ?, ?, ?)`,
		at.Unix(), boolToInt(docker), len(forests), healthy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert check row: %w", err)
	}

	checkID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read check row id: %w", err)
	}

	for _, name := range names {
		forest := forests[name]
		if _, err := tx.Exec(
			`INSERT INTO forest_checks (check_id, forest, container_id, status, health) VALUES (?, ?, ?, ?, ?)`,
			checkID, name, forest.ContainerID, forest.Status, forest.Health,
		); err != nil {
			return fmt.Errorf("failed to insert forest row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history transaction: %w", err)
	}
	return nil
}

// Recent returns the newest checks, most recent first, each with its
// per-forest detail.
func (r *Recorder) Recent(limit int) ([]Check, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := r.db.Query(
		`SELECT id, checked_at, docker, forest_count, healthy_count
		 FROM checks ORDER BY checked_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var checks []Check
	var ids []int64
	for rows.Next() {
		var id, checkedAt int64
		var docker int
		var check Check
		if err := rows.Scan(&id, &checkedAt, &docker, &check.ForestCount, &check.HealthyCount); err != nil {
			return nil, fmt.Errorf("failed to scan check row: %w", err)
		}
		check.At = time.Unix(checkedAt, 0).UTC()
		check.Docker = docker != 0
		checks = append(checks, check)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}

	for i, id := range ids {
		forests, err := r.forestsFor(id)
		if err != nil {
			return nil, err
		}
		checks[i].Forests = forests
	}

	return checks, nil
}

func (r *Recorder) forestsFor(checkID int64) ([]ForestCheck, error) {
	rows, err := r.db.Query(
		`SELECT forest, container_id, status, health
		 FROM forest_checks WHERE check_id = ? ORDER BY forest`, checkID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forest rows: %w", err)
	}
	defer rows.Close()

	var forests []ForestCheck
	for rows.Next() {
		var forest ForestCheck
		if err := rows.Scan(&forest.Forest, &forest.ContainerID, &forest.Status, &forest.Health); err != nil {
			return nil, fmt.Errorf("failed to scan forest row: %w", err)
		}
		forests = append(forests, forest)
	}
	return forests, rows.Err()
}

// Prune deletes checks older than the cutoff and returns how many were
// removed.
func (r *Recorder) Prune(olderThan time.Time) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin prune transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM forest_checks WHERE check_id IN (SELECT id FROM checks WHERE checked_at < ?)`,
		olderThan.Unix(),
	); err != nil {
		return 0, fmt.Errorf("failed to prune forest rows: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM checks WHERE checked_at < ?`, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to prune check rows: %w", err)
	}
	pruned, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit prune transaction: %w", err)
	}
	return pruned, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
