// Package journal keeps a SQLite record of every rename so a run can be
// listed and undone later.
package journal

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	// ErrRunNotFound is returned for an unknown run id, or when the journal
	// has no run left to undo.
	ErrRunNotFound = errors.New("run not found")

	// ErrNothingToUndo is returned when every rename of a run is already undone.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Journal is the SQLite-backed rename journal.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	// SQLite prefers a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	j := &Journal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return j, nil
}

func (j *Journal) initSchema() error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := j.db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Run is one rename batch.
type Run struct {
	ID        string
	StartedAt time.Time
	DryRun    bool

	j *Journal
}

// BeginRun starts a new run with a fresh id.
func (j *Journal) BeginRun(dryRun bool) (*Run, error) {
	r := &Run{ID: uuid.New().String(), StartedAt: time.Now().UTC(), DryRun: dryRun, j: j}
	_, err := j.db.Exec(`INSERT INTO runs (id, started_at, dry_run) VALUES (?, ?, ?)`,
		r.ID, r.StartedAt, boolToInt(dryRun))
	if err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return r, nil
}

// Record stores one applied rename. Paths are stored absolute so the run can
// be undone from any working directory.
func (r *Run) Record(oldPath, newPath string) error {
	oldAbs, err := filepath.Abs(oldPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", oldPath, err)
	}
	newAbs, err := filepath.Abs(newPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", newPath, err)
	}
	_, err = r.j.db.Exec(
		`INSERT INTO renames (run_id, old_path, new_path, renamed_at) VALUES (?, ?, ?, ?)`,
		r.ID, oldAbs, newAbs, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record rename: %w", err)
	}
	return nil
}

// Entry is one recorded rename.
type Entry struct {
	ID        int64
	RunID     string
	OldPath   string
	NewPath   string
	RenamedAt time.Time
	Undone    bool
}

// RunSummary is one line of the history listing.
type RunSummary struct {
	ID        string
	StartedAt time.Time
	DryRun    bool
	Renames   int
	Undone    int
}

// History returns the most recent runs, newest first. limit <= 0 means all.
func (j *Journal) History(limit int) ([]RunSummary, error) {
	query := `
		SELECT r.id, r.started_at, r.dry_run,
		       COUNT(n.id), COALESCE(SUM(n.undone), 0)
		FROM runs r
		LEFT JOIN renames n ON n.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var dry int
		if err := rows.Scan(&s.ID, &s.StartedAt, &dry, &s.Renames, &s.Undone); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.DryRun = dry != 0
		out = append(out, s)
	}
	return out, rows.Err()
}

// LatestRun returns the id of the newest run that still has renames to undo.
// Runs that renamed nothing, or were fully undone, are skipped.
func (j *Journal) LatestRun() (string, error) {
	var id string
	err := j.db.QueryRow(`
		SELECT id FROM runs
		WHERE dry_run = 0
		  AND EXISTS (SELECT 1 FROM renames WHERE run_id = runs.id AND undone = 0)
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrRunNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest run: %w", err)
	}
	return id, nil
}

// Entries returns the renames of a run in the order they were applied.
func (j *Journal) Entries(runID string) ([]Entry, error) {
	var exists int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := j.db.Query(
		`SELECT id, run_id, old_path, new_path, renamed_at, undone
		 FROM renames WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query renames: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var undone int
		if err := rows.Scan(&e.ID, &e.RunID, &e.OldPath, &e.NewPath, &e.RenamedAt, &undone); err != nil {
			return nil, fmt.Errorf("failed to scan rename: %w", err)
		}
		e.Undone = undone != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (j *Journal) markUndone(id int64) error {
	_, err := j.db.Exec(`UPDATE renames SET undone = 1 WHERE id = ?`, id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
