package bakecache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry records one cached bake result.
type Entry struct {
	ATPPath       string
	InputSHA256   string
	OutputRelPath string
	BakedAt       time.Time
}

// Stats summarizes cache contents for CLI output.
type Stats struct {
	DBPath  string
	Entries int
	Oldest  *time.Time
	Newest  *time.Time
}

// Store persists bake results in SQLite so unchanged assets skip the oven.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) applyMigrations(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS bake_results (
        atp_path TEXT PRIMARY KEY,
        input_sha256 TEXT NOT NULL,
        output_rel_path TEXT NOT NULL,
        baked_at TEXT NOT NULL
    )`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Lookup returns the cached entry for atpPath when the recorded input hash
// still matches, or nil when the asset is absent or has changed.
func (s *Store) Lookup(ctx context.Context, atpPath, inputSHA256 string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT atp_path, input_sha256, output_rel_path, baked_at
         FROM bake_results WHERE atp_path = ? AND input_sha256 = ?`,
		atpPath,
		inputSHA256,
	)

	var entry Entry
	var bakedAtRaw string
	err := row.Scan(&entry.ATPPath, &entry.InputSHA256, &entry.OutputRelPath, &bakedAtRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup bake result: %w", err)
	}
	if bakedAt, parseErr := time.Parse(time.RFC3339Nano, bakedAtRaw); parseErr == nil {
		entry.BakedAt = bakedAt
	}
	return &entry, nil
}

// Record upserts the bake result for atpPath.
func (s *Store) Record(ctx context.Context, atpPath, inputSHA256, outputRelPath string) error {
	if atpPath == "" || inputSHA256 == "" || outputRelPath == "" {
		return errors.New("atp path, input hash, and output path are all required")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO bake_results (atp_path, input_sha256, output_rel_path, baked_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(atp_path) DO UPDATE SET
             input_sha256 = excluded.input_sha256,
             output_rel_path = excluded.output_rel_path,
             baked_at = excluded.baked_at`,
		atpPath,
		inputSHA256,
		outputRelPath,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record bake result: %w", err)
	}
	return nil
}

// Stats returns cache size and age information.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{DBPath: s.path}

	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1), MIN(baked_at), MAX(baked_at) FROM bake_results`)
	var oldest, newest sql.NullString
	if err := row.Scan(&stats.Entries, &oldest, &newest); err != nil {
		return stats, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		if t, err := time.Parse(time.RFC3339Nano, oldest.String); err == nil {
			stats.Oldest = &t
		}
	}
	if newest.Valid {
		if t, err := time.Parse(time.RFC3339Nano, newest.String); err == nil {
			stats.Newest = &t
		}
	}
	return stats, nil
}

// Clear removes all cached bake results and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bake_results`)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return res.RowsAffected()
}
