package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/valpere/polytran/internal/cachekey"
	"github.com/valpere/polytran/internal/translator"
)

// ErrNotFound is returned by Delete when no entry has the given ID.
var ErrNotFound = errors.New("store: entry not found")

// Store persists operation results in SQLite, keyed like the in-memory
// cache so that results survive between runs.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY when raced backends save at once
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS results (
		id TEXT PRIMARY KEY,
		service TEXT NOT NULL,
		operation TEXT NOT NULL,
		cache_key TEXT NOT NULL,
		payload TEXT NOT NULL,
		hits INTEGER DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		last_used TIMESTAMP NOT NULL,
		UNIQUE(service, operation, cache_key)
	);

	CREATE INDEX IF NOT EXISTS idx_results_lookup ON results(service, operation, cache_key);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load decodes the stored payload for key into dst. It reports false, and
// leaves dst alone, when nothing is stored.
func (s *Store) Load(ctx context.Context, service string, op translator.Operation, key cachekey.Key, dst any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM results WHERE service = ? AND operation = ? AND cache_key = ?`,
		service, string(op), key.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal([]byte(payload), dst); err != nil {
		return false, fmt.Errorf("decode %s.%s payload: %w", service, op, err)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE results SET hits = hits + 1, last_used = ? WHERE service = ? AND operation = ? AND cache_key = ?`,
		time.Now().UTC(), service, string(op), key.String())
	return true, err
}

// Save stores value as JSON, replacing any previous payload for key.
func (s *Store) Save(ctx context.Context, service string, op translator.Operation, key cachekey.Key, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s.%s payload: %w", service, op, err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO results (id, service, operation, cache_key, payload, hits, created_at, last_used)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(service, operation, cache_key) DO UPDATE SET payload = excluded.payload, last_used = excluded.last_used`,
		uuid.NewString(), service, string(op), key.String(), string(payload), now, now)
	return err
}

// Entry is one row of the results table.
type Entry struct {
	ID        string
	Service   string
	Operation translator.Operation
	Key       string
	Payload   string
	Hits      int
	CreatedAt time.Time
	LastUsed  time.Time
}

// Filter narrows List and Clear. Empty fields match everything.
type Filter struct {
	Service   string
	Operation translator.Operation
}

func (f Filter) where() (string, []any) {
	clause := ` WHERE 1 = 1`
	var args []any
	if f.Service != "" {
		clause += ` AND service = ?`
		args = append(args, f.Service)
	}
	if f.Operation != "" {
		clause += ` AND operation = ?`
		args = append(args, string(f.Operation))
	}
	return clause, args
}

// List returns matching entries, most recently used first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	clause, args := f.where()
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, service, operation, cache_key, payload, hits, created_at, last_used FROM results`+clause+` ORDER BY last_used DESC`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var e Entry
		var op string
		if err := rows.Scan(&e.ID, &e.Service, &op, &e.Key, &e.Payload, &e.Hits, &e.CreatedAt, &e.LastUsed); err != nil {
			return nil, err
		}
		e.Operation = translator.Operation(op)
		results = append(results, e)
	}

	return results, rows.Err()
}

// Stats summarises what the store holds.
type Stats struct {
	TotalEntries int
	TotalHits    int
	ByService    map[string]int
	ByOperation  map[translator.Operation]int
}

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		ByService:   make(map[string]int),
		ByOperation: make(map[translator.Operation]int),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM results`).Scan(&stats.TotalEntries, &stats.TotalHits)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT service, operation, COUNT(*) FROM results GROUP BY service, operation`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var service, op string
		var n int
		if err := rows.Scan(&service, &op, &n); err != nil {
			return nil, err
		}
		stats.ByService[service] += n
		stats.ByOperation[translator.Operation(op)] += n
	}
	return stats, rows.Err()
}

// Delete permanently removes one entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// Clear removes matching entries and returns how many were deleted.
func (s *Store) Clear(ctx context.Context, f Filter) (int64, error) {
	clause, args := f.where()
	res, err := s.db.ExecContext(ctx, `DELETE FROM results`+clause, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Purge drops every entry of one service.
func (s *Store) Purge(ctx context.Context, service string) error {
	_, err := s.Clear(ctx, Filter{Service: service})
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
