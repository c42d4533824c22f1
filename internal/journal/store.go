// Package journal records key generation runs in a sqlite database. Only
// run parameters and search statistics are stored; p, q, n and d never
// reach the disk.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"infobez-lab-rsa/internal/rsa"
)

const createRuns = `
CREATE TABLE IF NOT EXISTS keygen_runs (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	total_bits INTEGER NOT NULL,
	p_bits INTEGER NOT NULL,
	q_bits INTEGER NOT NULL,
	public_exponent TEXT NOT NULL,
	rounds INTEGER NOT NULL,
	parallel BOOLEAN NOT NULL,
	candidates INTEGER NOT NULL,
	restarts INTEGER NOT NULL,
	resamples INTEGER NOT NULL,
	duration_us INTEGER NOT NULL
);`

// Run is a stored key generation run.
type Run struct {
	ID             string
	CreatedAt      time.Time
	TotalBits      int
	PBits          int
	QBits          int
	PublicExponent string
	Rounds         int
	Parallel       bool
	Candidates     int
	Restarts       int
	Resamples      int
	Duration       time.Duration
}

// Stats aggregates all stored runs.
type Stats struct {
	Runs            int
	TotalCandidates int
	TotalResamples  int
	AverageDuration time.Duration
}

// Store is a handle to the journal database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the journal at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	if _, err := db.Exec(createRuns); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores the statistics of one run.
func (s *Store) Record(ctx context.Context, r *rsa.Report) error {
	// The exponent is stored as text: sqlite integers are signed.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO keygen_runs (id, created_at, total_bits, p_bits, q_bits, public_exponent,
			rounds, parallel, candidates, restarts, resamples, duration_us)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.CreatedAt, r.TotalBits, r.PBits, r.QBits, fmt.Sprint(r.PublicExponent),
		r.Rounds, r.Parallel, r.Candidates, r.Restarts, r.Resamples, r.Duration.Microseconds())
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", r.ID, err)
	}
	return nil
}

// List returns up to limit runs, newest first. A limit below 1 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit < 1 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, total_bits, p_bits, q_bits, public_exponent, rounds, parallel,
			candidates, restarts, resamples, duration_us
		FROM keygen_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var us int64
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.TotalBits, &r.PBits, &r.QBits, &r.PublicExponent,
			&r.Rounds, &r.Parallel, &r.Candidates, &r.Restarts, &r.Resamples, &us); err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		r.Duration = time.Duration(us) * time.Microsecond
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Stats aggregates every stored run.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var avgUS float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(candidates), 0), COALESCE(SUM(resamples), 0), COALESCE(AVG(duration_us), 0)
		FROM keygen_runs`).Scan(&st.Runs, &st.TotalCandidates, &st.TotalResamples, &avgUS)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to aggregate runs: %w", err)
	}
	st.AverageDuration = time.Duration(avgUS) * time.Microsecond
	return st, nil
}

// Clear deletes every run and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM keygen_runs")
	if err != nil {
		return 0, fmt.Errorf("failed to clear journal: %w", err)
	}
	return res.RowsAffected()
}
