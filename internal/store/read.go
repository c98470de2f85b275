package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
)

// ErrNotFound is returned when a run ID does not exist.
var ErrNotFound = errors.New("run not found")

const runColumns = `id, seq, input_hash, label, params, timestep, coarse_samples, fine_samples,
	startup_inventory, doubling_time, doubling_index, inflection_time, inflection_index,
	release_rate, max_load_factor, bred, released, burnt, iterations, converged`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r        Run
		doubling sql.NullFloat64
	)
	err := row.Scan(
		&r.ID, &r.Seq, &r.InputHash, &r.Label, &r.Params, &r.Timestep,
		&r.CoarseSamples, &r.FineSamples,
		&r.StartupInventory, &doubling, &r.DoublingIndex,
		&r.InflectionTime, &r.InflectionIndex,
		&r.ReleaseRate, &r.MaxLoadFactor, &r.Bred, &r.Released, &r.Burnt,
		&r.Iterations, &r.Converged,
	)
	if err != nil {
		return Run{}, err
	}
	r.DoublingTime = math.Inf(1)
	if doubling.Valid {
		r.DoublingTime = doubling.Float64
	}
	return r, nil
}

// ReadRun returns the run with the given ID, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	return r, nil
}

// ListRuns returns up to limit runs in seq order. A non-positive limit
// returns every run. Returns an empty slice (not nil) if none exist.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryRuns(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
		LIMIT ?
	`, limit)
}

// FindByInputHash returns every run recorded for an input hash, oldest
// first.
func (s *Store) FindByInputHash(ctx context.Context, hash string) ([]Run, error) {
	return s.queryRuns(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE input_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, hash)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadIterations returns a run's seed history in iteration order.
func (s *Store) ReadIterations(ctx context.Context, runID string) ([]Iteration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n, seed, residual FROM iterations
		WHERE run_id = ?
		ORDER BY n ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query iterations: %w", err)
	}
	defer rows.Close()

	its := []Iteration{}
	for rows.Next() {
		var (
			it       Iteration
			residual sql.NullFloat64
		)
		if err := rows.Scan(&it.N, &it.Seed, &residual); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		it.Residual = math.Inf(1)
		if residual.Valid {
			it.Residual = residual.Float64
		}
		its = append(its, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate iterations: %w", err)
	}
	return its, nil
}

// ReadExtrema returns one envelope (KindMax or KindMin) in bin order.
func (s *Store) ReadExtrema(ctx context.Context, runID, kind string) ([]Extremum, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, bin, idx, time, value FROM extrema
		WHERE run_id = ? AND kind = ?
		ORDER BY bin ASC
	`, runID, kind)
	if err != nil {
		return nil, fmt.Errorf("query extrema: %w", err)
	}
	defer rows.Close()

	out := []Extremum{}
	for rows.Next() {
		var e Extremum
		if err := rows.Scan(&e.Kind, &e.Bin, &e.Index, &e.Time, &e.Value); err != nil {
			return nil, fmt.Errorf("scan extremum: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extrema: %w", err)
	}
	return out, nil
}
