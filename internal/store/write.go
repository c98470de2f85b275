package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteRun inserts rec in a single transaction and returns the stored run
// with its assigned ID and seq.
func (s *Store) WriteRun(ctx context.Context, rec Record) (Run, error) {
	run := rec.Run
	run.ID = s.ids.Generate()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}
	defer tx.Rollback()

	// Logical clock: seq is allocated under the single writer connection,
	// never from wall-clock time.
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("write run: allocate seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, input_hash, label, params, timestep, coarse_samples, fine_samples,
		 startup_inventory, doubling_time, doubling_index, inflection_time, inflection_index,
		 release_rate, max_load_factor, bred, released, burnt, iterations, converged)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.Seq, run.InputHash, run.Label, run.Params, run.Timestep,
		run.CoarseSamples, run.FineSamples,
		run.StartupInventory, nullableFloat(run.DoublingTime), run.DoublingIndex,
		run.InflectionTime, run.InflectionIndex,
		run.ReleaseRate, run.MaxLoadFactor, run.Bred, run.Released, run.Burnt,
		run.Iterations, run.Converged,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	if err := writeIterations(ctx, tx, run.ID, rec.Iterations); err != nil {
		return Run{}, err
	}
	if err := writeExtrema(ctx, tx, run.ID, rec.Extrema); err != nil {
		return Run{}, err
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}
	return run, nil
}

func writeIterations(ctx context.Context, tx *sql.Tx, runID string, its []Iteration) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO iterations (run_id, n, seed, residual) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("write iterations: %w", err)
	}
	defer stmt.Close()
	for _, it := range its {
		if _, err := stmt.ExecContext(ctx, runID, it.N, it.Seed, nullableFloat(it.Residual)); err != nil {
			return fmt.Errorf("write iteration %d: %w", it.N, err)
		}
	}
	return nil
}

func writeExtrema(ctx context.Context, tx *sql.Tx, runID string, ext []Extremum) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO extrema (run_id, kind, bin, idx, time, value) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("write extrema: %w", err)
	}
	defer stmt.Close()
	for _, e := range ext {
		if _, err := stmt.ExecContext(ctx, runID, e.Kind, e.Bin, e.Index, e.Time, e.Value); err != nil {
			return fmt.Errorf("write extremum %s/%d: %w", e.Kind, e.Bin, err)
		}
	}
	return nil
}
