package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/owe/sim/internal/exchange"
)

// SweepRecord is one journal row: the state of the books when a sweep closed.
type SweepRecord struct {
	RunID      uuid.UUID
	Sweep      int
	CursorX    int
	CursorY    int
	Entities   int
	Totals     []exchange.Totals
	RecordedAt time.Time
}

type SweepRepo struct {
	db *DB
}

func NewSweepRepo(db *DB) *SweepRepo {
	return &SweepRepo{db: db}
}

// InsertBatch writes records in a single transaction. A sweep already
// journaled for the same run is left as it is.
func (r *SweepRepo) InsertBatch(ctx context.Context, recs []SweepRecord) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		totals, err := json.Marshal(rec.Totals)
		if err != nil {
			return fmt.Errorf("journal totals for sweep %d: %w", rec.Sweep, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO sweep_journal (run_id, sweep, cursor_x, cursor_y, entities, totals, recorded_at)
			 VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
			 ON CONFLICT (run_id, sweep) DO NOTHING`,
			rec.RunID, rec.Sweep, rec.CursorX, rec.CursorY, rec.Entities, string(totals), rec.RecordedAt,
		); err != nil {
			return fmt.Errorf("journal insert sweep %d: %w", rec.Sweep, err)
		}
	}

	return tx.Commit(ctx)
}

// LastSweep returns the highest sweep journaled for run, or 0.
func (r *SweepRepo) LastSweep(ctx context.Context, run uuid.UUID) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(sweep), 0) FROM sweep_journal WHERE run_id = $1`, run,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("last sweep: %w", err)
	}
	return n, nil
}
