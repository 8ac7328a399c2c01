package system

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/owe/sim/internal/core/event"
	coresys "github.com/owe/sim/internal/core/system"
	"github.com/owe/sim/internal/persist"
)

// JournalSink stores completed sweep records. *persist.SweepRepo is the
// production implementation.
type JournalSink interface {
	InsertBatch(ctx context.Context, recs []persist.SweepRecord) error
}

// maxPending bounds the records held while the sink is failing.
const maxPending = 1024

// JournalSystem queues a record per SweepCompleted event and writes the
// queue out once per tick. Phase 2 (Persist).
type JournalSystem struct {
	sink    JournalSink
	run     uuid.UUID
	base    int // sweeps journaled by earlier processes of this run
	pending []persist.SweepRecord
	log     *zap.Logger
	now     func() time.Time
}

// NewJournalSystem subscribes to bus. A nil sink only logs each sweep.
func NewJournalSystem(bus *event.Bus, sink JournalSink, run uuid.UUID, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{sink: sink, run: run, log: log, now: time.Now}
	event.Subscribe(bus, s.onSweep)
	return s
}

// ResumeAfter numbers this process's sweeps after the last one already
// journaled for the run.
func (s *JournalSystem) ResumeAfter(last int) {
	s.base = last
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) onSweep(ev event.SweepCompleted) {
	if s.sink == nil {
		s.log.Info("sweep completed",
			zap.Int("sweep", ev.Sweep),
			zap.Int("entities", ev.Entities),
			zap.Int("commodities", len(ev.Totals)),
		)
		return
	}
	if len(s.pending) == maxPending {
		s.log.Warn("journal backlog full, dropping oldest", zap.Int("sweep", s.pending[0].Sweep))
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, persist.SweepRecord{
		RunID:      s.run,
		Sweep:      s.base + ev.Sweep,
		CursorX:    ev.Cursor.X,
		CursorY:    ev.Cursor.Y,
		Entities:   ev.Entities,
		Totals:     ev.Totals,
		RecordedAt: s.now(),
	})
}

func (s *JournalSystem) Update(_ time.Duration) {
	s.Flush()
}

// Flush writes every queued record. Failed batches stay queued for the
// next tick. Called for graceful shutdown too.
func (s *JournalSystem) Flush() {
	if s.sink == nil || len(s.pending) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.sink.InsertBatch(ctx, s.pending); err != nil {
		s.log.Error("journal flush failed", zap.Int("pending", len(s.pending)), zap.Error(err))
		return
	}
	s.log.Debug("journal flushed", zap.Int("records", len(s.pending)))
	s.pending = nil
}

// Pending returns the number of records waiting to be written.
func (s *JournalSystem) Pending() int { return len(s.pending) }
