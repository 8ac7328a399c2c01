package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/owe/sim/internal/core/system"
	"github.com/owe/sim/internal/world"
)

// SweepSystem moves the cursor a fixed number of cells per tick.
// Phase 1 (Update).
type SweepSystem struct {
	world *world.State
	steps int
	log   *zap.Logger
	// failed stops the sweep after a cursor error; retrying would only
	// repeat it every tick.
	failed bool
}

func NewSweepSystem(ws *world.State, cellsPerTick int, log *zap.Logger) *SweepSystem {
	if cellsPerTick < 1 {
		cellsPerTick = 1
	}
	return &SweepSystem{world: ws, steps: cellsPerTick, log: log}
}

func (s *SweepSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SweepSystem) Update(_ time.Duration) {
	if s.failed {
		return
	}
	n, err := s.world.Advance(s.steps)
	if err != nil {
		s.failed = true
		s.log.Error("cursor stopped", zap.Error(err), zap.Stringer("cursor", s.world.CursorPosition()))
		return
	}
	if n > 0 {
		s.log.Debug("sweeps completed", zap.Int("count", n), zap.Int("total", s.world.Sweeps()))
	}
}
