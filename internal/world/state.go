package world

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/owe/sim/internal/core/event"
	"github.com/owe/sim/internal/entity"
	"github.com/owe/sim/internal/exchange"
	"github.com/owe/sim/internal/grid"
)

// Options sizes a new session.
type Options struct {
	Width       int
	Height      int
	EffectRange int
	Direction   grid.Direction
	Start       grid.Position
}

// State is one running simulation: the grid, its cursor and the commodity
// ledger. Every method takes the same lock, so the grid is only ever
// touched by one goroutine at a time. Events go out on the bus and are
// delivered on the next tick.
type State struct {
	mu     sync.Mutex
	grid   *grid.Grid
	cursor *grid.Cursor
	ledger *exchange.Ledger
	bus    *event.Bus
	log    *zap.Logger
}

func NewState(opts Options, bus *event.Bus, log *zap.Logger) (*State, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if bus == nil {
		bus = event.NewBus()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("world size %dx%d: %w", opts.Width, opts.Height, grid.ErrCellUnavailable)
	}
	g := grid.New(opts.Width, opts.Height, log.Named("grid"))
	if !g.InBounds(opts.Start) {
		return nil, fmt.Errorf("cursor start %s: %w", opts.Start, grid.ErrCellUnavailable)
	}
	return &State{
		grid:   g,
		cursor: grid.NewCursor(opts.EffectRange, opts.Direction, opts.Start, log.Named("cursor")),
		ledger: exchange.NewLedger(log.Named("exchange")),
		bus:    bus,
		log:    log,
	}, nil
}

// Place puts e on the grid with its top-left corner at p. A producer is
// listed with the ledger straight away; its output counts from the first
// time the cursor reaches it.
func (s *State) Place(pos grid.Position, e entity.Entity) (grid.EntityID, grid.CellState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, state, err := s.grid.AddEntity(pos, e)
	if err != nil {
		return id, state, err
	}
	if p := entity.ProducerOf(e); p != nil && p.Commodity != "" {
		s.ledger.Register(grid.ProducerRef{ID: id, Anchor: pos}, p.Commodity)
	}
	name, _ := e.Name()
	event.Emit(s.bus, event.EntityPlaced{ID: id, Type: e.Type(), Name: name, Anchor: pos})
	return id, state, nil
}

// Remove takes entity id off the grid and withdraws it from the ledger.
func (s *State) Remove(p grid.Position, id grid.EntityID) (grid.CellState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	anchor, _ := s.grid.Anchor(id)
	state, err := s.grid.RemoveEntity(p, id)
	if err != nil {
		return state, err
	}
	s.ledger.Unregister(id)
	event.Emit(s.bus, event.EntityRemoved{ID: id, Anchor: anchor})
	return state, nil
}

func (s *State) AddCellEffect(p grid.Position, eff entity.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.grid.AddCellEffect(p, eff)
	return err
}

func (s *State) RemoveCellEffect(p grid.Position, eff entity.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.grid.RemoveCellEffect(p, eff)
	return err
}

func (s *State) AddGlobalEffect(eff entity.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.AddGlobalEffect(eff)
}

func (s *State) RemoveGlobalEffect(eff entity.Effect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.RemoveGlobalEffect(eff)
}

// Advance runs n cursor steps and returns how many sweeps they completed.
// A SweepCompleted event is emitted for each one.
func (s *State) Advance(n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := 0
	for i := 0; i < n; i++ {
		before := s.cursor.Sweeps()
		if err := s.cursor.ProcessAndAdvance(s.grid, s.ledger); err != nil {
			return completed, err
		}
		if s.cursor.Sweeps() == before {
			continue
		}
		completed++
		event.Emit(s.bus, event.SweepCompleted{
			Sweep:    s.cursor.Sweeps(),
			Cursor:   s.cursor.Position(),
			Entities: s.grid.Len(),
			Totals:   s.ledger.Snapshot(),
		})
	}
	return completed, nil
}

// View runs fn with the grid locked. fn must not retain g.
func (s *State) View(fn func(g *grid.Grid)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.grid)
}

func (s *State) PathBetween(from, to grid.Position) (grid.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.PathBetween(from, to)
}

func (s *State) FindFirstAdjacentRoad(p grid.Position, id grid.EntityID) (grid.Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.FindFirstAdjacentRoad(p, id)
}

// Sweeps returns the number of completed sweeps.
func (s *State) Sweeps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Sweeps()
}

func (s *State) CursorPosition() grid.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor.Position()
}

// ProducersOf lists the producers registered for commodity.
func (s *State) ProducersOf(commodity string) []grid.ProducerRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.ProducersOf(commodity)
}

// Totals returns the current ledger figures per commodity.
func (s *State) Totals() []exchange.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

func (s *State) EntityCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid.Len()
}

// Bus returns the event bus the session emits on.
func (s *State) Bus() *event.Bus { return s.bus }
