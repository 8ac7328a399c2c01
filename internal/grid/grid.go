package grid

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/owe/sim/internal/entity"
)

var (
	ErrCellUnavailable = errors.New("cell unavailable")
	ErrEntityMissing   = errors.New("entity missing")
	ErrEffectPresent   = errors.New("effect already present")
	ErrEffectMissing   = errors.New("effect missing")
)

// EntityID identifies a placed entity for its whole lifetime on the grid.
type EntityID = uuid.UUID

// Position is a cell coordinate, 0-indexed from the top-left corner.
type Position struct {
	X int
	Y int
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// CellState is derived from a cell's occupants on every query.
type CellState int

const (
	AvailableEmpty CellState = iota
	AvailableOccupied
	UnavailableOccupied
)

func (s CellState) String() string {
	switch s {
	case AvailableEmpty:
		return "AvailableEmpty"
	case AvailableOccupied:
		return "AvailableOccupied"
	case UnavailableOccupied:
		return "UnavailableOccupied"
	}
	return "CellState(?)"
}

// Passable reports whether walkers and paths may cross a cell in this state.
func (s CellState) Passable() bool { return s != UnavailableOccupied }

// rect is an inclusive footprint rectangle.
type rect struct {
	x0, y0, x1, y1 int
}

// cell holds ids only; the entity data lives in Grid.entities.
type cell struct {
	occupants []EntityID
	effects   []entity.Effect
}

// placed is the single authoritative copy of an entity.
type placed struct {
	anchor    Position
	footprint rect
	entity    entity.Entity
}

// Grid is the world map: a fixed-size, row-major array of cells plus the
// arena of entities placed on it. Not safe for concurrent use; hosts that
// share a Grid across goroutines guard the whole value with one lock.
type Grid struct {
	width    int
	height   int
	cells    []cell
	entities map[EntityID]*placed
	effects  []entity.Effect
	log      *zap.Logger
}

// New creates an empty width x height grid.
func New(width, height int, log *zap.Logger) *Grid {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("grid: negative dimensions %dx%d", width, height))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Grid{
		width:    width,
		height:   height,
		cells:    make([]cell, width*height),
		entities: make(map[EntityID]*placed, 64),
		log:      log,
	}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Len returns the number of entities on the grid.
func (g *Grid) Len() int { return len(g.entities) }

// InBounds reports whether p addresses a cell of this grid.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.width && p.Y < g.height
}

func (g *Grid) at(p Position) *cell {
	return &g.cells[p.Y*g.width+p.X]
}

func (g *Grid) stateOf(c *cell) CellState {
	if len(c.occupants) == 0 {
		return AvailableEmpty
	}
	for _, id := range c.occupants {
		if g.entities[id].entity.Blocking() {
			return UnavailableOccupied
		}
	}
	return AvailableOccupied
}

func (g *Grid) blocked(c *cell) bool {
	return g.stateOf(c) == UnavailableOccupied
}

// CellState returns the derived state of the cell at p.
func (g *Grid) CellState(p Position) (CellState, error) {
	if !g.InBounds(p) {
		return AvailableEmpty, fmt.Errorf("cell state %s: %w", p, ErrCellUnavailable)
	}
	return g.stateOf(g.at(p)), nil
}

// AddEntity places e with its footprint's top-left corner at p and returns
// the new id with the resulting state of the anchor cell. Every footprint
// cell must be in bounds and free of blocking entities.
func (g *Grid) AddEntity(p Position, e entity.Entity) (EntityID, CellState, error) {
	size := e.Footprint()
	fp := rect{x0: p.X, y0: p.Y, x1: p.X + size.Width - 1, y1: p.Y + size.Height - 1}
	if !g.InBounds(p) || !g.InBounds(Position{X: fp.x1, Y: fp.y1}) {
		return uuid.Nil, AvailableEmpty, fmt.Errorf("add entity at %s: %w", p, ErrCellUnavailable)
	}
	for y := fp.y0; y <= fp.y1; y++ {
		for x := fp.x0; x <= fp.x1; x++ {
			if g.blocked(g.at(Position{X: x, Y: y})) {
				return uuid.Nil, AvailableEmpty, fmt.Errorf("add entity at %s: %s occupied: %w", p, Position{X: x, Y: y}, ErrCellUnavailable)
			}
		}
	}

	id := uuid.New()
	g.entities[id] = &placed{anchor: p, footprint: fp, entity: e.Clone()}
	for y := fp.y0; y <= fp.y1; y++ {
		for x := fp.x0; x <= fp.x1; x++ {
			c := g.at(Position{X: x, Y: y})
			c.occupants = append(c.occupants, id)
		}
	}

	g.log.Debug("entity placed",
		zap.Stringer("id", id),
		zap.Stringer("type", e.Type()),
		zap.Stringer("anchor", p),
		zap.Int("width", size.Width),
		zap.Int("height", size.Height),
	)
	return id, g.stateOf(g.at(p)), nil
}

// RemoveEntity removes the entity id, which must occupy the cell at p,
// from every cell of its footprint, and returns the resulting state of p.
func (g *Grid) RemoveEntity(p Position, id EntityID) (CellState, error) {
	if !g.InBounds(p) {
		return AvailableEmpty, fmt.Errorf("remove entity at %s: %w", p, ErrCellUnavailable)
	}
	if !g.at(p).hosts(id) {
		return g.stateOf(g.at(p)), fmt.Errorf("remove entity %s at %s: %w", id, p, ErrEntityMissing)
	}

	pe := g.entities[id]
	for y := pe.footprint.y0; y <= pe.footprint.y1; y++ {
		for x := pe.footprint.x0; x <= pe.footprint.x1; x++ {
			c := g.at(Position{X: x, Y: y})
			if !c.drop(id) {
				panic(fmt.Sprintf("grid: entity %s missing from footprint cell (%d, %d)", id, x, y))
			}
		}
	}
	delete(g.entities, id)

	g.log.Debug("entity removed", zap.Stringer("id", id), zap.Stringer("anchor", pe.anchor))
	return g.stateOf(g.at(p)), nil
}

// Entity returns a snapshot of the entity id if it occupies the cell at p.
func (g *Grid) Entity(p Position, id EntityID) (entity.Entity, bool) {
	if !g.InBounds(p) || !g.at(p).hosts(id) {
		return nil, false
	}
	return g.entities[id].entity.Clone(), true
}

// Anchor returns the anchor position of entity id.
func (g *Grid) Anchor(id EntityID) (Position, bool) {
	pe, ok := g.entities[id]
	if !ok {
		return Position{}, false
	}
	return pe.anchor, true
}

// Occupants returns the ids hosted by the cell at p in placement order.
func (g *Grid) Occupants(p Position) []EntityID {
	if !g.InBounds(p) {
		return nil
	}
	return append([]EntityID(nil), g.at(p).occupants...)
}

// neighbourOffsets is the fixed expansion order: N, W, E, S, NW, NE, SW, SE.
var neighbourOffsets = [8]Position{
	{X: 0, Y: -1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: -1},
	{X: 1, Y: -1},
	{X: -1, Y: 1},
	{X: 1, Y: 1},
}

// PassableNeighboursOf returns the in-bounds cells around p, including
// diagonals, that are AvailableEmpty or AvailableOccupied.
func (g *Grid) PassableNeighboursOf(p Position) []Position {
	out := make([]Position, 0, len(neighbourOffsets))
	for _, d := range neighbourOffsets {
		n := Position{X: p.X + d.X, Y: p.Y + d.Y}
		if !g.InBounds(n) || g.blocked(g.at(n)) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// replace commits a new value for entity id. Callers hold the snapshot
// that the value was derived from.
func (g *Grid) replace(id EntityID, e entity.Entity) {
	pe, ok := g.entities[id]
	if !ok {
		panic(fmt.Sprintf("grid: replace of unknown entity %s", id))
	}
	if e.Footprint() != pe.entity.Footprint() || e.Blocking() != pe.entity.Blocking() {
		panic(fmt.Sprintf("grid: effect changed footprint of entity %s", id))
	}
	pe.entity = e
}

func (c *cell) hosts(id EntityID) bool {
	for _, o := range c.occupants {
		if o == id {
			return true
		}
	}
	return false
}

func (c *cell) drop(id EntityID) bool {
	for i, o := range c.occupants {
		if o == id {
			c.occupants = append(c.occupants[:i], c.occupants[i+1:]...)
			return true
		}
	}
	return false
}
