package grid

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/owe/sim/internal/entity"
)

// Direction is the primary axis and sense of a cursor sweep.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// ParseDirection accepts the lowercase names produced by String.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown cursor direction %q", s)
}

// Cursor walks a grid one cell per call, applying each visited cell's
// effects to its neighbourhood. Reaching (0, 0) again closes a sweep, at
// which point the grid's global effects run once.
type Cursor struct {
	pos       Position
	direction Direction
	rng       int
	sweeps    int
	log       *zap.Logger
}

// NewCursor creates a cursor with the given effect range (Chebyshev
// radius), travel direction and start cell.
func NewCursor(rng int, direction Direction, start Position, log *zap.Logger) *Cursor {
	if rng < 0 {
		rng = 0
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cursor{pos: start, direction: direction, rng: rng, log: log}
}

func (c *Cursor) Position() Position   { return c.pos }
func (c *Cursor) Direction() Direction { return c.direction }
func (c *Cursor) Range() int           { return c.rng }

// Sweeps returns how many full sweeps have completed.
func (c *Cursor) Sweeps() int { return c.sweeps }

// next computes the following cell. Vertical directions sweep columns,
// horizontal ones sweep rows; both wrap around the grid edges.
func next(p Position, width, height int, d Direction) Position {
	switch d {
	case Up:
		if p.Y > 0 {
			return Position{X: p.X, Y: p.Y - 1}
		}
		x := p.X - 1
		if x < 0 {
			x = width - 1
		}
		return Position{X: x, Y: height - 1}
	case Down:
		if p.Y+1 < height {
			return Position{X: p.X, Y: p.Y + 1}
		}
		x := p.X + 1
		if x == width {
			x = 0
		}
		return Position{X: x, Y: 0}
	case Left:
		if p.X > 0 {
			return Position{X: p.X - 1, Y: p.Y}
		}
		y := p.Y - 1
		if y < 0 {
			y = height - 1
		}
		return Position{X: width - 1, Y: y}
	case Right:
		if p.X+1 < width {
			return Position{X: p.X + 1, Y: p.Y}
		}
		y := p.Y + 1
		if y == height {
			y = 0
		}
		return Position{X: 0, Y: y}
	}
	panic(fmt.Sprintf("grid: invalid cursor direction %d", d))
}

// ProcessAndAdvance processes the current cell and moves to the next one:
//  1. every effect active on the current cell is applied to every entity
//     within range;
//  2. producers anchored on the current cell report to the exchange;
//  3. if the next cell is (0, 0), global effects are applied to every
//     entity on the grid;
//  4. the cursor moves.
//
// Each effect runs on a copy of the entity, which then replaces the stored
// value. An entity covering several cells in range is affected once.
func (c *Cursor) ProcessAndAdvance(g *Grid, ex CommodityExchange) error {
	if !g.InBounds(c.pos) {
		return fmt.Errorf("cursor at %s: %w", c.pos, ErrCellUnavailable)
	}

	x0, x1 := max(0, c.pos.X-c.rng), min(g.width, c.pos.X+c.rng+1)
	y0, y1 := max(0, c.pos.Y-c.rng), min(g.height, c.pos.Y+c.rng+1)

	for _, eff := range g.CellEffects(c.pos) {
		seen := make(map[EntityID]bool)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				for _, id := range g.Occupants(Position{X: x, Y: y}) {
					if seen[id] {
						continue
					}
					seen[id] = true
					g.replace(id, entity.Apply(g.entities[id].entity, eff))
				}
			}
		}
	}

	if ex != nil {
		c.produce(g, ex)
	}

	nextPos := next(c.pos, g.width, g.height, c.direction)

	if nextPos == (Position{}) {
		for _, eff := range g.GlobalEffects() {
			g.eachAnchor(func(id EntityID, _ Position, pe *placed) {
				g.replace(id, entity.Apply(pe.entity, eff))
			})
		}
		c.sweeps++
		c.log.Debug("sweep completed",
			zap.Int("sweep", c.sweeps),
			zap.Int("entities", len(g.entities)),
			zap.Int("global_effects", len(g.effects)),
		)
	}

	c.pos = nextPos
	return nil
}

// produce reports every producer anchored on the current cell. Granted
// inputs are credited to a structure's commodity stock.
func (c *Cursor) produce(g *Grid, ex CommodityExchange) {
	for _, id := range g.Occupants(c.pos) {
		pe := g.entities[id]
		if pe.anchor != c.pos {
			continue
		}
		p := entity.ProducerOf(pe.entity)
		if p == nil {
			continue
		}
		ref := ProducerRef{ID: id, Anchor: pe.anchor}
		if p.Commodity != "" {
			ex.Produce(ref, p.Commodity, p.Rate)
		}
		for _, req := range p.Requirements {
			granted := ex.Require(ref, req.Commodity, req.Amount)
			if granted <= 0 {
				continue
			}
			g.replace(id, entity.Apply(pe.entity, creditCommodity{commodity: req.Commodity, amount: granted}))
		}
	}
}

// creditCommodity adds a granted input to a structure's stock.
type creditCommodity struct {
	commodity string
	amount    int
}

func (cc creditCommodity) Apply(e entity.Entity) entity.Entity {
	s, ok := e.(entity.Structure)
	if !ok {
		return e
	}
	if s.State.Commodities == nil {
		s.State.Commodities = make(map[string]int)
	}
	s.State.Commodities[cc.commodity] += cc.amount
	return s
}
