package grid

import (
	"fmt"

	"github.com/owe/sim/internal/entity"
)

func indexOf(effects []entity.Effect, eff entity.Effect) int {
	for i, e := range effects {
		if e == eff {
			return i
		}
	}
	return -1
}

// AddCellEffect activates eff on the cell at p. Effects are applied by the
// cursor in the order they were added.
func (g *Grid) AddCellEffect(p Position, eff entity.Effect) (CellState, error) {
	if !g.InBounds(p) {
		return AvailableEmpty, fmt.Errorf("add cell effect at %s: %w", p, ErrCellUnavailable)
	}
	c := g.at(p)
	if indexOf(c.effects, eff) >= 0 {
		return g.stateOf(c), fmt.Errorf("add cell effect %v at %s: %w", eff, p, ErrEffectPresent)
	}
	c.effects = append(c.effects, eff)
	return g.stateOf(c), nil
}

func (g *Grid) RemoveCellEffect(p Position, eff entity.Effect) (CellState, error) {
	if !g.InBounds(p) {
		return AvailableEmpty, fmt.Errorf("remove cell effect at %s: %w", p, ErrCellUnavailable)
	}
	c := g.at(p)
	i := indexOf(c.effects, eff)
	if i < 0 {
		return g.stateOf(c), fmt.Errorf("remove cell effect %v at %s: %w", eff, p, ErrEffectMissing)
	}
	c.effects = append(c.effects[:i], c.effects[i+1:]...)
	return g.stateOf(c), nil
}

func (g *Grid) ClearCellEffects(p Position) (CellState, error) {
	if !g.InBounds(p) {
		return AvailableEmpty, fmt.Errorf("clear cell effects at %s: %w", p, ErrCellUnavailable)
	}
	c := g.at(p)
	c.effects = nil
	return g.stateOf(c), nil
}

func (g *Grid) IsEffectInCell(p Position, eff entity.Effect) bool {
	if !g.InBounds(p) {
		return false
	}
	return indexOf(g.at(p).effects, eff) >= 0
}

// CellEffects returns a copy of the effects active on the cell at p.
func (g *Grid) CellEffects(p Position) []entity.Effect {
	if !g.InBounds(p) {
		return nil
	}
	return append([]entity.Effect(nil), g.at(p).effects...)
}

// AddGlobalEffect activates eff for the whole grid; the cursor applies it
// once per full sweep.
func (g *Grid) AddGlobalEffect(eff entity.Effect) error {
	if indexOf(g.effects, eff) >= 0 {
		return fmt.Errorf("add global effect %v: %w", eff, ErrEffectPresent)
	}
	g.effects = append(g.effects, eff)
	return nil
}

func (g *Grid) RemoveGlobalEffect(eff entity.Effect) error {
	i := indexOf(g.effects, eff)
	if i < 0 {
		return fmt.Errorf("remove global effect %v: %w", eff, ErrEffectMissing)
	}
	g.effects = append(g.effects[:i], g.effects[i+1:]...)
	return nil
}

func (g *Grid) ClearGlobalEffects() {
	g.effects = nil
}

func (g *Grid) IsEffectGlobal(eff entity.Effect) bool {
	return indexOf(g.effects, eff) >= 0
}

// GlobalEffects returns a copy of the grid-wide effects.
func (g *Grid) GlobalEffects() []entity.Effect {
	return append([]entity.Effect(nil), g.effects...)
}
