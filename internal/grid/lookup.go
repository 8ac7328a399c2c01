package grid

import (
	"math"

	"github.com/owe/sim/internal/entity"
)

// NamedEntity is one match of a named lookup.
type NamedEntity struct {
	ID       EntityID
	Position Position // anchor cell
	Entity   entity.Entity
}

// eachAnchor visits every entity once, at its anchor cell, in row-major
// cell order and placement order within a cell.
func (g *Grid) eachAnchor(fn func(id EntityID, pos Position, pe *placed)) {
	for i := range g.cells {
		pos := Position{X: i % g.width, Y: i / g.width}
		for _, id := range g.cells[i].occupants {
			pe := g.entities[id]
			if pe.anchor == pos {
				fn(id, pos, pe)
			}
		}
	}
}

// FindNamedEntities returns every entity of type t whose name is exactly name.
func (g *Grid) FindNamedEntities(t entity.EntityType, name string) []NamedEntity {
	var out []NamedEntity
	g.eachAnchor(func(id EntityID, pos Position, pe *placed) {
		if pe.entity.Type() != t {
			return
		}
		if n, ok := pe.entity.Name(); !ok || n != name {
			return
		}
		out = append(out, NamedEntity{ID: id, Position: pos, Entity: pe.entity.Clone()})
	})
	return out
}

// FindClosestNamedEntity returns the anchor of the matching entity nearest
// to from by Euclidean distance, with that distance. Ties go to the first
// match in scan order.
func (g *Grid) FindClosestNamedEntity(t entity.EntityType, name string, from Position) (Position, float64, bool) {
	var (
		best  Position
		bestD = math.Inf(1)
		found bool
	)
	for _, m := range g.FindNamedEntities(t, name) {
		d := math.Hypot(float64(m.Position.X-from.X), float64(m.Position.Y-from.Y))
		if d < bestD {
			best, bestD, found = m.Position, d, true
		}
	}
	if !found {
		return Position{}, 0, false
	}
	return best, bestD, true
}
