package grid

import "github.com/owe/sim/internal/entity"

// FindFirstAdjacentRoad returns the first road cell sharing an edge with
// the footprint of entity id, which must occupy the cell at p. The answer
// depends only on the entity, not on which of its cells p names.
//
// Edges are scanned north, west, east, then south, each in increasing
// coordinate order. Corner cells are never inspected.
func (g *Grid) FindFirstAdjacentRoad(p Position, id EntityID) (Position, bool) {
	if !g.InBounds(p) || !g.at(p).hosts(id) {
		return Position{}, false
	}
	fp := g.entities[id].footprint

	if fp.y0-1 >= 0 {
		for x := fp.x0; x <= fp.x1; x++ {
			if q := (Position{X: x, Y: fp.y0 - 1}); g.hasRoad(q) {
				return q, true
			}
		}
	}
	if fp.x0-1 >= 0 {
		for y := fp.y0; y <= fp.y1; y++ {
			if q := (Position{X: fp.x0 - 1, Y: y}); g.hasRoad(q) {
				return q, true
			}
		}
	}
	if fp.x1+1 < g.width {
		for y := fp.y0; y <= fp.y1; y++ {
			if q := (Position{X: fp.x1 + 1, Y: y}); g.hasRoad(q) {
				return q, true
			}
		}
	}
	if fp.y1+1 < g.height {
		for x := fp.x0; x <= fp.x1; x++ {
			if q := (Position{X: x, Y: fp.y1 + 1}); g.hasRoad(q) {
				return q, true
			}
		}
	}
	return Position{}, false
}

func (g *Grid) hasRoad(p Position) bool {
	for _, id := range g.at(p).occupants {
		if entity.IsRoad(g.entities[id].entity) {
			return true
		}
	}
	return false
}
