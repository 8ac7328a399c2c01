package grid

import "container/heap"

// Path is a walkable route including both endpoints. Every step, straight
// or diagonal, costs 1, so Cost is len(Positions)-1.
type Path struct {
	Positions []Position
	Cost      int
}

func chebyshev(a, b Position) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}

type frontierItem struct {
	pos Position
	g   int
	f   int
	seq int
}

// frontier orders by f, then by deeper g (closer to the goal), then by
// insertion order, which keeps equal-cost routes deterministic.
type frontier []frontierItem

func (q frontier) Len() int { return len(q) }
func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].g != q[j].g {
		return q[i].g > q[j].g
	}
	return q[i].seq < q[j].seq
}
func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *frontier) Push(x any)   { *q = append(*q, x.(frontierItem)) }
func (q *frontier) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}

// PathBetween finds a shortest 8-directional route from one cell to
// another through passable cells. It returns false when either endpoint is
// out of bounds or blocked, or when obstacles disconnect them.
func (g *Grid) PathBetween(from, to Position) (Path, bool) {
	if !g.InBounds(from) || !g.InBounds(to) {
		return Path{}, false
	}
	if g.blocked(g.at(from)) || g.blocked(g.at(to)) {
		return Path{}, false
	}
	if from == to {
		return Path{Positions: []Position{from}}, true
	}

	cost := map[Position]int{from: 0}
	parent := make(map[Position]Position, 64)
	closed := make(map[Position]bool, 64)

	q := &frontier{}
	seq := 0
	heap.Push(q, frontierItem{pos: from, f: chebyshev(from, to), seq: seq})

	for q.Len() > 0 {
		cur := heap.Pop(q).(frontierItem)
		if closed[cur.pos] {
			continue
		}
		if cur.pos == to {
			return Path{Positions: walkBack(parent, from, to), Cost: cur.g}, true
		}
		closed[cur.pos] = true

		for _, n := range g.PassableNeighboursOf(cur.pos) {
			if closed[n] {
				continue
			}
			ng := cur.g + 1
			if old, seen := cost[n]; seen && old <= ng {
				continue
			}
			cost[n] = ng
			parent[n] = cur.pos
			seq++
			heap.Push(q, frontierItem{pos: n, g: ng, f: ng + chebyshev(n, to), seq: seq})
		}
	}
	return Path{}, false
}

func walkBack(parent map[Position]Position, from, to Position) []Position {
	var rev []Position
	for p := to; p != from; p = parent[p] {
		rev = append(rev, p)
	}
	rev = append(rev, from)
	out := make([]Position, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}
