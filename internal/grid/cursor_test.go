package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owe/sim/internal/entity"
)

func TestCursorTraversalOrder(t *testing.T) {
	cases := []struct {
		dir  Direction
		want []Position
	}{
		{Down, []Position{
			{X: 0, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2},
			{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 0, Y: 0},
		}},
		{Up, []Position{
			{X: 2, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: 2}, {X: 1, Y: 1},
			{X: 1, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: 1}, {X: 0, Y: 0},
		}},
		{Right, []Position{
			{X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1},
			{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 0, Y: 0},
		}},
		{Left, []Position{
			{X: 2, Y: 2}, {X: 1, Y: 2}, {X: 0, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1},
			{X: 0, Y: 1}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.dir.String(), func(t *testing.T) {
			g := New(3, 3, nil)
			c := NewCursor(1, tc.dir, Position{}, nil)
			for i, want := range tc.want {
				require.NoError(t, c.ProcessAndAdvance(g, nil))
				assert.Equal(t, want, c.Position(), "step %d", i)
			}
			assert.Equal(t, 1, c.Sweeps())
		})
	}
}

func TestCursorOutOfBounds(t *testing.T) {
	g := New(3, 3, nil)
	c := NewCursor(0, Down, Position{X: 3, Y: 0}, nil)
	assert.ErrorIs(t, c.ProcessAndAdvance(g, nil), ErrCellUnavailable)
	assert.Equal(t, Position{X: 3, Y: 0}, c.Position())
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{Up, Down, Left, Right} {
		got, err := ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func walkerLife(t *testing.T, g *Grid, p Position, id EntityID) *int {
	t.Helper()
	e, ok := g.Entity(p, id)
	require.True(t, ok)
	return e.(entity.Walker).State.CurrentLife
}

func TestCursorGlobalEffectsOncePerSweep(t *testing.T) {
	g := New(3, 2, nil)
	w := walker("w")
	w.Props.MaxLife = entity.Int(10)
	p := Position{X: 2, Y: 1}
	id, _, err := g.AddEntity(p, w)
	require.NoError(t, err)
	require.NoError(t, g.AddGlobalEffect(entity.AgeWalker{Amount: 1}))

	c := NewCursor(0, Right, Position{}, nil)
	for i := 0; i < 5; i++ {
		require.NoError(t, c.ProcessAndAdvance(g, nil))
	}
	assert.Nil(t, walkerLife(t, g, p, id))
	assert.Equal(t, 0, c.Sweeps())

	// Sixth step wraps to the origin and starts the clock.
	require.NoError(t, c.ProcessAndAdvance(g, nil))
	assert.Equal(t, 1, c.Sweeps())
	require.NotNil(t, walkerLife(t, g, p, id))
	assert.Equal(t, 10, *walkerLife(t, g, p, id))

	for i := 0; i < 6*3; i++ {
		require.NoError(t, c.ProcessAndAdvance(g, nil))
	}
	assert.Equal(t, 4, c.Sweeps())
	assert.Equal(t, 7, *walkerLife(t, g, p, id))
}

func TestCursorSweepFromOffsetStart(t *testing.T) {
	start := Position{X: 2, Y: 1}
	for _, dir := range []Direction{Up, Down, Left, Right} {
		t.Run(dir.String(), func(t *testing.T) {
			g := New(4, 3, nil)
			hut := Position{X: 3, Y: 2}
			id, _, err := g.AddEntity(hut, structure("hut", 1, 1))
			require.NoError(t, err)
			require.NoError(t, g.AddGlobalEffect(entity.AccrueRisk{Fire: 1}))

			c := NewCursor(1, dir, start, nil)
			for i := 0; i < 4*3; i++ {
				require.NoError(t, c.ProcessAndAdvance(g, nil))
			}
			assert.Equal(t, start, c.Position())
			assert.Equal(t, 1, c.Sweeps())

			e, ok := g.Entity(hut, id)
			require.True(t, ok)
			assert.Equal(t, 1, e.(entity.Structure).State.Risk.Fire)
		})
	}
}

func TestCursorAppliesCellEffectsInRange(t *testing.T) {
	g := New(4, 4, nil)
	res := func(name string) entity.Resource {
		return entity.Resource{
			Props: entity.ResourceProperties{Name: name, MaxAmount: 10},
			State: entity.ResourceState{CurrentAmount: 10},
		}
	}
	near, _, err := g.AddEntity(Position{X: 1, Y: 1}, res("near"))
	require.NoError(t, err)
	far, _, err := g.AddEntity(Position{X: 2, Y: 2}, res("far"))
	require.NoError(t, err)
	_, err = g.AddCellEffect(Position{}, entity.DepleteResource{Amount: 3})
	require.NoError(t, err)

	c := NewCursor(1, Down, Position{}, nil)
	require.NoError(t, c.ProcessAndAdvance(g, nil))

	e, _ := g.Entity(Position{X: 1, Y: 1}, near)
	assert.Equal(t, 7, e.(entity.Resource).State.CurrentAmount)
	e, _ = g.Entity(Position{X: 2, Y: 2}, far)
	assert.Equal(t, 10, e.(entity.Resource).State.CurrentAmount)
}

func TestCursorAppliesEffectOncePerEntity(t *testing.T) {
	g := New(3, 3, nil)
	id, _, err := g.AddEntity(Position{}, structure("s", 2, 2))
	require.NoError(t, err)
	_, err = g.AddCellEffect(Position{X: 1, Y: 1}, entity.AccrueRisk{Damage: 1, Fire: 2})
	require.NoError(t, err)
	_, err = g.AddCellEffect(Position{X: 1, Y: 1}, entity.AccrueRisk{Damage: 10})
	require.NoError(t, err)

	c := NewCursor(1, Right, Position{X: 1, Y: 1}, nil)
	require.NoError(t, c.ProcessAndAdvance(g, nil))

	e, _ := g.Entity(Position{X: 1, Y: 0}, id)
	assert.Equal(t, entity.Risk{Damage: 11, Fire: 2}, e.(entity.Structure).State.Risk)
}

type recordingExchange struct {
	produced map[string]int
	grant    bool
	calls    []string
}

func (r *recordingExchange) ProducersOf(string) []ProducerRef { return nil }
func (r *recordingExchange) AmountRequiredOf(string) int      { return 0 }
func (r *recordingExchange) AmountAvailableOf(c string) int   { return r.produced[c] }
func (r *recordingExchange) AmountUsedOf(string) int          { return 0 }

func (r *recordingExchange) Produce(_ ProducerRef, commodity string, amount int) {
	r.calls = append(r.calls, "produce "+commodity)
	r.produced[commodity] = amount
}

func (r *recordingExchange) Require(_ ProducerRef, commodity string, amount int) int {
	r.calls = append(r.calls, "require "+commodity)
	if !r.grant {
		return 0
	}
	return amount
}

func TestCursorReportsProduction(t *testing.T) {
	g := New(3, 1, nil)
	s := structure("mill", 2, 1)
	s.Producer = &entity.Producer{
		Commodity:    "flour",
		Rate:         3,
		Requirements: []entity.Requirement{{Commodity: "wheat", Amount: 2}, {Commodity: "water", Amount: 1}},
	}
	id, _, err := g.AddEntity(Position{}, s)
	require.NoError(t, err)

	ex := &recordingExchange{produced: map[string]int{}, grant: true}
	c := NewCursor(0, Right, Position{}, nil)

	require.NoError(t, c.ProcessAndAdvance(g, ex))
	assert.Equal(t, []string{"produce flour", "require wheat", "require water"}, ex.calls)
	assert.Equal(t, 3, ex.AmountAvailableOf("flour"))

	e, _ := g.Entity(Position{}, id)
	assert.Equal(t, map[string]int{"wheat": 2, "water": 1}, e.(entity.Structure).State.Commodities)

	// The second footprint cell is not the anchor.
	require.NoError(t, c.ProcessAndAdvance(g, ex))
	assert.Len(t, ex.calls, 3)
}

func TestCursorWithoutGrantLeavesStock(t *testing.T) {
	g := New(1, 1, nil)
	s := structure("bakery", 1, 1)
	s.Producer = &entity.Producer{Requirements: []entity.Requirement{{Commodity: "flour", Amount: 1}}}
	id, _, err := g.AddEntity(Position{}, s)
	require.NoError(t, err)

	ex := &recordingExchange{produced: map[string]int{}}
	c := NewCursor(0, Down, Position{}, nil)
	require.NoError(t, c.ProcessAndAdvance(g, ex))

	assert.Equal(t, []string{"require flour"}, ex.calls)
	e, _ := g.Entity(Position{}, id)
	assert.Empty(t, e.(entity.Structure).State.Commodities)
	assert.Equal(t, 1, c.Sweeps())
}
