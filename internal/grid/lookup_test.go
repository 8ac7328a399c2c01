package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owe/sim/internal/entity"
)

func TestFindNamedEntities(t *testing.T) {
	g := New(4, 4, nil)
	big, _, err := g.AddEntity(Position{X: 2, Y: 0}, structure("house", 2, 2))
	require.NoError(t, err)
	small, _, err := g.AddEntity(Position{X: 0, Y: 3}, structure("house", 1, 1))
	require.NoError(t, err)
	_, _, err = g.AddEntity(Position{X: 0, Y: 0}, doodad("house"))
	require.NoError(t, err)
	_, _, err = g.AddEntity(Position{X: 1, Y: 1}, structure("House", 1, 1))
	require.NoError(t, err)
	_, _, err = g.AddEntity(Position{X: 3, Y: 3}, entity.Road{})
	require.NoError(t, err)

	matches := g.FindNamedEntities(entity.TypeStructure, "house")
	require.Len(t, matches, 2)
	assert.Equal(t, big, matches[0].ID)
	assert.Equal(t, Position{X: 2, Y: 0}, matches[0].Position)
	assert.Equal(t, small, matches[1].ID)
	assert.Equal(t, Position{X: 0, Y: 3}, matches[1].Position)

	assert.Len(t, g.FindNamedEntities(entity.TypeDoodad, "house"), 1)
	assert.Empty(t, g.FindNamedEntities(entity.TypeWalker, "house"))
	assert.Empty(t, g.FindNamedEntities(entity.TypeDoodad, ""))
}

func TestFindClosestNamedEntity(t *testing.T) {
	g := New(5, 5, nil)
	_, _, err := g.AddEntity(Position{X: 4, Y: 4}, entity.Resource{Props: entity.ResourceProperties{Name: "wood"}})
	require.NoError(t, err)
	_, _, err = g.AddEntity(Position{X: 0, Y: 3}, entity.Resource{Props: entity.ResourceProperties{Name: "wood"}})
	require.NoError(t, err)

	pos, d, ok := g.FindClosestNamedEntity(entity.TypeResource, "wood", Position{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, Position{X: 0, Y: 3}, pos)
	assert.InDelta(t, math.Sqrt(5), d, 1e-9)

	_, _, ok = g.FindClosestNamedEntity(entity.TypeResource, "stone", Position{})
	assert.False(t, ok)
}

func TestFindClosestNamedEntityTieGoesToScanOrder(t *testing.T) {
	g := New(3, 3, nil)
	_, _, err := g.AddEntity(Position{X: 2, Y: 1}, walker("w"))
	require.NoError(t, err)
	_, _, err = g.AddEntity(Position{X: 1, Y: 0}, walker("w"))
	require.NoError(t, err)

	pos, d, ok := g.FindClosestNamedEntity(entity.TypeWalker, "w", Position{X: 1, Y: 1})
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 0}, pos)
	assert.Equal(t, 1.0, d)
}
