package event

import (
	"github.com/owe/sim/internal/entity"
	"github.com/owe/sim/internal/exchange"
	"github.com/owe/sim/internal/grid"
)

type EntityPlaced struct {
	ID     grid.EntityID
	Type   entity.EntityType
	Name   string
	Anchor grid.Position
}

type EntityRemoved struct {
	ID     grid.EntityID
	Anchor grid.Position
}

// SweepCompleted is emitted each time the cursor returns to the origin.
type SweepCompleted struct {
	Sweep    int
	Cursor   grid.Position
	Entities int
	Totals   []exchange.Totals
}
