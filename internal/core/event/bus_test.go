package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/owe/sim/internal/grid"
)

func TestBusDeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []int
	Subscribe(b, func(ev SweepCompleted) { got = append(got, ev.Sweep) })

	Emit(b, SweepCompleted{Sweep: 1})
	assert.Equal(t, 1, Pending[SweepCompleted](b))
	b.DispatchAll()
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 0, Pending[SweepCompleted](b))
	b.DispatchAll()
	assert.Equal(t, []int{1}, got)

	// The drained buffer is not delivered twice.
	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []int{1}, got)
}

func TestBusDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var log []string
	Subscribe(b, func(EntityRemoved) { log = append(log, "removed") })
	Subscribe(b, func(EntityPlaced) { log = append(log, "placed") })
	Subscribe(b, func(SweepCompleted) { log = append(log, "sweep") })

	for i := 0; i < 5; i++ {
		log = nil
		Emit(b, EntityPlaced{Anchor: grid.Position{X: i}})
		Emit(b, SweepCompleted{Sweep: i})
		Emit(b, EntityRemoved{})
		Emit(b, EntityPlaced{})
		b.SwapBuffers()
		b.DispatchAll()
		assert.Equal(t, []string{"placed", "placed", "sweep", "removed"}, log)
	}
}
