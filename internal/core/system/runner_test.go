package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type probe struct {
	name  string
	phase Phase
	log   *[]string
}

func (p probe) Phase() Phase            { return p.phase }
func (p probe) Update(dt time.Duration) { *p.log = append(*p.log, p.name) }

func TestRunnerOrdersByPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(probe{"persist", PhasePersist, &log})
	r.Register(probe{"sweep", PhaseUpdate, &log})
	r.Register(probe{"dispatch", PhasePreUpdate, &log})
	r.Register(probe{"sweep2", PhaseUpdate, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"dispatch", "sweep", "sweep2", "persist"}, log)

	log = nil
	r.TickPhase(PhasePersist, 0)
	assert.Equal(t, []string{"persist"}, log)
}
