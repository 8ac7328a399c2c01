package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/owe/sim/internal/entity"
	"github.com/owe/sim/internal/grid"
	"github.com/owe/sim/internal/scripting"
	"github.com/owe/sim/internal/world"
)

// EffectEntry describes one effect. Type selects the variant; the other
// fields are read as that variant needs them.
type EffectEntry struct {
	Type   string `yaml:"type"` // rename, deplete, replenish, risk, age, lua
	Name   string `yaml:"name"`
	Amount int    `yaml:"amount"`
	Damage int    `yaml:"damage"`
	Fire   int    `yaml:"fire"`
	Fn     string `yaml:"fn"`
}

type Placement struct {
	Template string `yaml:"template"`
	Kind     string `yaml:"kind"`
	X        int    `yaml:"x"`
	Y        int    `yaml:"y"`
}

type CellEffectEntry struct {
	X      int         `yaml:"x"`
	Y      int         `yaml:"y"`
	Effect EffectEntry `yaml:"effect"`
}

// Scenario is the initial layout of a session.
type Scenario struct {
	Placements    []Placement       `yaml:"placements"`
	Roads         [][2]int          `yaml:"roads"`
	CellEffects   []CellEffectEntry `yaml:"cell_effects"`
	GlobalEffects []EffectEntry     `yaml:"global_effects"`
}

// LoadScenario loads scenario.yaml.
func LoadScenario(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &sc, nil
}

// Effect resolves the entry to an entity effect. Lua effects need scripts.
func (e EffectEntry) Effect(scripts *scripting.Engine) (entity.Effect, error) {
	switch e.Type {
	case "rename":
		return entity.RenameDoodad{Name: e.Name}, nil
	case "deplete":
		return entity.DepleteResource{Amount: e.Amount}, nil
	case "replenish":
		return entity.ReplenishResource{}, nil
	case "risk":
		return entity.AccrueRisk{Damage: e.Damage, Fire: e.Fire}, nil
	case "age":
		return entity.AgeWalker{Amount: e.Amount}, nil
	case "lua":
		if scripts == nil {
			return nil, fmt.Errorf("lua effect %q without a script engine", e.Fn)
		}
		return scripts.Effect(e.Fn)
	}
	return nil, fmt.Errorf("unknown effect type %q", e.Type)
}

// Build lays the scenario out on ws and returns the number of entities
// placed. It stops at the first failure.
func Build(ws *world.State, cat *Catalog, sc *Scenario, scripts *scripting.Engine) (int, error) {
	placed := 0
	for i, p := range sc.Placements {
		e, err := cat.New(p.Kind, p.Template)
		if err != nil {
			return placed, fmt.Errorf("placement %d: %w", i, err)
		}
		if _, _, err := ws.Place(grid.Position{X: p.X, Y: p.Y}, e); err != nil {
			return placed, fmt.Errorf("placement %d (%s %q): %w", i, p.Kind, p.Template, err)
		}
		placed++
	}
	for i, r := range sc.Roads {
		if _, _, err := ws.Place(grid.Position{X: r[0], Y: r[1]}, entity.Road{}); err != nil {
			return placed, fmt.Errorf("road %d: %w", i, err)
		}
		placed++
	}
	for i, ce := range sc.CellEffects {
		eff, err := ce.Effect.Effect(scripts)
		if err != nil {
			return placed, fmt.Errorf("cell effect %d: %w", i, err)
		}
		if err := ws.AddCellEffect(grid.Position{X: ce.X, Y: ce.Y}, eff); err != nil {
			return placed, fmt.Errorf("cell effect %d: %w", i, err)
		}
	}
	for i, ge := range sc.GlobalEffects {
		eff, err := ge.Effect(scripts)
		if err != nil {
			return placed, fmt.Errorf("global effect %d: %w", i, err)
		}
		if err := ws.AddGlobalEffect(eff); err != nil {
			return placed, fmt.Errorf("global effect %d: %w", i, err)
		}
	}
	return placed, nil
}
