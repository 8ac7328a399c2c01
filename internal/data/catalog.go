package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/owe/sim/internal/entity"
)

// ProducerEntry is the YAML form of entity.Producer.
type ProducerEntry struct {
	Commodity    string             `yaml:"commodity"`
	Rate         int                `yaml:"rate"`
	Requirements []RequirementEntry `yaml:"requirements"`
}

type RequirementEntry struct {
	Commodity string `yaml:"commodity"`
	Amount    int    `yaml:"amount"`
}

type DoodadTemplate struct {
	Name      string `yaml:"name"`
	Removable bool   `yaml:"removable"`
}

type ResourceTemplate struct {
	Name            string         `yaml:"name"`
	MaxAmount       int            `yaml:"max_amount"`
	ReplenishAmount *int           `yaml:"replenish_amount"`
	InitialAmount   *int           `yaml:"initial_amount"` // defaults to max_amount
	Producer        *ProducerEntry `yaml:"producer"`
}

type StructureTemplate struct {
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type"` // housing, industry, commercial, entertainment, civic, storage
	Width        int            `yaml:"width"`
	Height       int            `yaml:"height"`
	MaxEmployees int            `yaml:"max_employees"`
	Cost         int            `yaml:"cost"`
	Desirability [6]int         `yaml:"desirability"`
	Producer     *ProducerEntry `yaml:"producer"`
}

type WalkerTemplate struct {
	Name    string `yaml:"name"`
	Patrol  *int   `yaml:"patrol"`
	MaxLife *int   `yaml:"max_life"`
}

type catalogFile struct {
	Doodads    []DoodadTemplate    `yaml:"doodads"`
	Resources  []ResourceTemplate  `yaml:"resources"`
	Structures []StructureTemplate `yaml:"structures"`
	Walkers    []WalkerTemplate    `yaml:"walkers"`
}

// Catalog holds entity templates indexed by kind and name.
type Catalog struct {
	doodads    map[string]*DoodadTemplate
	resources  map[string]*ResourceTemplate
	structures map[string]*StructureTemplate
	walkers    map[string]*WalkerTemplate
}

// LoadCatalog loads catalog.yaml.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c := &Catalog{
		doodads:    make(map[string]*DoodadTemplate, len(f.Doodads)),
		resources:  make(map[string]*ResourceTemplate, len(f.Resources)),
		structures: make(map[string]*StructureTemplate, len(f.Structures)),
		walkers:    make(map[string]*WalkerTemplate, len(f.Walkers)),
	}
	for i := range f.Doodads {
		c.doodads[f.Doodads[i].Name] = &f.Doodads[i]
	}
	for i := range f.Resources {
		c.resources[f.Resources[i].Name] = &f.Resources[i]
	}
	for i := range f.Structures {
		s := &f.Structures[i]
		if _, ok := entity.ParseStructureType(s.Type); !ok {
			return nil, fmt.Errorf("parse catalog: structure %q has unknown type %q", s.Name, s.Type)
		}
		if s.Width < 1 || s.Height < 1 {
			return nil, fmt.Errorf("parse catalog: structure %q has size %dx%d", s.Name, s.Width, s.Height)
		}
		c.structures[s.Name] = s
	}
	for i := range f.Walkers {
		c.walkers[f.Walkers[i].Name] = &f.Walkers[i]
	}
	return c, nil
}

// Count returns the total number of templates loaded.
func (c *Catalog) Count() int {
	return len(c.doodads) + len(c.resources) + len(c.structures) + len(c.walkers)
}

func (p *ProducerEntry) producer() *entity.Producer {
	if p == nil {
		return nil
	}
	out := &entity.Producer{Commodity: p.Commodity, Rate: p.Rate}
	for _, r := range p.Requirements {
		out.Requirements = append(out.Requirements, entity.Requirement{Commodity: r.Commodity, Amount: r.Amount})
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return entity.Int(*p)
}

// New builds a fresh entity from the template kind/name. Kind is one of
// doodad, resource, structure, walker or road; roads take no name.
func (c *Catalog) New(kind, name string) (entity.Entity, error) {
	switch kind {
	case "road":
		return entity.Road{}, nil
	case "doodad":
		if t, ok := c.doodads[name]; ok {
			return entity.Doodad{Props: entity.DoodadProperties{Name: t.Name, IsRemovable: t.Removable}}, nil
		}
	case "resource":
		if t, ok := c.resources[name]; ok {
			amount := t.MaxAmount
			if t.InitialAmount != nil {
				amount = *t.InitialAmount
			}
			return entity.Resource{
				Props: entity.ResourceProperties{
					Name:            t.Name,
					MaxAmount:       t.MaxAmount,
					ReplenishAmount: copyInt(t.ReplenishAmount),
				},
				State:    entity.ResourceState{CurrentAmount: amount},
				Producer: t.Producer.producer(),
			}, nil
		}
	case "structure":
		if t, ok := c.structures[name]; ok {
			st, _ := entity.ParseStructureType(t.Type)
			return entity.Structure{
				Props: entity.StructureProperties{
					Name:          t.Name,
					Size:          entity.Size{Width: t.Width, Height: t.Height},
					MaxEmployees:  t.MaxEmployees,
					Cost:          t.Cost,
					Desirability:  entity.Desirability(t.Desirability),
					StructureType: st,
				},
				State:    entity.StructureState{Commodities: make(map[string]int)},
				Producer: t.Producer.producer(),
			}, nil
		}
	case "walker":
		if t, ok := c.walkers[name]; ok {
			return entity.Walker{
				Props: entity.WalkerProperties{Name: t.Name, Patrol: copyInt(t.Patrol), MaxLife: copyInt(t.MaxLife)},
				State: entity.WalkerState{Commodities: make(map[string]int)},
			}, nil
		}
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	return nil, fmt.Errorf("no %s template named %q", kind, name)
}
