package entity

// EntityType is the variant tag used by named lookups.
// Roads carry no name and are never addressable by type.
type EntityType int

const (
	TypeDoodad EntityType = iota
	TypeResource
	TypeStructure
	TypeWalker

	typeRoad
)

func (t EntityType) String() string {
	switch t {
	case TypeDoodad:
		return "doodad"
	case TypeResource:
		return "resource"
	case TypeStructure:
		return "structure"
	case TypeWalker:
		return "walker"
	case typeRoad:
		return "road"
	}
	return "unknown"
}

// Size is a footprint extent in cells.
type Size struct {
	Width  int
	Height int
}

// Entity is the closed set of things that can be placed on a grid:
// Doodad, Resource, Structure, Walker and Road. Values are snapshots;
// state changes go through Apply, which works on a clone.
type Entity interface {
	Type() EntityType
	// Name returns the display name, or false for unnamed variants (Road).
	Name() (string, bool)
	// Footprint is the occupied rectangle, never smaller than 1x1.
	Footprint() Size
	// Blocking reports whether the entity makes its cells impassable.
	Blocking() bool
	// Clone returns a deep copy that is safe to mutate.
	Clone() Entity

	sealed()
}

// Doodad is decoration with no behaviour.
type Doodad struct {
	Props DoodadProperties
}

type DoodadProperties struct {
	Name        string
	IsRemovable bool
}

func (d Doodad) Type() EntityType     { return TypeDoodad }
func (d Doodad) Name() (string, bool) { return d.Props.Name, true }
func (d Doodad) Footprint() Size      { return Size{Width: 1, Height: 1} }
func (d Doodad) Blocking() bool       { return true }
func (d Doodad) Clone() Entity        { return d }
func (Doodad) sealed()                {}

// Road marks a cell as part of the road network.
type Road struct{}

func (Road) Type() EntityType     { return typeRoad }
func (Road) Name() (string, bool) { return "", false }
func (Road) Footprint() Size      { return Size{Width: 1, Height: 1} }
func (Road) Blocking() bool       { return true }
func (r Road) Clone() Entity      { return r }
func (Road) sealed()              {}

// IsRoad reports whether e is a Road.
func IsRoad(e Entity) bool {
	_, ok := e.(Road)
	return ok
}

func cloneCommodities(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clampSize(s Size) Size {
	if s.Width < 1 {
		s.Width = 1
	}
	if s.Height < 1 {
		s.Height = 1
	}
	return s
}
