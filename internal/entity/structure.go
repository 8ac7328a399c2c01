package entity

// StructureType groups structures by function.
type StructureType int

const (
	Housing StructureType = iota
	Industry
	Commercial
	Entertainment
	Civic
	Storage
)

var structureTypeNames = [...]string{"housing", "industry", "commercial", "entertainment", "civic", "storage"}

func (t StructureType) String() string {
	if t < 0 || int(t) >= len(structureTypeNames) {
		return "unknown"
	}
	return structureTypeNames[t]
}

// ParseStructureType maps a catalog name back to a StructureType.
func ParseStructureType(s string) (StructureType, bool) {
	for i, n := range structureTypeNames {
		if n == s {
			return StructureType(i), true
		}
	}
	return 0, false
}

// Desirability is the six-band desirability profile of a structure.
type Desirability [6]int

// Structure is a building with a footprint larger than one cell.
type Structure struct {
	Props    StructureProperties
	State    StructureState
	Producer *Producer
}

type StructureProperties struct {
	Name          string
	Size          Size
	MaxEmployees  int
	Cost          int
	Desirability  Desirability
	StructureType StructureType
}

type StructureState struct {
	CurrentEmployees int
	Commodities      map[string]int
	Risk             Risk
}

// Risk accumulates toward damage and fire events.
type Risk struct {
	Damage int
	Fire   int
}

func (s Structure) Type() EntityType     { return TypeStructure }
func (s Structure) Name() (string, bool) { return s.Props.Name, true }
func (s Structure) Footprint() Size      { return clampSize(s.Props.Size) }
func (s Structure) Blocking() bool       { return true }
func (Structure) sealed()                {}

func (s Structure) Clone() Entity {
	s.State.Commodities = cloneCommodities(s.State.Commodities)
	s.Producer = s.Producer.clone()
	return s
}
