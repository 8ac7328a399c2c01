package entity

// Walker moves along roads and never blocks the cell it stands on.
type Walker struct {
	Props WalkerProperties
	State WalkerState
}

type WalkerProperties struct {
	Name string
	// Patrol is the patrol radius in cells; nil walks point to point.
	Patrol  *int
	MaxLife *int
}

type WalkerState struct {
	// CurrentLife is nil until the walker's clock starts.
	CurrentLife *int
	Commodities map[string]int
}

func (w Walker) Type() EntityType     { return TypeWalker }
func (w Walker) Name() (string, bool) { return w.Props.Name, true }
func (w Walker) Footprint() Size      { return Size{Width: 1, Height: 1} }
func (w Walker) Blocking() bool       { return false }
func (Walker) sealed()                {}

func (w Walker) Clone() Entity {
	w.Props.Patrol = cloneInt(w.Props.Patrol)
	w.Props.MaxLife = cloneInt(w.Props.MaxLife)
	w.State.CurrentLife = cloneInt(w.State.CurrentLife)
	w.State.Commodities = cloneCommodities(w.State.Commodities)
	return w
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int returns a pointer to v, for optional fields.
func Int(v int) *int { return &v }
