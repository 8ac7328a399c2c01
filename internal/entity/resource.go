package entity

// Resource is a harvestable deposit (trees, ore, water).
type Resource struct {
	Props    ResourceProperties
	State    ResourceState
	Producer *Producer
}

type ResourceProperties struct {
	Name      string
	MaxAmount int
	// ReplenishAmount is added by ReplenishResource; nil never regrows.
	ReplenishAmount *int
}

type ResourceState struct {
	CurrentAmount int
}

func (r Resource) Type() EntityType     { return TypeResource }
func (r Resource) Name() (string, bool) { return r.Props.Name, true }
func (r Resource) Footprint() Size      { return Size{Width: 1, Height: 1} }
func (r Resource) Blocking() bool       { return true }
func (Resource) sealed()                {}

func (r Resource) Clone() Entity {
	if r.Props.ReplenishAmount != nil {
		v := *r.Props.ReplenishAmount
		r.Props.ReplenishAmount = &v
	}
	r.Producer = r.Producer.clone()
	return r
}
