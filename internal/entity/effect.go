package entity

// Effect transforms an entity's mutable state.
//
// Effects are compared with ==, so implementations must be comparable
// (no maps, slices or funcs held by value). Apply receives a private
// clone and returns the replacement; variants an effect does not act on
// are returned unchanged.
type Effect interface {
	Apply(e Entity) Entity
}

// Apply runs eff against a copy of e and returns the result. The input
// is never mutated, so callers can commit the result atomically.
func Apply(e Entity, eff Effect) Entity {
	out := eff.Apply(e.Clone())
	if out == nil {
		return e
	}
	return out
}

// RenameDoodad sets a doodad's name.
type RenameDoodad struct {
	Name string
}

func (r RenameDoodad) Apply(e Entity) Entity {
	if d, ok := e.(Doodad); ok {
		d.Props.Name = r.Name
		return d
	}
	return e
}

// DepleteResource lowers a resource level, stopping at zero.
type DepleteResource struct {
	Amount int
}

func (d DepleteResource) Apply(e Entity) Entity {
	if r, ok := e.(Resource); ok {
		r.State.CurrentAmount -= d.Amount
		if r.State.CurrentAmount < 0 {
			r.State.CurrentAmount = 0
		}
		return r
	}
	return e
}

// ReplenishResource regrows a resource by its replenish amount, up to its maximum.
type ReplenishResource struct{}

func (ReplenishResource) Apply(e Entity) Entity {
	r, ok := e.(Resource)
	if !ok || r.Props.ReplenishAmount == nil {
		return e
	}
	r.State.CurrentAmount += *r.Props.ReplenishAmount
	if r.State.CurrentAmount > r.Props.MaxAmount {
		r.State.CurrentAmount = r.Props.MaxAmount
	}
	return r
}

// AccrueRisk adds damage and fire risk to structures.
type AccrueRisk struct {
	Damage int
	Fire   int
}

func (a AccrueRisk) Apply(e Entity) Entity {
	if s, ok := e.(Structure); ok {
		s.State.Risk.Damage += a.Damage
		s.State.Risk.Fire += a.Fire
		return s
	}
	return e
}

// AgeWalker shortens a walker's remaining life. A walker whose clock has
// not started yet begins at its max life instead.
type AgeWalker struct {
	Amount int
}

func (a AgeWalker) Apply(e Entity) Entity {
	w, ok := e.(Walker)
	if !ok {
		return e
	}
	if w.State.CurrentLife == nil {
		if w.Props.MaxLife != nil {
			w.State.CurrentLife = Int(*w.Props.MaxLife)
		}
		return w
	}
	life := *w.State.CurrentLife - a.Amount
	if life < 0 {
		life = 0
	}
	w.State.CurrentLife = &life
	return w
}
