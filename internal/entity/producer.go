package entity

// Producer describes what an entity contributes to and draws from the
// commodity exchange each time the cursor processes its anchor cell.
type Producer struct {
	Commodity string
	Rate      int
	// Requirements are drawn in order.
	Requirements []Requirement
}

type Requirement struct {
	Commodity string
	Amount    int
}

func (p *Producer) clone() *Producer {
	if p == nil {
		return nil
	}
	out := *p
	if p.Requirements != nil {
		out.Requirements = append([]Requirement(nil), p.Requirements...)
	}
	return &out
}

// ProducerOf returns the producer attached to e, if any.
func ProducerOf(e Entity) *Producer {
	switch v := e.(type) {
	case Resource:
		return v.Producer
	case Structure:
		return v.Producer
	}
	return nil
}
