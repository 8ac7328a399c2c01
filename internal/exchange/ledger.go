// Package exchange keeps the commodity books that producers and consumers
// report to while the cursor sweeps the grid.
package exchange

import (
	"sort"

	"go.uber.org/zap"

	"github.com/owe/sim/internal/grid"
)

// Totals is the state of one commodity's books.
type Totals struct {
	Commodity string `json:"commodity"`
	Available int    `json:"available"`
	Required  int    `json:"required"`
	Used      int    `json:"used"`
}

// book tracks one commodity. Every map holds the latest report per entity,
// so repeated sweeps replace figures instead of accumulating them.
type book struct {
	producers []grid.ProducerRef
	output    map[grid.EntityID]int
	required  map[grid.EntityID]int
	granted   map[grid.EntityID]int
}

func newBook() *book {
	return &book{
		output:   make(map[grid.EntityID]int),
		required: make(map[grid.EntityID]int),
		granted:  make(map[grid.EntityID]int),
	}
}

func sum(m map[grid.EntityID]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

// Ledger is an in-memory grid.CommodityExchange.
//
// A requirement is granted in full or not at all: it succeeds when the
// commodity's available amount minus what other consumers currently hold
// covers it. Not safe for concurrent use.
type Ledger struct {
	books map[string]*book
	log   *zap.Logger
}

var _ grid.CommodityExchange = (*Ledger)(nil)

func NewLedger(log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{books: make(map[string]*book), log: log}
}

func (l *Ledger) book(commodity string) *book {
	b, ok := l.books[commodity]
	if !ok {
		b = newBook()
		l.books[commodity] = b
	}
	return b
}

func (b *book) hasProducer(id grid.EntityID) bool {
	for _, p := range b.producers {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ProducersOf returns the producers of commodity in the order they were
// registered or first reported output.
func (l *Ledger) ProducersOf(commodity string) []grid.ProducerRef {
	b, ok := l.books[commodity]
	if !ok {
		return nil
	}
	return append([]grid.ProducerRef(nil), b.producers...)
}

func (l *Ledger) AmountAvailableOf(commodity string) int {
	if b, ok := l.books[commodity]; ok {
		return sum(b.output)
	}
	return 0
}

func (l *Ledger) AmountRequiredOf(commodity string) int {
	if b, ok := l.books[commodity]; ok {
		return sum(b.required)
	}
	return 0
}

func (l *Ledger) AmountUsedOf(commodity string) int {
	if b, ok := l.books[commodity]; ok {
		return sum(b.granted)
	}
	return 0
}

// Register lists ref as a producer of commodity before it has reported
// any output. Registering twice is a no-op.
func (l *Ledger) Register(ref grid.ProducerRef, commodity string) {
	b := l.book(commodity)
	if !b.hasProducer(ref.ID) {
		b.producers = append(b.producers, ref)
	}
}

func (l *Ledger) Produce(ref grid.ProducerRef, commodity string, amount int) {
	if amount < 0 {
		amount = 0
	}
	l.Register(ref, commodity)
	l.book(commodity).output[ref.ID] = amount
}

func (l *Ledger) Require(ref grid.ProducerRef, commodity string, amount int) int {
	if amount < 0 {
		amount = 0
	}
	b := l.book(commodity)
	b.required[ref.ID] = amount
	delete(b.granted, ref.ID)

	if amount == 0 || sum(b.output)-sum(b.granted) < amount {
		l.log.Debug("requirement not met",
			zap.String("commodity", commodity),
			zap.Stringer("consumer", ref.ID),
			zap.Int("amount", amount),
		)
		return 0
	}
	b.granted[ref.ID] = amount
	return amount
}

// Unregister forgets every report made by id, releasing whatever it held.
func (l *Ledger) Unregister(id grid.EntityID) {
	for _, b := range l.books {
		for i, p := range b.producers {
			if p.ID == id {
				b.producers = append(b.producers[:i], b.producers[i+1:]...)
				break
			}
		}
		delete(b.output, id)
		delete(b.required, id)
		delete(b.granted, id)
	}
}

// Snapshot returns the totals of every commodity ever reported, sorted by name.
func (l *Ledger) Snapshot() []Totals {
	out := make([]Totals, 0, len(l.books))
	for name, b := range l.books {
		out = append(out, Totals{
			Commodity: name,
			Available: sum(b.output),
			Required:  sum(b.required),
			Used:      sum(b.granted),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Commodity < out[j].Commodity })
	return out
}
