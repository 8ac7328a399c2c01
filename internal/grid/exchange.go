package grid

// ProducerRef names a producing or consuming entity for the exchange.
type ProducerRef struct {
	ID     EntityID
	Anchor Position
}

// CommodityExchange is the ledger the cursor reports production to. Its
// arithmetic belongs to the implementation; the cursor only feeds it.
type CommodityExchange interface {
	ProducersOf(commodity string) []ProducerRef
	AmountRequiredOf(commodity string) int
	AmountAvailableOf(commodity string) int
	AmountUsedOf(commodity string) int

	// Produce records the latest output of ref.
	Produce(ref ProducerRef, commodity string, amount int)
	// Require records what ref needs and returns how much it was granted.
	Require(ref ProducerRef, commodity string, amount int) int
}
