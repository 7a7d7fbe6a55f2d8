package counters

// CounterType represents a type of counter.
type CounterType string

const (
	CounterTypeLoyalty CounterType = "loyalty"
	CounterTypeLore    CounterType = "lore"
	CounterTypeCharge  CounterType = "charge"
	CounterTypePoison  CounterType = "poison"

	// Power/toughness boost counters
	CounterTypeP1P1 CounterType = "+1/+1"
	CounterTypeM1M1 CounterType = "-1/-1"
)

// boosts maps boost counter types to their power/toughness delta per counter.
var boosts = map[CounterType][2]int{
	CounterTypeP1P1: {1, 1},
	CounterTypeM1M1: {-1, -1},
}

// IsBoost reports whether the counter modifies power and toughness.
func (t CounterType) IsBoost() bool {
	_, ok := boosts[t]
	return ok
}
