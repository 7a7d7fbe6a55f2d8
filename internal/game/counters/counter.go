package counters

import (
	"fmt"
	"slices"
	"strings"
)

// Counters is the set of counter pools on one permanent. The zero value is
// empty and ready to use.
type Counters struct {
	counts map[CounterType]int
}

// Add puts amount counters of the given type on the object.
func (cs *Counters) Add(t CounterType, amount int) {
	if amount <= 0 {
		return
	}
	if cs.counts == nil {
		cs.counts = make(map[CounterType]int)
	}
	cs.counts[t] += amount
}

// Remove takes up to amount counters of the given type off the object and
// returns how many were actually removed. Counts never go below zero.
func (cs *Counters) Remove(t CounterType, amount int) int {
	if amount <= 0 {
		return 0
	}
	have := cs.counts[t]
	if amount > have {
		amount = have
	}
	if have-amount == 0 {
		delete(cs.counts, t)
	} else {
		cs.counts[t] = have - amount
	}
	return amount
}

// Get returns the number of counters of the given type.
func (cs Counters) Get(t CounterType) int {
	return cs.counts[t]
}

// Total returns the number of counters of every type.
func (cs Counters) Total() int {
	total := 0
	for _, n := range cs.counts {
		total += n
	}
	return total
}

// Types returns the counter types present, sorted by name.
func (cs Counters) Types() []CounterType {
	types := make([]CounterType, 0, len(cs.counts))
	for t := range cs.counts {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Boost returns the combined power/toughness delta of all boost counters.
func (cs Counters) Boost() (power, toughness int) {
	for t, n := range cs.counts {
		if delta, ok := boosts[t]; ok {
			power += delta[0] * n
			toughness += delta[1] * n
		}
	}
	return power, toughness
}

// Opposed returns how many +1/+1 and -1/-1 counters cancel each other out.
func (cs Counters) Opposed() int {
	return min(cs.counts[CounterTypeP1P1], cs.counts[CounterTypeM1M1])
}

// Clone returns an independent copy.
func (cs Counters) Clone() Counters {
	if len(cs.counts) == 0 {
		return Counters{}
	}
	cpy := make(map[CounterType]int, len(cs.counts))
	for t, n := range cs.counts {
		cpy[t] = n
	}
	return Counters{counts: cpy}
}

func (cs Counters) String() string {
	parts := make([]string, 0, len(cs.counts))
	for _, t := range cs.Types() {
		parts = append(parts, fmt.Sprintf("%d %s", cs.counts[t], t))
	}
	return strings.Join(parts, ", ")
}
