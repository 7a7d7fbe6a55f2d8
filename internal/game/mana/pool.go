package mana

import "strings"

// ManaType represents a type of mana.
type ManaType string

const (
	ManaWhite     ManaType = "WHITE"
	ManaBlue      ManaType = "BLUE"
	ManaBlack     ManaType = "BLACK"
	ManaRed       ManaType = "RED"
	ManaGreen     ManaType = "GREEN"
	ManaColorless ManaType = "COLORLESS"
)

// AllTypes lists every mana type in WUBRG order followed by colorless.
var AllTypes = []ManaType{ManaWhite, ManaBlue, ManaBlack, ManaRed, ManaGreen, ManaColorless}

var symbols = map[ManaType]string{
	ManaWhite:     "W",
	ManaBlue:      "U",
	ManaBlack:     "B",
	ManaRed:       "R",
	ManaGreen:     "G",
	ManaColorless: "C",
}

// Symbol returns the single-letter symbol of the mana type (R for red).
func (t ManaType) Symbol() string {
	if s, ok := symbols[t]; ok {
		return s
	}
	return "?"
}

// Pool is a multiset of mana units. The zero value is an empty pool.
//
// A pool is owned by exactly one player and is only mutated while the
// engine applies AddMana and PayMana events.
type Pool struct {
	units []ManaType
}

// NewPool creates a pool holding the given units.
func NewPool(units ...ManaType) Pool {
	return Pool{units: append([]ManaType(nil), units...)}
}

// Add puts one unit of mana into the pool.
func (p *Pool) Add(t ManaType) {
	p.units = append(p.units, t)
}

// Remove takes one unit of the given type out of the pool.
// Returns false if no such unit exists.
func (p *Pool) Remove(t ManaType) bool {
	for i := len(p.units) - 1; i >= 0; i-- {
		if p.units[i] == t {
			p.units = append(p.units[:i], p.units[i+1:]...)
			return true
		}
	}
	return false
}

// Pop removes an arbitrary unit, preferring colorless mana.
func (p *Pool) Pop() (ManaType, bool) {
	if p.Remove(ManaColorless) {
		return ManaColorless, true
	}
	if len(p.units) == 0 {
		return "", false
	}
	last := p.units[len(p.units)-1]
	p.units = p.units[:len(p.units)-1]
	return last, true
}

// Count returns how many units of the given type are in the pool.
func (p Pool) Count(t ManaType) int {
	n := 0
	for _, u := range p.units {
		if u == t {
			n++
		}
	}
	return n
}

// Len returns the total number of units in the pool.
func (p Pool) Len() int {
	return len(p.units)
}

// Units returns a copy of the pool contents in insertion order.
func (p Pool) Units() []ManaType {
	return append([]ManaType(nil), p.units...)
}

// Clone returns an independent copy of the pool.
func (p Pool) Clone() Pool {
	return NewPool(p.units...)
}

func (p Pool) String() string {
	var b strings.Builder
	for _, u := range p.units {
		b.WriteString("{" + u.Symbol() + "}")
	}
	return b.String()
}
