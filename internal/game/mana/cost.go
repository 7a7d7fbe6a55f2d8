package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost is a mana cost: specific units that must be matched exactly plus a
// generic amount payable with any unit.
type Cost struct {
	Colored []ManaType
	Generic int
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string such as "{1}{G}" or "{2}{R}{R}".
// Supported symbols are numbers for generic mana and W, U, B, R, G and C.
func ParseCost(costStr string) (Cost, error) {
	var cost Cost
	costStr = strings.TrimSpace(costStr)
	if costStr == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(costStr, -1)
	if len(matches) == 0 {
		return Cost{}, fmt.Errorf("invalid mana cost %q", costStr)
	}
	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		if num, err := strconv.Atoi(symbol); err == nil {
			if num < 0 {
				return Cost{}, fmt.Errorf("negative generic mana in %q", costStr)
			}
			cost.Generic += num
			continue
		}
		t, ok := typeForSymbol(symbol)
		if !ok {
			return Cost{}, fmt.Errorf("unknown mana symbol: {%s}", symbol)
		}
		cost.Colored = append(cost.Colored, t)
	}
	return cost, nil
}

// MustParseCost is like ParseCost but panics on malformed input. Intended for
// card definitions compiled into the binary.
func MustParseCost(costStr string) Cost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

func typeForSymbol(symbol string) (ManaType, bool) {
	for t, s := range symbols {
		if s == symbol {
			return t, true
		}
	}
	return "", false
}

// ManaValue returns the total number of units the cost requires.
func (c Cost) ManaValue() int {
	return c.Generic + len(c.Colored)
}

// IsZero reports whether the cost requires no mana at all.
func (c Cost) IsZero() bool {
	return c.ManaValue() == 0
}

// String renders the cost in brace notation, generic part first.
func (c Cost) String() string {
	var parts []string
	if c.Generic > 0 {
		parts = append(parts, fmt.Sprintf("{%d}", c.Generic))
	}
	for _, t := range c.Colored {
		parts = append(parts, "{"+t.Symbol()+"}")
	}
	if len(parts) == 0 {
		return "{0}"
	}
	return strings.Join(parts, "")
}
