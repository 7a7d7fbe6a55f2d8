package mana

import (
	"errors"
	"fmt"
)

// ErrInsufficientMana is returned when a pool cannot cover a cost.
var ErrInsufficientMana = errors.New("insufficient mana")

// TryPay works out which units of pool would pay for the cost. Colored
// requirements are matched first, then generic mana is taken from whatever
// remains. The pool itself is never modified; the caller turns the returned
// units into payment events.
func (c Cost) TryPay(pool Pool) ([]ManaType, error) {
	testPool := pool.Clone()
	spent := make([]ManaType, 0, c.ManaValue())

	for _, t := range c.Colored {
		if !testPool.Remove(t) {
			return nil, fmt.Errorf("%w: need %s for %s", ErrInsufficientMana, t, c)
		}
		spent = append(spent, t)
	}

	if remaining := testPool.Len(); remaining < c.Generic {
		return nil, fmt.Errorf("%w: generic cost needs %d, have %d", ErrInsufficientMana, c.Generic, remaining)
	}
	for i := 0; i < c.Generic; i++ {
		t, _ := testPool.Pop()
		spent = append(spent, t)
	}
	return spent, nil
}
