package game

import "fmt"

// TryPay checks whether a player can pay a cost and returns the events that
// pay it. Nothing is changed: the mana pool is matched on a copy, and the
// returned PayMana and TapPermanent events do the paying once processed.
// Source is the permanent to tap for a tap cost and may be zero otherwise.
func (g *Game) TryPay(player PlayerID, source PermanentID, cost Cost) ([]Event, error) {
	p := g.store.Player(player)
	units, err := cost.Mana.TryPay(p.Pool)
	if err != nil {
		return nil, err
	}

	if cost.Tap {
		if source.IsZero() {
			return nil, fmt.Errorf("%w: tap cost without a permanent", ErrInvalidChoice)
		}
		perm := g.view().Observe(source)
		if perm.Tapped {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyTapped, perm.Name)
		}
		if perm.Types.Has(TypeCreature) && perm.SummoningSick {
			return nil, fmt.Errorf("%w: %s", ErrSummoningSick, perm.Name)
		}
	}

	events := make([]Event, 0, len(units)+1)
	for _, u := range units {
		events = append(events, PayMana{Player: player, Mana: u, Source: FromPlayer(player)})
	}
	if cost.Tap {
		events = append(events, TapPermanent{Permanent: source, Source: FromPlayer(player)})
	}
	return events, nil
}
