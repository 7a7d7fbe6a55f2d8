package game

import (
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/counters"
)

// CheckStateBasedActions inspects the game and returns the corrective events
// the rules require. It never changes anything; an empty result means the
// state is consistent and a player may receive priority.
func CheckStateBasedActions(v *View) []Event {
	var events []Event

	type legendKey struct {
		owner PlayerID
		name  string
	}
	legends := make(map[legendKey][]PermanentID)
	var legendOrder []legendKey

	for _, id := range v.Permanents() {
		perm := v.Observe(id)

		if perm.Types.Has(TypeCreature) && perm.Toughness-perm.Damage <= 0 {
			events = append(events, Destroy{Permanent: id, Source: FromRule(RuleLethalDamage)})
		}
		if perm.Types.Has(TypePlaneswalker) && perm.Counters.Get(counters.CounterTypeLoyalty) <= 0 {
			events = append(events, Destroy{Permanent: id, Source: FromRule(RuleNoLoyalty)})
		}
		if perm.Types.HasSuper(SuperLegendary) {
			key := legendKey{owner: perm.Owner, name: perm.Name}
			if _, ok := legends[key]; !ok {
				legendOrder = append(legendOrder, key)
			}
			legends[key] = append(legends[key], id)
		}
		if n := perm.Counters.Opposed(); n > 0 {
			source := FromRule(RuleCancelCounters)
			events = append(events,
				RemoveCounters{Permanent: id, Counter: counters.CounterTypeP1P1, Amount: n, Source: source},
				RemoveCounters{Permanent: id, Counter: counters.CounterTypeM1M1, Amount: n, Source: source},
			)
		}
	}

	for _, key := range legendOrder {
		if group := legends[key]; len(group) >= 2 {
			events = append(events, LegendConflict{Player: key.owner, Permanents: slices.Clone(group)})
		}
	}

	for _, id := range v.Players() {
		p := v.Player(id)
		if !p.Lost && p.Life <= 0 {
			events = append(events, Lose{Player: id, Reason: RuleNoHealth})
		}
	}

	return events
}
