package game

import (
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/rules"
)

// View is a read-only window onto a game. Abilities and the state-based
// action checker see the game only through a View; observed permanents pass
// through the static abilities of the ordering the view was built with.
type View struct {
	g     *Game
	order *AbilityOrdering
}

// Players returns the ids of all players in seat order.
func (v *View) Players() []PlayerID {
	players := v.g.store.Players()
	out := make([]PlayerID, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

// Player returns a copy of a player's state.
func (v *View) Player(id PlayerID) Player {
	return v.g.store.Player(id).clone()
}

// Life returns a player's life total.
func (v *View) Life(id PlayerID) int {
	return v.g.store.Player(id).Life
}

// Opponents returns every other player still in the game.
func (v *View) Opponents(id PlayerID) []PlayerID {
	var out []PlayerID
	for _, p := range v.g.store.Players() {
		if p.ID != id && !p.Lost {
			out = append(out, p.ID)
		}
	}
	return out
}

// ActivePlayer returns the player whose turn it is.
func (v *View) ActivePlayer() PlayerID {
	return v.g.turn.ActivePlayer()
}

// Step returns the current step.
func (v *View) Step() rules.Step {
	return v.g.turn.CurrentStep()
}

// Turn returns the current turn number.
func (v *View) Turn() int {
	return v.g.turn.TurnNumber()
}

// StackEmpty reports whether no spell is waiting to resolve.
func (v *View) StackEmpty() bool {
	return v.g.stack.IsEmpty()
}

// Permanents returns all permanents on the battlefield in id order.
func (v *View) Permanents() []PermanentID {
	return v.g.store.PermanentIDs()
}

// Permanent returns a copy of a permanent as stored, without static effects.
func (v *View) Permanent(id PermanentID) Permanent {
	return v.g.store.Permanent(id).Clone()
}

// HasPermanent reports whether a permanent is still on the battlefield.
func (v *View) HasPermanent(id PermanentID) bool {
	return v.g.store.HasPermanent(id)
}

// Observe returns a permanent as currently affected by counters and static
// abilities.
func (v *View) Observe(id PermanentID) Permanent {
	base := v.g.store.Permanent(id).Clone()
	power, toughness := base.Counters.Boost()
	base.Power += power
	base.Toughness += toughness

	q := &ObservePermanentQuery{Permanent: base}
	v.query(q)
	return q.Permanent
}

// PermanentAbilities returns the abilities a permanent currently has.
func (v *View) PermanentAbilities(id PermanentID) []AbilityID {
	q := &PermanentAbilitiesQuery{
		Permanent: id,
		Abilities: slices.Clone(v.g.store.Permanent(id).Abilities),
	}
	v.query(q)
	return q.Abilities
}

// CardAbilities returns the abilities a card has while off the battlefield.
func (v *View) CardAbilities(id CardID) []AbilityID {
	q := &CardAbilitiesQuery{
		Card:      id,
		Abilities: slices.Clone(v.g.store.Card(id).Abilities),
	}
	v.query(q)
	return q.Abilities
}

// CardCastables returns the ways a card can currently be played.
func (v *View) CardCastables(id CardID) []CastableID {
	q := &CardCastablesQuery{
		Card:      id,
		Castables: slices.Clone(v.g.store.Card(id).Castables),
	}
	v.query(q)
	return q.Castables
}

// Card returns a copy of a card.
func (v *View) Card(id CardID) Card {
	return v.g.store.Card(id).clone()
}

// ZoneOf returns the zone a card is in.
func (v *View) ZoneOf(id CardID) Zone {
	return v.g.store.ZoneOf(id)
}

// Hand returns the cards in a player's hand.
func (v *View) Hand(player PlayerID) []CardID {
	return v.g.store.Cards(ZoneHand, player)
}

// Graveyard returns the cards in a player's graveyard, bottom first.
func (v *View) Graveyard(player PlayerID) []CardID {
	return v.g.store.Cards(ZoneGraveyard, player)
}

// DeckSize returns the number of cards left in a player's deck.
func (v *View) DeckSize(player PlayerID) int {
	return len(v.g.store.Cards(ZoneDeck, player))
}

// Ability returns a copy of an ability instance.
func (v *View) Ability(id AbilityID) Ability {
	return *v.g.store.Ability(id)
}

// Castable returns a copy of a castable.
func (v *View) Castable(id CastableID) Castable {
	return *v.g.store.Castable(id)
}

// Controller returns the player controlling the holder of an ability.
func (v *View) Controller(src AssignedAbility) PlayerID {
	if src.Holder.IsPermanent() {
		return v.g.store.Permanent(src.Holder.Permanent).Controller
	}
	return v.g.store.Card(src.Holder.Card).Owner
}

func (v *View) query(q Query) {
	if v.order != nil {
		v.order.Query(q, v)
	}
}
