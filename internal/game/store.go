package game

import (
	"math/rand/v2"
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/ids"
)

type zoneKey struct {
	zone   Zone
	player PlayerID
}

// Store owns every entity of a game. All lookups by id either succeed or
// panic with an InvariantViolation.
type Store struct {
	playerIDs    ids.Factory[Player]
	cardIDs      ids.Factory[Card]
	permanentIDs ids.Factory[Permanent]
	abilityIDs   ids.Factory[Ability]
	castableIDs  ids.Factory[Castable]

	players    []*Player
	cards      map[CardID]*Card
	cardZones  map[CardID]zoneKey
	zones      map[zoneKey][]CardID
	permanents map[PermanentID]*Permanent
	abilities  map[AbilityID]*Ability
	castables  map[CastableID]*Castable
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		cards:      make(map[CardID]*Card),
		cardZones:  make(map[CardID]zoneKey),
		zones:      make(map[zoneKey][]CardID),
		permanents: make(map[PermanentID]*Permanent),
		abilities:  make(map[AbilityID]*Ability),
		castables:  make(map[CastableID]*Castable),
	}
}

// AddPlayer seats a new player.
func (s *Store) AddPlayer(name string, life int) *Player {
	p := &Player{ID: s.playerIDs.Next(), Name: name, Life: life}
	s.players = append(s.players, p)
	return p
}

// Player returns the player with the given id.
func (s *Store) Player(id PlayerID) *Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	invariantf("unknown player %s", id)
	return nil
}

// Players returns all players in seat order.
func (s *Store) Players() []*Player {
	return s.players
}

// AddCard creates a card from a template in the given zone of its owner.
func (s *Store) AddCard(owner PlayerID, t *CardTemplate, zone Zone) *Card {
	card := &Card{ID: s.cardIDs.Next(), Owner: owner, Template: t}
	for _, at := range t.Abilities {
		if at.FromHand {
			card.Abilities = append(card.Abilities, s.newAbility(at))
		}
	}
	castables := t.Castables
	if len(castables) == 0 {
		castables = defaultCastables(t)
	}
	for _, ct := range castables {
		c := &Castable{
			ID:          s.castableIDs.Next(),
			Card:        card.ID,
			Description: ct.Description,
			Speed:       ct.Speed,
			Spawner:     ct.Spawner,
		}
		s.castables[c.ID] = c
		card.Castables = append(card.Castables, c.ID)
	}
	s.cards[card.ID] = card
	s.place(card.ID, s.keyFor(card, zone))
	return card
}

// Card returns the card with the given id.
func (s *Store) Card(id CardID) *Card {
	card, ok := s.cards[id]
	if !ok {
		invariantf("unknown card %s", id)
	}
	return card
}

// ZoneOf returns the zone a card is in.
func (s *Store) ZoneOf(id CardID) Zone {
	key, ok := s.cardZones[id]
	if !ok {
		invariantf("card %s is in no zone", id)
	}
	return key.zone
}

// Cards returns the cards in a zone, bottom first. Player is ignored for
// shared zones.
func (s *Store) Cards(zone Zone, player PlayerID) []CardID {
	if !zone.perPlayer() {
		player = 0
	}
	return slices.Clone(s.zones[zoneKey{zone: zone, player: player}])
}

// MoveCard moves a card to the top of a zone. Per-player zones always
// belong to the card's owner.
func (s *Store) MoveCard(id CardID, zone Zone) {
	card := s.Card(id)
	s.unplace(id)
	s.place(id, s.keyFor(card, zone))
}

// Draw moves the top card of a player's deck to their hand. It reports
// false, changing nothing, when the deck is empty.
func (s *Store) Draw(player PlayerID) (CardID, bool) {
	deck := s.zones[zoneKey{zone: ZoneDeck, player: player}]
	if len(deck) == 0 {
		return 0, false
	}
	top := deck[len(deck)-1]
	s.MoveCard(top, ZoneHand)
	return top, true
}

// Shuffle randomizes the order of a player's deck.
func (s *Store) Shuffle(player PlayerID, rng *rand.Rand) {
	deck := s.zones[zoneKey{zone: ZoneDeck, player: player}]
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

func (s *Store) keyFor(card *Card, zone Zone) zoneKey {
	if zone.perPlayer() {
		return zoneKey{zone: zone, player: card.Owner}
	}
	return zoneKey{zone: zone}
}

func (s *Store) place(id CardID, key zoneKey) {
	s.zones[key] = append(s.zones[key], id)
	s.cardZones[id] = key
}

func (s *Store) unplace(id CardID) {
	key, ok := s.cardZones[id]
	if !ok {
		return
	}
	list := s.zones[key]
	if idx := slices.Index(list, id); idx >= 0 {
		s.zones[key] = slices.Delete(list, idx, idx+1)
	}
	delete(s.cardZones, id)
}

func (s *Store) newAbility(t AbilityTemplate) AbilityID {
	ab := &Ability{
		ID:          s.abilityIDs.Next(),
		Class:       t.Class,
		Description: t.Description,
		Cost:        t.Cost,
		FromHand:    t.FromHand,
	}
	if t.Effect != nil {
		ab.Effect = t.Effect.Clone()
	}
	s.abilities[ab.ID] = ab
	return ab.ID
}

// AddPermanent creates a permanent from a template, with fresh ability
// instances. A non-zero card moves to the battlefield zone.
func (s *Store) AddPermanent(card CardID, controller PlayerID, t *CardTemplate) *Permanent {
	owner := controller
	if !card.IsZero() {
		owner = s.Card(card).Owner
		s.MoveCard(card, ZoneBattlefield)
	}
	perm := &Permanent{
		ID:         s.permanentIDs.Next(),
		Card:       card,
		Owner:      owner,
		Controller: controller,
		Name:       t.Name,
		Types:      t.Types.Clone(),
		Power:      t.Power,
		Toughness:  t.Toughness,
	}
	perm.SummoningSick = perm.Types.Has(TypeCreature)
	if t.Loyalty > 0 {
		perm.Counters.Add(counters.CounterTypeLoyalty, t.Loyalty)
	}
	for _, at := range t.Abilities {
		if !at.FromHand {
			perm.Abilities = append(perm.Abilities, s.newAbility(at))
		}
	}
	s.permanents[perm.ID] = perm
	return perm
}

// RemovePermanent takes a permanent off the battlefield and discards its
// ability instances. Its card, if any, goes to the owner's graveyard.
func (s *Store) RemovePermanent(id PermanentID) (Permanent, bool) {
	perm, ok := s.permanents[id]
	if !ok {
		return Permanent{}, false
	}
	for _, ab := range perm.Abilities {
		delete(s.abilities, ab)
	}
	delete(s.permanents, id)
	if !perm.IsToken() {
		s.MoveCard(perm.Card, ZoneGraveyard)
	}
	return *perm, true
}

// Permanent returns the permanent with the given id.
func (s *Store) Permanent(id PermanentID) *Permanent {
	perm, ok := s.permanents[id]
	if !ok {
		invariantf("unknown permanent %s", id)
	}
	return perm
}

// HasPermanent reports whether the permanent is still on the battlefield.
func (s *Store) HasPermanent(id PermanentID) bool {
	_, ok := s.permanents[id]
	return ok
}

// PermanentIDs returns every permanent on the battlefield in id order.
func (s *Store) PermanentIDs() []PermanentID {
	out := make([]PermanentID, 0, len(s.permanents))
	for id := range s.permanents {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Ability returns the ability instance with the given id.
func (s *Store) Ability(id AbilityID) *Ability {
	ab, ok := s.abilities[id]
	if !ok {
		invariantf("unknown ability %s", id)
	}
	return ab
}

// Castable returns the castable with the given id.
func (s *Store) Castable(id CastableID) *Castable {
	c, ok := s.castables[id]
	if !ok {
		invariantf("unknown castable %s", id)
	}
	return c
}
