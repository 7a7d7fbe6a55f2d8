package game

import (
	"slices"
	"strings"

	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/ids"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

type (
	PlayerID    = ids.ID[Player]
	CardID      = ids.ID[Card]
	PermanentID = ids.ID[Permanent]
	AbilityID   = ids.ID[Ability]
	CastableID  = ids.ID[Castable]
)

// CardType is one of the card types printed on a type line.
type CardType string

const (
	TypeLand         CardType = "Land"
	TypeCreature     CardType = "Creature"
	TypeArtifact     CardType = "Artifact"
	TypeEnchantment  CardType = "Enchantment"
	TypePlaneswalker CardType = "Planeswalker"
	TypeInstant      CardType = "Instant"
	TypeSorcery      CardType = "Sorcery"
)

// SuperType is a supertype such as Legendary or Basic.
type SuperType string

const (
	SuperBasic     SuperType = "Basic"
	SuperLegendary SuperType = "Legendary"
	SuperSnow      SuperType = "Snow"
	SuperWorld     SuperType = "World"
	SuperOngoing   SuperType = "Ongoing"
)

// TypeLine holds supertypes, card types and free-form subtypes.
type TypeLine struct {
	Supertypes []SuperType
	Types      []CardType
	Subtypes   []string
}

// Has reports whether the type line includes the card type.
func (tl TypeLine) Has(t CardType) bool {
	return slices.Contains(tl.Types, t)
}

// HasSuper reports whether the type line includes the supertype.
func (tl TypeLine) HasSuper(t SuperType) bool {
	return slices.Contains(tl.Supertypes, t)
}

// HasSubtype reports whether the type line includes the subtype, ignoring case.
func (tl TypeLine) HasSubtype(sub string) bool {
	for _, s := range tl.Subtypes {
		if strings.EqualFold(s, sub) {
			return true
		}
	}
	return false
}

// IsPermanent reports whether a card with this type line stays on the battlefield.
func (tl TypeLine) IsPermanent() bool {
	return !tl.Has(TypeInstant) && !tl.Has(TypeSorcery)
}

// Clone returns a copy that shares no backing arrays.
func (tl TypeLine) Clone() TypeLine {
	return TypeLine{
		Supertypes: slices.Clone(tl.Supertypes),
		Types:      slices.Clone(tl.Types),
		Subtypes:   slices.Clone(tl.Subtypes),
	}
}

func (tl TypeLine) String() string {
	var parts []string
	for _, s := range tl.Supertypes {
		parts = append(parts, string(s))
	}
	for _, t := range tl.Types {
		parts = append(parts, string(t))
	}
	line := strings.Join(parts, " ")
	if len(tl.Subtypes) > 0 {
		line += " - " + strings.Join(tl.Subtypes, " ")
	}
	return line
}

// Zone is a place a card can be.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneGraveyard
	ZoneExile
	ZoneStack
	ZoneBattlefield
)

var zoneNames = map[Zone]string{
	ZoneDeck:        "DECK",
	ZoneHand:        "HAND",
	ZoneGraveyard:   "GRAVEYARD",
	ZoneExile:       "EXILE",
	ZoneStack:       "STACK",
	ZoneBattlefield: "BATTLEFIELD",
}

func (z Zone) String() string {
	return zoneNames[z]
}

// perPlayer reports whether each player has their own copy of the zone.
func (z Zone) perPlayer() bool {
	return z == ZoneDeck || z == ZoneHand || z == ZoneGraveyard
}

// Player is a seat at the table.
type Player struct {
	ID          PlayerID
	Name        string
	Life        int
	Pool        mana.Pool
	LandsPlayed int
	Lost        bool
	LossReason  RuleReason
}

func (p Player) clone() Player {
	p.Pool = p.Pool.Clone()
	return p
}

// CardTemplate is the immutable printed definition of a card.
type CardTemplate struct {
	Name      string
	Cost      mana.Cost
	Types     TypeLine
	Text      string
	Power     int
	Toughness int
	Loyalty   int
	Abilities []AbilityTemplate
	Castables []CastableTemplate
}

// Card is a physical card owned by a player.
type Card struct {
	ID       CardID
	Owner    PlayerID
	Template *CardTemplate
	// Abilities functioning while the card is off the battlefield.
	Abilities []AbilityID
	Castables []CastableID
}

// Name returns the printed name of the card.
func (c Card) Name() string {
	return c.Template.Name
}

func (c Card) clone() Card {
	c.Abilities = slices.Clone(c.Abilities)
	c.Castables = slices.Clone(c.Castables)
	return c
}

// Permanent is an object on the battlefield.
type Permanent struct {
	ID PermanentID
	// Card is zero for tokens.
	Card          CardID
	Owner         PlayerID
	Controller    PlayerID
	Name          string
	Types         TypeLine
	Power         int
	Toughness     int
	Tapped        bool
	SummoningSick bool
	Damage        int
	Counters      counters.Counters
	Abilities     []AbilityID
}

// IsToken reports whether the permanent has no card behind it.
func (p Permanent) IsToken() bool {
	return p.Card.IsZero()
}

// Clone returns a deep copy of the permanent.
func (p Permanent) Clone() Permanent {
	p.Types = p.Types.Clone()
	p.Counters = p.Counters.Clone()
	p.Abilities = slices.Clone(p.Abilities)
	return p
}
