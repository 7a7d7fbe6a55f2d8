package game

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// AbilityClass determines how the engine uses an ability.
type AbilityClass int

const (
	// ClassStatic abilities modify queries.
	ClassStatic AbilityClass = iota
	// ClassTriggered abilities react to events after the fact.
	ClassTriggered
	// ClassReplacement abilities may consume an event before it happens.
	ClassReplacement
	// ClassActivated abilities are chosen by a player and paid for.
	ClassActivated
)

var classNames = map[AbilityClass]string{
	ClassStatic:      "STATIC",
	ClassTriggered:   "TRIGGERED",
	ClassReplacement: "REPLACEMENT",
	ClassActivated:   "ACTIVATED",
}

func (c AbilityClass) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CLASS_%d", int(c))
}

// Cost is everything that must be paid to activate an ability or cast a spell.
type Cost struct {
	Mana mana.Cost
	Tap  bool
}

func (c Cost) String() string {
	switch {
	case c.Tap && c.Mana.IsZero():
		return "{T}"
	case c.Tap:
		return c.Mana.String() + ", {T}"
	default:
		return c.Mana.String()
	}
}

// Effect is the behaviour attached to an ability. Effects have value
// semantics: Clone must return an independent copy so that every ability
// instance owns its own state.
//
// An effect implements one or more of QueryModifier, EventModifier and
// OneShot according to its ability class.
type Effect interface {
	Clone() Effect
}

// QueryModifier is implemented by static abilities. Implementations must not
// observe permanents through the view, since observation is itself a query.
type QueryModifier interface {
	Query(src AssignedAbility, q Query, v *View)
}

// EventModifier is implemented by triggered and replacement abilities.
type EventModifier interface {
	Listen(src AssignedAbility, ev Event, v *View) Reaction
}

// OneShot is implemented by activated abilities and spell effects. The
// returned events are processed in slice order.
type OneShot interface {
	Activate(src AssignedAbility, v *View) []Event
}

// AbilityTemplate describes an ability printed on a card.
type AbilityTemplate struct {
	Class       AbilityClass
	Description string
	Cost        Cost
	// FromHand abilities function while the card is in its owner's hand
	// instead of on the battlefield.
	FromHand bool
	Effect   Effect
}

// Ability is one instance of an ability bound to a holder.
type Ability struct {
	ID          AbilityID
	Class       AbilityClass
	Description string
	Cost        Cost
	FromHand    bool
	Effect      Effect
}

// Holder names the permanent or card an ability instance belongs to.
// Exactly one field is set.
type Holder struct {
	Permanent PermanentID
	Card      CardID
}

// IsPermanent reports whether the holder is a permanent.
func (h Holder) IsPermanent() bool {
	return !h.Permanent.IsZero()
}

func (h Holder) String() string {
	if h.IsPermanent() {
		return h.Permanent.String()
	}
	return h.Card.String()
}

// AssignedAbility pairs an ability instance with its holder.
type AssignedAbility struct {
	Holder  Holder
	Ability AbilityID
}

func (a AssignedAbility) String() string {
	return a.Holder.String() + "/" + a.Ability.String()
}

// ReactionKind is the outcome an event modifier reports for one event.
type ReactionKind int

const (
	ReactionIgnore ReactionKind = iota
	ReactionTrigger
	ReactionReplace
)

// Reaction is what an EventModifier answers when it listens to an event.
type Reaction struct {
	Kind ReactionKind
	// Event is the possibly rewritten event for ReactionTrigger. Nil keeps
	// the event unchanged.
	Event Event
	// Events are side events to process after the current one.
	Events []Event
}

// Ignore lets the event pass untouched.
func Ignore() Reaction {
	return Reaction{Kind: ReactionIgnore}
}

// Trigger lets the event (or its rewrite) happen and adds side events.
func Trigger(ev Event, side ...Event) Reaction {
	return Reaction{Kind: ReactionTrigger, Event: ev, Events: side}
}

// Replace consumes the event; only the side events happen instead.
func Replace(side ...Event) Reaction {
	return Reaction{Kind: ReactionReplace, Events: side}
}

// Speed is the timing restriction of a castable.
type Speed int

const (
	SpeedSorcery Speed = iota
	SpeedInstant
)

func (s Speed) String() string {
	if s == SpeedInstant {
		return "INSTANT"
	}
	return "SORCERY"
}

// Spawner turns a card into the object that is put on the stack, or
// straight onto the battlefield for lands.
type Spawner interface {
	Spawn(card Card, v *View) Object
	Cost(card Card, v *View) mana.Cost
}

// CastableTemplate describes one way to play a card.
type CastableTemplate struct {
	Description string
	Speed       Speed
	Spawner     Spawner
}

// Castable is one way to play a specific card.
type Castable struct {
	ID          CastableID
	Card        CardID
	Description string
	Speed       Speed
	Spawner     Spawner
}

// ObjectKind describes what happens when an object resolves.
type ObjectKind int

const (
	// ObjectLand is put onto the battlefield without using the stack.
	ObjectLand ObjectKind = iota
	// ObjectPermanent becomes a permanent when it resolves.
	ObjectPermanent
	// ObjectEffect runs a one-shot effect and goes to the graveyard.
	ObjectEffect
)

// Object is a spawned card waiting to resolve.
type Object struct {
	Card        CardID
	Controller  PlayerID
	Description string
	Kind        ObjectKind
	Template    *CardTemplate
	Effect      OneShot
}

// PermanentSpell casts a permanent card; it becomes a permanent on resolution.
type PermanentSpell struct{}

// Spawn implements Spawner.
func (PermanentSpell) Spawn(card Card, _ *View) Object {
	return Object{
		Card:        card.ID,
		Controller:  card.Owner,
		Description: card.Name(),
		Kind:        ObjectPermanent,
		Template:    card.Template,
	}
}

// Cost implements Spawner.
func (PermanentSpell) Cost(card Card, _ *View) mana.Cost {
	return card.Template.Cost
}

// LandDrop plays a land card. It never uses the stack.
type LandDrop struct{}

// Spawn implements Spawner.
func (LandDrop) Spawn(card Card, _ *View) Object {
	return Object{
		Card:        card.ID,
		Controller:  card.Owner,
		Description: card.Name(),
		Kind:        ObjectLand,
		Template:    card.Template,
	}
}

// Cost implements Spawner.
func (LandDrop) Cost(Card, *View) mana.Cost {
	return mana.Cost{}
}

// SpellEffect casts an instant or sorcery whose resolution runs Effect.
type SpellEffect struct {
	Effect OneShot
}

// Spawn implements Spawner.
func (s SpellEffect) Spawn(card Card, _ *View) Object {
	return Object{
		Card:        card.ID,
		Controller:  card.Owner,
		Description: card.Name(),
		Kind:        ObjectEffect,
		Template:    card.Template,
		Effect:      s.Effect,
	}
}

// Cost implements Spawner.
func (s SpellEffect) Cost(card Card, _ *View) mana.Cost {
	return card.Template.Cost
}

// defaultCastables picks the usual way to play a card without explicit
// castables: land drop for lands, permanent spell otherwise.
func defaultCastables(t *CardTemplate) []CastableTemplate {
	switch {
	case t.Types.Has(TypeLand):
		return []CastableTemplate{{Description: "Play " + t.Name, Speed: SpeedSorcery, Spawner: LandDrop{}}}
	case t.Types.IsPermanent():
		return []CastableTemplate{{Description: "Cast " + t.Name, Speed: SpeedSorcery, Spawner: PermanentSpell{}}}
	}
	return nil
}
