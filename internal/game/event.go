package game

import (
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/rules"
)

// Event is a unit of change. Events are the only way game state is mutated;
// abilities may replace or react to them before they are applied.
type Event interface {
	// Name identifies the event kind in logs and metrics.
	Name() string
	isEvent()
}

// RuleReason names the game rule behind an event no ability caused.
type RuleReason int

const (
	RuleNone RuleReason = iota
	RuleLethalDamage
	RuleNoLoyalty
	RuleLegend
	RuleCancelCounters
	RuleNoHealth
	RuleCouldntDraw
	RuleHandSize
)

var ruleNames = map[RuleReason]string{
	RuleNone:           "NONE",
	RuleLethalDamage:   "LETHAL_DAMAGE",
	RuleNoLoyalty:      "NO_LOYALTY",
	RuleLegend:         "LEGEND_RULE",
	RuleCancelCounters: "CANCEL_OUT_COUNTERS",
	RuleNoHealth:       "NO_HEALTH",
	RuleCouldntDraw:    "COULDNT_DRAW",
	RuleHandSize:       "HAND_SIZE",
}

func (r RuleReason) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RULE_%d", int(r))
}

// MarshalText renders the reason by name in JSON snapshots.
func (r RuleReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a name produced by MarshalText.
func (r *RuleReason) UnmarshalText(text []byte) error {
	for reason, name := range ruleNames {
		if name == string(text) {
			*r = reason
			return nil
		}
	}
	return fmt.Errorf("unknown rule reason %q", text)
}

// SourceKind says what caused an event.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourcePlayer
	SourcePermanent
	SourceAbility
	SourceRule
)

// EventSource describes the cause of an event.
type EventSource struct {
	Kind      SourceKind
	Player    PlayerID
	Permanent PermanentID
	Ability   AssignedAbility
	Rule      RuleReason
}

// FromPlayer marks an event as caused by a player's action.
func FromPlayer(p PlayerID) EventSource {
	return EventSource{Kind: SourcePlayer, Player: p}
}

// FromPermanent marks an event as caused by a permanent.
func FromPermanent(id PermanentID) EventSource {
	return EventSource{Kind: SourcePermanent, Permanent: id}
}

// FromAbility marks an event as caused by an ability.
func FromAbility(a AssignedAbility) EventSource {
	return EventSource{Kind: SourceAbility, Ability: a}
}

// FromRule marks an event as caused by a game rule.
func FromRule(r RuleReason) EventSource {
	return EventSource{Kind: SourceRule, Rule: r}
}

// Target is a player or a permanent. Exactly one field is set.
type Target struct {
	Player    PlayerID
	Permanent PermanentID
}

// BeginStep performs the turn-based actions of a step.
type BeginStep struct {
	Step   rules.Step
	Player PlayerID
}

// NextStep advances the turn structure by one step.
type NextStep struct{}

// DrawCard moves the top card of a deck to its owner's hand.
type DrawCard struct {
	Player PlayerID
}

// DiscardCard moves a card from hand to graveyard.
type DiscardCard struct {
	Player PlayerID
	Card   CardID
	Source EventSource
}

// TapPermanent taps a permanent.
type TapPermanent struct {
	Permanent PermanentID
	Source    EventSource
}

// UntapPermanent untaps a permanent.
type UntapPermanent struct {
	Permanent PermanentID
	Source    EventSource
}

// CastSpell plays a card from hand using one of its castables.
type CastSpell struct {
	Player   PlayerID
	Card     CardID
	Castable CastableID
}

// ActivateAbility runs an activated ability whose cost has been paid.
type ActivateAbility struct {
	Player  PlayerID
	Ability AssignedAbility
}

// PayMana removes one unit from a player's pool.
type PayMana struct {
	Player PlayerID
	Mana   mana.ManaType
	Source EventSource
}

// AddMana adds one unit to a player's pool.
type AddMana struct {
	Player PlayerID
	Mana   mana.ManaType
	Source EventSource
}

// RegisterPermanent puts a new permanent onto the battlefield.
type RegisterPermanent struct {
	// Card is zero for tokens.
	Card       CardID
	Controller PlayerID
	Template   *CardTemplate
}

// EnterBattlefield announces a permanent that was just registered.
type EnterBattlefield struct {
	Permanent PermanentID
}

// Destroy moves a permanent to its owner's graveyard.
type Destroy struct {
	Permanent PermanentID
	Source    EventSource
}

// Sacrifice moves a permanent to its owner's graveyard. Unlike Destroy it
// is a choice of the controller or a rule, not damage or an effect.
type Sacrifice struct {
	Permanent PermanentID
	Source    EventSource
}

// AddCounters puts counters on a permanent.
type AddCounters struct {
	Permanent PermanentID
	Counter   counters.CounterType
	Amount    int
	Source    EventSource
}

// RemoveCounters takes counters off a permanent.
type RemoveCounters struct {
	Permanent PermanentID
	Counter   counters.CounterType
	Amount    int
	Source    EventSource
}

// DealDamage deals damage to a player or a permanent.
type DealDamage struct {
	Target Target
	Amount int
	Source EventSource
}

// GivePriority offers a player the chance to act. A Handoff keeps the
// player who last acted, so a full round of passes can be detected.
type GivePriority struct {
	Player  PlayerID
	Handoff bool
}

// PassPriority records that a player declined to act.
type PassPriority struct {
	Player PlayerID
}

// TryResolveStackObject resolves the top of the stack, if any.
type TryResolveStackObject struct{}

// LegendConflict reports legendary permanents of one player sharing a name.
type LegendConflict struct {
	Player     PlayerID
	Permanents []PermanentID
}

// Lose eliminates a player from the game.
type Lose struct {
	Player PlayerID
	Reason RuleReason
}

func (BeginStep) Name() string             { return "BeginStep" }
func (NextStep) Name() string              { return "NextStep" }
func (DrawCard) Name() string              { return "DrawCard" }
func (DiscardCard) Name() string           { return "DiscardCard" }
func (TapPermanent) Name() string          { return "TapPermanent" }
func (UntapPermanent) Name() string        { return "UntapPermanent" }
func (CastSpell) Name() string             { return "CastSpell" }
func (ActivateAbility) Name() string       { return "ActivateAbility" }
func (PayMana) Name() string               { return "PayMana" }
func (AddMana) Name() string               { return "AddMana" }
func (RegisterPermanent) Name() string     { return "RegisterPermanent" }
func (EnterBattlefield) Name() string      { return "EnterBattlefield" }
func (Destroy) Name() string               { return "Destroy" }
func (Sacrifice) Name() string             { return "Sacrifice" }
func (AddCounters) Name() string           { return "AddCounters" }
func (RemoveCounters) Name() string        { return "RemoveCounters" }
func (DealDamage) Name() string            { return "DealDamage" }
func (GivePriority) Name() string          { return "GivePriority" }
func (PassPriority) Name() string          { return "PassPriority" }
func (TryResolveStackObject) Name() string { return "TryResolveStackObject" }
func (LegendConflict) Name() string        { return "LegendConflict" }
func (Lose) Name() string                  { return "Lose" }

func (BeginStep) isEvent()             {}
func (NextStep) isEvent()              {}
func (DrawCard) isEvent()              {}
func (DiscardCard) isEvent()           {}
func (TapPermanent) isEvent()          {}
func (UntapPermanent) isEvent()        {}
func (CastSpell) isEvent()             {}
func (ActivateAbility) isEvent()       {}
func (PayMana) isEvent()               {}
func (AddMana) isEvent()               {}
func (RegisterPermanent) isEvent()     {}
func (EnterBattlefield) isEvent()      {}
func (Destroy) isEvent()               {}
func (Sacrifice) isEvent()             {}
func (AddCounters) isEvent()           {}
func (RemoveCounters) isEvent()        {}
func (DealDamage) isEvent()            {}
func (GivePriority) isEvent()          {}
func (PassPriority) isEvent()          {}
func (TryResolveStackObject) isEvent() {}
func (LegendConflict) isEvent()        {}
func (Lose) isEvent()                  {}
