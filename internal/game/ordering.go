package game

import (
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/metrics"
)

// ListenOutcome classifies what the abilities did with an event.
type ListenOutcome int

const (
	// Ignored means no ability reacted.
	Ignored ListenOutcome = iota
	// Triggered means the event still happens, possibly rewritten, with side events.
	Triggered
	// Replaced means the event was consumed and must not be applied.
	Replaced
)

var outcomeNames = map[ListenOutcome]string{
	Ignored:   "IGNORED",
	Triggered: "TRIGGERED",
	Replaced:  "REPLACED",
}

func (o ListenOutcome) String() string {
	return outcomeNames[o]
}

// ListenResult is the answer of AbilityOrdering.Listen.
type ListenResult struct {
	Outcome ListenOutcome
	// Event to apply; nil when replaced.
	Event Event
	// Events to process after Event, in order.
	Events []Event
}

// AbilityOrdering is the list of abilities in play, split by class, in the
// order they take effect. It is a snapshot: once an ability reacted to an
// event, the ordering is stale and must be rebuilt before further use.
type AbilityOrdering struct {
	statics      []AssignedAbility
	layered      []AssignedAbility
	replacements []AssignedAbility
	triggers     []AssignedAbility
	castables    map[CardID][]CastableID
	fresh        bool
	logger       *zap.Logger
}

// BuildAbilityOrdering collects every ability functioning in the game.
// Abilities are discovered through queries, so statics found along the way
// can grant or remove abilities; the walk restarts after each new static
// until no new one appears or maxPasses is reached.
func BuildAbilityOrdering(g *Game, maxPasses int, logger *zap.Logger) *AbilityOrdering {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &AbilityOrdering{
		castables: make(map[CardID][]CastableID),
		fresh:     true,
		logger:    logger,
	}
	v := &View{g: g, order: o}
	seen := make(map[AssignedAbility]struct{})

	passes := 0
	for {
		passes++
		if maxPasses > 0 && passes > maxPasses {
			logger.Error("ability ordering did not settle",
				zap.Int("passes", maxPasses),
				zap.Int("statics", len(o.statics)))
			break
		}
		if !o.discover(v, seen) {
			break
		}
	}

	for _, p := range g.store.Players() {
		for _, card := range g.store.Cards(ZoneHand, p.ID) {
			o.castables[card] = v.CardCastables(card)
		}
	}
	metrics.OrderingRebuilt(passes)
	return o
}

// discover walks all abilities once. It returns true as soon as a new
// static ability is found, after sorting it into place.
func (o *AbilityOrdering) discover(v *View, seen map[AssignedAbility]struct{}) bool {
	for _, aa := range o.functioning(v) {
		if _, ok := seen[aa]; ok {
			continue
		}
		seen[aa] = struct{}{}

		ab := v.g.store.Ability(aa.Ability)
		switch ab.Class {
		case ClassStatic:
			if _, ok := ab.Effect.(QueryModifier); !ok {
				invariantf("static ability %s has no query modifier", aa)
			}
			o.statics = append(o.statics, aa)
			o.layered = sortByLayer(o.statics, func(a AssignedAbility) Layer {
				return layerOf(v.g.store.Ability(a.Ability).Effect)
			})
			return true
		case ClassReplacement:
			o.replacements = append(o.replacements, aa)
		case ClassTriggered:
			o.triggers = append(o.triggers, aa)
		}
	}
	return false
}

// functioning lists the abilities of permanents on the battlefield and the
// hand-functioning abilities of cards in hand, as modified by the statics
// found so far.
func (o *AbilityOrdering) functioning(v *View) []AssignedAbility {
	var out []AssignedAbility
	for _, perm := range v.g.store.PermanentIDs() {
		for _, ab := range v.PermanentAbilities(perm) {
			out = append(out, AssignedAbility{Holder: Holder{Permanent: perm}, Ability: ab})
		}
	}
	for _, p := range v.g.store.Players() {
		for _, card := range v.g.store.Cards(ZoneHand, p.ID) {
			for _, ab := range v.CardAbilities(card) {
				if v.g.store.Ability(ab).FromHand {
					out = append(out, AssignedAbility{Holder: Holder{Card: card}, Ability: ab})
				}
			}
		}
	}
	return out
}

// Query runs a query through every static ability in layer order.
func (o *AbilityOrdering) Query(q Query, v *View) {
	o.checkFresh("query")
	for _, aa := range o.layered {
		mod := v.g.store.Ability(aa.Ability).Effect.(QueryModifier)
		mod.Query(aa, q, v)
	}
}

// Listen offers an event to every replacement ability, then every triggered
// ability. The first replacement stops processing.
func (o *AbilityOrdering) Listen(ev Event, v *View) ListenResult {
	o.checkFresh("listen")

	var side []Event
	triggered := false
	for _, aa := range slices.Concat(o.replacements, o.triggers) {
		ab := v.g.store.Ability(aa.Ability)
		mod, ok := ab.Effect.(EventModifier)
		if !ok {
			invariantf("%s ability %s has no event modifier", ab.Class, aa)
		}

		r := mod.Listen(aa, ev, v)
		switch r.Kind {
		case ReactionReplace:
			o.fresh = false
			o.logger.Debug("event replaced",
				zap.String("event", ev.Name()),
				zap.Stringer("ability", aa))
			return ListenResult{Outcome: Replaced, Events: r.Events}
		case ReactionTrigger:
			o.fresh = false
			triggered = true
			if r.Event != nil {
				ev = r.Event
			}
			side = append(side, r.Events...)
			o.logger.Debug("ability triggered",
				zap.String("event", ev.Name()),
				zap.Stringer("ability", aa),
				zap.Int("side_events", len(r.Events)))
		}
	}

	if triggered {
		return ListenResult{Outcome: Triggered, Event: ev, Events: side}
	}
	return ListenResult{Outcome: Ignored, Event: ev}
}

// Castables returns the castables of a card in hand found at build time.
func (o *AbilityOrdering) Castables(card CardID) []CastableID {
	return o.castables[card]
}

// Statics returns the static abilities in discovery order.
func (o *AbilityOrdering) Statics() []AssignedAbility {
	return slices.Clone(o.statics)
}

// Replacements returns the replacement abilities in discovery order.
func (o *AbilityOrdering) Replacements() []AssignedAbility {
	return slices.Clone(o.replacements)
}

// Triggers returns the triggered abilities in discovery order.
func (o *AbilityOrdering) Triggers() []AssignedAbility {
	return slices.Clone(o.triggers)
}

// Fresh reports whether no ability has reacted since the ordering was built.
func (o *AbilityOrdering) Fresh() bool {
	return o.fresh
}

func (o *AbilityOrdering) checkFresh(op string) {
	if !o.fresh {
		metrics.StaleOrdering(op)
		o.logger.Warn("using stale ability ordering", zap.String("op", op))
	}
}
