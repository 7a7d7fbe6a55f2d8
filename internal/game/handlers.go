package game

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/rules"
)

// apply performs the state change of one event. Only provider failures are
// returned as errors; broken invariants panic.
func (g *Game) apply(ctx context.Context, ev Event) error {
	v := g.view()
	switch e := ev.(type) {
	case BeginStep:
		g.beginStep(v, e)
	case NextStep:
		next := g.nextPlayer(g.turn.ActivePlayer())
		step, wrapped := g.turn.AdvanceStep(next)
		if wrapped {
			g.logger.Info("turn started",
				zap.Int("turn", g.turn.TurnNumber()),
				zap.Stringer("player", g.turn.ActivePlayer()))
		}
		g.pending.Push(BeginStep{Step: step, Player: g.turn.ActivePlayer()})
	case DrawCard:
		if _, ok := g.store.Draw(e.Player); !ok {
			g.logger.Info("player cannot draw from an empty deck", zap.Stringer("player", e.Player))
			g.pending.Push(Lose{Player: e.Player, Reason: RuleCouldntDraw})
		}
	case DiscardCard:
		g.requireZone(e.Card, ZoneHand)
		g.store.MoveCard(e.Card, ZoneGraveyard)
	case TapPermanent:
		if perm, ok := g.livePermanent(e.Permanent, "tap"); ok {
			perm.Tapped = true
		}
	case UntapPermanent:
		if perm, ok := g.livePermanent(e.Permanent, "untap"); ok {
			perm.Tapped = false
		}
	case CastSpell:
		g.castSpell(v, e)
	case ActivateAbility:
		g.activate(v, e)
	case PayMana:
		if !g.store.Player(e.Player).Pool.Remove(e.Mana) {
			invariantf("player %s has no %s mana to pay", e.Player, e.Mana)
		}
	case AddMana:
		g.store.Player(e.Player).Pool.Add(e.Mana)
	case RegisterPermanent:
		perm := g.store.AddPermanent(e.Card, e.Controller, e.Template)
		g.logger.Debug("permanent entered the battlefield",
			zap.Stringer("permanent", perm.ID),
			zap.String("name", perm.Name))
		g.pending.Push(EnterBattlefield{Permanent: perm.ID})
	case EnterBattlefield:
	case Destroy:
		g.removePermanent(e.Permanent, "destroyed")
	case Sacrifice:
		g.removePermanent(e.Permanent, "sacrificed")
	case AddCounters:
		if perm, ok := g.livePermanent(e.Permanent, "add counters"); ok {
			perm.Counters.Add(e.Counter, e.Amount)
		}
	case RemoveCounters:
		if perm, ok := g.livePermanent(e.Permanent, "remove counters"); ok {
			perm.Counters.Remove(e.Counter, e.Amount)
		}
	case DealDamage:
		g.dealDamage(e)
	case GivePriority:
		return g.givePriority(ctx, e)
	case PassPriority:
		g.passPriority(e)
	case TryResolveStackObject:
		g.tryResolve(v)
	case LegendConflict:
		return g.resolveLegends(ctx, e)
	case Lose:
		g.lose(e)
	default:
		invariantf("unhandled event %T", ev)
	}
	return nil
}

// beginStep performs the turn-based actions of a step. NextStep is queued
// first so that it runs once everything the step started is done.
func (g *Game) beginStep(v *View, e BeginStep) {
	g.pending.Push(NextStep{})
	active := g.store.Player(e.Player)

	switch e.Step {
	case rules.StepUntap:
		active.LandsPlayed = 0
		for _, id := range v.Permanents() {
			perm := g.store.Permanent(id)
			if perm.Controller != active.ID {
				continue
			}
			perm.SummoningSick = false
			if perm.Tapped {
				g.pending.Push(UntapPermanent{Permanent: id, Source: FromPlayer(active.ID)})
			}
		}
	case rules.StepDraw:
		g.pending.Push(GivePriority{Player: active.ID})
		if g.turn.TurnNumber() > 1 {
			g.pending.Push(DrawCard{Player: active.ID})
		}
	case rules.StepMain1, rules.StepCombat, rules.StepMain2:
		g.pending.Push(GivePriority{Player: active.ID})
	case rules.StepDiscard:
		if g.rules.MaxHandSize <= 0 {
			return
		}
		hand := v.Hand(active.ID)
		for i := len(hand) - 1; i >= g.rules.MaxHandSize; i-- {
			g.pending.Push(DiscardCard{Player: active.ID, Card: hand[i], Source: FromRule(RuleHandSize)})
		}
	case rules.StepCleanup:
		for _, id := range v.Permanents() {
			g.store.Permanent(id).Damage = 0
		}
	}
}

func (g *Game) castSpell(v *View, e CastSpell) {
	g.requireZone(e.Card, ZoneHand)
	card := g.store.Card(e.Card)
	if !slices.Contains(card.Castables, e.Castable) {
		invariantf("castable %s does not belong to card %s", e.Castable, e.Card)
	}
	obj := g.store.Castable(e.Castable).Spawner.Spawn(card.clone(), v)
	obj.Controller = e.Player

	if obj.Kind == ObjectLand {
		g.store.Player(e.Player).LandsPlayed++
		g.pending.Push(RegisterPermanent{Card: obj.Card, Controller: e.Player, Template: obj.Template})
		return
	}
	g.store.MoveCard(e.Card, ZoneStack)
	g.stack.Push(obj)
	g.logger.Debug("spell cast",
		zap.Stringer("player", e.Player),
		zap.String("spell", obj.Description))
}

func (g *Game) activate(v *View, e ActivateAbility) {
	ab := g.store.Ability(e.Ability.Ability)
	if ab.Class != ClassActivated {
		invariantf("ability %s is %s, not activated", e.Ability, ab.Class)
	}
	shot, ok := ab.Effect.(OneShot)
	if !ok {
		invariantf("activated ability %s has no one-shot effect", e.Ability)
	}
	g.pushAll(shot.Activate(e.Ability, v))
}

// livePermanent returns the permanent if it is still on the battlefield. An
// event queued behind the one that removed it does nothing.
func (g *Game) livePermanent(id PermanentID, action string) (*Permanent, bool) {
	if !g.store.HasPermanent(id) {
		g.logger.Debug("permanent already gone", zap.Stringer("permanent", id), zap.String("action", action))
		return nil, false
	}
	return g.store.Permanent(id), true
}

func (g *Game) removePermanent(id PermanentID, how string) {
	perm, ok := g.store.RemovePermanent(id)
	if !ok {
		g.logger.Debug("permanent already gone", zap.Stringer("permanent", id), zap.String("action", how))
		return
	}
	g.logger.Debug("permanent left the battlefield",
		zap.Stringer("permanent", id),
		zap.String("name", perm.Name),
		zap.String("action", how))
}

func (g *Game) dealDamage(e DealDamage) {
	if e.Amount <= 0 {
		return
	}
	if !e.Target.Player.IsZero() {
		g.store.Player(e.Target.Player).Life -= e.Amount
		return
	}
	if !g.store.HasPermanent(e.Target.Permanent) {
		return
	}
	perm := g.store.Permanent(e.Target.Permanent)
	if perm.Types.Has(TypePlaneswalker) {
		perm.Counters.Remove(counters.CounterTypeLoyalty, e.Amount)
	}
	if perm.Types.Has(TypeCreature) {
		perm.Damage += e.Amount
	}
}

// resolveLegends keeps one permanent of a legend conflict and sacrifices
// the others. The provider picks when it can; otherwise the newest stays.
func (g *Game) resolveLegends(ctx context.Context, e LegendConflict) error {
	var present []PermanentID
	for _, id := range e.Permanents {
		if g.store.HasPermanent(id) {
			present = append(present, id)
		}
	}
	if len(present) < 2 {
		return nil
	}

	keep := len(present) - 1
	if chooser, ok := g.provider.(LegendChooser); ok {
		idx, err := chooser.ChooseLegend(ctx, e.Player, slices.Clone(present))
		switch {
		case err != nil:
			g.logger.Warn("legend choice failed, keeping newest", zap.Error(err))
		case idx < 0 || idx >= len(present):
			g.logger.Warn("legend choice out of range, keeping newest", zap.Int("choice", idx))
		default:
			keep = idx
		}
	}

	for i := len(present) - 1; i >= 0; i-- {
		if i != keep {
			g.pending.Push(Sacrifice{Permanent: present[i], Source: FromRule(RuleLegend)})
		}
	}
	return nil
}

func (g *Game) lose(e Lose) {
	player := g.store.Player(e.Player)
	if player.Lost {
		return
	}
	player.Lost = true
	player.LossReason = e.Reason
	g.losses = append(g.losses, Loss{Player: player.ID, Name: player.Name, Reason: e.Reason})
	g.logger.Info("player lost",
		zap.Stringer("player", player.ID),
		zap.String("name", player.Name),
		zap.Stringer("reason", e.Reason))

	var remaining []*Player
	for _, p := range g.store.Players() {
		if !p.Lost {
			remaining = append(remaining, p)
		}
	}
	if len(remaining) > 1 {
		return
	}

	res := &Result{Losses: slices.Clone(g.losses), Turn: g.turn.TurnNumber()}
	if len(remaining) == 1 {
		res.Winner = remaining[0].ID
		res.WinnerName = remaining[0].Name
	}
	g.finish(res)
}

func (g *Game) requireZone(card CardID, zone Zone) {
	if got := g.store.ZoneOf(card); got != zone {
		invariantf("card %s is in %s, expected %s", card, got, zone)
	}
}
