package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/metrics"
)

// givePriority offers a player the chance to act. State-based actions are
// checked first; corrections are queued ahead of a repeat of this event.
func (g *Game) givePriority(ctx context.Context, ev GivePriority) error {
	if !ev.Handoff {
		g.lastActor = ev.Player
	}
	player := g.store.Player(ev.Player)
	if player.Lost {
		g.pending.Push(PassPriority{Player: player.ID})
		return nil
	}

	v := g.view()
	if corrections := CheckStateBasedActions(v); len(corrections) > 0 {
		metrics.StateBasedActions(len(corrections))
		g.logger.Debug("state-based actions before priority",
			zap.Stringer("player", player.ID),
			zap.Int("corrections", len(corrections)))
		g.pending.Push(ev)
		g.pushAll(corrections)
		return nil
	}

	req := DecisionRequest{
		Player:   player.ID,
		Choices:  g.priorityChoices(v, player),
		Snapshot: g.Snapshot(),
	}
	for {
		idx, err := g.decide(ctx, req)
		if err != nil {
			if !g.rules.PassOnDecisionFailure {
				return fmt.Errorf("%w: %w", ErrDecisionFailed, err)
			}
			g.logger.Warn("decision failed, passing priority",
				zap.Stringer("player", player.ID),
				zap.Error(err))
			idx = 0
		}

		queued, err := g.accept(v, player.ID, req.Choices, idx)
		if err != nil {
			metrics.ChoiceRejected()
			g.logger.Warn("choice rejected",
				zap.Stringer("player", player.ID),
				zap.Int("choice", idx),
				zap.Error(err))
			req.Rejection = err.Error()
			continue
		}
		for _, e := range queued {
			g.pending.Push(e)
		}
		return nil
	}
}

func (g *Game) decide(ctx context.Context, req DecisionRequest) (int, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveDecision(time.Since(start))
	}()
	return g.provider.Decide(ctx, req)
}

// priorityChoices lists pass, then activated abilities of the player's
// permanents, then the ways to play each card in hand whose timing allows it.
func (g *Game) priorityChoices(v *View, player *Player) []Choice {
	choices := []Choice{{Action: PassAction{}, Description: "Pass priority"}}

	for _, id := range v.Permanents() {
		perm := v.Observe(id)
		if perm.Controller != player.ID {
			continue
		}
		for _, abID := range v.PermanentAbilities(id) {
			ab := g.store.Ability(abID)
			if ab.Class != ClassActivated {
				continue
			}
			choices = append(choices, Choice{
				Action:      ActivateAction{Ability: AssignedAbility{Holder: Holder{Permanent: id}, Ability: abID}},
				Description: fmt.Sprintf("%s: %s", perm.Name, ab.Description),
			})
		}
	}

	sorcerySpeed := v.ActivePlayer() == player.ID && v.Step().IsMain() && v.StackEmpty()
	for _, cardID := range v.Hand(player.ID) {
		card := g.store.Card(cardID)
		for _, abID := range v.CardAbilities(cardID) {
			ab := g.store.Ability(abID)
			if ab.Class != ClassActivated || !ab.FromHand {
				continue
			}
			choices = append(choices, Choice{
				Action:      ActivateAction{Ability: AssignedAbility{Holder: Holder{Card: cardID}, Ability: abID}},
				Description: fmt.Sprintf("%s: %s", card.Name(), ab.Description),
			})
		}
		for _, cid := range g.order.Castables(cardID) {
			c := g.store.Castable(cid)
			if c.Speed == SpeedSorcery && !sorcerySpeed {
				continue
			}
			if card.Template.Types.Has(TypeLand) && player.LandsPlayed > 0 {
				continue
			}
			choices = append(choices, Choice{
				Action:      CastAction{Card: cardID, Castable: cid},
				Description: fmt.Sprintf("%s %s", c.Description, c.Spawner.Cost(card.clone(), v)),
			})
		}
	}
	return choices
}

// accept validates a choice and returns the events to push, in push order:
// a fresh GivePriority, the action, then its payment.
func (g *Game) accept(v *View, player PlayerID, choices []Choice, idx int) ([]Event, error) {
	if idx < 0 || idx >= len(choices) {
		return nil, fmt.Errorf("%w: choice %d of %d", ErrInvalidChoice, idx, len(choices))
	}

	switch a := choices[idx].Action.(type) {
	case PassAction:
		return []Event{PassPriority{Player: player}}, nil

	case ActivateAction:
		ab := g.store.Ability(a.Ability.Ability)
		if ab.Class != ClassActivated {
			return nil, fmt.Errorf("%w: %s ability cannot be activated", ErrInvalidChoice, ab.Class)
		}
		if _, ok := ab.Effect.(OneShot); !ok {
			invariantf("activated ability %s has no one-shot effect", a.Ability)
		}
		payment, err := g.TryPay(player, a.Ability.Holder.Permanent, ab.Cost)
		if err != nil {
			return nil, err
		}
		return append([]Event{
			GivePriority{Player: player},
			ActivateAbility{Player: player, Ability: a.Ability},
		}, payment...), nil

	case CastAction:
		card := g.store.Card(a.Card)
		castable := g.store.Castable(a.Castable)
		cost := castable.Spawner.Cost(card.clone(), v)
		payment, err := g.TryPay(player, 0, Cost{Mana: cost})
		if err != nil {
			return nil, err
		}
		return append([]Event{
			GivePriority{Player: player},
			CastSpell{Player: player, Card: a.Card, Castable: a.Castable},
		}, payment...), nil
	}

	invariantf("unknown action %T", choices[idx].Action)
	return nil, nil
}

// passPriority hands priority to the next player, or tries to resolve the
// stack once everyone passed in succession.
func (g *Game) passPriority(ev PassPriority) {
	next := g.nextPlayer(ev.Player)
	if next == g.lastActor || g.lastActor.IsZero() || g.store.Player(g.lastActor).Lost {
		g.pending.Push(TryResolveStackObject{})
		return
	}
	g.pending.Push(GivePriority{Player: next, Handoff: true})
}

// tryResolve resolves the top of the stack and returns priority to the
// active player. An empty stack does nothing, letting the step end.
func (g *Game) tryResolve(v *View) {
	obj, err := g.stack.Pop()
	if err != nil {
		return
	}
	g.logger.Debug("resolving stack object",
		zap.String("object", obj.Description),
		zap.Stringer("controller", obj.Controller))

	g.pending.Push(GivePriority{Player: g.turn.ActivePlayer()})
	switch obj.Kind {
	case ObjectPermanent:
		g.pending.Push(RegisterPermanent{Card: obj.Card, Controller: obj.Controller, Template: obj.Template})
	case ObjectEffect:
		src := AssignedAbility{Holder: Holder{Card: obj.Card}}
		events := obj.Effect.Activate(src, v)
		g.store.MoveCard(obj.Card, ZoneGraveyard)
		g.pushAll(events)
	default:
		invariantf("object %q of kind %d cannot be on the stack", obj.Description, obj.Kind)
	}
}

// nextPlayer returns the next player in seat order who has not lost.
func (g *Game) nextPlayer(after PlayerID) PlayerID {
	players := g.store.Players()
	start := -1
	for i, p := range players {
		if p.ID == after {
			start = i
			break
		}
	}
	if start < 0 {
		invariantf("unknown player %s", after)
	}
	for i := 1; i <= len(players); i++ {
		p := players[(start+i)%len(players)]
		if !p.Lost {
			return p.ID
		}
	}
	return after
}
