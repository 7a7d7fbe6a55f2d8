package game

import (
	"slices"

	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// Snapshot is a serializable picture of the game for observers and
// decision providers.
type Snapshot struct {
	GameID       string              `json:"game_id"`
	Sequence     uint64              `json:"sequence"`
	Turn         int                 `json:"turn"`
	Phase        string              `json:"phase"`
	Step         string              `json:"step"`
	ActivePlayer PlayerID            `json:"active_player"`
	Players      []PlayerSnapshot    `json:"players"`
	Battlefield  []PermanentSnapshot `json:"battlefield"`
	Stack        []StackSnapshot     `json:"stack"`
	Result       *Result             `json:"result,omitempty"`
}

// PlayerSnapshot describes one player.
type PlayerSnapshot struct {
	ID         PlayerID       `json:"id"`
	Name       string         `json:"name"`
	Life       int            `json:"life"`
	Mana       []string       `json:"mana"`
	DeckSize   int            `json:"deck_size"`
	Hand       []CardSnapshot `json:"hand"`
	Graveyard  []CardSnapshot `json:"graveyard"`
	Lost       bool           `json:"lost"`
	LossReason RuleReason     `json:"loss_reason,omitempty"`
}

// CardSnapshot describes a card off the battlefield.
type CardSnapshot struct {
	ID    CardID `json:"id"`
	Name  string `json:"name"`
	Cost  string `json:"cost"`
	Types string `json:"types"`
	Text  string `json:"text,omitempty"`
}

// PermanentSnapshot describes an observed permanent.
type PermanentSnapshot struct {
	ID            PermanentID       `json:"id"`
	Name          string            `json:"name"`
	Controller    PlayerID          `json:"controller"`
	Types         string            `json:"types"`
	Creature      bool              `json:"creature"`
	Power         int               `json:"power"`
	Toughness     int               `json:"toughness"`
	Tapped        bool              `json:"tapped"`
	SummoningSick bool              `json:"summoning_sick"`
	Damage        int               `json:"damage"`
	Counters      map[string]int    `json:"counters,omitempty"`
	Abilities     []AbilitySnapshot `json:"abilities,omitempty"`
}

// AbilitySnapshot describes an ability of a permanent.
type AbilitySnapshot struct {
	ID          AbilityID `json:"id"`
	Class       string    `json:"class"`
	Description string    `json:"description"`
}

// StackSnapshot describes an object waiting to resolve.
type StackSnapshot struct {
	Card        CardID   `json:"card"`
	Controller  PlayerID `json:"controller"`
	Description string   `json:"description"`
}

// Result is the outcome of a finished game.
type Result struct {
	// Winner is zero when nobody is left standing.
	Winner     PlayerID `json:"winner"`
	WinnerName string   `json:"winner_name,omitempty"`
	Losses     []Loss   `json:"losses"`
	Turn       int      `json:"turn"`
}

// Loss records one eliminated player.
type Loss struct {
	Player PlayerID   `json:"player"`
	Name   string     `json:"name"`
	Reason RuleReason `json:"reason"`
}

// Snapshot captures the current state of the game.
func (g *Game) Snapshot() Snapshot {
	v := g.view()
	s := Snapshot{
		GameID:       g.id.String(),
		Sequence:     g.sequence,
		Turn:         g.turn.TurnNumber(),
		Phase:        g.turn.CurrentPhase().String(),
		Step:         g.turn.CurrentStep().String(),
		ActivePlayer: g.turn.ActivePlayer(),
	}
	if g.result != nil {
		res := *g.result
		res.Losses = slices.Clone(res.Losses)
		s.Result = &res
	}

	for _, p := range g.store.Players() {
		ps := PlayerSnapshot{
			ID:         p.ID,
			Name:       p.Name,
			Life:       p.Life,
			Mana:       manaSymbols(p.Pool),
			DeckSize:   v.DeckSize(p.ID),
			Lost:       p.Lost,
			LossReason: p.LossReason,
		}
		for _, id := range v.Hand(p.ID) {
			ps.Hand = append(ps.Hand, g.cardSnapshot(id))
		}
		for _, id := range v.Graveyard(p.ID) {
			ps.Graveyard = append(ps.Graveyard, g.cardSnapshot(id))
		}
		s.Players = append(s.Players, ps)
	}

	for _, id := range v.Permanents() {
		perm := v.Observe(id)
		ps := PermanentSnapshot{
			ID:            perm.ID,
			Name:          perm.Name,
			Controller:    perm.Controller,
			Types:         perm.Types.String(),
			Creature:      perm.Types.Has(TypeCreature),
			Power:         perm.Power,
			Toughness:     perm.Toughness,
			Tapped:        perm.Tapped,
			SummoningSick: perm.SummoningSick,
			Damage:        perm.Damage,
		}
		for _, t := range perm.Counters.Types() {
			if ps.Counters == nil {
				ps.Counters = make(map[string]int)
			}
			ps.Counters[string(t)] = perm.Counters.Get(t)
		}
		for _, abID := range v.PermanentAbilities(id) {
			ab := g.store.Ability(abID)
			ps.Abilities = append(ps.Abilities, AbilitySnapshot{
				ID:          ab.ID,
				Class:       ab.Class.String(),
				Description: ab.Description,
			})
		}
		s.Battlefield = append(s.Battlefield, ps)
	}

	for _, obj := range g.stack.List() {
		s.Stack = append(s.Stack, StackSnapshot{
			Card:        obj.Card,
			Controller:  obj.Controller,
			Description: obj.Description,
		})
	}
	return s
}

func (g *Game) cardSnapshot(id CardID) CardSnapshot {
	card := g.store.Card(id)
	return CardSnapshot{
		ID:    card.ID,
		Name:  card.Template.Name,
		Cost:  card.Template.Cost.String(),
		Types: card.Template.Types.String(),
		Text:  card.Template.Text,
	}
}

func manaSymbols(pool mana.Pool) []string {
	units := pool.Units()
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, u.Symbol())
	}
	return out
}
