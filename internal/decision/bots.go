package decision

import (
	"context"

	"github.com/magefree/mage-rules-go/internal/game"
)

// AutoPass always passes priority.
type AutoPass struct{}

// Decide implements game.DecisionProvider.
func (AutoPass) Decide(context.Context, game.DecisionRequest) (int, error) {
	return 0, nil
}

// Greedy plays whatever it can. It tries casting cards first, then
// activating abilities, skipping choices the engine already rejected for
// the current request, and passes when nothing is left.
type Greedy struct {
	tried map[int]bool
}

// NewGreedy creates a greedy bot.
func NewGreedy() *Greedy {
	return &Greedy{tried: make(map[int]bool)}
}

// Decide implements game.DecisionProvider.
func (g *Greedy) Decide(_ context.Context, req game.DecisionRequest) (int, error) {
	if req.Rejection == "" {
		clear(g.tried)
	}
	pick := g.first(req.Choices, func(a game.Action) bool {
		_, ok := a.(game.CastAction)
		return ok
	})
	if pick == 0 {
		pick = g.first(req.Choices, func(a game.Action) bool {
			_, ok := a.(game.ActivateAction)
			return ok
		})
	}
	if pick != 0 {
		g.tried[pick] = true
	}
	return pick, nil
}

func (g *Greedy) first(choices []game.Choice, match func(game.Action) bool) int {
	for i, c := range choices {
		if i > 0 && !g.tried[i] && match(c.Action) {
			return i
		}
	}
	return 0
}
