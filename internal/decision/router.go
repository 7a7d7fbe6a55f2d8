package decision

import (
	"context"
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game"
)

// Router sends each decision to the provider registered for the player's
// name. Player names are resolved through the request snapshot.
type Router struct {
	providers map[string]game.DecisionProvider
	order     []string
	names     map[game.PlayerID]string
}

// NewRouter creates an empty router.
func NewRouter() *Router {
	return &Router{
		providers: make(map[string]game.DecisionProvider),
		names:     make(map[game.PlayerID]string),
	}
}

// Add registers the provider for a player name.
func (r *Router) Add(name string, p game.DecisionProvider) *Router {
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
	return r
}

// Decide implements game.DecisionProvider.
func (r *Router) Decide(ctx context.Context, req game.DecisionRequest) (int, error) {
	p, err := r.lookup(req.Snapshot, req.Player)
	if err != nil {
		return 0, err
	}
	return p.Decide(ctx, req)
}

// ChooseLegend forwards to the player's provider when it can choose, and
// otherwise keeps the newest permanent. Players are known by id once they
// have been asked for a decision.
func (r *Router) ChooseLegend(ctx context.Context, player game.PlayerID, candidates []game.PermanentID) (int, error) {
	p, ok := r.byID(player)
	if !ok {
		return len(candidates) - 1, nil
	}
	if chooser, ok := p.(game.LegendChooser); ok {
		return chooser.ChooseLegend(ctx, player, candidates)
	}
	return len(candidates) - 1, nil
}

// GameOver notifies every registered provider that wants to know, once.
func (r *Router) GameOver(res game.Result) {
	seen := make(map[game.GameOverNotifier]bool)
	for _, name := range r.order {
		n, ok := r.providers[name].(game.GameOverNotifier)
		if !ok || seen[n] {
			continue
		}
		seen[n] = true
		n.GameOver(res)
	}
}

func (r *Router) byID(player game.PlayerID) (game.DecisionProvider, bool) {
	name, ok := r.names[player]
	if !ok {
		return nil, false
	}
	p, ok := r.providers[name]
	return p, ok
}

func (r *Router) lookup(s game.Snapshot, player game.PlayerID) (game.DecisionProvider, error) {
	for _, ps := range s.Players {
		r.names[ps.ID] = ps.Name
	}
	for _, ps := range s.Players {
		if ps.ID != player {
			continue
		}
		p, ok := r.providers[ps.Name]
		if !ok {
			return nil, fmt.Errorf("no decision provider for player %q", ps.Name)
		}
		return p, nil
	}
	return nil, fmt.Errorf("player %s not in snapshot", player)
}
