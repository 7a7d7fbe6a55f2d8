package game

import "context"

// Action is what a player can choose when holding priority.
type Action interface {
	isAction()
}

// PassAction declines to act.
type PassAction struct{}

// CastAction plays a card from hand.
type CastAction struct {
	Card     CardID
	Castable CastableID
}

// ActivateAction activates an ability.
type ActivateAction struct {
	Ability AssignedAbility
}

func (PassAction) isAction()     {}
func (CastAction) isAction()     {}
func (ActivateAction) isAction() {}

// Choice is one entry of a decision request.
type Choice struct {
	Action      Action
	Description string
}

// DecisionRequest asks a player to pick one of the choices. Choice 0 is
// always a pass.
type DecisionRequest struct {
	Player  PlayerID
	Choices []Choice
	// Rejection explains why the previous answer to this request was refused.
	Rejection string
	Snapshot  Snapshot
}

// DecisionProvider answers decision requests with the index of a choice.
// Decide blocks until the player has answered.
type DecisionProvider interface {
	Decide(ctx context.Context, req DecisionRequest) (int, error)
}

// DecisionFunc adapts a function to DecisionProvider.
type DecisionFunc func(ctx context.Context, req DecisionRequest) (int, error)

// Decide implements DecisionProvider.
func (f DecisionFunc) Decide(ctx context.Context, req DecisionRequest) (int, error) {
	return f(ctx, req)
}

// LegendChooser is implemented by providers that let a player pick which of
// several same-named legendary permanents to keep. The answer is an index
// into candidates.
type LegendChooser interface {
	ChooseLegend(ctx context.Context, player PlayerID, candidates []PermanentID) (int, error)
}

// GameOverNotifier is implemented by providers that want to hear the result.
type GameOverNotifier interface {
	GameOver(result Result)
}

// SnapshotSink receives a snapshot after every applied event. Publish must
// not block.
type SnapshotSink interface {
	Publish(s Snapshot)
}
