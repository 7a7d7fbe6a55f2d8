package rules

import "fmt"

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepCombat
	StepMain2
	StepDiscard
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:   "UNTAP",
	StepUpkeep:  "UPKEEP",
	StepDraw:    "DRAW",
	StepMain1:   "MAIN1",
	StepCombat:  "COMBAT",
	StepMain2:   "MAIN2",
	StepDiscard: "DISCARD",
	StepCleanup: "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsMain reports whether sorcery-speed actions may be taken in this step.
func (s Step) IsMain() bool {
	return s == StepMain1 || s == StepMain2
}

// GrantsPriority reports whether players receive priority during the step.
func (s Step) GrantsPriority() bool {
	switch s {
	case StepDraw, StepMain1, StepCombat, StepMain2:
		return true
	}
	return false
}

type turnEntry struct {
	phase Phase
	step  Step
}

var turnSequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepDiscard},
	{PhaseEnding, StepCleanup},
}

// TurnManager tracks the active player and turn progression. P is the
// player identifier type.
type TurnManager[P comparable] struct {
	orderIndex   int
	turnNumber   int
	activePlayer P
}

// NewTurnManager creates a new turn manager initialized at turn 1, untap step.
func NewTurnManager[P comparable](activePlayer P) *TurnManager[P] {
	return &TurnManager[P]{
		turnNumber:   1,
		activePlayer: activePlayer,
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager[P]) CurrentPhase() Phase {
	return turnSequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager[P]) CurrentStep() Step {
	return turnSequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager[P]) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager[P]) ActivePlayer() P {
	return tm.activePlayer
}

// AdvanceStep advances to the next step in the turn structure.
// When the end of the structure is reached, the turn number is incremented
// and the active player becomes nextActivePlayer.
func (tm *TurnManager[P]) AdvanceStep(nextActivePlayer P) (Step, bool) {
	tm.orderIndex++
	wrapped := false
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		tm.activePlayer = nextActivePlayer
		wrapped = true
	}
	return tm.CurrentStep(), wrapped
}
