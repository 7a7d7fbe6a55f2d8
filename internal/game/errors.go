package game

import (
	"errors"
	"fmt"

	"github.com/magefree/mage-rules-go/internal/game/mana"
)

var (
	// ErrGameAborted is returned by Step and Run after an invariant violation.
	ErrGameAborted = errors.New("game aborted")
	// ErrDecisionFailed wraps errors returned by the decision provider.
	ErrDecisionFailed = errors.New("decision provider failed")
	// ErrInsufficientMana is returned when a mana cost cannot be paid.
	ErrInsufficientMana = mana.ErrInsufficientMana
	// ErrAlreadyTapped is returned when a tap cost names a tapped permanent.
	ErrAlreadyTapped = errors.New("permanent already tapped")
	// ErrSummoningSick is returned when a creature that just arrived must tap.
	ErrSummoningSick = errors.New("creature has summoning sickness")
	// ErrInvalidChoice is returned for choices that were not offered.
	ErrInvalidChoice = errors.New("invalid choice")
)

// InvariantViolation reports engine state that must never occur, such as a
// dangling id or an ability of the wrong class. The game cannot continue.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

// Is lets errors.Is match any invariant violation against ErrGameAborted.
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrGameAborted
}

func invariantf(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}
