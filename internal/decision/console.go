// Package decision provides the ways players answer the engine's decision
// requests: a terminal prompt, scripts, simple bots and a per-player router.
package decision

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game"
)

// ErrNoInput is returned when the console input is exhausted.
var ErrNoInput = errors.New("no more input")

// Console asks a human for decisions on a line-based terminal.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger
}

// NewConsole creates a console provider reading answers from in.
func NewConsole(in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{in: bufio.NewReader(in), out: out, logger: logger}
}

// Decide renders the board and the choices, then reads a 1-based choice.
func (c *Console) Decide(ctx context.Context, req game.DecisionRequest) (int, error) {
	c.renderState(req.Player, req.Snapshot)
	if req.Rejection != "" {
		fmt.Fprintf(c.out, "Not possible: %s\n", req.Rejection)
	}
	fmt.Fprintln(c.out)
	for i, choice := range req.Choices {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, choice.Description)
	}
	return c.readChoice(ctx, len(req.Choices))
}

// ChooseLegend asks which legendary permanent to keep.
func (c *Console) ChooseLegend(ctx context.Context, player game.PlayerID, candidates []game.PermanentID) (int, error) {
	fmt.Fprintf(c.out, "\n%s: choose the legendary permanent to keep\n", player)
	for i, id := range candidates {
		fmt.Fprintf(c.out, "  %d) %s\n", i+1, id)
	}
	return c.readChoice(ctx, len(candidates))
}

// GameOver prints the result.
func (c *Console) GameOver(res game.Result) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	fmt.Fprintln(c.out, "          GAME OVER")
	fmt.Fprintln(c.out, "═══════════════════════════════════")
	if res.Winner.IsZero() {
		fmt.Fprintln(c.out, "Nobody wins.")
	} else {
		fmt.Fprintf(c.out, "%s wins on turn %d.\n", res.WinnerName, res.Turn)
	}
	for _, l := range res.Losses {
		fmt.Fprintf(c.out, "%s lost: %s\n", l.Name, l.Reason)
	}
}

func (c *Console) readChoice(ctx context.Context, count int) (int, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("read choice: %w", err)
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && n >= 1 && n <= count {
			return n - 1, nil
		}
		if err != nil {
			return 0, ErrNoInput
		}
		c.logger.Debug("ignoring console input", zap.String("line", strings.TrimSpace(line)))
		fmt.Fprintf(c.out, "Enter a number between 1 and %d\n", count)
	}
}

func (c *Console) renderState(me game.PlayerID, s game.Snapshot) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")
	for _, p := range s.Players {
		marker := " "
		if p.ID == me {
			marker = "*"
		}
		fmt.Fprintf(c.out, "║%s %s (life %d)  Hand: %d  Deck: %d  Graveyard: %d  Mana: %s\n",
			marker, p.Name, p.Life, len(p.Hand), p.DeckSize, len(p.Graveyard), strings.Join(p.Mana, ""))
		for _, perm := range s.Battlefield {
			if perm.Controller == p.ID {
				fmt.Fprintf(c.out, "║     %s\n", formatPermanent(perm))
			}
		}
	}
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	for _, obj := range s.Stack {
		fmt.Fprintf(c.out, "Stack: %s\n", obj.Description)
	}
	fmt.Fprintf(c.out, "Turn %d | %s\n", s.Turn, s.Step)

	for _, p := range s.Players {
		if p.ID != me || len(p.Hand) == 0 {
			continue
		}
		fmt.Fprint(c.out, "Hand: ")
		for _, card := range p.Hand {
			fmt.Fprintf(c.out, "[%s %s]  ", card.Name, card.Cost)
		}
		fmt.Fprintln(c.out)
	}
}

func formatPermanent(p game.PermanentSnapshot) string {
	var b strings.Builder
	b.WriteString(p.Name)
	if p.Creature {
		fmt.Fprintf(&b, " %d/%d", p.Power, p.Toughness)
	}
	if p.Damage > 0 {
		fmt.Fprintf(&b, " dmg:%d", p.Damage)
	}
	for _, name := range slices.Sorted(maps.Keys(p.Counters)) {
		fmt.Fprintf(&b, " %s:%d", name, p.Counters[name])
	}
	if p.Tapped {
		b.WriteString(" (tapped)")
	}
	return b.String()
}
