// Package console is the terminal boundary for a human player: line-edited
// prompts, colored narration of game events, and batch report tables.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/jason-s-yu/bluff/internal/game"
	"github.com/peterh/liner"
)

// ErrAborted is returned when the human aborts a prompt (Ctrl-C or EOF).
var ErrAborted = errors.New("input aborted")

// C holds the palette used for terminal output.
var C = struct {
	Info, Warn, Header, Prompt, Good, Bad *color.Color
}{
	Info:   color.New(color.FgCyan),
	Warn:   color.New(color.FgHiYellow),
	Header: color.New(color.FgWhite, color.Bold),
	Prompt: color.New(color.FgHiWhite),
	Good:   color.New(color.FgGreen),
	Bad:    color.New(color.FgRed),
}

// Console implements game.Prompter on top of a liner line editor.
type Console struct {
	line *liner.State
	out  io.Writer

	// HumanID is the seat whose own plays are narrated with the real card.
	HumanID uuid.UUID
}

// New opens the terminal line editor. Close must be called to restore the terminal.
func New() *Console {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	return &Console{line: line, out: os.Stdout}
}

// Close restores the terminal.
func (c *Console) Close() error { return c.line.Close() }

func (c *Console) prompt(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// liner redraws its prompt, so the colored question goes on its own line.
	C.Prompt.Fprintln(c.out, text)
	input, err := c.line.Prompt("> ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading line: %w", err)
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// PromptRank asks for the starting rank of a round the human leads.
func (c *Console) PromptRank(ctx context.Context, hand *game.Hand) (string, error) {
	fmt.Fprintf(c.out, "\nyour hand: %s\n", hand)
	return c.prompt(ctx, "enter the starting rank for this round (Ace/Jack/Queen/King)")
}

// PromptCardOrPass asks which card to place face-down as declared.
func (c *Console) PromptCardOrPass(ctx context.Context, hand *game.Hand, declared game.Rank) (string, error) {
	fmt.Fprintf(c.out, "\nyour hand: %s\n", hand)
	return c.prompt(ctx, fmt.Sprintf("select a card to play as %s (or type 'pass')", declared))
}

// PromptChallenge asks whether to challenge the declaration just made.
func (c *Console) PromptChallenge(ctx context.Context, declared game.Rank, view game.ChallengeView) (string, error) {
	return c.prompt(ctx, fmt.Sprintf("%s claims a %s (%d on the stack). challenge? (yes/no)",
		view.Declarer, declared, view.StackSize))
}

// Invalid reports a rejected answer before the question is repeated.
func (c *Console) Invalid(err error) {
	C.Warn.Fprintf(c.out, "%v. try again.\n", err)
}

// Narrate prints a game event for the human. Other players' cards stay hidden
// until a challenge reveals them.
func (c *Console) Narrate(ev game.GameEvent) {
	narrate(c.out, c.HumanID, ev)
}

func narrate(w io.Writer, humanID uuid.UUID, ev game.GameEvent) {
	name := ""
	if ev.User != nil {
		name = ev.User.Name
	}
	switch ev.Type {
	case game.EventCardsDealt:
		C.Header.Fprintln(w, "cards dealt. starting the game!")
	case game.EventRoundStarted:
		C.Header.Fprintf(w, "\n--- round %d: %s leads, rank %s ---\n", ev.Round, name, *ev.Declared)
	case game.EventCardPlayed:
		if ev.User != nil && ev.User.ID == humanID && ev.Card != nil {
			fmt.Fprintf(w, "you play your %s as %s.\n", *ev.Card, *ev.Declared)
			return
		}
		fmt.Fprintf(w, "%s plays %s.\n", name, *ev.Declared)
	case game.EventPassed:
		fmt.Fprintf(w, "%s passes.\n", name)
	case game.EventChallengeDecided:
		if ev.Payload["challenge"] == true {
			C.Info.Fprintf(w, "%s decides to challenge.\n", name)
		} else {
			fmt.Fprintf(w, "%s decides not to challenge.\n", name)
		}
	case game.EventChallengeResolved:
		if ev.Payload["bluff"] == true {
			C.Good.Fprintf(w, "the challenge succeeds! %s played %s.\n", ev.Payload["declarer"], *ev.Card)
		} else {
			C.Bad.Fprintf(w, "the challenge fails! %s played %s.\n", ev.Payload["declarer"], *ev.Card)
		}
		fmt.Fprintf(w, "%s receives %v cards.\n", ev.Payload["loser"], ev.Payload["cards_awarded"])
	case game.EventAllPassed:
		C.Info.Fprintln(w, "all players passed. starting a new round.")
		if n, _ := ev.Payload["carried"].(int); n > 0 {
			fmt.Fprintf(w, "the %d cards on the stack stay in play.\n", n)
		}
	case game.EventGameWon:
		C.Header.Fprintf(w, "\n%s wins the game after %v rounds!\n", name, ev.Payload["rounds_played"])
	}
}
