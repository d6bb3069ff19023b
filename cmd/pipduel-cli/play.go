package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/game"
	"github.com/peterkuimelis/pipduel/internal/log"
	"github.com/peterkuimelis/pipduel/internal/planner"
)

const seat = game.SidePlayer

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	rulesFile := fs.String("rules", "", "path to rules YAML file")
	decksFile := fs.String("decks", "", "path to decks file (default: built-in deck)")
	deckNum := fs.Int("deck", 1, "deck number to use (from the decks file)")
	seed := fs.Uint64("seed", 0, "shuffle seed (0 picks one at random)")
	verbose := fs.Bool("v", false, "print every game event")
	fs.Parse(args)

	rules, err := config.Resolve(*rulesFile)
	if err != nil {
		return err
	}
	deck := game.DefaultDeck()
	if *decksFile != "" {
		if deck, err = game.DeckByNumber(*decksFile, *deckNum); err != nil {
			return err
		}
	}

	var logger log.EventLogger = log.NewMemoryLogger()
	if *verbose {
		logger = log.NewTextLogger(os.Stdout)
	}
	m, err := game.NewMatch(game.MatchConfig{
		Rules:  rules,
		Decks:  [2]*game.Deck{deck, deck},
		Logger: logger,
		Seed:   *seed,
	})
	if err != nil {
		return err
	}
	if err := m.Start(context.Background()); err != nil {
		return err
	}
	return newREPL(m, os.Stdin).run()
}

// repl drives one local match from the terminal. The opponent is played by
// the planner; the turn timer advances by the wall time spent between commands.
type repl struct {
	m      *game.Match
	reader *bufio.Reader
	last   time.Time
}

func newREPL(m *game.Match, in io.Reader) *repl {
	return &repl{m: m, reader: bufio.NewReader(in), last: time.Now()}
}

func (r *repl) run() error {
	renderMatch(r.m, seat)
	printHelp()
	for {
		fmt.Print("> ")
		line, err := r.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if out, resolved := r.tick(); resolved {
			pterm.Warning.Println("time's up")
			renderOutcome(out)
			if r.opponentTurn() {
				return nil
			}
			renderMatch(r.m, seat)
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		quit, err := r.exec(fields)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func (r *repl) tick() (*game.Outcome, bool) {
	now := time.Now()
	dt := now.Sub(r.last).Seconds()
	r.last = now
	return r.m.Tick(dt)
}

// exec runs one command. It reports true when the session should end.
func (r *repl) exec(fields []string) (bool, error) {
	args, err := atois(fields[1:])
	if err != nil {
		return false, err
	}
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s needs %d argument(s)", fields[0], n)
		}
		return nil
	}

	switch fields[0] {
	case "p", "place", "d", "down":
		if err := need(2); err != nil {
			return false, err
		}
		faceDown := fields[0] == "d" || fields[0] == "down"
		err = r.m.Place(seat, args[0], args[1], faceDown)
	case "f", "flip":
		if err = need(1); err == nil {
			err = r.m.Flip(seat, args[0])
		}
	case "r", "reveal":
		if err = need(1); err == nil {
			err = r.m.Reveal(seat, args[0])
		}
	case "b", "back", "return":
		if err = need(1); err == nil {
			err = r.m.ReturnToHand(seat, args[0])
		}
	case "h", "hint":
		plan := r.m.Hint(seat)
		hand := r.m.Hand(seat)
		renderPlan(toPlannerCards(hand), plan)
		return false, nil
	case "e", "end":
		out, err := r.m.EndTurnFor(seat)
		if err != nil {
			return false, err
		}
		renderOutcome(out)
		r.last = time.Now()
		if r.opponentTurn() {
			return true, nil
		}
	case "s", "state":
	case "?", "help":
		printHelp()
		return false, nil
	case "q", "quit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	if err != nil {
		return false, err
	}
	renderMatch(r.m, seat)
	return false, nil
}

// opponentTurn auto-plays the opponent while it is active. It reports true
// when the match has ended.
func (r *repl) opponentTurn() bool {
	for {
		if over, _, _ := r.m.Over(); over || r.m.State().Active() == seat {
			break
		}
		out, err := r.m.AutoPlay(game.Opponent(seat))
		if err != nil {
			pterm.Error.Println(err)
			return true
		}
		renderOutcome(out)
	}
	r.last = time.Now()
	return r.gameOver()
}

func (r *repl) gameOver() bool {
	over, winner, result := r.m.Over()
	if !over {
		return false
	}
	if winner == seat {
		pterm.Success.Println(result)
	} else {
		pterm.Error.Println(result)
	}
	return true
}

func atois(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out[i] = n
	}
	return out, nil
}

func printHelp() {
	fmt.Println("  p HAND SLOT   place face-up        d HAND SLOT   place face-down")
	fmt.Println("  f SLOT        flip                 r SLOT        reveal")
	fmt.Println("  b SLOT        return to hand       h             hint")
	fmt.Println("  e             end turn             s             show board")
	fmt.Println("  q             quit")
}

func toPlannerCards(hand []game.Card) []planner.Card {
	out := make([]planner.Card, len(hand))
	for i, c := range hand {
		out[i] = planner.Card{Pip: c.Pip, Wild: c.Wild}
	}
	return out
}
