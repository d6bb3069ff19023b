package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/peterkuimelis/pipduel/internal/combo"
	"github.com/peterkuimelis/pipduel/internal/config"
	"github.com/peterkuimelis/pipduel/internal/planner"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	cmd := os.Args[1]
	switch cmd {
	case "eval":
		err = runEval(os.Args[2:])
	case "plan":
		err = runPlan(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	case "rules":
		err = runRules(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  pipduel eval [--rules FILE] CARD...")
	fmt.Println("  pipduel plan [--rules FILE] --hand CARDS [--board CARDS]")
	fmt.Println("  pipduel play [--rules FILE] [--decks FILE] [--deck N] [--seed S]")
	fmt.Println("  pipduel rules [--rules FILE]")
	fmt.Println()
	fmt.Println("Cards are pips 1-6, 'w' for a wild, '_' for an empty slot.")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  eval    Score a hand")
	fmt.Println("  plan    Find the best placement of a hand onto a board")
	fmt.Println("  play    Play a match against the planner")
	fmt.Println("  rules   Show the ranking and scoring table")
}

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	rulesFile := fs.String("rules", "", "path to rules YAML file")
	fs.Parse(args)

	rules, err := config.Resolve(*rulesFile)
	if err != nil {
		return err
	}
	pips, wild, err := combo.ParseHand(strings.Join(fs.Args(), " "), rules.Match.Slots)
	if err != nil {
		return err
	}
	r := combo.New(rules.Scoring).Evaluate(pips, wild)
	renderResult("Hand", r, wild)
	return nil
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	rulesFile := fs.String("rules", "", "path to rules YAML file")
	handArg := fs.String("hand", "", "hand cards, e.g. '4 4 w 2'")
	boardArg := fs.String("board", "", "face-up board, one token per slot (default: all empty)")
	fs.Parse(args)

	rules, err := config.Resolve(*rulesFile)
	if err != nil {
		return err
	}
	hand, err := parseCards(*handArg, rules.Match.MaxCards)
	if err != nil {
		return fmt.Errorf("hand: %w", err)
	}
	board := make([]planner.Card, rules.Match.Slots)
	if *boardArg != "" {
		if board, err = parseCards(*boardArg, rules.Match.Slots); err != nil {
			return fmt.Errorf("board: %w", err)
		}
	}
	var empty []int
	for i, c := range board {
		if c.Empty() {
			empty = append(empty, i)
		}
	}

	plan := planner.New(combo.New(rules.Scoring)).Plan(hand, empty, board)
	renderPlan(hand, plan)
	return nil
}

func parseCards(s string, limit int) ([]planner.Card, error) {
	pips, wild, err := combo.ParseHand(s, limit)
	if err != nil {
		return nil, err
	}
	cards := make([]planner.Card, len(pips))
	for i := range pips {
		cards[i] = planner.Card{Pip: pips[i], Wild: wild[i]}
	}
	return cards, nil
}

func runRules(args []string) error {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	rulesFile := fs.String("rules", "", "path to rules YAML file")
	fs.Parse(args)

	rules, err := config.Resolve(*rulesFile)
	if err != nil {
		return err
	}
	renderRules(rules)
	return nil
}
