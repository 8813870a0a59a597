package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/fairwaycup/matchplay/simulation"
)

type CLI struct {
	Course  string  `default:"Cypress" help:"Course to play (see --list-courses)"`
	Player1 string  `default:"Player 1" help:"First player's name"`
	Index1  float64 `default:"10.0" help:"First player's handicap index"`
	Player2 string  `default:"Player 2" help:"Second player's name"`
	Index2  float64 `default:"10.0" help:"Second player's handicap index"`
	Rounds  int     `default:"10000" help:"Number of matches to simulate"`
	Seed    int64   `default:"0" help:"RNG seed (0 for random)"`
	List    bool    `name:"list-courses" help:"List available courses and exit"`
	Verbose bool    `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	level := log.WarnLevel
	if cli.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level})

	if cli.List {
		for _, name := range simulation.CourseNames() {
			fmt.Println(name)
		}
		ctx.Exit(0)
	}

	sim, err := simulation.NewSimulator(cli.Course, cli.Seed)
	if err != nil {
		logger.Fatal("cannot set up simulator", "error", err)
	}

	p1 := simulation.PlayerInput{Name: cli.Player1, HandicapIndex: cli.Index1}
	p2 := simulation.PlayerInput{Name: cli.Player2, HandicapIndex: cli.Index2}
	logger.Debug("running duel", "course", cli.Course, "rounds", cli.Rounds, "seed", cli.Seed)

	result, err := sim.Duel(p1, p2, cli.Rounds)
	if err != nil {
		logger.Fatal("duel failed", "error", err)
	}

	printResult(result)
	ctx.Exit(0)
}

func printResult(r *simulation.DuelResult) {
	fmt.Printf("=== %s vs %s at %s (%d matches) ===\n", r.Player1, r.Player2, r.Course, r.Rounds)
	fmt.Printf("%-20s %6d wins  (%5.1f%%)\n", r.Player1, r.Wins1, r.Win1Pct())
	fmt.Printf("%-20s %6d wins  (%5.1f%%)\n", r.Player2, r.Wins2, r.Win2Pct())
	fmt.Printf("%-20s %6d       (%5.1f%%)\n", "All square", r.Ties, r.TiePct())

	if len(r.Margins) > 0 {
		fmt.Printf("\n%s\n", strings.Repeat("-", 34))
		fmt.Printf("%-12s %8s\n", "Margin", "Count")
		for _, m := range r.Margins {
			fmt.Printf("%-12s %8d\n", m.Margin, m.Count)
		}
	}
}
