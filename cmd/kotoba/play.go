package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ayatsuji/kotoba-run/internal/config"
	"github.com/ayatsuji/kotoba-run/internal/meta"
	"github.com/ayatsuji/kotoba-run/internal/platform/tui"
	"github.com/ayatsuji/kotoba-run/internal/run"
	"github.com/ayatsuji/kotoba-run/internal/words"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run in the terminal.

Controls:
  Up/Down    - Move between options
  Left/Right - Move over tiles (build puzzles)
  Enter      - Pick option / pick tile
  Backspace  - Undo last tile
  R          - New run (after run over)
  Q/Ctrl+C   - Quit

Difficulty options:
  easy   - More lives, generous speed-bonus window
  normal - Default tuning
  hard   - One life, tight speed-bonus window

Examples:
  kotoba play
  kotoba play --difficulty hard
  kotoba play --config ./my-game.yaml
  kotoba play --words ./my-words.json --seed 42`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runPlay(_ *cobra.Command, _ []string) {
	// Use time-based seed if not specified
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	game, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&game, config.DifficultyPreset(flagDifficulty))
	}

	repo, err := words.Load(flagWordsPath, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading words: %v\n", err)
		os.Exit(1)
	}

	// Sanity-check the terminal before going fullscreen
	if _, _, termErr := term.GetSize(int(os.Stdout.Fd())); termErr != nil {
		fmt.Fprintln(os.Stderr, "Error: kotoba play needs an interactive terminal")
		os.Exit(1)
	}

	store, err := meta.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open meta database: %v\n", err)
		// Continue without storage - the run still works
		store = nil
	}

	gen := run.NewGenerator(repo, game.KindWeights(), seed)
	machine := run.NewMachine(gen, game.RunConfig())

	runErr := tui.Run(machine, store, seed)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
