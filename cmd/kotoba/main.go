// kotoba is a terminal roguelike for drilling Japanese vocabulary.
//
// Usage:
//
//	kotoba play              - Play a run in the terminal
//	kotoba stats             - Show meta progression and recent runs
//	kotoba serve             - Start SSH server for remote play
//	kotoba api               - Start the HTTP JSON API
//	kotoba word <subcommand> - Manage the word dataset
//
// Global flags:
//
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.kotoba/meta.db)
//	--words <path>  - Set word dataset path
//	--config <path> - Set game config YAML path
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed      int64
	flagDBPath    string
	flagWordsPath string
	flagConfig    string
)

func main() {
	// API keys for TTS live in .env during development
	//nolint:errcheck // Missing .env is the normal case
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kotoba",
	Short: "Kotoba Run - a vocabulary roguelike in your terminal",
	Long: `Kotoba Run is a terminal roguelike for drilling Japanese vocabulary.
Each run is a sequence of listening puzzles: match the word you hear,
build it from hiragana tiles, or tell apart similar-sounding words.
Correct answers earn coins; coins buy extra lives; a wrong answer with
no lives left ends the run.

Available commands:
  play     - Play a run in the terminal
  stats    - Show best run, total coins, and recent history
  serve    - Start SSH server for remote play
  api      - Start the HTTP JSON API
  word     - Manage the word dataset (add, list, regenerate, migrate)

Examples:
  kotoba play
  kotoba play --difficulty easy
  kotoba stats
  kotoba serve --ssh :2222
  kotoba api --listen :8080
  kotoba word list`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.kotoba/meta.db", "Path to meta progression database")
	rootCmd.PersistentFlags().StringVar(&flagWordsPath, "words", "", "Path to word dataset JSON (default: search order)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(wordCmd)
}
