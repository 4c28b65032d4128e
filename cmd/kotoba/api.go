package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ayatsuji/kotoba-run/internal/config"
	"github.com/ayatsuji/kotoba-run/internal/httpapi"
	"github.com/ayatsuji/kotoba-run/internal/meta"
	"github.com/ayatsuji/kotoba-run/internal/words"
)

var flagAPIAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP JSON API",
	Long: `Start the HTTP JSON API for web and mobile front ends.

Each POST /runs creates a run session; the run is driven with
/runs/{id}/answer, /advance, /life, and /end. Meta progression is
shared across sessions.

Examples:
  kotoba api
  kotoba api --listen :8080
  kotoba api --db ./meta.db --seed 42`,
	Run: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagAPIAddr, "listen", ":8080", "HTTP listen address (host:port)")
}

func runAPI(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "kotoba-api",
	})

	game, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	repo, err := words.Load(flagWordsPath, flagSeed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading words: %v\n", err)
		os.Exit(1)
	}

	store, err := meta.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open meta database", "error", err)
		// Continue without storage
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	server := httpapi.New(repo, game, store, flagSeed, logger)
	if err := server.Start(flagAPIAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
