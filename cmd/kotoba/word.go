package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ayatsuji/kotoba-run/internal/tts"
	"github.com/ayatsuji/kotoba-run/internal/words"
)

var (
	flagHiragana string
	flagSimilar  string
	flagDiff     int
	flagAudioDir string
	flagNoAudio  bool
)

var wordCmd = &cobra.Command{
	Use:   "word",
	Short: "Manage the word dataset",
	Long: `Manage the word dataset used to generate puzzles.

Subcommands:
  list        - Print the dataset with validation status
  add         - Add a word (and synthesize its audio)
  regenerate  - Synthesize audio for words missing their asset
  migrate     - Upgrade older dataset records to the current schema

The dataset file is resolved from --words, falling back to
~/.kotoba/words.json.`,
}

var wordListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the word dataset",
	Run:   runWordList,
}

var wordAddCmd = &cobra.Command{
	Use:   "add <romaji> <japanese>",
	Short: "Add a word to the dataset",
	Long: `Add a word to the dataset and synthesize its audio asset.

The word id is generated; audio synthesis needs GEMINI_API_KEY in the
environment or a .env file, and can be skipped with --no-audio.

Examples:
  kotoba word add neko 猫 --hiragana "ね,こ"
  kotoba word add byouin 病院 --hiragana "びょ,う,い,ん" --similar <id> --difficulty 3
  kotoba word add inu 犬 --hiragana "い,ぬ" --no-audio`,
	Args: cobra.ExactArgs(2),
	Run:  runWordAdd,
}

var wordRegenerateCmd = &cobra.Command{
	Use:   "regenerate",
	Short: "Synthesize audio for words missing their asset",
	Run:   runWordRegenerate,
}

var wordMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade older dataset records to the current schema",
	Long: `Upgrade older dataset records to the current schema.

Fills in missing ids, audio URIs, and difficulty defaults. Records
without a japanese spelling or hiragana decomposition cannot be derived
automatically and fail the migration.`,
	Run: runWordMigrate,
}

func init() {
	wordAddCmd.Flags().StringVar(&flagHiragana, "hiragana", "", "Comma-separated hiragana graphemes (required)")
	wordAddCmd.Flags().StringVar(&flagSimilar, "similar", "", "Comma-separated ids of similar-sounding words")
	wordAddCmd.Flags().IntVar(&flagDiff, "difficulty", 1, "Difficulty from 1 to 3")
	wordAddCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "Skip audio synthesis")
	//nolint:errcheck // Flag exists, registered two lines up
	wordAddCmd.MarkFlagRequired("hiragana")

	wordCmd.PersistentFlags().StringVar(&flagAudioDir, "audio-dir", "assets/audio", "Directory for audio assets and manifest.json")

	wordCmd.AddCommand(wordListCmd)
	wordCmd.AddCommand(wordAddCmd)
	wordCmd.AddCommand(wordRegenerateCmd)
	wordCmd.AddCommand(wordMigrateCmd)
}

// wordsFile resolves the dataset path for commands that write it.
func wordsFile() string {
	if flagWordsPath != "" {
		return flagWordsPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "words.json"
	}
	return filepath.Join(home, ".kotoba", "words.json")
}

// loadWordList reads the dataset file, falling back to the embedded default
// when the file does not exist yet.
func loadWordList() ([]words.Word, error) {
	path := wordsFile()
	list, err := words.ReadFile(path)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	repo, loadErr := words.Load("", 0)
	if loadErr != nil {
		return nil, loadErr
	}
	return repo.All(), nil
}

func runWordList(_ *cobra.Command, _ []string) {
	list, err := loadWordList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(1)
	}

	for _, w := range list {
		line := fmt.Sprintf("%-38s %-12s %-6s d%d", w.ID, w.Romaji, w.Japanese, w.Difficulty)
		if len(w.Similar) > 0 {
			line += "  ~ " + strings.Join(w.Similar, ", ")
		}
		fmt.Println(line)
	}

	if err := words.NewRepository(list, 0).Validate(); err != nil {
		fmt.Printf("\n%d words, INVALID: %v\n", len(list), err)
		os.Exit(1)
	}
	fmt.Printf("\n%d words, dataset valid\n", len(list))
}

func runWordAdd(_ *cobra.Command, args []string) {
	romaji, japanese := args[0], args[1]

	hiragana := splitList(flagHiragana)
	if len(hiragana) == 0 {
		fmt.Fprintln(os.Stderr, "Error: --hiragana must name at least one grapheme")
		os.Exit(1)
	}
	if flagDiff < 1 || flagDiff > 3 {
		fmt.Fprintln(os.Stderr, "Error: --difficulty must be 1, 2, or 3")
		os.Exit(1)
	}

	list, err := loadWordList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(1)
	}

	word := words.Word{
		ID:         uuid.NewString(),
		Hiragana:   hiragana,
		Romaji:     romaji,
		Japanese:   japanese,
		Difficulty: flagDiff,
		Similar:    splitList(flagSimilar),
	}
	word.AudioURI = word.ID + ".wav"

	if !flagNoAudio {
		if err := synthesizeWord(word); err != nil {
			fmt.Fprintf(os.Stderr, "Error synthesizing audio: %v\n", err)
			os.Exit(1)
		}
	}

	// Similar links are symmetric in the dataset
	for i := range list {
		for _, sim := range word.Similar {
			if list[i].ID == sim {
				list[i].Similar = append(list[i].Similar, word.ID)
			}
		}
	}
	list = append(list, word)

	if err := writeDataset(list); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Added %s (%s) as %s\n", romaji, japanese, word.ID)
}

func runWordRegenerate(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "kotoba-word"})

	list, err := loadWordList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(1)
	}

	missing := 0
	for _, w := range list {
		asset := filepath.Join(flagAudioDir, w.AudioURI)
		if _, statErr := os.Stat(asset); statErr == nil {
			continue
		}
		missing++
		logger.Info("synthesizing", "word", w.Romaji, "asset", w.AudioURI)
		if err := synthesizeWord(w); err != nil {
			fmt.Fprintf(os.Stderr, "Error synthesizing %s: %v\n", w.Romaji, err)
			os.Exit(1)
		}
	}

	if err := words.WriteManifest(filepath.Join(flagAudioDir, "manifest.json"), words.BuildManifest(list)); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing manifest: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Synthesized %d assets, manifest updated\n", missing)
}

func runWordMigrate(_ *cobra.Command, _ []string) {
	list, err := loadWordList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dataset: %v\n", err)
		os.Exit(1)
	}

	changed := 0
	for i := range list {
		w := &list[i]
		if w.Japanese == "" {
			fmt.Fprintf(os.Stderr, "Error: word %q has no japanese spelling; add it by hand and rerun\n", w.Romaji)
			os.Exit(1)
		}
		if len(w.Hiragana) == 0 {
			fmt.Fprintf(os.Stderr, "Error: word %q has no hiragana decomposition; add it by hand and rerun\n", w.Romaji)
			os.Exit(1)
		}
		if w.ID == "" {
			w.ID = uuid.NewString()
			changed++
		}
		if w.AudioURI == "" {
			w.AudioURI = w.ID + ".wav"
			changed++
		}
		if w.Difficulty == 0 {
			w.Difficulty = 1
			changed++
		}
	}

	if changed == 0 {
		fmt.Println("Dataset already current")
		return
	}
	if err := writeDataset(list); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Migrated dataset, %d fields filled\n", changed)
}

// writeDataset validates and writes the list, then refreshes the manifest.
func writeDataset(list []words.Word) error {
	if err := words.NewRepository(list, 0).Validate(); err != nil {
		return err
	}
	if err := words.WriteFile(wordsFile(), list); err != nil {
		return err
	}
	if err := os.MkdirAll(flagAudioDir, 0o755); err != nil {
		return err
	}
	return words.WriteManifest(filepath.Join(flagAudioDir, "manifest.json"), words.BuildManifest(list))
}

// synthesizeWord generates the word's audio asset from its japanese spelling.
func synthesizeWord(w words.Word) error {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set (use --no-audio to skip synthesis)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := tts.NewClient(ctx, apiKey)
	if err != nil {
		return err
	}
	defer client.Close()

	audio, err := client.Synthesize(ctx, w.Japanese)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(flagAudioDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(flagAudioDir, w.AudioURI), audio, 0o644)
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
