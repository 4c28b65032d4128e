package words

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed data/words.json
var defaultWordsJSON []byte

// Load builds a repository from the first word list found.
// Search order: customPath -> ~/.kotoba/words.json -> ./data/words.json -> embedded default.
func Load(customPath string, seed int64) (*Repository, error) {
	if customPath != "" {
		list, err := ReadFile(customPath)
		if err != nil {
			return nil, err
		}
		return newValidated(list, seed)
	}

	if userPath := userWordsPath(); userPath != "" {
		if list, err := ReadFile(userPath); err == nil {
			return newValidated(list, seed)
		}
	}

	if list, err := ReadFile(filepath.Join("data", "words.json")); err == nil {
		return newValidated(list, seed)
	}

	var list []Word
	if err := json.Unmarshal(defaultWordsJSON, &list); err != nil {
		return nil, fmt.Errorf("words: parse embedded dataset: %w", err)
	}
	return newValidated(list, seed)
}

func newValidated(list []Word, seed int64) (*Repository, error) {
	repo := NewRepository(list, seed)
	if err := repo.Validate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// ReadFile parses a words.json file.
func ReadFile(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	var list []Word
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("words: parse %s: %w", path, err)
	}
	return list, nil
}

// WriteFile writes a word list back to disk, creating parent directories.
// Used by the authoring CLI; the game itself never writes the dataset.
func WriteFile(path string, list []Word) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("words: mkdir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("words: marshal dataset: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("words: write %s: %w", path, err)
	}
	return nil
}

// Manifest maps word ids to their audio asset references. Regenerated by the
// authoring CLI whenever the dataset changes; consumed by front ends that
// resolve and play audio.
type Manifest map[string]string

// BuildManifest derives the audio manifest from a word list.
func BuildManifest(list []Word) Manifest {
	m := make(Manifest, len(list))
	for _, w := range list {
		if w.AudioURI != "" {
			m[w.ID] = w.AudioURI
		}
	}
	return m
}

// WriteManifest writes the derived manifest.json next to the dataset.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("words: marshal manifest: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("words: write %s: %w", path, err)
	}
	return nil
}

// userWordsPath returns ~/.kotoba/words.json, or empty if home is unavailable.
func userWordsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kotoba", "words.json")
}
