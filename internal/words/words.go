// Package words provides the read-only vocabulary repository backing
// puzzle generation. Words are loaded once at startup; the repository is
// never mutated during a run (the authoring CLI appends between sessions).
package words

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// Word is a single immutable vocabulary entry.
type Word struct {
	ID         string   `json:"id"`
	Hiragana   []string `json:"hiragana"` // Ordered single-character graphemes
	Romaji     string   `json:"romaji"`
	Japanese   string   `json:"japanese"`
	AudioURI   string   `json:"audioUri"` // Asset reference, resolved by front ends
	Difficulty int      `json:"difficulty"`
	Similar    []string `json:"similar,omitempty"` // IDs of acoustically confusable words
}

// HasSimilar reports whether the word has at least one similar partner.
func (w Word) HasSimilar() bool {
	return len(w.Similar) > 0
}

var (
	// ErrEmptyRepository is returned when a random pick is requested from a
	// repository with no words. Fatal to run start.
	ErrEmptyRepository = errors.New("words: repository is empty")

	// ErrNoEligibleWord is returned when no word satisfies the requested
	// predicate (e.g. no word has a similar partner). Fatal to generation.
	ErrNoEligibleWord = errors.New("words: no eligible word")

	// ErrNotFound is returned by ByID for unknown ids.
	ErrNotFound = errors.New("words: word not found")
)

// Repository is a read-only, seedable collection of words. The word data
// itself is immutable; the mutex only guards the shared RNG, since one
// repository serves every concurrent session.
type Repository struct {
	words   []Word
	byID    map[string]Word
	similar []Word // Words with a non-empty similar list

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewRepository builds a repository over the given words.
// Seed 0 is allowed; callers wanting time-based randomness seed explicitly.
func NewRepository(list []Word, seed int64) *Repository {
	r := &Repository{
		words: list,
		byID:  make(map[string]Word, len(list)),
		rng:   rand.New(rand.NewSource(seed)),
	}
	for _, w := range list {
		r.byID[w.ID] = w
		if w.HasSimilar() {
			r.similar = append(r.similar, w)
		}
	}
	return r
}

// Len returns the number of words in the repository.
func (r *Repository) Len() int {
	return len(r.words)
}

// ByID looks up a word by id.
func (r *Repository) ByID(id string) (Word, error) {
	w, ok := r.byID[id]
	if !ok {
		return Word{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return w, nil
}

// Random picks a uniformly random word.
func (r *Repository) Random() (Word, error) {
	if len(r.words) == 0 {
		return Word{}, ErrEmptyRepository
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.words[r.rng.Intn(len(r.words))], nil
}

// RandomExcluding picks a random word whose id differs from excludeID,
// avoiding immediate repeats between consecutive puzzles. Falls back to
// Random when the repository holds a single word.
func (r *Repository) RandomExcluding(excludeID string) (Word, error) {
	if len(r.words) == 0 {
		return Word{}, ErrEmptyRepository
	}
	if len(r.words) == 1 || excludeID == "" {
		return r.Random()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		w := r.words[r.rng.Intn(len(r.words))]
		if w.ID != excludeID {
			return w, nil
		}
	}
}

// RandomWithSimilar picks a random word that has at least one similar
// partner. Returns ErrNoEligibleWord if no such word exists; callers must
// propagate this rather than degrade to another puzzle kind silently.
func (r *Repository) RandomWithSimilar() (Word, error) {
	if len(r.words) == 0 {
		return Word{}, ErrEmptyRepository
	}
	if len(r.similar) == 0 {
		return Word{}, ErrNoEligibleWord
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.similar[r.rng.Intn(len(r.similar))], nil
}

// RandomN returns up to count distinct random words, optionally excluding
// one id. Used to supply distractor options for choice puzzles.
// The returned order is a seeded shuffle, stable for a given repository seed.
func (r *Repository) RandomN(count int, excludeID string) []Word {
	pool := make([]Word, 0, len(r.words))
	for _, w := range r.words {
		if w.ID != excludeID {
			pool = append(pool, w)
		}
	}
	r.mu.Lock()
	r.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	r.mu.Unlock()
	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count]
}

// All returns the backing word list. The slice must not be mutated.
func (r *Repository) All() []Word {
	return r.words
}

// Validate checks dataset integrity: every word has a unique id and at
// least one hiragana grapheme, and every similar reference resolves to a
// known word.
func (r *Repository) Validate() error {
	seen := make(map[string]bool, len(r.words))
	for _, w := range r.words {
		if w.ID == "" {
			return fmt.Errorf("words: word %q has empty id", w.Romaji)
		}
		if seen[w.ID] {
			return fmt.Errorf("words: duplicate word id %q", w.ID)
		}
		seen[w.ID] = true
		if len(w.Hiragana) == 0 {
			return fmt.Errorf("words: word %s has no hiragana", w.ID)
		}
		for _, sid := range w.Similar {
			if _, ok := r.byID[sid]; !ok {
				return fmt.Errorf("words: word %s references unknown similar word %q", w.ID, sid)
			}
		}
	}
	return nil
}
