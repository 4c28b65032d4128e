package run

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/ayatsuji/kotoba-run/internal/words"
)

// KindWeights maps each puzzle kind to its draw weight. The weighting is a
// visible configuration constant, not hidden generation logic.
type KindWeights map[Kind]int

// DefaultKindWeights returns the standard 40/30/30 distribution.
func DefaultKindWeights() KindWeights {
	return KindWeights{
		KindMatchAudio:   40,
		KindBuildWord:    30,
		KindDiscriminate: 30,
	}
}

// total sums the weights over the stable kind order.
func (w KindWeights) total() int {
	sum := 0
	for _, k := range Kinds() {
		sum += w[k]
	}
	return sum
}

// Generator produces puzzles from the word repository. It holds no run
// state; the machine passes in everything it needs per call.
type Generator struct {
	repo    *words.Repository
	weights KindWeights
	rng     *rand.Rand
}

// NewGenerator creates a generator with the given weights and RNG seed.
// The seed makes kind draws and option shuffles reproducible in tests.
func NewGenerator(repo *words.Repository, weights KindWeights, seed int64) *Generator {
	if weights == nil || weights.total() <= 0 {
		weights = DefaultKindWeights()
	}
	return &Generator{
		repo:    repo,
		weights: weights,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// DrawKind draws one puzzle kind according to the configured weights.
func (g *Generator) DrawKind() Kind {
	n := g.rng.Intn(g.weights.total())
	for _, k := range Kinds() {
		n -= g.weights[k]
		if n < 0 {
			return k
		}
	}
	return KindMatchAudio
}

// DrawSequence pre-draws a planned sequence of n puzzle kinds. Drawn once at
// run start and read-only for the run's lifetime. A discriminate kind is
// only planned when the repository can actually serve it.
func (g *Generator) DrawSequence(n int) []Kind {
	seq := make([]Kind, n)
	for i := range seq {
		k := g.DrawKind()
		if k == KindDiscriminate {
			if _, err := g.repo.RandomWithSimilar(); err != nil {
				k = KindMatchAudio
			}
		}
		seq[i] = k
	}
	return seq
}

// Generate produces the next puzzle. If plannedKind is empty a kind is
// drawn fresh; prevWordID, when non-empty, is excluded to avoid an
// immediate repeat. Repository errors (empty, no eligible word) propagate.
func (g *Generator) Generate(prevWordID string, plannedKind Kind) (Puzzle, error) {
	kind := plannedKind
	if kind == "" {
		kind = g.DrawKind()
	}

	var (
		word words.Word
		err  error
	)
	if kind == KindDiscriminate {
		word, err = g.repo.RandomWithSimilar()
	} else {
		word, err = g.repo.RandomExcluding(prevWordID)
	}
	if err != nil {
		return Puzzle{}, fmt.Errorf("run: generate %s puzzle: %w", kind, err)
	}

	return Puzzle{
		ID:     uuid.NewString(),
		Kind:   kind,
		WordID: word.ID,
	}, nil
}

// Options builds the shuffled choice list for a choice puzzle: the target
// plus distractors. For a discriminate puzzle the single distractor is the
// word's similar partner; otherwise distractors are random words. The
// shuffle uses the generator's seeded RNG so tests can assert exact order.
func (g *Generator) Options(p Puzzle, count int) ([]Option, error) {
	word, err := g.repo.ByID(p.WordID)
	if err != nil {
		return nil, fmt.Errorf("run: resolve puzzle word: %w", err)
	}

	opts := []Option{{WordID: word.ID, Hiragana: word.Hiragana}}

	if p.Kind == KindDiscriminate {
		if !word.HasSimilar() {
			return nil, fmt.Errorf("run: word %s: %w", word.ID, words.ErrNoEligibleWord)
		}
		partner, err := g.repo.ByID(word.Similar[0])
		if err != nil {
			return nil, fmt.Errorf("run: resolve similar partner: %w", err)
		}
		opts = append(opts, Option{WordID: partner.ID, Hiragana: partner.Hiragana})
	} else {
		for _, d := range g.repo.RandomN(count-1, word.ID) {
			opts = append(opts, Option{WordID: d.ID, Hiragana: d.Hiragana})
		}
	}

	g.rng.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts, nil
}

// Word resolves a puzzle's target word from the repository.
func (g *Generator) Word(p Puzzle) (words.Word, error) {
	return g.repo.ByID(p.WordID)
}
