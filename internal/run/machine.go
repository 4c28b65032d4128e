package run

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ayatsuji/kotoba-run/internal/words"
)

// Config holds the run rules. The 1-life and multi-life game variants are
// the same machine with different StartingLives/MaxLives.
type Config struct {
	StartingLives  int
	MaxLives       int
	LifeCost       int
	SequenceLength int // Planned puzzle-kind sequence length; 0 draws fresh each advance
	OptionCount    int // Options shown in choice puzzles, target included
	Reward         RewardConfig
}

// DefaultConfig returns the standard run rules.
func DefaultConfig() Config {
	return Config{
		StartingLives:  1,
		MaxLives:       3,
		LifeCost:       50,
		SequenceLength: 50,
		OptionCount:    4,
		Reward:         DefaultRewardConfig(),
	}
}

// ErrNoActivePuzzle is returned when an operation needs an active puzzle
// and there is none: no run in progress, or the current puzzle was already
// solved and not yet advanced past. Callers treat it as a no-op guard.
var ErrNoActivePuzzle = errors.New("run: no active puzzle")

// Machine owns the authoritative state of one run. All operations are
// serialized by an internal mutex, and a solved-but-not-advanced flag keeps
// a double submit from awarding coins twice. UI layers read snapshots and
// call operations; nothing else mutates run state.
type Machine struct {
	mu  sync.Mutex
	gen *Generator
	cfg Config
	now func() time.Time

	active            bool
	puzzleIndex       int
	lives             int
	coins             int
	runCoins          int
	puzzle            *Puzzle
	puzzleStartedAt   time.Time
	planned           []Kind
	lastMistakeWordID string
	solved            bool // Current puzzle answered correctly, awaiting Advance
}

// NewMachine creates an idle machine.
func NewMachine(gen *Generator, cfg Config) *Machine {
	if cfg.StartingLives < 1 {
		cfg.StartingLives = 1
	}
	if cfg.MaxLives < cfg.StartingLives {
		cfg.MaxLives = cfg.StartingLives
	}
	return &Machine{
		gen: gen,
		cfg: cfg,
		now: time.Now,
	}
}

// Start begins a new run: resets counters, pre-draws the planned sequence
// when configured, and generates the first puzzle. Fails only if the word
// repository cannot serve a puzzle.
func (m *Machine) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var planned []Kind
	var first Kind
	if m.cfg.SequenceLength > 0 {
		planned = m.gen.DrawSequence(m.cfg.SequenceLength)
		first = planned[0]
	}

	puzzle, err := m.gen.Generate("", first)
	if err != nil {
		return fmt.Errorf("run: start: %w", err)
	}

	m.active = true
	m.puzzleIndex = 0
	m.lives = m.cfg.StartingLives
	m.coins = 0
	m.runCoins = 0
	m.puzzle = &puzzle
	m.puzzleStartedAt = m.now()
	m.planned = planned
	m.lastMistakeWordID = ""
	m.solved = false
	return nil
}

// Submit judges an answer against the current puzzle.
//
// Correct: the solve-time reward is added to coins and runCoins, and the
// puzzle is marked solved so a second submit fails with ErrNoActivePuzzle
// until Advance.
//
// Incorrect: the mistake word is recorded and one life is lost. The machine
// never ends the run itself; the caller checks LivesLeft and decides.
// The solve timer keeps running across a retry of the same puzzle, so a
// puzzle answered wrong first rarely earns the speed bonus. Time spent on
// the puzzle counts from its first presentation, mistakes included.
func (m *Machine) Submit(answer Answer) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active || m.puzzle == nil || m.solved {
		return Result{}, ErrNoActivePuzzle
	}

	solveTime := m.now().Sub(m.puzzleStartedAt)

	var word *words.Word
	if w, err := m.gen.Word(*m.puzzle); err == nil {
		word = &w
	}

	if !Validate(*m.puzzle, word, answer) {
		m.lastMistakeWordID = m.puzzle.WordID
		if m.lives > 0 {
			m.lives--
		}
		return Result{Correct: false, LivesLeft: m.lives, SolveTime: solveTime}, nil
	}

	earned := m.cfg.Reward.Coins(solveTime)
	m.coins += earned
	m.runCoins += earned
	m.solved = true
	return Result{Correct: true, CoinsEarned: earned, LivesLeft: m.lives, SolveTime: solveTime}, nil
}

// Advance moves to the next puzzle after a correct answer. The kind comes
// from the planned sequence when one exists and still covers the new index;
// the previous word is excluded to avoid an immediate repeat.
func (m *Machine) Advance() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active || m.puzzle == nil || !m.solved {
		return ErrNoActivePuzzle
	}

	next := m.puzzleIndex + 1
	var planned Kind
	if len(m.planned) > next {
		planned = m.planned[next]
	}

	puzzle, err := m.gen.Generate(m.puzzle.WordID, planned)
	if err != nil {
		return fmt.Errorf("run: advance: %w", err)
	}

	m.puzzleIndex = next
	m.puzzle = &puzzle
	m.puzzleStartedAt = m.now()
	m.solved = false
	return nil
}

// PurchaseLife spends coins on an extra life. Returns false without any
// state change when funds are short or lives are at the cap; those are
// expected shop outcomes, not errors.
func (m *Machine) PurchaseLife() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active || m.coins < m.cfg.LifeCost || m.lives >= m.cfg.MaxLives {
		return false
	}
	m.coins -= m.cfg.LifeCost
	m.lives++
	return true
}

// End closes the run. PuzzleIndex, runCoins, and the last mistake survive
// for the run-end screen; the caller forwards (puzzleIndex, runCoins) to
// the meta store exactly once.
func (m *Machine) End() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = false
	m.puzzle = nil
	m.puzzleStartedAt = time.Time{}
	m.solved = false
}

// Reset returns the machine to the idle initial state, clearing the
// planned sequence and last-mistake record.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.active = false
	m.puzzleIndex = 0
	m.lives = 0
	m.coins = 0
	m.runCoins = 0
	m.puzzle = nil
	m.puzzleStartedAt = time.Time{}
	m.planned = nil
	m.lastMistakeWordID = ""
	m.solved = false
}

// Snapshot returns a read-only copy of the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := Snapshot{
		Active:            m.active,
		PuzzleIndex:       m.puzzleIndex,
		Lives:             m.lives,
		MaxLives:          m.cfg.MaxLives,
		Coins:             m.coins,
		RunCoins:          m.runCoins,
		LastMistakeWordID: m.lastMistakeWordID,
	}
	if m.puzzle != nil {
		p := *m.puzzle
		s.Puzzle = &p
	}
	return s
}

// Options builds the shuffled choice list for the current puzzle.
func (m *Machine) Options() ([]Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active || m.puzzle == nil {
		return nil, ErrNoActivePuzzle
	}
	return m.gen.Options(*m.puzzle, m.cfg.OptionCount)
}

// CurrentWord resolves the current puzzle's target word.
func (m *Machine) CurrentWord() (words.Word, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.active || m.puzzle == nil {
		return words.Word{}, ErrNoActivePuzzle
	}
	return m.gen.Word(*m.puzzle)
}

// PlannedSequence returns a copy of the pre-drawn kind timeline, or nil
// when the run draws kinds fresh. The sequence is immutable for the run's
// lifetime; buying a life mid-run never redraws it.
func (m *Machine) PlannedSequence() []Kind {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.planned == nil {
		return nil
	}
	out := make([]Kind, len(m.planned))
	copy(out, m.planned)
	return out
}

// Config returns the run rules the machine was built with.
func (m *Machine) Config() Config {
	return m.cfg
}
