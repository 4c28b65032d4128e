// Package run implements the roguelike run progression: puzzle generation,
// answer validation, coin rewards, and the state machine that owns one run.
package run

import "time"

// Kind tags a puzzle with the rule used to generate and validate it.
type Kind string

const (
	// KindMatchAudio: an audio cue is played and the player picks the
	// matching hiragana among several options. Answer is the chosen word id.
	KindMatchAudio Kind = "match_audio"

	// KindBuildWord: the player reconstructs the word from hiragana tiles.
	// Answer is the ordered grapheme sequence.
	KindBuildWord Kind = "build_word"

	// KindDiscriminate: the player distinguishes the target from an
	// acoustically similar word. Answer is the chosen word id.
	KindDiscriminate Kind = "discriminate"
)

// Kinds lists all puzzle kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindMatchAudio, KindBuildWord, KindDiscriminate}
}

// Puzzle is one unit of gameplay. Immutable once created; the machine
// replaces it on advance rather than mutating it.
type Puzzle struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	WordID string `json:"wordId"`
}

// Answer is a submitted solution. Exactly one field is meaningful per kind:
// Choice for match/discriminate puzzles, Tiles for build puzzles. A shape
// mismatch is judged incorrect, never an error.
type Answer struct {
	Choice string   `json:"choice,omitempty"`
	Tiles  []string `json:"tiles,omitempty"`
}

// ChoiceAnswer wraps a selected option id.
func ChoiceAnswer(wordID string) Answer {
	return Answer{Choice: wordID}
}

// TileAnswer wraps an ordered grapheme sequence.
func TileAnswer(tiles []string) Answer {
	return Answer{Tiles: tiles}
}

// Option is one selectable entry in a choice puzzle.
type Option struct {
	WordID   string   `json:"wordId"`
	Hiragana []string `json:"hiragana"`
}

// Snapshot is a read-only copy of the machine's state, safe to hand to UI
// layers. UI code renders snapshots and calls machine operations; it never
// holds mutable run state of its own.
type Snapshot struct {
	Active            bool    `json:"active"`
	PuzzleIndex       int     `json:"puzzleIndex"`
	Lives             int     `json:"lives"`
	MaxLives          int     `json:"maxLives"`
	Coins             int     `json:"coins"`
	RunCoins          int     `json:"runCoins"`
	Puzzle            *Puzzle `json:"puzzle,omitempty"`
	LastMistakeWordID string  `json:"lastMistakeWordId,omitempty"`
}

// Result reports the outcome of one answer submission.
type Result struct {
	Correct     bool          `json:"correct"`
	CoinsEarned int           `json:"coinsEarned"`
	LivesLeft   int           `json:"livesLeft"`
	SolveTime   time.Duration `json:"-"`
}
