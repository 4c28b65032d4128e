package run

import "github.com/ayatsuji/kotoba-run/internal/words"

// Validate judges a submitted answer against the puzzle's target word.
// It never returns an error: a missing word, an unknown kind, or an answer
// of the wrong shape are all judged incorrect (rejected input, not a
// system failure).
func Validate(p Puzzle, word *words.Word, answer Answer) bool {
	if word == nil {
		return false
	}

	switch p.Kind {
	case KindMatchAudio, KindDiscriminate:
		return answer.Choice != "" && answer.Choice == p.WordID

	case KindBuildWord:
		if answer.Tiles == nil {
			return false
		}
		if len(answer.Tiles) != len(word.Hiragana) {
			return false
		}
		// Order-sensitive: the right tiles in the wrong order are wrong.
		for i, tile := range answer.Tiles {
			if tile != word.Hiragana[i] {
				return false
			}
		}
		return true

	default:
		return false
	}
}
