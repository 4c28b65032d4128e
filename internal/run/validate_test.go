package run

import (
	"testing"

	"github.com/ayatsuji/kotoba-run/internal/words"
)

func TestValidate(t *testing.T) {
	sakana := &words.Word{ID: "sakana", Hiragana: []string{"さ", "か", "な"}, Romaji: "sakana"}

	tests := []struct {
		name     string
		puzzle   Puzzle
		word     *words.Word
		answer   Answer
		expected bool
	}{
		{
			name:     "match correct choice",
			puzzle:   Puzzle{Kind: KindMatchAudio, WordID: "sakana"},
			word:     sakana,
			answer:   ChoiceAnswer("sakana"),
			expected: true,
		},
		{
			name:     "match wrong choice",
			puzzle:   Puzzle{Kind: KindMatchAudio, WordID: "sakana"},
			word:     sakana,
			answer:   ChoiceAnswer("neko"),
			expected: false,
		},
		{
			name:     "match empty choice",
			puzzle:   Puzzle{Kind: KindMatchAudio, WordID: "sakana"},
			word:     sakana,
			answer:   Answer{},
			expected: false,
		},
		{
			name:     "match tiles instead of choice",
			puzzle:   Puzzle{Kind: KindMatchAudio, WordID: "sakana"},
			word:     sakana,
			answer:   TileAnswer([]string{"さ", "か", "な"}),
			expected: false,
		},
		{
			name:     "discriminate correct choice",
			puzzle:   Puzzle{Kind: KindDiscriminate, WordID: "sakana"},
			word:     sakana,
			answer:   ChoiceAnswer("sakana"),
			expected: true,
		},
		{
			name:     "discriminate similar partner chosen",
			puzzle:   Puzzle{Kind: KindDiscriminate, WordID: "sakana"},
			word:     sakana,
			answer:   ChoiceAnswer("sakanaa"),
			expected: false,
		},
		{
			name:     "build exact order",
			puzzle:   Puzzle{Kind: KindBuildWord, WordID: "sakana"},
			word:     sakana,
			answer:   TileAnswer([]string{"さ", "か", "な"}),
			expected: true,
		},
		{
			name:     "build right tiles wrong order",
			puzzle:   Puzzle{Kind: KindBuildWord, WordID: "sakana"},
			word:     sakana,
			answer:   TileAnswer([]string{"さ", "な", "か"}),
			expected: false,
		},
		{
			name:     "build too few tiles",
			puzzle:   Puzzle{Kind: KindBuildWord, WordID: "sakana"},
			word:     sakana,
			answer:   TileAnswer([]string{"さ", "か"}),
			expected: false,
		},
		{
			name:     "build too many tiles",
			puzzle:   Puzzle{Kind: KindBuildWord, WordID: "sakana"},
			word:     sakana,
			answer:   TileAnswer([]string{"さ", "か", "な", "な"}),
			expected: false,
		},
		{
			name:     "build nil tiles",
			puzzle:   Puzzle{Kind: KindBuildWord, WordID: "sakana"},
			word:     sakana,
			answer:   Answer{},
			expected: false,
		},
		{
			name:     "build choice instead of tiles",
			puzzle:   Puzzle{Kind: KindBuildWord, WordID: "sakana"},
			word:     sakana,
			answer:   ChoiceAnswer("sakana"),
			expected: false,
		},
		{
			name:     "nil word is incorrect",
			puzzle:   Puzzle{Kind: KindMatchAudio, WordID: "sakana"},
			word:     nil,
			answer:   ChoiceAnswer("sakana"),
			expected: false,
		},
		{
			name:     "unknown kind is incorrect",
			puzzle:   Puzzle{Kind: Kind("karaoke"), WordID: "sakana"},
			word:     sakana,
			answer:   ChoiceAnswer("sakana"),
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Validate(tc.puzzle, tc.word, tc.answer); got != tc.expected {
				t.Errorf("Validate() = %v, expected %v", got, tc.expected)
			}
		})
	}
}
