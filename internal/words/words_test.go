package words

import (
	"errors"
	"testing"
)

func fixtureList() []Word {
	return []Word{
		{ID: "neko", Hiragana: []string{"ね", "こ"}, Romaji: "neko", Japanese: "猫", Difficulty: 1},
		{ID: "inu", Hiragana: []string{"い", "ぬ"}, Romaji: "inu", Japanese: "犬", Difficulty: 1},
		{ID: "mizu", Hiragana: []string{"み", "ず"}, Romaji: "mizu", Japanese: "水", Difficulty: 1},
		{ID: "kitte", Hiragana: []string{"き", "っ", "て"}, Romaji: "kitte", Japanese: "切手", Difficulty: 2, Similar: []string{"kiite"}},
		{ID: "kiite", Hiragana: []string{"き", "い", "て"}, Romaji: "kiite", Japanese: "聞いて", Difficulty: 2, Similar: []string{"kitte"}},
	}
}

func TestByID(t *testing.T) {
	repo := NewRepository(fixtureList(), 1)

	w, err := repo.ByID("neko")
	if err != nil {
		t.Fatalf("ByID(neko) failed: %v", err)
	}
	if w.Romaji != "neko" {
		t.Errorf("ByID returned wrong word: %+v", w)
	}

	if _, err := repo.ByID("zou"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ByID(zou) = %v, expected ErrNotFound", err)
	}
}

func TestRandomFromEmptyRepository(t *testing.T) {
	repo := NewRepository(nil, 1)

	if _, err := repo.Random(); !errors.Is(err, ErrEmptyRepository) {
		t.Errorf("Random() = %v, expected ErrEmptyRepository", err)
	}
	if _, err := repo.RandomExcluding("neko"); !errors.Is(err, ErrEmptyRepository) {
		t.Errorf("RandomExcluding() = %v, expected ErrEmptyRepository", err)
	}
	if _, err := repo.RandomWithSimilar(); !errors.Is(err, ErrEmptyRepository) {
		t.Errorf("RandomWithSimilar() = %v, expected ErrEmptyRepository", err)
	}
}

func TestRandomExcluding(t *testing.T) {
	repo := NewRepository(fixtureList(), 1)

	for i := 0; i < 100; i++ {
		w, err := repo.RandomExcluding("neko")
		if err != nil {
			t.Fatalf("RandomExcluding() failed: %v", err)
		}
		if w.ID == "neko" {
			t.Fatal("RandomExcluding returned the excluded word")
		}
	}
}

func TestRandomExcludingSingleWord(t *testing.T) {
	repo := NewRepository(fixtureList()[:1], 1)

	// With one word the exclusion cannot be honored; repeats are allowed
	w, err := repo.RandomExcluding("neko")
	if err != nil {
		t.Fatalf("RandomExcluding() failed: %v", err)
	}
	if w.ID != "neko" {
		t.Errorf("got %s from a single-word repository", w.ID)
	}
}

func TestRandomWithSimilar(t *testing.T) {
	repo := NewRepository(fixtureList(), 1)

	for i := 0; i < 50; i++ {
		w, err := repo.RandomWithSimilar()
		if err != nil {
			t.Fatalf("RandomWithSimilar() failed: %v", err)
		}
		if !w.HasSimilar() {
			t.Fatalf("RandomWithSimilar returned %s without a partner", w.ID)
		}
	}
}

func TestRandomWithSimilarNoneEligible(t *testing.T) {
	repo := NewRepository(fixtureList()[:3], 1)

	if _, err := repo.RandomWithSimilar(); !errors.Is(err, ErrNoEligibleWord) {
		t.Errorf("RandomWithSimilar() = %v, expected ErrNoEligibleWord", err)
	}
}

func TestRandomN(t *testing.T) {
	repo := NewRepository(fixtureList(), 1)

	got := repo.RandomN(3, "neko")
	if len(got) != 3 {
		t.Fatalf("RandomN(3) returned %d words", len(got))
	}
	seen := make(map[string]bool)
	for _, w := range got {
		if w.ID == "neko" {
			t.Error("RandomN returned the excluded word")
		}
		if seen[w.ID] {
			t.Errorf("RandomN returned %s twice", w.ID)
		}
		seen[w.ID] = true
	}

	// Requesting more than available clamps
	if got := repo.RandomN(10, ""); len(got) != 5 {
		t.Errorf("RandomN(10) returned %d words, expected all 5", len(got))
	}
}

func TestValidateDataset(t *testing.T) {
	tests := []struct {
		name    string
		list    []Word
		wantErr bool
	}{
		{
			name:    "valid dataset",
			list:    fixtureList(),
			wantErr: false,
		},
		{
			name: "empty id",
			list: []Word{
				{ID: "", Hiragana: []string{"ね"}, Romaji: "ne"},
			},
			wantErr: true,
		},
		{
			name: "no hiragana",
			list: []Word{
				{ID: "neko", Romaji: "neko"},
			},
			wantErr: true,
		},
		{
			name: "dangling similar reference",
			list: []Word{
				{ID: "kitte", Hiragana: []string{"き"}, Romaji: "kitte", Similar: []string{"kiite"}},
			},
			wantErr: true,
		},
		{
			// Duplicate ids would make RandomExcluding spin forever on a
			// two-entry dataset, so the dataset must be rejected up front.
			name: "duplicate id",
			list: []Word{
				{ID: "neko", Hiragana: []string{"ね", "こ"}, Romaji: "neko"},
				{ID: "neko", Hiragana: []string{"ね", "こ"}, Romaji: "neko"},
			},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewRepository(tc.list, 1).Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate() passed an invalid dataset")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() failed: %v", err)
			}
		})
	}
}
