package words

import (
	"path/filepath"
	"testing"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	repo, err := Load("", 1)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if repo.Len() == 0 {
		t.Fatal("default dataset is empty")
	}

	// The shipped dataset must be able to serve every puzzle kind
	if _, err := repo.RandomWithSimilar(); err != nil {
		t.Errorf("default dataset has no similar pairs: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	if err := WriteFile(path, fixtureList()); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	repo, err := Load(path, 1)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if repo.Len() != len(fixtureList()) {
		t.Errorf("loaded %d words, expected %d", repo.Len(), len(fixtureList()))
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json"), 1); err == nil {
		t.Error("Load() succeeded with a missing explicit path")
	}
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "words.json")
	original := fixtureList()

	if err := WriteFile(path, original); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if len(got) != len(original) {
		t.Fatalf("read back %d words, expected %d", len(got), len(original))
	}
	for i := range got {
		if got[i].ID != original[i].ID || got[i].Romaji != original[i].Romaji {
			t.Errorf("word %d mismatch: %+v vs %+v", i, got[i], original[i])
		}
	}
}

func TestBuildManifest(t *testing.T) {
	list := []Word{
		{ID: "neko", Hiragana: []string{"ね"}, AudioURI: "neko.mp3"},
		{ID: "inu", Hiragana: []string{"い"}, AudioURI: "inu.mp3"},
		{ID: "silent", Hiragana: []string{"し"}},
	}

	m := BuildManifest(list)
	if len(m) != 2 {
		t.Fatalf("manifest has %d entries, expected 2", len(m))
	}
	if m["neko"] != "neko.mp3" || m["inu"] != "inu.mp3" {
		t.Errorf("unexpected manifest: %v", m)
	}
	if _, ok := m["silent"]; ok {
		t.Error("word without audio ended up in the manifest")
	}

	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(path, m); err != nil {
		t.Fatalf("WriteManifest() failed: %v", err)
	}
}
