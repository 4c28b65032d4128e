package meta

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file and parent directory were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestFreshStoreIsZero(t *testing.T) {
	store := openTestStore(t)

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if st.BestRun != 0 || st.TotalCoins != 0 || len(st.Unlocks) != 0 {
		t.Errorf("fresh state not zero: %+v", st)
	}
}

func TestBestRunOnlyRises(t *testing.T) {
	store := openTestStore(t)

	if err := store.UpdateBestRun(12); err != nil {
		t.Fatalf("UpdateBestRun() failed: %v", err)
	}
	if err := store.UpdateBestRun(5); err != nil {
		t.Fatalf("UpdateBestRun() failed: %v", err)
	}

	best, err := store.BestRun()
	if err != nil {
		t.Fatalf("BestRun() failed: %v", err)
	}
	if best != 12 {
		t.Errorf("BestRun = %d, expected 12 (lower value must not overwrite)", best)
	}

	if err := store.UpdateBestRun(20); err != nil {
		t.Fatalf("UpdateBestRun() failed: %v", err)
	}
	if best, _ := store.BestRun(); best != 20 {
		t.Errorf("BestRun = %d, expected 20", best)
	}
}

func TestAddCoinsAccumulates(t *testing.T) {
	store := openTestStore(t)

	if err := store.AddCoins(30); err != nil {
		t.Fatalf("AddCoins() failed: %v", err)
	}
	if err := store.AddCoins(45); err != nil {
		t.Fatalf("AddCoins() failed: %v", err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if st.TotalCoins != 75 {
		t.Errorf("TotalCoins = %d, expected 75", st.TotalCoins)
	}
}

func TestAddUnlockIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.AddUnlock("theme_sakura"); err != nil {
			t.Fatalf("AddUnlock() failed: %v", err)
		}
	}
	if err := store.AddUnlock("voice_pack_2"); err != nil {
		t.Fatalf("AddUnlock() failed: %v", err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(st.Unlocks) != 2 {
		t.Errorf("got %d unlocks, expected 2: %v", len(st.Unlocks), st.Unlocks)
	}
}

func TestSaveAndListRuns(t *testing.T) {
	store := openTestStore(t)

	records := []RunRecord{
		{Puzzles: 3, Coins: 40, MistakeWordID: "kitte"},
		{Puzzles: 10, Coins: 135, MistakeWordID: ""},
		{Puzzles: 7, Coins: 90, MistakeWordID: "obasan"},
	}
	for _, rec := range records {
		if _, err := store.SaveRun(rec); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, expected 3", len(runs))
	}

	// Newest first
	if runs[0].Puzzles != 7 || runs[0].MistakeWordID != "obasan" {
		t.Errorf("newest run = %+v, expected the obasan run", runs[0])
	}
	if runs[2].Puzzles != 3 {
		t.Errorf("oldest run = %+v, expected the kitte run", runs[2])
	}

	limited, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns(2) failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("got %d runs with limit 2", len(limited))
	}
}

func TestRecordRunEnd(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordRunEnd(RunRecord{Puzzles: 8, Coins: 105, MistakeWordID: "kiite"}); err != nil {
		t.Fatalf("RecordRunEnd() failed: %v", err)
	}
	if err := store.RecordRunEnd(RunRecord{Puzzles: 4, Coins: 55}); err != nil {
		t.Fatalf("RecordRunEnd() failed: %v", err)
	}

	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if st.BestRun != 8 {
		t.Errorf("BestRun = %d, expected 8", st.BestRun)
	}
	if st.TotalCoins != 160 {
		t.Errorf("TotalCoins = %d, expected 160", st.TotalCoins)
	}

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d history entries, expected 2", len(runs))
	}
}

func TestImportLegacy(t *testing.T) {
	store := openTestStore(t)

	blob := `{"bestRun": 15, "totalCoins": 420, "unlocks": ["theme_sakura"]}`
	path := filepath.Join(t.TempDir(), "meta.json")
	if err := os.WriteFile(path, []byte(blob), 0o644); err != nil {
		t.Fatalf("cannot write legacy blob: %v", err)
	}

	st, err := store.ImportLegacy(path)
	if err != nil {
		t.Fatalf("ImportLegacy() failed: %v", err)
	}
	if st.BestRun != 15 || st.TotalCoins != 420 || len(st.Unlocks) != 1 {
		t.Errorf("imported state = %+v", st)
	}

	// Unlocks merge idempotently; best run stays monotone. Coins are the
	// exception: the blob is a snapshot, so a second import double-counts
	// and callers import once.
	st, err = store.ImportLegacy(path)
	if err != nil {
		t.Fatalf("second ImportLegacy() failed: %v", err)
	}
	if st.BestRun != 15 {
		t.Errorf("BestRun = %d after reimport, expected 15", st.BestRun)
	}
	if len(st.Unlocks) != 1 {
		t.Errorf("unlocks duplicated on reimport: %v", st.Unlocks)
	}
}

func TestImportLegacyRejectsGarbage(t *testing.T) {
	store := openTestStore(t)

	path := filepath.Join(t.TempDir(), "meta.json")
	if err := os.WriteFile(path, []byte(`{"bestRun": -3}`), 0o644); err != nil {
		t.Fatalf("cannot write legacy blob: %v", err)
	}

	if _, err := store.ImportLegacy(path); err == nil {
		t.Error("ImportLegacy() accepted negative aggregates")
	}
	if _, err := store.ImportLegacy(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("ImportLegacy() accepted a missing file")
	}
}
