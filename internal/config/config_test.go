package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayatsuji/kotoba-run/internal/run"
)

func TestLoadEmbeddedDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := DefaultGameConfig()
	if cfg.Rules != want.Rules {
		t.Errorf("Rules = %+v, expected %+v", cfg.Rules, want.Rules)
	}
	if cfg.Rewards != want.Rewards {
		t.Errorf("Rewards = %+v, expected %+v", cfg.Rewards, want.Rewards)
	}
	if cfg.Generator != want.Generator {
		t.Errorf("Generator = %+v, expected %+v", cfg.Generator, want.Generator)
	}
}

func TestLoadCustomPath(t *testing.T) {
	yaml := `
rules:
  starting_lives: 2
  max_lives: 4
  life_cost: 30
rewards:
  base: 20
  speed_bonus: 10
  speed_threshold_ms: 4000
generator:
  weights:
    match_audio: 50
    build_word: 25
    discriminate: 25
  sequence_length: 25
  option_count: 3
`
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Rules.StartingLives != 2 || cfg.Rules.LifeCost != 30 {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if cfg.Rewards.Base != 20 || cfg.Rewards.SpeedThresholdMs != 4000 {
		t.Errorf("Rewards = %+v", cfg.Rewards)
	}
	if cfg.Generator.SequenceLength != 25 || cfg.Generator.Weights.MatchAudio != 50 {
		t.Errorf("Generator = %+v", cfg.Generator)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() succeeded with a missing explicit path")
	}
}

func TestRunConfigConversion(t *testing.T) {
	cfg := DefaultGameConfig()
	rc := cfg.RunConfig()

	if rc.StartingLives != 1 || rc.MaxLives != 3 || rc.LifeCost != 50 {
		t.Errorf("run.Config rules = %+v", rc)
	}
	if rc.SequenceLength != 50 || rc.OptionCount != 4 {
		t.Errorf("run.Config generator = %+v", rc)
	}
	if rc.Reward.Base != 10 || rc.Reward.SpeedBonus != 5 {
		t.Errorf("run.Config reward = %+v", rc.Reward)
	}
	if rc.Reward.SpeedThreshold != 5*time.Second {
		t.Errorf("SpeedThreshold = %v, expected 5s", rc.Reward.SpeedThreshold)
	}
}

func TestKindWeightsConversion(t *testing.T) {
	cfg := DefaultGameConfig()
	w := cfg.KindWeights()

	if w[run.KindMatchAudio] != 40 || w[run.KindBuildWord] != 30 || w[run.KindDiscriminate] != 30 {
		t.Errorf("KindWeights = %v", w)
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		name          string
		preset        DifficultyPreset
		startingLives int
		maxLives      int
		thresholdMs   int
	}{
		{"easy", DifficultyEasy, 3, 5, 8000},
		{"normal keeps defaults", DifficultyNormal, 1, 3, 5000},
		{"hard", DifficultyHard, 1, 2, 3000},
		{"unknown keeps defaults", DifficultyPreset("nightmare"), 1, 3, 5000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultGameConfig()
			ApplyPreset(&cfg, tc.preset)

			if cfg.Rules.StartingLives != tc.startingLives {
				t.Errorf("StartingLives = %d, expected %d", cfg.Rules.StartingLives, tc.startingLives)
			}
			if cfg.Rules.MaxLives != tc.maxLives {
				t.Errorf("MaxLives = %d, expected %d", cfg.Rules.MaxLives, tc.maxLives)
			}
			if cfg.Rewards.SpeedThresholdMs != tc.thresholdMs {
				t.Errorf("SpeedThresholdMs = %d, expected %d", cfg.Rewards.SpeedThresholdMs, tc.thresholdMs)
			}
		})
	}
}
