package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayatsuji/kotoba-run/internal/run"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.kotoba/configs/game.yaml -> ./configs/game.yaml -> embedded default
func Load(customPath string) (GameConfig, error) {
	var cfg GameConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("game.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/game.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultGameYAML, &cfg); err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kotoba", "configs", filename)
}

// RunConfig converts the YAML config into the run package's rule set.
func (c GameConfig) RunConfig() run.Config {
	return run.Config{
		StartingLives:  c.Rules.StartingLives,
		MaxLives:       c.Rules.MaxLives,
		LifeCost:       c.Rules.LifeCost,
		SequenceLength: c.Generator.SequenceLength,
		OptionCount:    c.Generator.OptionCount,
		Reward: run.RewardConfig{
			Base:           c.Rewards.Base,
			SpeedBonus:     c.Rewards.SpeedBonus,
			SpeedThreshold: time.Duration(c.Rewards.SpeedThresholdMs) * time.Millisecond,
		},
	}
}

// KindWeights converts the YAML weights into the generator's weight map.
func (c GameConfig) KindWeights() run.KindWeights {
	return run.KindWeights{
		run.KindMatchAudio:   c.Generator.Weights.MatchAudio,
		run.KindBuildWord:    c.Generator.Weights.BuildWord,
		run.KindDiscriminate: c.Generator.Weights.Discriminate,
	}
}
