package config

import (
	_ "embed"
)

//go:embed defaults/game.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the default game configuration.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Rules: RulesConfig{
			StartingLives: 1,
			MaxLives:      3,
			LifeCost:      50,
		},
		Rewards: RewardsConfig{
			Base:             10,
			SpeedBonus:       5,
			SpeedThresholdMs: 5000,
		},
		Generator: GeneratorConfig{
			Weights: WeightsConfig{
				MatchAudio:   40,
				BuildWord:    30,
				Discriminate: 30,
			},
			SequenceLength: 50,
			OptionCount:    4,
		},
	}
}
