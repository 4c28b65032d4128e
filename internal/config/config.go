// Package config provides YAML-based game configuration loading and
// difficulty presets for the vocabulary roguelike.
package config

// GameConfig contains all tunable rules for a run.
type GameConfig struct {
	Rules     RulesConfig     `yaml:"rules"`
	Rewards   RewardsConfig   `yaml:"rewards"`
	Generator GeneratorConfig `yaml:"generator"`
}

// RulesConfig defines lives and the shop.
type RulesConfig struct {
	StartingLives int `yaml:"starting_lives"`
	MaxLives      int `yaml:"max_lives"`
	LifeCost      int `yaml:"life_cost"`
}

// RewardsConfig defines coin rewards for correct answers.
type RewardsConfig struct {
	Base             int `yaml:"base"`
	SpeedBonus       int `yaml:"speed_bonus"`
	SpeedThresholdMs int `yaml:"speed_threshold_ms"`
}

// GeneratorConfig defines puzzle-kind weighting and sequencing.
type GeneratorConfig struct {
	Weights        WeightsConfig `yaml:"weights"`
	SequenceLength int           `yaml:"sequence_length"` // 0 disables the planned sequence
	OptionCount    int           `yaml:"option_count"`
}

// WeightsConfig holds the relative draw weight of each puzzle kind.
type WeightsConfig struct {
	MatchAudio   int `yaml:"match_audio"`
	BuildWord    int `yaml:"build_word"`
	Discriminate int `yaml:"discriminate"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ApplyPreset adjusts the config for a difficulty preset. Easy grants more
// starting lives and a lenient speed window; hard is the classic
// one-mistake roguelike with a tight window.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.StartingLives = 3
		cfg.Rules.MaxLives = 5
		cfg.Rewards.SpeedThresholdMs = 8000
	case DifficultyHard:
		cfg.Rules.StartingLives = 1
		cfg.Rules.MaxLives = 2
		cfg.Rewards.SpeedThresholdMs = 3000
	}
}
