package run

import "time"

// RewardConfig holds the coin reward constants. Surfaced as configuration
// rather than hidden in logic so the tuning lives in game.yaml.
type RewardConfig struct {
	Base           int           // Coins for any correct answer
	SpeedBonus     int           // Extra coins for a fast solve
	SpeedThreshold time.Duration // Bonus applies iff solve time <= threshold
}

// DefaultRewardConfig returns the standard reward tuning.
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		Base:           10,
		SpeedBonus:     5,
		SpeedThreshold: 5 * time.Second,
	}
}

// Coins computes the reward for a solve. Deterministic and pure; the
// threshold comparison is inclusive, so a solve exactly at the boundary
// still earns the bonus.
func (c RewardConfig) Coins(solveTime time.Duration) int {
	coins := c.Base
	if solveTime <= c.SpeedThreshold {
		coins += c.SpeedBonus
	}
	return coins
}
