package run

import (
	"testing"
	"time"
)

func TestRewardCoins(t *testing.T) {
	cfg := DefaultRewardConfig()

	tests := []struct {
		name      string
		solveTime time.Duration
		expected  int
	}{
		{"instant solve", 0, 15},
		{"just under threshold", 4999 * time.Millisecond, 15},
		{"exactly at threshold", 5000 * time.Millisecond, 15},
		{"just over threshold", 5001 * time.Millisecond, 10},
		{"slow solve", 30 * time.Second, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := cfg.Coins(tc.solveTime); got != tc.expected {
				t.Errorf("Coins(%v) = %d, expected %d", tc.solveTime, got, tc.expected)
			}
		})
	}
}

func TestRewardCustomTuning(t *testing.T) {
	cfg := RewardConfig{Base: 20, SpeedBonus: 10, SpeedThreshold: 3 * time.Second}

	if got := cfg.Coins(2 * time.Second); got != 30 {
		t.Errorf("Coins(2s) = %d, expected 30", got)
	}
	if got := cfg.Coins(4 * time.Second); got != 20 {
		t.Errorf("Coins(4s) = %d, expected 20", got)
	}
}
