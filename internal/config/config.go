package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig holds the server-side pacing knobs and the gamerule preset new
// matches start from.
type GameConfig struct {
	// DealIntervalMs is the pause between three-card deal groups.
	DealIntervalMs int `json:"deal_interval_ms"`
	// TrickSettleDelayMs keeps a full trick on the table before capture.
	TrickSettleDelayMs int `json:"trick_settle_delay_ms"`
	// TurnDurationSeconds bounds how long a seat may think.
	TurnDurationSeconds int `json:"turn_duration_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before
	// filling empty seats with bots.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
	// DefaultRules overrides individual gamerule defaults for new matches.
	DefaultRules map[string]any `json:"default_rules"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, with safe defaults
// when no file was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return &GameConfig{
			DealIntervalMs:          400,
			TrickSettleDelayMs:      1500,
			TurnDurationSeconds:     60,
			BotAutoFillDelaySeconds: 10,
		}
	}
	return cfg
}
