// Package config holds the small set of tunable constants the game core
// needs: channel capacities, period timers, and scoring parameters.
// Values default to sane in-process settings and can be overridden via
// PARCELEC_* environment variables, the same convention this codebase's
// other services use for runtime tuning without a config file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level game core configuration.
type Config struct {
	Actors  ActorsConfig  `mapstructure:"actors"`
	Scoring ScoringConfig `mapstructure:"scoring"`
}

// ActorsConfig tunes the concurrency model shared by every actor.
type ActorsConfig struct {
	// InboxCapacity bounds every actor's inbox channel. Spec requires a
	// finite capacity in the hundreds so backpressure propagates via
	// blocking sends instead of unbounded growth.
	InboxCapacity int `mapstructure:"inbox_capacity"`

	// DefaultMarketDuration and DefaultStackDuration are default period
	// timer lengths. The game and scheduler packages do not read them: a
	// game runs with the scheduler.Timers in its own game.Config.
	DefaultMarketDuration time.Duration `mapstructure:"default_market_duration"`
	DefaultStackDuration  time.Duration `mapstructure:"default_stack_duration"`
}

// ScoringConfig holds the imbalance-penalty constants and tier cutoffs
// used by the scoring package.
type ScoringConfig struct {
	PositiveImbalanceCost float64 `mapstructure:"positive_imbalance_cost"`
	NegativeImbalanceCost float64 `mapstructure:"negative_imbalance_cost"`
	TierGold              int     `mapstructure:"tier_gold"`
	TierSilver            int     `mapstructure:"tier_silver"`
	TierBronze            int     `mapstructure:"tier_bronze"`
}

// Default returns the built-in configuration: a 256-message inbox per
// actor, a 10-minute market phase inside a 15-minute period, and an
// imbalance penalty where shortfalls cost more than surpluses, per
// spec.md §4.5 ("negative-imbalance penalty > positive by design").
func Default() Config {
	return Config{
		Actors: ActorsConfig{
			InboxCapacity:         256,
			DefaultMarketDuration: 10 * time.Minute,
			DefaultStackDuration:  15 * time.Minute,
		},
		Scoring: ScoringConfig{
			PositiveImbalanceCost: 10,
			NegativeImbalanceCost: 25,
			TierGold:              1,
			TierSilver:            3,
			TierBronze:            6,
		},
	}
}

// Load builds a Config starting from Default() and overriding any field
// set via a PARCELEC_* environment variable (e.g. PARCELEC_ACTORS_INBOX_CAPACITY).
func Load() (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("PARCELEC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("actors.inbox_capacity", cfg.Actors.InboxCapacity)
	v.SetDefault("actors.default_market_duration", cfg.Actors.DefaultMarketDuration)
	v.SetDefault("actors.default_stack_duration", cfg.Actors.DefaultStackDuration)
	v.SetDefault("scoring.positive_imbalance_cost", cfg.Scoring.PositiveImbalanceCost)
	v.SetDefault("scoring.negative_imbalance_cost", cfg.Scoring.NegativeImbalanceCost)
	v.SetDefault("scoring.tier_gold", cfg.Scoring.TierGold)
	v.SetDefault("scoring.tier_silver", cfg.Scoring.TierSilver)
	v.SetDefault("scoring.tier_bronze", cfg.Scoring.TierBronze)

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
