// Package config holds the declarative run configuration for the arena:
// the payoff matrix, the strategy roster, match length and execution
// tuning. Everything is validated and resolved to builders before any
// match runs, so a bad configuration can never produce a partial
// tournament.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/MRamiBalles/TorneoGemelos/sim/internal/domain/game"
	"github.com/MRamiBalles/TorneoGemelos/sim/internal/strategy"
)

// StrategySpec declares one roster entry: a kind plus its numeric
// parameters. Parameters not used by the kind are ignored.
type StrategySpec struct {
	Kind   string             `json:"kind"`
	Params map[string]float64 `json:"params,omitempty"`
}

func (s StrategySpec) param(name string, def float64) float64 {
	if v, ok := s.Params[name]; ok {
		return v
	}
	return def
}

// Config is the full run configuration.
type Config struct {
	ListenAddr   string         `json:"listen_addr"`
	DatabasePath string         `json:"database_path"`
	Rounds       int            `json:"rounds"`
	Seed         int64          `json:"seed"`
	SelfPlay     bool           `json:"self_play"`
	Workers      int            `json:"workers"`
	Payoffs      game.Payoffs   `json:"payoffs"`
	Roster       []StrategySpec `json:"roster"`
}

// Default returns a runnable configuration: the Axelrod matrix,
// 100-round matches and the classic roster.
func Default() *Config {
	return &Config{
		ListenAddr:   ":8080",
		DatabasePath: "arena.db",
		Rounds:       100,
		Workers:      runtime.NumCPU(),
		Payoffs:      game.Axelrod,
		Roster: []StrategySpec{
			{Kind: "cooperator"},
			{Kind: "defector"},
			{Kind: "random"},
			{Kind: "tit_for_tat"},
			{Kind: "suspicious_tit_for_tat"},
			{Kind: "generous_tit_for_tat"},
			{Kind: "gradual_tit_for_tat"},
			{Kind: "tit_for_two_tats"},
			{Kind: "two_tits_for_tat"},
			{Kind: "omega_tft"},
			{Kind: "grim_trigger"},
			{Kind: "pavlov"},
			{Kind: "adaptive_pavlov"},
			{Kind: "zd_extortionate", Params: map[string]float64{"chi": 2}},
			{Kind: "zd_generous", Params: map[string]float64{"chi": 2}},
		},
	}
}

// Load reads and validates a JSON configuration file. Fields absent
// from the file keep their Default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks everything that can fail without building strategies.
func (c *Config) Validate() error {
	if err := c.Payoffs.Validate(); err != nil {
		return err
	}
	if c.Rounds < 1 {
		return fmt.Errorf("%w: rounds=%d", game.ErrInvalidRoundCount, c.Rounds)
	}
	if len(c.Roster) < 2 {
		return fmt.Errorf("roster needs at least 2 strategies, got %d", len(c.Roster))
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

// Builders resolves the roster into validated strategy builders. Any
// malformed entry fails here, before a single match is scheduled.
func (c *Config) Builders() ([]strategy.Builder, error) {
	builders := make([]strategy.Builder, 0, len(c.Roster))
	for i, spec := range c.Roster {
		b, err := c.resolve(spec)
		if err != nil {
			return nil, fmt.Errorf("roster entry %d (%s): %w", i, spec.Kind, err)
		}
		builders = append(builders, b)
	}
	return builders, nil
}

func (c *Config) resolve(spec StrategySpec) (strategy.Builder, error) {
	switch spec.Kind {
	case "cooperator":
		return strategy.Cooperator(), nil
	case "defector":
		return strategy.Defector(), nil
	case "random":
		return strategy.Random(), nil
	case "probability_cooperator":
		return strategy.ProbabilityCooperator(spec.param("p", 0.5))
	case "tit_for_tat":
		return strategy.TitForTat(), nil
	case "suspicious_tit_for_tat":
		return strategy.SuspiciousTitForTat(), nil
	case "generous_tit_for_tat":
		return strategy.GenerousTitForTat(c.Payoffs)
	case "gradual_tit_for_tat":
		return strategy.GradualTitForTat(), nil
	case "imperfect_tit_for_tat":
		return strategy.ImperfectTitForTat(spec.param("error_rate", 0.05))
	case "tit_for_two_tats":
		return strategy.TitForTwoTats(), nil
	case "two_tits_for_tat":
		return strategy.TwoTitsForTat(), nil
	case "omega_tft":
		return strategy.OmegaTFT(
			int(spec.param("deadlock_threshold", 0)),
			int(spec.param("randomness_threshold", 0))), nil
	case "grim_trigger":
		return strategy.GrimTrigger(), nil
	case "discriminating_altruist":
		return strategy.DiscriminatingAltruist(), nil
	case "pavlov":
		return strategy.Pavlov(), nil
	case "adaptive_pavlov":
		return strategy.AdaptivePavlov(), nil
	case "reactive":
		return strategy.Reactive(
			spec.param("y", 0.5), spec.param("p", 1), spec.param("q", 0))
	case "memory_one":
		return strategy.MemoryOne(
			spec.param("p", 1), spec.param("q", 0),
			spec.param("r", 0), spec.param("s", 1),
			spec.param("opening", 1))
	case "zd_equalizer":
		return strategy.NewZD(c.Payoffs, strategy.ZDEqualizer,
			spec.param("target", 2), spec.param("phi", 0))
	case "zd_extortionate":
		return strategy.NewZD(c.Payoffs, strategy.ZDExtortionate,
			spec.param("chi", 2), spec.param("phi", 0))
	case "zd_generous":
		return strategy.NewZD(c.Payoffs, strategy.ZDGenerous,
			spec.param("chi", 2), spec.param("phi", 0))
	case "zd_good":
		return strategy.NewZD(c.Payoffs, strategy.ZDGood, 0, spec.param("phi", 0))
	default:
		return strategy.Builder{}, fmt.Errorf("unknown strategy kind %q", spec.Kind)
	}
}
