package compile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"qtermopt/route"
)

// Config is the file form of Options plus the inputs the CLI needs.
type Config struct {
	// Passes toggles the optimisation passes.
	Passes PassConfig `json:"passes" yaml:"passes"`

	// Order is "cancel-first" or "route-first".
	Order string `json:"order" yaml:"order"`

	// Strategy is "greedy" or "rank".
	Strategy string `json:"strategy" yaml:"strategy"`

	// Fidelity is the path of a fidelity model file, resolved by the caller.
	Fidelity string `json:"fidelity" yaml:"fidelity"`

	// Concurrency bounds Batch; zero or less means one job per CPU.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// PassConfig enables individual passes.
type PassConfig struct {
	Cancel bool `json:"cancel" yaml:"cancel"`
	Route  bool `json:"route" yaml:"route"`
}

// DefaultConfig mirrors DefaultOptions.
func DefaultConfig() Config {
	return Config{
		Passes:   PassConfig{Cancel: true, Route: true},
		Order:    string(CancelFirst),
		Strategy: string(route.StrategyGreedy),
	}
}

// LoadConfig reads a YAML config file over DefaultConfig; keys absent from
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Options validates the config and converts it.
func (c Config) Options() (Options, error) {
	order, err := ParseOrder(c.Order)
	if err != nil {
		return Options{}, err
	}
	strategy, err := route.ParseStrategy(c.Strategy)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Cancel:   c.Passes.Cancel,
		Route:    c.Passes.Route,
		Order:    order,
		Strategy: strategy,
	}, nil
}
