package liquid

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultMaxPerCell is the per-cell liquid cap.
	DefaultMaxPerCell = 7
	// DefaultEvaluationRate is the target throughput in cell evaluations per second.
	DefaultEvaluationRate = 1000.0
	// DefaultEvaporationChance is the chance that a cell's last unit evaporates in transit.
	DefaultEvaporationChance = 0.05
	// DefaultEventQueueSize bounds the injection queue.
	DefaultEventQueueSize = 256

	// maxDisplayAmount keeps 1+amount inside a uint8 palette index.
	maxDisplayAmount = 253
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid liquid config")

// Params holds the flow tunables and the demo world's seeding options.
type Params struct {
	MaxPerCell        int     `yaml:"max_per_cell" mapstructure:"max_per_cell"`
	EvaluationRate    float64 `yaml:"evaluation_rate" mapstructure:"evaluation_rate"`
	EvaporationChance float64 `yaml:"evaporation_chance" mapstructure:"evaporation_chance"`
	EventQueueSize    int     `yaml:"event_queue_size" mapstructure:"event_queue_size"`

	RockChance     float64 `yaml:"rock_chance" mapstructure:"rock_chance"`
	SpringCount    int     `yaml:"spring_count" mapstructure:"spring_count"`
	SpringInterval int     `yaml:"spring_interval" mapstructure:"spring_interval"`
}

// Config controls the liquid world. Keys are flat in every source.
type Config struct {
	Width  int   `yaml:"w" mapstructure:"w"`
	Height int   `yaml:"h" mapstructure:"h"`
	Seed   int64 `yaml:"seed" mapstructure:"seed"`
	TPS    int   `yaml:"tps" mapstructure:"tps"`

	Params Params `yaml:",inline" mapstructure:",squash"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  128,
		Height: 96,
		Seed:   1337,
		TPS:    60,
		Params: Params{
			MaxPerCell:        DefaultMaxPerCell,
			EvaluationRate:    DefaultEvaluationRate,
			EvaporationChance: DefaultEvaporationChance,
			EventQueueSize:    DefaultEventQueueSize,
			RockChance:        0.08,
			SpringCount:       3,
			SpringInterval:    4,
		},
	}
}

// Validate reports the first out-of-range value.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.TPS <= 0:
		return fmt.Errorf("%w: tps %d must be positive", ErrInvalidConfig, c.TPS)
	case c.Params.MaxPerCell < 1 || c.Params.MaxPerCell > maxDisplayAmount:
		return fmt.Errorf("%w: max_per_cell %d outside [1,%d]", ErrInvalidConfig, c.Params.MaxPerCell, maxDisplayAmount)
	case c.Params.EvaluationRate <= 0:
		return fmt.Errorf("%w: evaluation_rate %g must be positive", ErrInvalidConfig, c.Params.EvaluationRate)
	case c.Params.EvaporationChance < 0 || c.Params.EvaporationChance > 1:
		return fmt.Errorf("%w: evaporation_chance %g outside [0,1]", ErrInvalidConfig, c.Params.EvaporationChance)
	case c.Params.EventQueueSize <= 0:
		return fmt.Errorf("%w: event_queue_size %d must be positive", ErrInvalidConfig, c.Params.EventQueueSize)
	case c.Params.RockChance < 0 || c.Params.RockChance > 1:
		return fmt.Errorf("%w: rock_chance %g outside [0,1]", ErrInvalidConfig, c.Params.RockChance)
	case c.Params.SpringCount < 0:
		return fmt.Errorf("%w: spring_count %d is negative", ErrInvalidConfig, c.Params.SpringCount)
	case c.Params.SpringInterval < 1:
		return fmt.Errorf("%w: spring_interval %d must be at least 1", ErrInvalidConfig, c.Params.SpringInterval)
	}
	return nil
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseMap applies flag-style key/value pairs on top of the defaults. Unknown
// keys are rejected.
func ParseMap(kv map[string]string) (Config, error) {
	c := DefaultConfig()
	if len(kv) == 0 {
		return c, nil
	}
	if err := c.Apply(kv); err != nil {
		return DefaultConfig(), err
	}
	return c, nil
}

// Apply decodes kv into c and validates the result.
func (c *Config) Apply(kv map[string]string) error {
	next := *c
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &next,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(kv); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// FromMap populates the config from a string map, falling back to the
// defaults when the map does not parse.
func FromMap(kv map[string]string) Config {
	c, err := ParseMap(kv)
	if err != nil {
		return DefaultConfig()
	}
	return c
}
