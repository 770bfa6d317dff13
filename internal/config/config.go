package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultP          = 2
	DefaultAtol       = 1e-8
	DefaultRtol       = 1e-8
	DefaultTInit      = 0.0
	DefaultTFinal     = 1.0
	DefaultInitPoints = 101
	DefaultMaxRounds  = 100
	DefaultOutputDir  = "./output"
)

type Config struct {
	Integrand  string             `yaml:"integrand"`
	P          int                `yaml:"p"`
	Atol       float64            `yaml:"atol"`
	Rtol       float64            `yaml:"rtol"`
	TInit      float64            `yaml:"t_init"`
	TFinal     float64            `yaml:"t_final"`
	InitPoints int                `yaml:"init_points"`
	MinSpacing float64            `yaml:"min_spacing"`
	MaxRounds  int                `yaml:"max_rounds"`
	OutputDir  string             `yaml:"output_dir"`
	Params     map[string]float64 `yaml:"params"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrand:  "sine",
		P:          DefaultP,
		Atol:       DefaultAtol,
		Rtol:       DefaultRtol,
		TInit:      DefaultTInit,
		TFinal:     DefaultTFinal,
		InitPoints: DefaultInitPoints,
		MaxRounds:  DefaultMaxRounds,
		OutputDir:  DefaultOutputDir,
		Params:     map[string]float64{"freq": 20},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize fills unset fields with defaults; presets only spell out the
// values they care about.
func (c *Config) Normalize() {
	if c.P == 0 {
		c.P = DefaultP
	}
	if c.InitPoints == 0 {
		c.InitPoints = DefaultInitPoints
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = DefaultMaxRounds
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
}

func (c *Config) Validate() error {
	if c.Integrand == "" {
		return fmt.Errorf("config: integrand must be set")
	}
	if c.P <= 0 {
		return fmt.Errorf("config: p must be positive, got %d", c.P)
	}
	if c.Atol < 0 || c.Rtol < 0 {
		return fmt.Errorf("config: tolerances must be non-negative, got atol=%g rtol=%g", c.Atol, c.Rtol)
	}
	if c.Atol == 0 && c.Rtol == 0 {
		return fmt.Errorf("config: atol and rtol cannot both be zero")
	}
	if c.TFinal <= c.TInit {
		return fmt.Errorf("config: bounds inverted: [%g, %g]", c.TInit, c.TFinal)
	}
	if c.InitPoints < 2 {
		return fmt.Errorf("config: init_points must be at least 2, got %d", c.InitPoints)
	}
	if c.MinSpacing < 0 {
		return fmt.Errorf("config: min_spacing must be non-negative, got %g", c.MinSpacing)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("config: max_rounds must be positive, got %d", c.MaxRounds)
	}
	return nil
}
