package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"nefsim/internal/nef"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 1.0
	DefaultNeurons  = 100
)

type Config struct {
	Network     string  `yaml:"network"`
	Model       string  `yaml:"model"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	Seed        int64   `yaml:"seed"`
	Neurons     int     `yaml:"neurons"`
	Synapse     float64 `yaml:"synapse"`
	SampleEvery int     `yaml:"sample_every"`
	Spikes      bool    `yaml:"spikes"`
}

func DefaultConfig() *Config {
	return &Config{
		Network:     "combine2d",
		Model:       "lif",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Neurons:     DefaultNeurons,
		SampleEvery: 1,
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

// SimConfig translates the file-level settings into the simulator's config.
func (c *Config) SimConfig() nef.Config {
	sc := nef.DefaultConfig()
	if c.Dt > 0 {
		sc.Dt = c.Dt
	}
	if c.Duration > 0 {
		sc.Duration = c.Duration
	}
	sc.Seed = c.Seed
	if c.SampleEvery > 0 {
		sc.SampleEvery = c.SampleEvery
	}
	return sc
}
