package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aclements/biblib"
)

// Config is the optional bibtool config file.
type Config struct {
	// Months is the month macro style: full, abbrv, or none.
	Months string `yaml:"months"`
	// Macros are extra @string-style macro definitions.
	Macros map[string]string `yaml:"macros"`
	// Wrap is the fmt column width; 0 disables wrapping.
	Wrap int `yaml:"wrap"`
}

func defaultConfig() Config {
	return Config{Months: "full", Wrap: 70}
}

// loadConfig reads path, or returns the defaults when path is empty.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) monthStyle() (biblib.MonthStyle, error) {
	switch c.Months {
	case "", "full":
		return biblib.MonthsFull, nil
	case "abbrv":
		return biblib.MonthsAbbrv, nil
	case "none":
		return biblib.MonthsNone, nil
	}
	return 0, fmt.Errorf("unknown month style %q", c.Months)
}
