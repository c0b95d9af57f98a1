package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	WorkerMonteCarlo = "montecarlo"
	WorkerLogger     = "logger"
)

var validWorkers = []string{WorkerMonteCarlo, WorkerLogger}

type Config struct {
	Worker        string        `mapstructure:"worker"`        // Background worker to run next to the primary search
	Interval      time.Duration `mapstructure:"interval"`      // Pause between two samples (e.g. "300ms")
	Seed          uint64        `mapstructure:"seed"`          // Sampling seed, 0 stands for a time-based seed
	Detach        bool          `mapstructure:"detach"`        // Do not wait for the worker when the primary is done
	Color         bool          `mapstructure:"color"`         // Colored progress output
	MaxIterations uint64        `mapstructure:"maxIterations"` // 0 stands for unbounded
	Timeout       time.Duration `mapstructure:"timeout"`       // Deadline of the primary search, 0 stands for none
}

func Default() Config {
	return Config{
		Worker:   WorkerMonteCarlo,
		Interval: 300 * time.Millisecond,
		Color:    true,
	}
}

// Load reads a configuration file, YAML when its extension is .yaml or .yml and JSON otherwise. Keys missing from the
// file keep their default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var input map[string]any
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &input)
	default:
		err = json.Unmarshal(bytes, &input)
	}
	if err != nil {
		return Config{}, fmt.Errorf("cannot parse config file %v: %w", path, err)
	}

	return Decode(input)
}

// Decode builds a Config out of an already parsed document, on top of Default
func Decode(input map[string]any) (Config, error) {
	config := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      &config,
	})
	if err != nil {
		return Config{}, err
	}

	if err := decoder.Decode(input); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return config, config.Validate()
}

func (config Config) Validate() error {
	if !slices.Contains(validWorkers, config.Worker) {
		return fmt.Errorf("%v is not a valid worker, allowed values are %v", config.Worker, validWorkers)
	} else if config.Interval <= 0 {
		return fmt.Errorf("interval must be positive: %v", config.Interval)
	} else if config.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative: %v", config.Timeout)
	}
	return nil
}
