package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to run pathmine analyses.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Mining  MiningConfig  `yaml:"mining"`
	Cohorts CohortConfig  `yaml:"cohorts"`
	Labels  LabelsConfig  `yaml:"labels"`
}

// ServerConfig controls the gRPC listener used by `pathmine serve`.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
	MaxRecords      int           `yaml:"maxRecords"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// InputConfig describes the tabular record source.
type InputConfig struct {
	Path          string  `yaml:"path"`
	Columns       Columns `yaml:"columns"`
	Normalization string  `yaml:"normalization"`
}

// Columns maps record fields onto CSV header names.
type Columns struct {
	Entity   string `yaml:"entity"`
	Phase    string `yaml:"phase"`
	Step     string `yaml:"step"`
	Code     string `yaml:"code"`
	Outcome  string `yaml:"outcome"`
	Category string `yaml:"category"`
}

// OutputConfig controls where analysis artefacts are written.
type OutputConfig struct {
	Dir             string `yaml:"dir"`
	MetricsTextfile string `yaml:"metricsTextfile"`
	Graphs          bool   `yaml:"graphs"`
}

// MiningConfig controls whole-dataset frequent transition mining.
type MiningConfig struct {
	Threshold   int    `yaml:"threshold"`
	Extend      bool   `yaml:"extend"`
	Containment string `yaml:"containment"`
}

// CohortConfig controls the per-phase outcome comparison.
type CohortConfig struct {
	Phases          []string     `yaml:"phases"`
	Alpha           float64      `yaml:"alpha"`
	Beta            float64      `yaml:"beta"`
	MinSupportDead  int          `yaml:"minSupportDead"`
	MaxSupportAlive int          `yaml:"maxSupportAlive"`
	MaxHops         int          `yaml:"maxHops"`
	Comparisons     []Comparison `yaml:"comparisons"`
}

// Comparison names a reference and comparison category pair.
type Comparison struct {
	Reference  string `yaml:"reference"`
	Comparison string `yaml:"comparison"`
}

// LabelsConfig points at the code category rules file.
type LabelsConfig struct {
	Path string `yaml:"path"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("MIRADOR_PATHMINE_CONFIG")
	}

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50061",
			MetricsAddress:  ":2113",
			GracefulTimeout: 10 * time.Second,
			MaxRecords:      500000,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Input: InputConfig{
			Columns: Columns{
				Entity:   "subject_id",
				Phase:    "phase",
				Step:     "sequence_num",
				Code:     "icd_code",
				Outcome:  "mortality",
				Category: "label",
			},
			Normalization: "none",
		},
		Output: OutputConfig{Dir: "out", Graphs: true},
		Mining: MiningConfig{
			Threshold:   2,
			Extend:      true,
			Containment: "substring",
		},
		Cohorts: CohortConfig{
			Phases:          []string{"early", "middle", "late"},
			Alpha:           0.001,
			Beta:            0.7,
			MinSupportDead:  10,
			MaxSupportAlive: 2,
			MaxHops:         2,
		},
	}
}

// Validate rejects thresholds outside their meaningful ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Mining.Threshold < 1 {
		errs = append(errs, fmt.Errorf("mining.threshold must be >= 1, got %d", c.Mining.Threshold))
	}
	switch strings.ToLower(c.Mining.Containment) {
	case "", "substring", "window":
	default:
		errs = append(errs, fmt.Errorf("mining.containment must be substring or window, got %q", c.Mining.Containment))
	}
	if c.Cohorts.Alpha <= 0 || c.Cohorts.Alpha > 1 {
		errs = append(errs, fmt.Errorf("cohorts.alpha must be in (0,1], got %v", c.Cohorts.Alpha))
	}
	if c.Cohorts.Beta <= 0 || c.Cohorts.Beta > 1 {
		errs = append(errs, fmt.Errorf("cohorts.beta must be in (0,1], got %v", c.Cohorts.Beta))
	}
	if c.Cohorts.MinSupportDead < 0 || c.Cohorts.MaxSupportAlive < 0 {
		errs = append(errs, errors.New("cohorts support thresholds must be non-negative"))
	}
	if c.Cohorts.MaxHops < 1 {
		errs = append(errs, fmt.Errorf("cohorts.maxHops must be >= 1, got %d", c.Cohorts.MaxHops))
	}
	switch c.Input.Normalization {
	case "", "none", "trim", "trim-upper":
	default:
		errs = append(errs, fmt.Errorf("input.normalization must be none, trim or trim-upper, got %q", c.Input.Normalization))
	}
	for i, phase := range c.Cohorts.Phases {
		if strings.TrimSpace(phase) == "" || strings.ContainsAny(phase, `/\`) || strings.Contains(phase, "..") {
			errs = append(errs, fmt.Errorf("cohorts.phases[%d] %q must be a plain name", i, phase))
		}
	}
	for i, cmp := range c.Cohorts.Comparisons {
		if cmp.Reference == "" || cmp.Comparison == "" {
			errs = append(errs, fmt.Errorf("cohorts.comparisons[%d] needs reference and comparison", i))
		}
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MIRADOR_PATHMINE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("MIRADOR_PATHMINE_INPUT"); v != "" {
		cfg.Input.Path = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_METRICS_TEXTFILE"); v != "" {
		cfg.Output.MetricsTextfile = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_LABELS_PATH"); v != "" {
		cfg.Labels.Path = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Mining.Threshold = n
		}
	}
	if v := os.Getenv("MIRADOR_PATHMINE_CONTAINMENT"); v != "" {
		cfg.Mining.Containment = v
	}
	if v := os.Getenv("MIRADOR_PATHMINE_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Cohorts.Alpha = f
		}
	}
	if v := os.Getenv("MIRADOR_PATHMINE_BETA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Cohorts.Beta = f
		}
	}
	if v := os.Getenv("MIRADOR_PATHMINE_MIN_SUPPORT_DEAD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cohorts.MinSupportDead = n
		}
	}
	if v := os.Getenv("MIRADOR_PATHMINE_MAX_SUPPORT_ALIVE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cohorts.MaxSupportAlive = n
		}
	}
	if v := os.Getenv("MIRADOR_PATHMINE_MAX_HOPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Cohorts.MaxHops = n
		}
	}
	if v := os.Getenv("MIRADOR_PATHMINE_PHASES"); v != "" {
		var phases []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				phases = append(phases, p)
			}
		}
		cfg.Cohorts.Phases = phases
	}
}
