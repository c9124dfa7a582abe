package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Hossam-Shehadeh/web-based-jupedsim/core"
)

// Config is the full server configuration. Every field has a working
// default; a config file only needs to name what it changes.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Engine     EngineConfig     `yaml:"engine"`
	Kinematics KinematicsConfig `yaml:"kinematics"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxStoredRuns bounds the in-memory run store; the oldest run is
	// evicted past this.
	MaxStoredRuns int `yaml:"max_stored_runs"`
}

type EngineConfig struct {
	Seed            int64   `yaml:"seed"`
	StrictSpawning  bool    `yaml:"strict_spawning"`
	PathBudgetRatio float64 `yaml:"path_budget_ratio"`
	Workers         int     `yaml:"workers"`
}

type KinematicsConfig struct {
	SocialFrequency      float64 `yaml:"social_frequency"`
	SocialAmplitude      float64 `yaml:"social_amplitude"`
	CentrifugalFrequency float64 `yaml:"centrifugal_frequency"`
	CentrifugalAmplitude float64 `yaml:"centrifugal_amplitude"`
}

// ValidationConfig bounds the run parameters accepted over the API.
type ValidationConfig struct {
	MaxDuration    float64 `yaml:"max_duration"`
	MaxTimeStep    float64 `yaml:"max_time_step"`
	MaxSpeedFactor float64 `yaml:"max_speed_factor"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the stock configuration.
func Default() Config {
	kin := core.DefaultKinematicsConfig()
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxStoredRuns:   100,
		},
		Engine: EngineConfig{
			PathBudgetRatio: 0.7,
		},
		Kinematics: KinematicsConfig{
			SocialFrequency:      kin.SocialFrequency,
			SocialAmplitude:      kin.SocialAmplitude,
			CentrifugalFrequency: kin.CentrifugalFrequency,
			CentrifugalAmplitude: kin.CentrifugalAmplitude,
		},
		Validation: ValidationConfig{
			MaxDuration:    300,
			MaxTimeStep:    1,
			MaxSpeedFactor: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults untouched.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.MaxStoredRuns <= 0 {
		return fmt.Errorf("server.max_stored_runs must be positive, got %d", c.Server.MaxStoredRuns)
	}
	if c.Engine.PathBudgetRatio <= 0 || c.Engine.PathBudgetRatio > 1 {
		return fmt.Errorf("engine.path_budget_ratio must be in (0, 1], got %v", c.Engine.PathBudgetRatio)
	}
	if c.Validation.MaxDuration <= 0 || c.Validation.MaxTimeStep <= 0 || c.Validation.MaxSpeedFactor <= 0 {
		return fmt.Errorf("validation bounds must be positive")
	}
	return nil
}

// EngineConfig maps the file representation onto the engine's own config
// type.
func (c Config) EngineConfig() core.EngineConfig {
	ec := core.DefaultEngineConfig()
	ec.Seed = c.Engine.Seed
	ec.StrictSpawning = c.Engine.StrictSpawning
	ec.PathBudgetRatio = c.Engine.PathBudgetRatio
	ec.Workers = c.Engine.Workers
	if c.Engine.StrictSpawning {
		ec.Spawner = core.StrictSpawnerConfig()
	}
	ec.Kinematics = core.KinematicsConfig{
		SocialFrequency:      c.Kinematics.SocialFrequency,
		SocialAmplitude:      c.Kinematics.SocialAmplitude,
		CentrifugalFrequency: c.Kinematics.CentrifugalFrequency,
		CentrifugalAmplitude: c.Kinematics.CentrifugalAmplitude,
	}
	return ec
}
