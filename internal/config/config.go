package config

import (
	"maps"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log        LogConfig          `yaml:"log" mapstructure:"log"`
	Nominatim  NominatimConfig    `yaml:"nominatim" mapstructure:"nominatim"`
	Retry      RetryConfig        `yaml:"retry" mapstructure:"retry"`
	Pipeline   PipelineConfig     `yaml:"pipeline" mapstructure:"pipeline"`
	Checkpoint CheckpointConfig   `yaml:"checkpoint" mapstructure:"checkpoint"`
	Classify   ClassifyConfig     `yaml:"classify" mapstructure:"classify"`
	Profiles   map[string]Profile `yaml:"profiles" mapstructure:"profiles"`
}

// NominatimConfig configures the reverse geocoding client.
type NominatimConfig struct {
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent    string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Zoom         int     `yaml:"zoom" mapstructure:"zoom"`
	ExtraTags    bool    `yaml:"extra_tags" mapstructure:"extra_tags"`
	RatePerSec   float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	CacheTTLMins int     `yaml:"cache_ttl_mins" mapstructure:"cache_ttl_mins"`
}

// RetryConfig configures lookup retries.
type RetryConfig struct {
	MaxAttempts   int  `yaml:"max_attempts" mapstructure:"max_attempts"`
	BackoffMs     int  `yaml:"backoff_ms" mapstructure:"backoff_ms"`
	TransientOnly bool `yaml:"transient_only" mapstructure:"transient_only"`
}

// PipelineConfig configures batch pacing and checkpoint cadence.
type PipelineConfig struct {
	IntervalMs      int `yaml:"interval_ms" mapstructure:"interval_ms"`
	CheckpointEvery int `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
}

// CheckpointConfig selects the checkpoint backend. DSN is used by the
// sqlite and postgres drivers; the file driver uses the profile's path.
type CheckpointConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// ClassifyConfig configures the parking classifier.
type ClassifyConfig struct {
	KeywordsFile string `yaml:"keywords_file" mapstructure:"keywords_file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PARKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "POI-Parking-Identifier/1.0")
	v.SetDefault("nominatim.timeout_secs", 15)
	v.SetDefault("nominatim.zoom", 18)
	v.SetDefault("nominatim.extra_tags", false)
	v.SetDefault("nominatim.rate_per_sec", 1.0)
	v.SetDefault("nominatim.cache_ttl_mins", 0)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_ms", 5000)
	v.SetDefault("retry.transient_only", false)
	v.SetDefault("pipeline.interval_ms", 1500)
	v.SetDefault("pipeline.checkpoint_every", 10)
	v.SetDefault("checkpoint.driver", "file")
	v.SetDefault("checkpoint.dsn", "")
	v.SetDefault("classify.keywords_file", "")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	cfg.Profiles = MergeProfiles(DefaultProfiles(), cfg.Profiles)

	return &cfg, nil
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	var errs []string
	if c.Nominatim.BaseURL == "" {
		errs = append(errs, "nominatim.base_url is required")
	}
	if c.Nominatim.RatePerSec < 0 {
		errs = append(errs, "nominatim.rate_per_sec must be >= 0")
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, "retry.max_attempts must be >= 1")
	}
	if c.Retry.BackoffMs < 0 {
		errs = append(errs, "retry.backoff_ms must be >= 0")
	}
	if c.Pipeline.IntervalMs < 0 {
		errs = append(errs, "pipeline.interval_ms must be >= 0")
	}
	if c.Pipeline.CheckpointEvery < 1 {
		errs = append(errs, "pipeline.checkpoint_every must be >= 1")
	}
	switch c.Checkpoint.Driver {
	case "file", "memory":
	case "sqlite", "postgres":
		if c.Checkpoint.DSN == "" {
			errs = append(errs, "checkpoint.dsn is required for driver "+c.Checkpoint.Driver)
		}
	default:
		errs = append(errs, "checkpoint.driver must be one of file, sqlite, postgres, memory")
	}
	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// Profile returns the named profile.
func (c *Config) Profile(name string) (Profile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		names := slices.Sorted(maps.Keys(c.Profiles))
		return Profile{}, eris.Errorf("config: unknown profile %q (have %s)", name, strings.Join(names, ", "))
	}
	return p, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	if cfg.Output != "" {
		zapCfg.OutputPaths = []string{cfg.Output}
		if cfg.Output == "stdout" {
			zapCfg.ErrorOutputPaths = []string{"stderr"}
		}
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
