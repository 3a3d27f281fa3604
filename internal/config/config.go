package config

import (
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/reactive/internal/errors"
)

const (
	// ConfigFileName is the base name of the configuration file looked up
	// in the working directory when no path is given.
	ConfigFileName = "reactive"

	// EnvPrefix prefixes environment overrides (REACTIVE_RUN_TICKS, ...).
	EnvPrefix = "REACTIVE"

	// DefaultInterval is the default heartbeat period.
	DefaultInterval = time.Second

	// DefaultTicks is the default number of cycles of the run command.
	DefaultTicks = 5

	// DefaultAddr is the default listen address of the serve command.
	DefaultAddr = ":8080"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reactive"
)

// Config is the reactive-demo configuration.
type Config struct {
	// Debug enables debug logging.
	Debug bool `mapstructure:"debug"`

	// Run configures the run command.
	Run RunConfig `mapstructure:"run"`

	// Watch configures the watch command.
	Watch WatchConfig `mapstructure:"watch"`

	// Serve configures the serve command.
	Serve ServeConfig `mapstructure:"serve"`

	// Metrics configures the Prometheus collectors.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// configPath stores the file the config was loaded from.
	configPath string
}

// RunConfig contains settings of the console heartbeat.
type RunConfig struct {
	// Interval is the heartbeat period.
	Interval time.Duration `mapstructure:"interval"`

	// Ticks is the number of change-detection cycles to run.
	// Zero runs until interrupted.
	Ticks int `mapstructure:"ticks"`
}

// WatchConfig contains settings of the file watcher.
type WatchConfig struct {
	// Format is the file format: "auto", "json" or "yaml".
	Format string `mapstructure:"format"`
}

// ServeConfig contains settings of the HTTP server.
type ServeConfig struct {
	// Addr is the listen address.
	Addr string `mapstructure:"addr"`

	// Interval is the heartbeat period of the served counter.
	Interval time.Duration `mapstructure:"interval"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Run: RunConfig{
			Interval: DefaultInterval,
			Ticks:    DefaultTicks,
		},
		Watch: WatchConfig{
			Format: "auto",
		},
		Serve: ServeConfig{
			Addr:     DefaultAddr,
			Interval: DefaultInterval,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads configuration from path, applies environment overrides and
// validates the result.
//
// An empty path looks for reactive.yaml in the working directory; a
// missing file is not an error then. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case path == "" && stderrors.As(err, &notFound):
			// Defaults and environment only.
		case os.IsNotExist(err) || stderrors.As(err, &notFound):
			return nil, errors.New("R081").
				WithDetail("No configuration file at " + path).
				WithSuggestion("Check the --config flag or remove it to use defaults")
		default:
			return nil, errors.New("R081").
				WithDetail("Failed to parse " + v.ConfigFileUsed() + ": " + err.Error()).
				WithSuggestion("Check that the file is valid YAML")
		}
	}

	cfg := New()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("R081").Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with defaults and bound to
// REACTIVE_ environment variables.
func newViper() *viper.Viper {
	def := New()

	v := viper.New()
	v.SetDefault("debug", def.Debug)
	v.SetDefault("run.interval", def.Run.Interval)
	v.SetDefault("run.ticks", def.Run.Ticks)
	v.SetDefault("watch.format", def.Watch.Format)
	v.SetDefault("serve.addr", def.Serve.Addr)
	v.SetDefault("serve.interval", def.Serve.Interval)
	v.SetDefault("metrics.namespace", def.Metrics.Namespace)
	v.SetDefault("metrics.subsystem", def.Metrics.Subsystem)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Path returns the file the configuration was loaded from, or "" when
// only defaults and environment were used.
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New("R080").WithDetail(detail)
	}

	if c.Run.Interval <= 0 {
		return invalid("run.interval must be positive")
	}
	if c.Run.Ticks < 0 {
		return invalid("run.ticks must not be negative")
	}
	switch c.Watch.Format {
	case "auto", "json", "yaml":
	default:
		return invalid("watch.format must be auto, json or yaml, got " + c.Watch.Format)
	}
	if c.Serve.Addr == "" {
		return invalid("serve.addr is required")
	}
	if c.Serve.Interval <= 0 {
		return invalid("serve.interval must be positive")
	}
	if c.Metrics.Namespace == "" {
		return invalid("metrics.namespace is required")
	}
	return nil
}
