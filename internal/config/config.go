package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jaminalder/tictactoe-cpu/internal/domain"
)

// Config holds server settings. Keys map to TTT_-prefixed environment
// variables, e.g. TTT_RESET_DELAY=2s.
type Config struct {
	Addr              string        `mapstructure:"addr"`
	LogLevel          string        `mapstructure:"log_level"`
	DevLogging        bool          `mapstructure:"dev_logging"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	ResetDelay        time.Duration `mapstructure:"reset_delay"`
	CPUSide           string        `mapstructure:"cpu_side"`
	SubscriberBuffer  int           `mapstructure:"subscriber_buffer"`
}

// ErrInvalidConfig is returned when a setting is missing or out of range.
var ErrInvalidConfig = errors.New("invalid config")

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("dev_logging", false)
	v.SetDefault("heartbeat_interval", 15*time.Second)
	v.SetDefault("reset_delay", 2*time.Second)
	v.SetDefault("cpu_side", "O")
	v.SetDefault("subscriber_buffer", 1)
}

// Load reads defaults, then the optional file at path, then the environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("ttt")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values Load cannot type-check.
func (c *Config) Validate() error {
	if _, err := c.CPUMark(); err != nil {
		return err
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("%w: heartbeat_interval must be positive", ErrInvalidConfig)
	}
	if c.ResetDelay < 0 {
		return fmt.Errorf("%w: reset_delay must not be negative", ErrInvalidConfig)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("%w: subscriber_buffer must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// CPUMark parses CPUSide into a mark.
func (c *Config) CPUMark() (domain.Cell, error) {
	side, err := domain.ParseCell(c.CPUSide)
	if err != nil || side == domain.Empty {
		return domain.Empty, fmt.Errorf("%w: cpu_side %q must be X or O", ErrInvalidConfig, c.CPUSide)
	}
	return side, nil
}
