package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Dir             string        `mapstructure:"-"`
	Extension       string        `mapstructure:"extension"`
	TempSuffix      string        `mapstructure:"temp_suffix"`
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	DebounceWindow  time.Duration `mapstructure:"debounce_window"`
	ProcessedTTL    time.Duration `mapstructure:"processed_ttl"`
	ProcessedLimit  int           `mapstructure:"processed_limit"`
	BufferSize      int           `mapstructure:"buffer_size"`
	InstancePort    int           `mapstructure:"instance_port"`
	ControlPort     int           `mapstructure:"control_port"`
	PathsFile       string        `mapstructure:"paths_file"`
	LogDir          string        `mapstructure:"log_dir"`
	DBPath          string        `mapstructure:"db_path"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LogTailLines    int           `mapstructure:"log_tail_lines"`
}

var Default = Config{
	Extension:       ".utf8",
	TempSuffix:      ".tmp",
	SettleDelay:     500 * time.Millisecond,
	DebounceWindow:  time.Second,
	ProcessedTTL:    10 * time.Minute,
	ProcessedLimit:  1024,
	BufferSize:      100,
	InstancePort:    12721,
	ControlPort:     12722,
	PathsFile:       "dropfix.conf",
	LogDir:          "Logs",
	DBPath:          "dropfix.db",
	RefreshInterval: time.Second,
	LogTailLines:    50,
}

// Dir returns the application directory, $DROPFIX_HOME or ~/.dropfix.
func Dir() (string, error) {
	if dir := os.Getenv("DROPFIX_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	return filepath.Join(home, ".dropfix"), nil
}

func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	return LoadFrom(dir)
}

// LoadFrom reads config.yaml in dir, layered over Default and DROPFIX_* env.
func LoadFrom(dir string) (*Config, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("extension", Default.Extension)
	v.SetDefault("temp_suffix", Default.TempSuffix)
	v.SetDefault("settle_delay", Default.SettleDelay)
	v.SetDefault("debounce_window", Default.DebounceWindow)
	v.SetDefault("processed_ttl", Default.ProcessedTTL)
	v.SetDefault("processed_limit", Default.ProcessedLimit)
	v.SetDefault("buffer_size", Default.BufferSize)
	v.SetDefault("instance_port", Default.InstancePort)
	v.SetDefault("control_port", Default.ControlPort)
	v.SetDefault("paths_file", Default.PathsFile)
	v.SetDefault("log_dir", Default.LogDir)
	v.SetDefault("db_path", Default.DBPath)
	v.SetDefault("refresh_interval", Default.RefreshInterval)
	v.SetDefault("log_tail_lines", Default.LogTailLines)

	v.SetEnvPrefix("DROPFIX")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Dir = dir
	cfg.PathsFile = cfg.resolve(cfg.PathsFile)
	cfg.LogDir = cfg.resolve(cfg.LogDir)
	cfg.DBPath = cfg.resolve(cfg.DBPath)

	return &cfg, nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.Dir, path)
}
