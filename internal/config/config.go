// Package config loads the optional nephyra configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML unmarshaling from strings like "500ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.Duration.String(), nil
}

// Config is the top-level nephyra configuration.
type Config struct {
	Kernel      KernelConfig      `yaml:"kernel"`
	Preferences PreferencesConfig `yaml:"preferences"`
	History     HistoryConfig     `yaml:"history"`
	Hardware    HardwareConfig    `yaml:"hardware"`
	Watch       WatchConfig       `yaml:"watch"`
}

// KernelConfig controls catalog assembly and ranking.
type KernelConfig struct {
	ModulesDir    string `yaml:"modules_dir"`
	Top           int    `yaml:"top"`
	Enhance       bool   `yaml:"enhance"`
	InfoCacheSize int    `yaml:"info_cache_size"`
}

type PreferencesConfig struct {
	Path string `yaml:"path"` // "" = <user config dir>/nephyra/preferences.yaml
}

type HistoryConfig struct {
	Dir       string   `yaml:"dir"` // "" = <state dir>/nephyra/runs
	Retention Duration `yaml:"retention"`
}

type HardwareConfig struct {
	LogPath   string `yaml:"log_path"`
	SysfsRoot string `yaml:"sysfs_root"`
	Root      string `yaml:"root"`
}

type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

const (
	defaultTop           = 3
	defaultInfoCacheSize = 128
	defaultRetention     = 30 * 24 * time.Hour // 720h
	defaultDebounce      = 500 * time.Millisecond
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			ModulesDir:    "/lib/modules",
			Top:           defaultTop,
			Enhance:       true,
			InfoCacheSize: defaultInfoCacheSize,
		},
		History:  HistoryConfig{Retention: Duration{defaultRetention}},
		Hardware: HardwareConfig{LogPath: "hardware_info.log", SysfsRoot: "/sys", Root: "/"},
		Watch:    WatchConfig{Debounce: Duration{defaultDebounce}},
	}
}

// DefaultPath returns <user config dir>/nephyra/config.yaml.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nephyra", "config.yaml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "nephyra", "config.yaml")
}

// Load reads, expands env vars, parses, and validates a config file. Keys
// absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, or DefaultPath when path is empty. A missing
// file at the default location yields Default; an explicitly named file
// must exist.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := Load(DefaultPath())
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Kernel.ModulesDir == "" {
		errs = append(errs, errors.New("kernel.modules_dir is required"))
	}
	if cfg.Kernel.Top <= 0 {
		errs = append(errs, fmt.Errorf("kernel.top must be positive, got %d", cfg.Kernel.Top))
	}
	if cfg.Kernel.InfoCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("kernel.info_cache_size must be positive, got %d", cfg.Kernel.InfoCacheSize))
	}
	if cfg.History.Retention.Duration <= 0 {
		errs = append(errs, errors.New("history.retention must be positive"))
	}
	if cfg.Watch.Debounce.Duration < 0 {
		errs = append(errs, errors.New("watch.debounce must not be negative"))
	}

	return errors.Join(errs...)
}
