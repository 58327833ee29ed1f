// Package config holds the updater's configuration: which repository's
// release feed to poll and whether to check at application startup.
// The values are validated once at load; the feed allow-list derives
// directly from them, so nothing after load can widen it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Config is the immutable configuration input. HomeDir locates the
// config file itself plus the skip registry, check cache, and logs;
// it is resolved, never stored in the file.
type Config struct {
	Owner          string `yaml:"owner"`
	Repo           string `yaml:"repo"`
	CheckOnStartup bool   `yaml:"check_on_startup"`
	LogLevel       string `yaml:"log_level"`

	HomeDir string `yaml:"-"`
}

// Defaults returns the built-in configuration for the Quill desktop app.
func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Owner:          "quillnotes",
		Repo:           "quill",
		CheckOnStartup: true,
		LogLevel:       "info",
		HomeDir:        filepath.Join(home, ".quill-updater"),
	}
}

// Path returns the config file location under homeDir.
func Path(homeDir string) string {
	return filepath.Join(homeDir, configFileName)
}

// Load resolves the configuration: defaults, then QUILL_UPDATER_HOME,
// then the config file if present, validated before return. A missing
// file is fine; an invalid one is an error.
func Load() (Config, error) {
	cfg := Defaults()
	if v := os.Getenv("QUILL_UPDATER_HOME"); v != "" {
		cfg.HomeDir = v
	}

	data, err := os.ReadFile(Path(cfg.HomeDir))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration file, creating HomeDir if needed.
func (c Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.HomeDir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(Path(c.HomeDir), data, 0o644)
}

// Validate rejects owner/repo values that could smuggle extra path
// segments or whitespace into the feed URL.
func (c Config) Validate() error {
	if err := validateSlug("owner", c.Owner); err != nil {
		return err
	}
	if err := validateSlug("repo", c.Repo); err != nil {
		return err
	}
	if strings.TrimSpace(c.HomeDir) == "" {
		return errors.New("config: home directory is empty")
	}
	return nil
}

func validateSlug(field, v string) error {
	if v == "" {
		return fmt.Errorf("config: %s is empty", field)
	}
	if strings.ContainsAny(v, "/\\?#%") || strings.ContainsAny(v, " \t\r\n") {
		return fmt.Errorf("config: %s %q contains forbidden characters", field, v)
	}
	return nil
}
