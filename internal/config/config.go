// Package config loads coursekit configuration. Sources, highest priority
// first: command-line flags, COURSEKIT_ environment variables (a .env file
// is loaded into the environment first), the YAML config file, defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all coursekit configuration.
type Config struct {
	// APIURL is the backend base URL. Relative content paths resolve
	// against it too.
	APIURL string `yaml:"api_url" validate:"required,url"`

	// Token is the learner's bearer token. Empty means signed out.
	Token string `yaml:"token"`

	Timeout    time.Duration `yaml:"timeout" validate:"gt=0"`
	DwellDelay time.Duration `yaml:"dwell_delay" validate:"gt=0"`

	DB       string `yaml:"db"`
	LogFile  string `yaml:"log_file"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Overrides are values set explicitly on the command line. Empty fields
// are left alone.
type Overrides struct {
	APIURL   string
	Token    string
	DB       string
	LogFile  string
	LogLevel string
}

// DefaultConfig returns a Config with sensible defaults. DB and LogFile
// stay empty; the store and logging packages pick their own default paths.
func DefaultConfig() Config {
	return Config{
		APIURL:     "http://localhost:8000",
		Timeout:    15 * time.Second,
		DwellDelay: time.Second,
		LogLevel:   "info",
	}
}

// DefaultPath returns the config file location: COURSEKIT_CONFIG if set,
// else $XDG_CONFIG_HOME/coursekit/config.yaml, else
// ~/.config/coursekit/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("COURSEKIT_CONFIG"); p != "" {
		return p
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "coursekit", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "coursekit.yaml")
	}
	return filepath.Join(home, ".config", "coursekit", "config.yaml")
}

// Load builds a Config from defaults, the YAML file at path, the dotenv
// file and the environment, in that order. A missing YAML or dotenv file
// is not an error. An empty dotenv path skips dotenv loading.
func Load(path, dotenv string) (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.loadFile(path); err != nil {
		return Config{}, err
	}
	if err := LoadDotEnv(dotenv); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("COURSEKIT_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("COURSEKIT_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("COURSEKIT_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("COURSEKIT_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("COURSEKIT_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(v)
	}

	var errs []error
	if v := os.Getenv("COURSEKIT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COURSEKIT_TIMEOUT: %w", err))
		} else {
			c.Timeout = d
		}
	}
	if v := os.Getenv("COURSEKIT_DWELL_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("COURSEKIT_DWELL_DELAY: %w", err))
		} else {
			c.DwellDelay = d
		}
	}
	return errors.Join(errs...)
}

// Apply overlays command-line overrides.
func (c *Config) Apply(o Overrides) {
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.Token != "" {
		c.Token = o.Token
	}
	if o.DB != "" {
		c.DB = o.DB
	}
	if o.LogFile != "" {
		c.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		c.LogLevel = strings.ToLower(o.LogLevel)
	}
}

var validate = validator.New()

// Validate checks field constraints and reports the offending config key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", keyFor(fe.StructField()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

var keys = map[string]string{
	"APIURL":     "api_url",
	"Timeout":    "timeout",
	"DwellDelay": "dwell_delay",
	"LogLevel":   "log_level",
}

func keyFor(field string) string {
	if k, ok := keys[field]; ok {
		return k
	}
	return field
}
