// Package config loads the warpsession CLI configuration. Values are taken
// from defaults, then a YAML file, then environment variables; the CLI
// applies its flags last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/warpdl/warpsession/pkg/httpclient"
	"github.com/warpdl/warpsession/pkg/persist"
)

// Environment variable names.
const (
	ConfigDirEnv = "WARPSESSION_CONFIG_DIR"
	StoreEnv     = "WARPSESSION_STORE"
	BackendEnv   = "WARPSESSION_BACKEND"
	ProxyEnv     = "WARPSESSION_PROXY"
	UserAgentEnv = "WARPSESSION_USER_AGENT"
	DebugEnv     = "WARPSESSION_DEBUG"
)

const (
	// FileName is the config file looked up in the config directory.
	FileName = "config.yaml"
	// DEF_TIMEOUT is the default per-request client timeout.
	DEF_TIMEOUT = 30 * time.Second
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the CLI configuration.
type Config struct {
	// Dir is the config directory. It is not read from the file.
	Dir string `yaml:"-"`
	// Store is the cookie store path. Relative paths are resolved
	// against Dir.
	Store string `yaml:"store"`
	// Backend is one of persist.Kinds().
	Backend      string             `yaml:"backend"`
	Proxy        string             `yaml:"proxy"`
	UserAgent    string             `yaml:"user_agent"`
	Timeout      time.Duration      `yaml:"timeout"`
	MaxRedirects int                `yaml:"max_redirects"`
	Headers      httpclient.Headers `yaml:"headers"`
	// LogFile, when set, receives a copy of every log line.
	LogFile string `yaml:"log_file"`
	Debug   bool   `yaml:"debug"`
}

var (
	getenv        = os.Getenv
	userConfigDir = os.UserConfigDir
)

// Defaults returns the configuration used when nothing is set.
func Defaults(dir string) *Config {
	return &Config{
		Dir:          dir,
		Store:        "cookies.jsonl",
		Backend:      persist.KindJSON,
		UserAgent:    httpclient.DEF_USER_AGENT,
		Timeout:      DEF_TIMEOUT,
		MaxRedirects: httpclient.DefaultMaxRedirects,
	}
}

// DefaultDir returns $WARPSESSION_CONFIG_DIR or the warpsession directory
// inside the user config directory.
func DefaultDir() (string, error) {
	if dir := getenv(ConfigDirEnv); dir != "" {
		return filepath.Abs(dir)
	}
	base, err := userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "warpsession"), nil
}

// Load builds the configuration. An empty path reads FileName from the
// config directory and tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	cfg := Defaults(dir)

	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile merges the YAML file at path over cfg.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with the environment variables that are set.
func (c *Config) ApplyEnv() error {
	if v := getenv(StoreEnv); v != "" {
		c.Store = v
	}
	if v := getenv(BackendEnv); v != "" {
		c.Backend = v
	}
	if v := getenv(ProxyEnv); v != "" {
		c.Proxy = v
	}
	if v := getenv(UserAgentEnv); v != "" {
		c.UserAgent = v
	}
	if v := getenv(DebugEnv); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, DebugEnv, v)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks the values that Load cannot fix silently.
func (c *Config) Validate() error {
	known := false
	for _, k := range persist.Kinds() {
		if c.Backend == k {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: backend %q, expected one of %v", ErrInvalidConfig, c.Backend, persist.Kinds())
	}
	if c.Store == "" {
		return fmt.Errorf("%w: empty store path", ErrInvalidConfig)
	}
	if c.MaxRedirects < 0 {
		return fmt.Errorf("%w: max_redirects must not be negative", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.Proxy != "" {
		if _, err := httpclient.ParseProxyURL(c.Proxy); err != nil {
			return fmt.Errorf("%w: proxy: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}

// StorePath returns the absolute store path.
func (c *Config) StorePath() string {
	if filepath.IsAbs(c.Store) || c.Dir == "" {
		return c.Store
	}
	return filepath.Join(c.Dir, c.Store)
}
