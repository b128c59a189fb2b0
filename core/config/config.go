// Package config holds PostPipe's runtime configuration: defaults, a YAML
// file, environment overrides and validation.
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is used for the XDG config directory.
	AppName = "postpipe"

	// DefaultConfigFile is looked up in the current directory.
	DefaultConfigFile = ".postpipe.yaml"

	// EnvAPIURL overrides the CMS address from the environment.
	EnvAPIURL = "POSTPIPE_API_URL"

	// DefaultPageSize is the listing page size used when discovering articles.
	DefaultPageSize = 25

	// DefaultWorkers bounds concurrent block rendering and article fetching.
	DefaultWorkers = 4

	// DefaultTimeout applies to each CMS request.
	DefaultTimeout = 30 * time.Second

	// DefaultExcerptWords is the length of the JSON excerpt.
	DefaultExcerptWords = 30
)

var (
	ErrNoAPIURL        = errors.New("no CMS API URL: set api_url, --api_url or " + EnvAPIURL)
	ErrInvalidAPIURL   = errors.New("invalid CMS API URL: must include scheme and host")
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")
	ErrInvalidWorkers  = errors.New("invalid workers: must be positive")
	ErrInvalidTimeout  = errors.New("invalid timeout: must be positive")
	ErrConfigNotFound  = errors.New("configuration file not found")
)

// Config holds all configuration options.
type Config struct {
	APIURL       string        `yaml:"api_url"`
	OutputDir    string        `yaml:"output_dir"`
	PageSize     int           `yaml:"page_size"`
	Workers      int           `yaml:"workers"`
	ExcerptWords int           `yaml:"excerpt_words"`
	Timeout      time.Duration `yaml:"timeout"`
	Verbose      bool          `yaml:"verbose"`
}

// Default returns a Config with every default filled in.
func Default() *Config {
	return &Config{
		PageSize:     DefaultPageSize,
		Workers:      DefaultWorkers,
		ExcerptWords: DefaultExcerptWords,
		Timeout:      DefaultTimeout,
	}
}

// XDGConfigFile returns the per-user configuration file path.
// On Linux: ~/.config/postpipe/config.yaml
func XDGConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// FindConfigFile returns the first configuration file that exists, in order:
// the explicit path, ./.postpipe.yaml, then the XDG config file.
// It returns "" when none exist.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if p := XDGConfigFile(); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// LoadFile overlays the YAML file at path onto c. Fields absent from the file
// keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

// ApplyEnv overlays environment overrides onto c.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
}

// Validate checks the configuration needed to talk to the CMS.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return ErrNoAPIURL
	}
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidAPIURL
	}
	return c.ValidateLocal()
}

// ValidateLocal checks the options that do not involve the CMS, for
// rendering local documents.
func (c *Config) ValidateLocal() error {
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}
