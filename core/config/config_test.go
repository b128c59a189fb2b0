package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.PageSize != DefaultPageSize || c.Workers != DefaultWorkers || c.Timeout != DefaultTimeout {
		t.Errorf("Default() = %+v", c)
	}
	if err := c.ValidateLocal(); err != nil {
		t.Errorf("Default().ValidateLocal() = %v", err)
	}
	if err := c.Validate(); !errors.Is(err, ErrNoAPIURL) {
		t.Errorf("Default().Validate() = %v, want ErrNoAPIURL", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: nil},
		{name: "missing api url", mutate: func(c *Config) { c.APIURL = "" }, wantErr: ErrNoAPIURL},
		{name: "api url without scheme", mutate: func(c *Config) { c.APIURL = "cms.example.com" }, wantErr: ErrInvalidAPIURL},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }, wantErr: ErrInvalidPageSize},
		{name: "negative workers", mutate: func(c *Config) { c.Workers = -1 }, wantErr: ErrInvalidWorkers},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			c.APIURL = "https://cms.example.com"
			tt.mutate(c)
			if err := c.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "api_url: https://cms.example.com\npage_size: 10\ntimeout: 5s\nverbose: true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	c := Default()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if c.APIURL != "https://cms.example.com" || c.PageSize != 10 || c.Timeout != 5*time.Second || !c.Verbose {
		t.Errorf("LoadFile() = %+v", c)
	}
	if c.Workers != DefaultWorkers {
		t.Errorf("Workers = %d, want default %d kept", c.Workers, DefaultWorkers)
	}

	if err := c.LoadFile(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadFile(missing) = %v, want ErrConfigNotFound", err)
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "explicit.yaml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(path); got != path {
		t.Errorf("FindConfigFile(explicit) = %q, want %q", got, path)
	}
	if got := FindConfigFile(filepath.Join(dir, "nope.yaml")); got != "" {
		t.Errorf("FindConfigFile(missing explicit) = %q, want empty", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://env.example.com")
	c := Default()
	c.APIURL = "https://file.example.com"
	c.ApplyEnv()
	if c.APIURL != "https://env.example.com" {
		t.Errorf("APIURL = %q, want env value", c.APIURL)
	}
}
