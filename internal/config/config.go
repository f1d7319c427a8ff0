package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultCheckInterval  = 5 * time.Minute
	defaultServeAddr      = ":9090"
	defaultPagesProject   = "spavevision"
	defaultLogLevel       = "info"
	defaultLogEnv         = "prod"
)

type Config struct {
	Cloudflare   Cloudflare             `yaml:"cloudflare"`
	Pages        Pages                  `yaml:"pages"`
	Workers      Workers                `yaml:"workers"`
	Environments map[string]Environment `yaml:"environments"`
	Log          Log                    `yaml:"log"`
	Serve        Serve                  `yaml:"serve"`
}

type Cloudflare struct {
	AccountID      string        `yaml:"accountId"`
	Token          string        `yaml:"token"`
	Zone           string        `yaml:"zone"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

type Pages struct {
	Project string `yaml:"project"`
}

type Workers struct {
	Expected []string `yaml:"expected"`
}

// Environment describes the expected shape of one deployment target.
// Empty fields fall back to defaults derived from the zone and project.
type Environment struct {
	Records []Record `yaml:"records"`
	Workers []string `yaml:"workers"`
}

type Record struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Content string `yaml:"content"`
	Proxied bool   `yaml:"proxied"`
	TTL     int    `yaml:"ttl"`
}

type Log struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
}

type Serve struct {
	Addr          string        `yaml:"addr"`
	CheckInterval time.Duration `yaml:"checkInterval"`
}

func Load(path string) (*Config, error) {
	configFile := true
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Default().Warn("fail find config file, proceeding", "path", path)
		configFile = false
	}

	var cfg Config
	if configFile {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
		if err := f.Close(); err != nil {
			slog.Default().Warn("fail close config file", "path", path, "error", err)
		}
	}

	if cfg.Cloudflare.RequestTimeout == 0 {
		cfg.Cloudflare.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Pages.Project == "" {
		cfg.Pages.Project = defaultPagesProject
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = defaultServeAddr
	}
	if cfg.Serve.CheckInterval == 0 {
		cfg.Serve.CheckInterval = defaultCheckInterval
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Env == "" {
		cfg.Log.Env = defaultLogEnv
	}

	// Override from environment if set
	if token := os.Getenv("SPAVEVISION_CLOUDFLARE_TOKEN"); token != "" {
		cfg.Cloudflare.Token = token
	}
	if accountID := os.Getenv("SPAVEVISION_CLOUDFLARE_ACCOUNT_ID"); accountID != "" {
		cfg.Cloudflare.AccountID = accountID
	}
	if zone := os.Getenv("SPAVEVISION_ZONE"); zone != "" {
		cfg.Cloudflare.Zone = zone
	}
	if timeout := os.Getenv("SPAVEVISION_REQUEST_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			cfg.Cloudflare.RequestTimeout = d
		} else {
			slog.Default().Warn("fail parse request timeout to duration from string", "timeout", timeout, "error", err)
		}
	}
	if project := os.Getenv("SPAVEVISION_PAGES_PROJECT"); project != "" {
		cfg.Pages.Project = project
	}
	if workers := os.Getenv("SPAVEVISION_WORKERS"); workers != "" {
		cfg.Workers.Expected = strings.Split(workers, ",")
	}
	if addr := os.Getenv("SPAVEVISION_SERVE_ADDR"); addr != "" {
		cfg.Serve.Addr = addr
	}
	if interval := os.Getenv("SPAVEVISION_CHECK_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			cfg.Serve.CheckInterval = d
		} else {
			slog.Default().Warn("fail parse check interval to duration from string", "interval", interval, "error", err)
		}
	}
	if loglevel := os.Getenv("SPAVEVISION_LOG_LEVEL"); loglevel != "" {
		cfg.Log.Level = loglevel
	}
	if logenv := os.Getenv("SPAVEVISION_LOG_ENV"); logenv != "" {
		cfg.Log.Env = logenv
	}

	if cfg.Cloudflare.Zone == "" {
		return nil, fmt.Errorf("cloudflare zone required")
	}
	return &cfg, nil
}

// Environment returns the expected shape for env. Unknown environments
// come back zero-valued so callers apply their own defaults.
func (c *Config) Environment(env string) Environment {
	if c.Environments == nil {
		return Environment{}
	}
	return c.Environments[env]
}

// ExpectedWorkers returns the compute deployments env must have.
func (c *Config) ExpectedWorkers(env string) []string {
	if e := c.Environment(env); len(e.Workers) > 0 {
		return e.Workers
	}
	return c.Workers.Expected
}
