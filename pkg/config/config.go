package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/getmockd/blogd/pkg/blog"
	"github.com/getmockd/blogd/pkg/logging"
)

// Value sources recorded in Config.Sources.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Defaults.
const (
	DefaultPort            = 8080
	DefaultReadTimeout     = 30
	DefaultWriteTimeout    = 30
	DefaultShutdownTimeout = 10
	DefaultMaxBodyBytes    = 1 << 20
)

// Config is the blogd server configuration.
type Config struct {
	Port            int    `json:"port" yaml:"port"`
	Host            string `json:"host,omitempty" yaml:"host,omitempty"`
	ReadTimeout     int    `json:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    int    `json:"writeTimeout" yaml:"writeTimeout"`
	ShutdownTimeout int    `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	H2C             bool   `json:"h2c" yaml:"h2c"`
	LogLevel        string `json:"logLevel" yaml:"logLevel"`
	LogFormat       string `json:"logFormat" yaml:"logFormat"`
	MaxBodyBytes    int64  `json:"maxBodyBytes" yaml:"maxBodyBytes"`

	// Seed posts are inserted before the server accepts requests.
	Seed []blog.Post `json:"seed,omitempty" yaml:"seed,omitempty"`

	// SeedFiles are glob patterns of YAML/JSON files holding post lists.
	// Relative patterns resolve against the config file's directory.
	SeedFiles []string `json:"seedFiles,omitempty" yaml:"seedFiles,omitempty"`

	// ConfigFile is the file this configuration was loaded from, if any.
	ConfigFile string `json:"-" yaml:"-"`

	// Sources maps field names to the layer that last set them.
	Sources map[string]string `json:"-" yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		H2C:             true,
		LogLevel:        "info",
		LogFormat:       "text",
		MaxBodyBytes:    DefaultMaxBodyBytes,
		Sources: map[string]string{
			"port":            SourceDefault,
			"host":            SourceDefault,
			"readTimeout":     SourceDefault,
			"writeTimeout":    SourceDefault,
			"shutdownTimeout": SourceDefault,
			"h2c":             SourceDefault,
			"logLevel":        SourceDefault,
			"logFormat":       SourceDefault,
			"maxBodyBytes":    SourceDefault,
		},
	}
}

// Set records that key was set by source.
func (c *Config) Set(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// Source returns the layer that set key, or SourceDefault.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *Config) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	return time.Duration(c.WriteTimeout) * time.Second
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// Logging returns the logging configuration described by c.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.LogLevel)
	cfg.Format = logging.ParseFormat(c.LogFormat)
	return cfg
}

// Validate checks field ranges. Port 0 asks the OS for a free port.
func (c *Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 0-65535", c.Port))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, fmt.Errorf("readTimeout must not be negative, got %d", c.ReadTimeout))
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, fmt.Errorf("writeTimeout must not be negative, got %d", c.WriteTimeout))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdownTimeout must not be negative, got %d", c.ShutdownTimeout))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("maxBodyBytes must be positive, got %d", c.MaxBodyBytes))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown logLevel %q", c.LogLevel))
	}
	if !logging.ValidFormat(c.LogFormat) {
		errs = append(errs, fmt.Errorf("unknown logFormat %q", c.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
