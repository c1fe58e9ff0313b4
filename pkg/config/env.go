package config

import (
	"os"
	"strconv"
)

// Environment variable names
const (
	EnvPort         = "BLOGD_PORT"
	EnvHost         = "BLOGD_HOST"
	EnvConfig       = "BLOGD_CONFIG"
	EnvLogLevel     = "BLOGD_LOG_LEVEL"
	EnvLogFormat    = "BLOGD_LOG_FORMAT"
	EnvReadTimeout  = "BLOGD_READ_TIMEOUT"
	EnvWriteTimeout = "BLOGD_WRITE_TIMEOUT"
	EnvH2C          = "BLOGD_H2C"
)

// ApplyEnv overlays BLOGD_* environment variables onto cfg.
// Unset or unparsable variables leave the current value alone.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
			cfg.Set("port", SourceEnv)
		}
	}

	if v, ok := os.LookupEnv(EnvHost); ok {
		cfg.Host = v
		cfg.Set("host", SourceEnv)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Set("logLevel", SourceEnv)
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Set("logFormat", SourceEnv)
	}

	if v := os.Getenv(EnvReadTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.ReadTimeout = timeout
			cfg.Set("readTimeout", SourceEnv)
		}
	}

	if v := os.Getenv(EnvWriteTimeout); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			cfg.WriteTimeout = timeout
			cfg.Set("writeTimeout", SourceEnv)
		}
	}

	if v := os.Getenv(EnvH2C); v != "" {
		cfg.H2C = v == "true" || v == "1" || v == "yes"
		cfg.Set("h2c", SourceEnv)
	}
}
