package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/blogd/pkg/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "", cfg.Host)
	assert.True(t, cfg.H2C)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, SourceDefault, cfg.Source("port"))
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"port too high", func(c *Config) { c.Port = 70000 }, "port 70000"},
		{"negative port", func(c *Config) { c.Port = -1 }, "port -1"},
		{"negative read timeout", func(c *Config) { c.ReadTimeout = -1 }, "readTimeout"},
		{"zero body limit", func(c *Config) { c.MaxBodyBytes = 0 }, "maxBodyBytes"},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }, `logLevel "loud"`},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }, `logFormat "xml"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_PortZeroAllowed(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	assert.NoError(t, cfg.Validate())
}

func TestLogging(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "DEBUG"
	cfg.LogFormat = "json"

	lc := cfg.Logging()
	assert.Equal(t, logging.LevelDebug, lc.Level)
	assert.Equal(t, logging.FormatJSON, lc.Format)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blogd.yaml", `
port: 9090
logLevel: debug
seed:
  - id: 7
    title: Seeded
    content: hello
    createdAt: 1000
    modifiedAt: 1000
`)

	cfg := Default()
	require.NoError(t, LoadFile(path, cfg))

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.ReadTimeout, "keys absent from the file keep their defaults")
	assert.Equal(t, SourceFile, cfg.Source("port"))
	assert.Equal(t, SourceDefault, cfg.Source("readTimeout"))
	require.Len(t, cfg.Seed, 1)
	assert.Equal(t, 7, cfg.Seed[0].ID)
	assert.Equal(t, dir, cfg.BaseDir())
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blogd.json", `{"port": 9191, "h2c": false}`)

	cfg := Default()
	require.NoError(t, LoadFile(path, cfg))

	assert.Equal(t, 9191, cfg.Port)
	assert.False(t, cfg.H2C)
	assert.Equal(t, SourceFile, cfg.Source("h2c"))
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want error
	}{
		{"missing", filepath.Join(dir, "nope.yaml"), ErrFileNotFound},
		{"empty", writeFile(t, dir, "empty.yaml", "  \n"), ErrEmptyFile},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "port: [1, 2"), ErrInvalidYAML},
		{"bad json", writeFile(t, dir, "bad.json", `{"port": `), ErrInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LoadFile(tt.path, Default())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadFile_Directory(t *testing.T) {
	err := LoadFile(t.TempDir(), Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvPort, "9999")
	t.Setenv(EnvHost, "127.0.0.1")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvReadTimeout, "5")
	t.Setenv(EnvWriteTimeout, "6")
	t.Setenv(EnvH2C, "false")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, 9999, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5, cfg.ReadTimeout)
	assert.Equal(t, 6, cfg.WriteTimeout)
	assert.False(t, cfg.H2C)
	for _, key := range []string{"port", "host", "logLevel", "logFormat", "readTimeout", "writeTimeout", "h2c"} {
		assert.Equal(t, SourceEnv, cfg.Source(key), key)
	}
}

func TestApplyEnv_IgnoresUnparsable(t *testing.T) {
	t.Setenv(EnvPort, "eighty")

	cfg := Default()
	ApplyEnv(cfg)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, SourceDefault, cfg.Source("port"))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blogd.yaml", "port: 9090\nlogFormat: json\n")
	t.Setenv(EnvPort, "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Port)
	assert.Equal(t, SourceEnv, cfg.Source("port"))
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, SourceFile, cfg.Source("logFormat"))
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "blogd.yml", "port: 7070\n")
	t.Setenv(EnvConfig, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, SourceEnv, cfg.Source("configFile"))
}
