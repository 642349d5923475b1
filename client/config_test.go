package client

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, "127.0.0.1:3333", cfg.Server.Target)
	assert.Equal(t, 10*time.Millisecond, cfg.Decision.Tick)
	assert.Equal(t, 100*time.Millisecond, cfg.Decision.ReadyPoll)
	assert.Equal(t, "scripted", cfg.Decision.Strategy)
	assert.Equal(t, DefaultPlayerCapacity, cfg.World.PlayerCapacity)
	assert.Equal(t, "Go AI", cfg.Player.Name)
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "name with separator", mutate: func(c *Config) { c.Player.Name = "a|b" }, field: "Config.Player.Name"},
		{name: "name too long", mutate: func(c *Config) { c.Player.Name = "abcdefghijklmnopqrst" }, field: "Config.Player.Name"},
		{name: "empty color", mutate: func(c *Config) { c.Player.Color = "" }, field: "Config.Player.Color"},
		{name: "zero tick", mutate: func(c *Config) { c.Decision.Tick = 0 }, field: "Config.Decision.Tick"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, field: "Config.Logging.Level"},
		{name: "file output without path", mutate: func(c *Config) { c.Logging.Output = "file" }, field: "Config.Logging.FilePath"},
		{name: "zero capacity", mutate: func(c *Config) { c.World.PlayerCapacity = 0 }, field: "Config.World.PlayerCapacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateConfig_NameLengthMatchesHandshake(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{name: strings.Repeat("n", 19), valid: true},
		{name: strings.Repeat("é", 9), valid: true},
		{name: strings.Repeat("é", 10), valid: false},
		{name: strings.Repeat("é", 15), valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Player.Name = tt.name

			cfgErr := ValidateConfig(cfg)
			idErr := ValidateIdentity(tt.name, cfg.Player.Color)

			assert.Equal(t, tt.valid, cfgErr == nil, "config: %v", cfgErr)
			assert.Equal(t, tt.valid, idErr == nil, "handshake: %v", idErr)
		})
	}
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "bumperbot.yaml")
	yaml := []byte(`
server:
  target: 10.0.0.5:4444
player:
  name: FromFile
  color: blue
decision:
  strategy: idle
  tick: 20ms
`)
	require.NoError(t, os.WriteFile(path, yaml, 0o644))
	t.Setenv("BUMPER_DECISION_TICK", "25ms")
	t.Setenv("BUMPER_PLAYER_COLOR", "green")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("name", "", "")
	flags.String("target", "", "")
	require.NoError(t, flags.Parse([]string{"--name", "FromFlag"}))

	// Act
	cfg, err := LoadConfig(path, flags)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:4444", cfg.Server.Target, "file value, flag not changed")
	assert.Equal(t, "FromFlag", cfg.Player.Name, "flag beats file")
	assert.Equal(t, "green", cfg.Player.Color, "env beats file")
	assert.Equal(t, 25*time.Millisecond, cfg.Decision.Tick)
	assert.Equal(t, "idle", cfg.Decision.Strategy)
	assert.Equal(t, 5*time.Second, cfg.Server.DialTimeout, "default")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_InvalidFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bumperbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player:\n  name: Fine\n"), 0o644))
	t.Setenv("BUMPER_PLAYER_NAME", "bad:name")

	_, err := LoadConfig(path, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "protofield")
}
