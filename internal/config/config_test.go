package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/session"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1500*time.Millisecond, cfg.Session.ReplyDelay)
	assert.Equal(t, 3*time.Second, cfg.Session.SongDelay)
	assert.Equal(t, 3*time.Second, cfg.Session.ReplySpeak)
	assert.Equal(t, 2500*time.Millisecond, cfg.Session.SongSpeak)
	assert.Equal(t, 4, cfg.Session.MaxPending)
	assert.True(t, cfg.Session.Greeting)
	assert.Equal(t, 100*time.Millisecond, cfg.Player.TickInterval)
	assert.Equal(t, 0.5, cfg.Player.ProgressStep)
	assert.True(t, cfg.Player.ResetOnSelect)
	assert.Equal(t, 3*time.Second, cfg.Avatar.BlinkMinGap)
	assert.Equal(t, 5*time.Second, cfg.Avatar.BlinkMaxGap)
	assert.Equal(t, "neon", cfg.TUI.Theme)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "zero reply delay",
			mutate:  func(c *Config) { c.Session.ReplyDelay = 0 },
			wantErr: true,
			errMsg:  "session.reply_delay must be positive",
		},
		{
			name:    "negative tick interval",
			mutate:  func(c *Config) { c.Player.TickInterval = -time.Second },
			wantErr: true,
			errMsg:  "player.tick_interval must be positive",
		},
		{
			name: "inverted blink range",
			mutate: func(c *Config) {
				c.Avatar.BlinkMinGap = 5 * time.Second
				c.Avatar.BlinkMaxGap = 3 * time.Second
			},
			wantErr: true,
			errMsg:  "blink_max_gap",
		},
		{
			name:    "negative max pending",
			mutate:  func(c *Config) { c.Session.MaxPending = -1 },
			wantErr: true,
			errMsg:  "max_pending",
		},
		{
			name:    "zero max pending is allowed",
			mutate:  func(c *Config) { c.Session.MaxPending = 0 },
			wantErr: false,
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.TUI.Theme = "dracula" },
			wantErr: true,
			errMsg:  "invalid theme",
		},
		{
			name:    "mono theme",
			mutate:  func(c *Config) { c.TUI.Theme = "mono" },
			wantErr: false,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "progress step out of range",
			mutate:  func(c *Config) { c.Player.ProgressStep = 0 },
			wantErr: true,
			errMsg:  "progress_step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `session:
  reply_delay: 500ms
  max_pending: 2
  greeting: false
player:
  reset_on_select: false
tui:
  theme: mono
log:
  level: debug
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Session.ReplyDelay)
	assert.Equal(t, 2, cfg.Session.MaxPending)
	assert.False(t, cfg.Session.Greeting)
	assert.False(t, cfg.Player.ResetOnSelect)
	assert.Equal(t, "mono", cfg.TUI.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Unset keys keep their defaults.
	assert.Equal(t, 3*time.Second, cfg.Session.SongDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Player.TickInterval)
}

func TestLoadEnvOverride(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: info\n"), 0644))

	t.Setenv("SYNTHIA_LOG_LEVEL", "warn")
	t.Setenv("SYNTHIA_SESSION_SONG_DELAY", "4s")

	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4*time.Second, cfg.Session.SongDelay)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Session.SongDelay = 7 * time.Second
	cfg.Avatar.BlinkDuration = 200 * time.Millisecond
	cfg.TUI.Theme = "mono"
	cfg.Log.Dir = "/var/log/synthia"

	require.NoError(t, cfg.SaveToFile(configPath))

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSessionConfigMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.MaxPending = 1
	cfg.Player.Jitter = 0.05

	sc := cfg.SessionConfig()
	want := session.DefaultConfig()
	want.Responder.MaxPending = 1
	want.Player.Jitter = 0.05
	assert.Equal(t, want, sc)
}

func TestLoggingConfig(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	cfg := DefaultConfig()
	cfg.Log.Level = "error"
	cfg.Log.Console = true

	lc := cfg.LoggingConfig()
	assert.Equal(t, logging.LevelError, lc.Level)
	assert.Equal(t, "/home/tester/.synthia/logs", lc.LogDir)
	assert.True(t, lc.Console)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, "/home/tester/.config/synthia/config.yaml", GetConfigPath())
}

func TestWatchReportsChanges(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, DefaultConfig().SaveToFile(configPath))

	levels := make(chan string, 16)
	require.NoError(t, Watch(configPath, func(cfg *Config, err error) {
		if err != nil {
			return
		}
		select {
		case levels <- cfg.Log.Level:
		default:
		}
	}))

	updated := DefaultConfig()
	updated.Log.Level = "debug"
	require.NoError(t, updated.SaveToFile(configPath))

	// A rewrite can surface as several events; wait for the final content.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case level := <-levels:
			if level == "debug" {
				return
			}
		case <-timeout:
			t.Fatal("no config change observed")
		}
	}
}

func TestWatchMissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config, error) {})
	assert.Error(t, err)
}
