// Package config provides the configuration system for SYNTHIA
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/clonkbot/synthia-music-ai-972047/internal/avatar"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/player"
	"github.com/clonkbot/synthia-music-ai-972047/internal/responder"
	"github.com/clonkbot/synthia-music-ai-972047/internal/session"
)

// Config holds the complete application configuration
type Config struct {
	Session SessionConfig `mapstructure:"session"`
	Player  PlayerConfig  `mapstructure:"player"`
	Avatar  AvatarConfig  `mapstructure:"avatar"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Log     LogConfig     `mapstructure:"log"`
}

// SessionConfig holds the simulated response timing
type SessionConfig struct {
	ReplyDelay time.Duration `mapstructure:"reply_delay"`
	SongDelay  time.Duration `mapstructure:"song_delay"`
	ReplySpeak time.Duration `mapstructure:"reply_speak"`
	SongSpeak  time.Duration `mapstructure:"song_speak"`
	MaxPending int           `mapstructure:"max_pending"`
	Greeting   bool          `mapstructure:"greeting"`
}

// PlayerConfig holds playback clock settings
type PlayerConfig struct {
	TickInterval  time.Duration `mapstructure:"tick_interval"`
	ProgressStep  float64       `mapstructure:"progress_step"`
	Jitter        float64       `mapstructure:"jitter"`
	ResetOnSelect bool          `mapstructure:"reset_on_select"`
}

// AvatarConfig holds animation timing
type AvatarConfig struct {
	BlinkMinGap   time.Duration `mapstructure:"blink_min_gap"`
	BlinkMaxGap   time.Duration `mapstructure:"blink_max_gap"`
	BlinkDuration time.Duration `mapstructure:"blink_duration"`
	MouthInterval time.Duration `mapstructure:"mouth_interval"`
}

// TUIConfig holds TUI-specific configuration
type TUIConfig struct {
	Theme     string `mapstructure:"theme"` // neon, mono
	AltScreen bool   `mapstructure:"alt_screen"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Dir     string `mapstructure:"dir"`
	Console bool   `mapstructure:"console"`
}

// Themes lists the accepted TUI themes
var Themes = []string{"neon", "mono"}

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	r := responder.DefaultConfig()
	p := player.DefaultConfig()
	a := avatar.DefaultConfig()
	return &Config{
		Session: SessionConfig{
			ReplyDelay: r.ReplyDelay,
			SongDelay:  r.SongDelay,
			ReplySpeak: r.ReplySpeak,
			SongSpeak:  r.SongSpeak,
			MaxPending: r.MaxPending,
			Greeting:   true,
		},
		Player: PlayerConfig{
			TickInterval:  p.TickInterval,
			ProgressStep:  p.ProgressStep,
			Jitter:        p.Jitter,
			ResetOnSelect: p.ResetOnSelect,
		},
		Avatar: AvatarConfig{
			BlinkMinGap:   a.BlinkMinGap,
			BlinkMaxGap:   a.BlinkMaxGap,
			BlinkDuration: a.BlinkDuration,
			MouthInterval: a.MouthInterval,
		},
		TUI: TUIConfig{
			Theme:     "neon",
			AltScreen: true,
		},
		Log: LogConfig{
			Level:   string(logging.LevelInfo),
			Dir:     "~/.synthia/logs",
			Console: false,
		},
	}
}

// Load loads configuration from file and environment variables. An empty
// path searches ./config.yaml and ~/.config/synthia/config.yaml; a missing
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return decode(v)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// SYNTHIA_LOG_LEVEL overrides log.level and so on
	v.SetEnvPrefix("SYNTHIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/synthia")
	}
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Log.Dir = expandHome(cfg.Log.Dir)
	return &cfg, nil
}

// Watch re-reads the config file at path whenever it changes on disk and
// hands the result to onChange. The callback runs on viper's watcher
// goroutine.
func Watch(configPath string, onChange func(*Config, error)) error {
	if configPath == "" {
		configPath = GetConfigPath()
	}
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("failed to watch config: %w", err)
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err == nil {
			err = cfg.Validate()
		}
		onChange(cfg, err)
	})
	v.WatchConfig()
	return nil
}

// Save saves the configuration to the default config file
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return c.SaveToFile(path)
}

// SaveToFile saves the configuration to a specific file
func (c *Config) SaveToFile(path string) error {
	v := viper.New()
	for key, value := range c.Settings() {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Settings returns the configuration as nested maps keyed like the config
// file, with durations rendered as strings.
func (c *Config) Settings() map[string]interface{} {
	return map[string]interface{}{
		"session": map[string]interface{}{
			"reply_delay": c.Session.ReplyDelay.String(),
			"song_delay":  c.Session.SongDelay.String(),
			"reply_speak": c.Session.ReplySpeak.String(),
			"song_speak":  c.Session.SongSpeak.String(),
			"max_pending": c.Session.MaxPending,
			"greeting":    c.Session.Greeting,
		},
		"player": map[string]interface{}{
			"tick_interval":   c.Player.TickInterval.String(),
			"progress_step":   c.Player.ProgressStep,
			"jitter":          c.Player.Jitter,
			"reset_on_select": c.Player.ResetOnSelect,
		},
		"avatar": map[string]interface{}{
			"blink_min_gap":  c.Avatar.BlinkMinGap.String(),
			"blink_max_gap":  c.Avatar.BlinkMaxGap.String(),
			"blink_duration": c.Avatar.BlinkDuration.String(),
			"mouth_interval": c.Avatar.MouthInterval.String(),
		},
		"tui": map[string]interface{}{
			"theme":      c.TUI.Theme,
			"alt_screen": c.TUI.AltScreen,
		},
		"log": map[string]interface{}{
			"level":   c.Log.Level,
			"dir":     c.Log.Dir,
			"console": c.Log.Console,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value time.Duration
	}{
		{"session.reply_delay", c.Session.ReplyDelay},
		{"session.song_delay", c.Session.SongDelay},
		{"session.reply_speak", c.Session.ReplySpeak},
		{"session.song_speak", c.Session.SongSpeak},
		{"player.tick_interval", c.Player.TickInterval},
		{"avatar.blink_min_gap", c.Avatar.BlinkMinGap},
		{"avatar.blink_duration", c.Avatar.BlinkDuration},
		{"avatar.mouth_interval", c.Avatar.MouthInterval},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %s", p.name, p.value)
		}
	}

	if c.Avatar.BlinkMaxGap < c.Avatar.BlinkMinGap {
		return fmt.Errorf("avatar.blink_max_gap (%s) is shorter than avatar.blink_min_gap (%s)",
			c.Avatar.BlinkMaxGap, c.Avatar.BlinkMinGap)
	}

	if c.Session.MaxPending < 0 {
		return fmt.Errorf("session.max_pending must not be negative, got %d", c.Session.MaxPending)
	}

	if c.Player.ProgressStep <= 0 || c.Player.ProgressStep >= 100 {
		return fmt.Errorf("player.progress_step must be in (0,100), got %v", c.Player.ProgressStep)
	}
	if c.Player.Jitter < 0 {
		return fmt.Errorf("player.jitter must not be negative, got %v", c.Player.Jitter)
	}

	if c.TUI.Theme != "neon" && c.TUI.Theme != "mono" {
		return fmt.Errorf("invalid theme: %s (must be neon or mono)", c.TUI.Theme)
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

// SessionConfig converts the file settings into the session's component
// configuration.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		Responder: responder.Config{
			ReplyDelay: c.Session.ReplyDelay,
			SongDelay:  c.Session.SongDelay,
			ReplySpeak: c.Session.ReplySpeak,
			SongSpeak:  c.Session.SongSpeak,
			MaxPending: c.Session.MaxPending,
		},
		Player: player.Config{
			TickInterval:  c.Player.TickInterval,
			ProgressStep:  c.Player.ProgressStep,
			Jitter:        c.Player.Jitter,
			ResetOnSelect: c.Player.ResetOnSelect,
		},
		Avatar: avatar.Config{
			BlinkMinGap:   c.Avatar.BlinkMinGap,
			BlinkMaxGap:   c.Avatar.BlinkMaxGap,
			BlinkDuration: c.Avatar.BlinkDuration,
			MouthInterval: c.Avatar.MouthInterval,
		},
		Greeting: c.Session.Greeting,
	}
}

// LoggingConfig converts the log section into a logger configuration.
func (c *Config) LoggingConfig() *logging.Config {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(c.Log.Level); err == nil {
		cfg.Level = level
	}
	if c.Log.Dir != "" {
		cfg.LogDir = expandHome(c.Log.Dir)
	}
	cfg.Console = c.Log.Console
	return cfg
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".config", "synthia", "config.yaml")
}

// ConfigFileExists checks if the config file exists
func ConfigFileExists() bool {
	_, err := os.Stat(GetConfigPath())
	return err == nil
}

func setDefaults(v *viper.Viper) {
	for section, values := range DefaultConfig().Settings() {
		for key, value := range values.(map[string]interface{}) {
			v.SetDefault(section+"."+key, value)
		}
	}
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return home + path[1:]
}
