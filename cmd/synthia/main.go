package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/clonkbot/synthia-music-ai-972047/internal/config"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/session"
	"github.com/clonkbot/synthia-music-ai-972047/internal/tui"
	"github.com/clonkbot/synthia-music-ai-972047/internal/version"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "synthia",
	Short: "SYNTHIA - your AI music companion",
	Long: `SYNTHIA is a terminal music companion. Chat with her, describe a song
and pick a genre, then play back what she composes.

Everything is simulated locally: replies come from a canned set and songs
are generated instantly from your prompt.

Configuration:
  SYNTHIA looks for configuration in:
  1. --config flag (explicit path)
  2. ./config.yaml (current directory)
  3. $HOME/.config/synthia/config.yaml

Environment Variables:
  Any setting can be overridden with SYNTHIA_<SECTION>_<KEY>, for example
  SYNTHIA_LOG_LEVEL=debug or SYNTHIA_SESSION_SONG_DELAY=1s.`,
	Version: version.Version,
	RunE:    runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive interface",
	RunE:  runTUI,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Long: `Creates a new configuration file at ~/.config/synthia/config.yaml
with default values. If the file already exists, it will not be overwritten
unless --force is specified.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Loads and displays the current configuration from file and environment variables.`,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  `Validates the current configuration and reports any errors.`,
	RunE:  runConfigValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("SYNTHIA\n")
		fmt.Printf("  Version:    %s\n", version.Version)
		fmt.Printf("  Build Time: %s\n", version.BuildTime)
		fmt.Printf("  Git Commit: %s\n", version.GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/synthia/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite existing configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration, applying --verbose.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// watchedConfigPath returns the file to hot-reload, or "" when running on
// defaults.
func watchedConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if config.ConfigFileExists() {
		return config.GetConfigPath()
	}
	return ""
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to the daily file.
	logCfg := cfg.LoggingConfig()
	logCfg.Console = false
	log, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer log.Close()

	if path := watchedConfigPath(); path != "" {
		err := config.Watch(path, func(updated *config.Config, err error) {
			if err != nil {
				log.Warn("config", "Ignoring invalid config change", map[string]interface{}{"error": err.Error()})
				return
			}
			level, err := logging.ParseLevel(updated.Log.Level)
			if err != nil {
				return
			}
			log.SetLevel(level)
			log.Info("config", "Config reloaded", map[string]interface{}{"level": updated.Log.Level})
		})
		if err != nil {
			log.Warn("config", "Config hot reload disabled", map[string]interface{}{"error": err.Error()})
		}
	}

	sessCfg := cfg.SessionConfig()
	sess := session.New(session.Options{
		Logger: log,
		Config: &sessCfg,
	})
	defer sess.Close()

	return tui.Run(sess, tui.AppConfig{
		Theme:     tui.Theme(cfg.TUI.Theme),
		AltScreen: cfg.TUI.AltScreen,
		Logger:    log,
	})
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	configPath := config.GetConfigPath()
	if config.ConfigFileExists() && !force {
		return fmt.Errorf("configuration file already exists at %s (use --force to overwrite)", configPath)
	}

	if err := config.DefaultConfig().Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Println("\nYou can now edit this file to customize your settings.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	out, err := yaml.Marshal(cfg.Settings())
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}
	fmt.Println("✓ Configuration is valid")
	return nil
}
