package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/player"
	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
	"github.com/clonkbot/synthia-music-ai-972047/internal/session"
)

var (
	demoMessage string
	demoQuick   int
	demoPrompt  string
	demoGenre   string
	demoPlayFor time.Duration
	demoSeed    int64
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted headless session",
	Long: `Runs a session without the TUI: sends a chat message, requests a song,
plays it for a while and logs every event to stderr.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoMessage, "message", "Hi SYNTHIA!", "chat message to send (empty to skip)")
	demoCmd.Flags().IntVar(&demoQuick, "quick", 0, "quick prompt to send, 1-4 (0 to skip)")
	demoCmd.Flags().StringVar(&demoPrompt, "prompt", "A dreamy song about neon city lights", "song prompt (empty to skip)")
	demoCmd.Flags().StringVar(&demoGenre, "genre", "synthwave", "song genre")
	demoCmd.Flags().DurationVar(&demoPlayFor, "play-for", 3*time.Second, "how long to play the new song")
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 0, "random seed (0 for time based)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log := logging.NewConsole(os.Stderr, level)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	sessCfg := cfg.SessionConfig()
	sess := session.New(session.Options{
		Random: random.New(demoSeed),
		Logger: log,
		Config: &sessCfg,
	})
	defer sess.Close()

	events := log.Component("events")
	sess.Subscribe("", func(e bus.Event) {
		// Animation frames are noisy; keep them at debug.
		ev := events.Info()
		switch e.Type {
		case bus.EventPlaybackTick, bus.EventAvatarChanged:
			ev = events.Debug()
		}
		ev.Str("type", string(e.Type)).
			Interface("payload", e.Payload).
			Msg("Event")
	})

	if demoMessage != "" {
		if err := sess.SubmitUserMessage(demoMessage); err != nil {
			return fmt.Errorf("message: %w", err)
		}
	}
	if demoQuick > 0 {
		if err := sess.SubmitQuickPrompt(demoQuick - 1); err != nil {
			return fmt.Errorf("quick prompt: %w", err)
		}
	}
	if demoPrompt != "" {
		// Known genres may be abbreviated; anything else passes through as-is.
		genre := demoGenre
		if info, ok := catalog.MatchGenre(genre); ok {
			genre = string(info.ID)
		}
		if err := sess.SubmitSongRequest(demoPrompt, genre); err != nil {
			return fmt.Errorf("song request: %w", err)
		}
	}
	if err := waitIdle(ctx, sess); err != nil {
		return err
	}

	if snap := sess.Snapshot(); snap.Playback.Current != nil && demoPlayFor > 0 {
		sess.TogglePlayPause()
		select {
		case <-time.After(demoPlayFor):
		case <-ctx.Done():
		}
		sess.TogglePlayPause()
	}

	printSummary(sess.Snapshot())
	return nil
}

// waitIdle polls until every queued request is resolved and SYNTHIA has
// finished speaking.
func waitIdle(ctx context.Context, sess *session.Session) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		snap := sess.Snapshot()
		if snap.Pending == 0 && !snap.Thinking && !snap.Speaking {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func printSummary(snap session.Snapshot) {
	fmt.Printf("Session %s\n\n", snap.ID)
	for _, msg := range snap.Messages {
		fmt.Printf("[%s] %-7s %s\n", msg.Timestamp.Format("15:04:05"), msg.Role, msg.Content)
	}

	if len(snap.Songs) > 0 {
		fmt.Println("\nSongs:")
	}
	for _, song := range snap.Songs {
		marker := " "
		if snap.Playback.Current != nil && snap.Playback.Current.ID == song.ID {
			marker = "♪"
		}
		fmt.Printf("  %s %s (%s, %s)\n", marker, song.Title, song.Genre.Label(), player.FormatTime(song.Duration))
	}

	if cur := snap.Playback.Current; cur != nil {
		elapsed := player.Elapsed(cur.Duration, snap.Playback.Progress)
		fmt.Printf("\nPlayed %s / %s (%.1f%%)\n",
			player.FormatTime(elapsed), player.FormatTime(cur.Duration), snap.Playback.Progress)
	}
}
