// Package player implements the playback clock: the current song reference,
// the play/pause flag, looping progress and the animated waveform.
package player

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
)

// ErrSongNotFound is returned when selecting a song the catalog does not hold.
var ErrSongNotFound = errors.New("song not found")

// Config controls the playback clock.
type Config struct {
	TickInterval  time.Duration // time between ticks
	ProgressStep  float64       // percentage points added per tick
	Jitter        float64       // max absolute waveform perturbation per tick
	ResetOnSelect bool          // selecting a different song restarts progress
}

// DefaultConfig returns the stock playback settings.
func DefaultConfig() Config {
	return Config{
		TickInterval:  100 * time.Millisecond,
		ProgressStep:  0.5,
		Jitter:        0.1,
		ResetOnSelect: true,
	}
}

// State is a snapshot of the player.
type State struct {
	Current   *catalog.Song `json:"current,omitempty"`
	IsPlaying bool          `json:"isPlaying"`
	Progress  float64       `json:"progress"`
	Waveform  []float64     `json:"waveform"`
}

// Player holds a reference to the current catalog song and animates its own
// copy of the waveform while playing. It is not safe for concurrent use.
type Player struct {
	sched   clock.Scheduler
	bus     *bus.Bus
	rng     random.Source
	log     *logging.Logger
	catalog *catalog.Catalog
	cfg     Config

	currentID string
	playing   bool
	progress  float64
	waveform  []float64

	ticker clock.Slot
}

// New creates a stopped player with no current song.
func New(sched clock.Scheduler, b *bus.Bus, rng random.Source, cat *catalog.Catalog, cfg Config, log *logging.Logger) *Player {
	if log == nil {
		log = logging.Nop()
	}
	return &Player{
		sched:   sched,
		bus:     b,
		rng:     rng,
		log:     log,
		catalog: cat,
		cfg:     cfg,
	}
}

// Select makes the song with the given ID current. Selecting a different song
// reloads the animated waveform from it and, with ResetOnSelect, restarts
// progress. Re-selecting the current song changes nothing.
func (p *Player) Select(id string) error {
	song, ok := p.catalog.Get(id)
	if !ok {
		return fmt.Errorf("select %q: %w", id, ErrSongNotFound)
	}
	if id == p.currentID {
		return nil
	}

	p.currentID = song.ID
	p.waveform = song.Waveform
	if p.cfg.ResetOnSelect {
		p.progress = 0
	}

	p.log.Info("player", "Song selected", map[string]interface{}{
		"song":  song.ID,
		"title": song.Title,
	})
	p.sync()
	p.publishChanged()
	return nil
}

// TogglePlayPause flips the play flag and returns its new value. Without a
// current song it does nothing and returns false.
func (p *Player) TogglePlayPause() bool {
	if p.currentID == "" {
		return false
	}
	p.playing = !p.playing

	p.log.Debug("player", "Play toggled", map[string]interface{}{
		"playing":  p.playing,
		"progress": p.progress,
	})
	p.sync()
	p.publishChanged()
	return p.playing
}

// Clear drops the current song and stops playback.
func (p *Player) Clear() {
	if p.currentID == "" && !p.playing {
		return
	}
	p.currentID = ""
	p.playing = false
	p.waveform = nil
	p.progress = 0
	p.sync()
	p.publishChanged()
}

// IsPlaying reports the play flag.
func (p *Player) IsPlaying() bool {
	return p.playing
}

// Progress returns the percentage of the song elapsed, in [0,100).
func (p *Player) Progress() float64 {
	return p.progress
}

// CurrentID returns the current song's ID, or "" when none is selected.
func (p *Player) CurrentID() string {
	return p.currentID
}

// State returns a snapshot with copied waveform data.
func (p *Player) State() State {
	st := State{
		IsPlaying: p.playing,
		Progress:  p.progress,
		Waveform:  append([]float64(nil), p.waveform...),
	}
	if song, ok := p.catalog.Get(p.currentID); ok {
		st.Current = &song
	}
	return st
}

// Ticking reports whether the tick timer is armed.
func (p *Player) Ticking() bool {
	return p.ticker.Active()
}

// sync arms or cancels the tick timer so that it runs exactly while a song is
// current and the play flag is set. Every mutation of either field calls it.
func (p *Player) sync() {
	want := p.playing && p.currentID != ""
	switch {
	case want && !p.ticker.Active():
		p.ticker.Replace(clock.Every(p.sched, p.cfg.TickInterval, p.tick))
	case !want:
		p.ticker.Stop()
	}
}

func (p *Player) tick() {
	p.progress = math.Mod(p.progress+p.cfg.ProgressStep, 100)
	for i, v := range p.waveform {
		delta := (p.rng.Float64() - 0.5) * 2 * p.cfg.Jitter
		p.waveform[i] = lo.Clamp(v+delta, catalog.MinAmplitude, catalog.MaxAmplitude)
	}
	p.bus.Publish(bus.EventPlaybackTick, p.progress)
}

func (p *Player) publishChanged() {
	p.bus.Publish(bus.EventPlaybackChanged, p.State())
}

// Close stops the tick timer.
func (p *Player) Close() {
	p.playing = false
	p.ticker.Stop()
}

// Elapsed returns the whole seconds of the song played at the given progress.
func Elapsed(duration int, progress float64) int {
	return int(float64(duration) * progress / 100)
}

// FormatTime renders seconds as m:ss.
func FormatTime(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FilledBars returns how many of n waveform bars lie before progress.
func FilledBars(n int, progress float64) int {
	filled := 0
	for i := 0; i < n; i++ {
		if float64(i)/float64(n)*100 < progress {
			filled++
		}
	}
	return filled
}
