package player

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	clk     *clock.Manual
	bus     *bus.Bus
	catalog *catalog.Catalog
	player  *Player
}

func newFixture(t *testing.T, cfg Config, rng random.Source) *fixture {
	t.Helper()
	clk := clock.NewManual(epoch)
	b := bus.NewBus()
	t.Cleanup(func() { _ = b.Close() })
	cat := catalog.New(b)
	return &fixture{
		clk:     clk,
		bus:     b,
		catalog: cat,
		player:  New(clk, b, rng, cat, cfg, nil),
	}
}

func (f *fixture) addSong(id string) catalog.Song {
	song := catalog.NewSong(id, "prompt "+id, catalog.GenrePop, random.New(int64(id[len(id)-1])))
	f.catalog.Add(song)
	return song
}

func TestToggleWithoutSongIsNoop(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.5))

	assert.False(t, f.player.TogglePlayPause())
	assert.False(t, f.player.IsPlaying())
	assert.Equal(t, 0, f.clk.Pending())
}

func TestSelectUnknownSong(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.5))

	err := f.player.Select("nope")
	assert.True(t, errors.Is(err, ErrSongNotFound))
	assert.Empty(t, f.player.CurrentID())
}

func TestProgressAfterNTicks(t *testing.T) {
	tests := []struct {
		ticks int
		want  float64
	}{
		{0, 0},
		{1, 0.5},
		{10, 5},
		{199, 99.5},
		{200, 0},
		{250, 25},
		{450, 25},
	}

	for _, tt := range tests {
		f := newFixture(t, DefaultConfig(), random.NewFixed(0.5))
		f.addSong("s1")
		require.NoError(t, f.player.Select("s1"))
		require.True(t, f.player.TogglePlayPause())

		f.clk.Advance(time.Duration(tt.ticks) * 100 * time.Millisecond)
		assert.Equal(t, tt.want, f.player.Progress(), "ticks=%d", tt.ticks)
	}
}

func TestPauseBeforeTickLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.9))
	song := f.addSong("s1")
	require.NoError(t, f.player.Select("s1"))

	f.player.TogglePlayPause()
	f.clk.Advance(50 * time.Millisecond)
	f.player.TogglePlayPause()

	st := f.player.State()
	assert.Equal(t, 0.0, st.Progress)
	assert.Equal(t, song.Waveform, st.Waveform)
	assert.False(t, f.player.Ticking())

	f.clk.Advance(time.Second)
	assert.Equal(t, song.Waveform, f.player.State().Waveform, "no tick after pause")
	assert.Equal(t, 0, f.clk.Pending())
}

func TestWaveformRandomWalkIsClamped(t *testing.T) {
	// Alternating extremes push every bar against both bounds.
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.999, 0.0))
	f.addSong("s1")
	require.NoError(t, f.player.Select("s1"))
	f.player.TogglePlayPause()

	for i := 0; i < 30; i++ {
		f.clk.Advance(100 * time.Millisecond)
		for _, v := range f.player.State().Waveform {
			require.GreaterOrEqual(t, v, catalog.MinAmplitude)
			require.LessOrEqual(t, v, catalog.MaxAmplitude)
		}
	}
}

func TestWaveformPerturbationMagnitude(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(1.0))
	f.catalog.Add(catalog.Song{ID: "flat", Duration: 120, Waveform: []float64{0.5, 0.5}})
	require.NoError(t, f.player.Select("flat"))
	f.player.TogglePlayPause()

	f.clk.Advance(100 * time.Millisecond)
	for _, v := range f.player.State().Waveform {
		assert.InDelta(t, 0.6, v, 1e-9)
	}

	stored, _ := f.catalog.Get("flat")
	assert.Equal(t, []float64{0.5, 0.5}, stored.Waveform, "catalog copy is never animated")
}

func TestClearStopsTicking(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.5))
	f.addSong("s1")
	require.NoError(t, f.player.Select("s1"))
	f.player.TogglePlayPause()
	f.clk.Advance(300 * time.Millisecond)

	ticks := 0
	f.bus.Subscribe(bus.EventPlaybackTick, func(bus.Event) { ticks++ })

	f.player.Clear()
	f.clk.Advance(time.Second)

	assert.Equal(t, 0, ticks)
	assert.False(t, f.player.IsPlaying())
	assert.Equal(t, 0, f.clk.Pending())
}

func TestSelectResetsProgressOnDifferentSong(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.5))
	f.addSong("s1")
	second := f.addSong("s2")
	require.NoError(t, f.player.Select("s1"))
	f.player.TogglePlayPause()
	f.clk.Advance(time.Second)
	require.Equal(t, 5.0, f.player.Progress())

	require.NoError(t, f.player.Select("s1"))
	assert.Equal(t, 5.0, f.player.Progress(), "re-selecting the current song keeps progress")

	require.NoError(t, f.player.Select("s2"))
	assert.Equal(t, 0.0, f.player.Progress())
	assert.Equal(t, second.Waveform, f.player.State().Waveform)
	assert.True(t, f.player.IsPlaying(), "selection keeps the play flag")
	assert.True(t, f.player.Ticking())
}

func TestSelectKeepsProgressWhenResetDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ResetOnSelect = false
	f := newFixture(t, cfg, random.NewFixed(0.5))
	f.addSong("s1")
	f.addSong("s2")
	require.NoError(t, f.player.Select("s1"))
	f.player.TogglePlayPause()
	f.clk.Advance(time.Second)

	require.NoError(t, f.player.Select("s2"))
	assert.Equal(t, 5.0, f.player.Progress())
}

func TestCloseStopsTicking(t *testing.T) {
	f := newFixture(t, DefaultConfig(), random.NewFixed(0.5))
	f.addSong("s1")
	require.NoError(t, f.player.Select("s1"))
	f.player.TogglePlayPause()

	f.player.Close()
	assert.Equal(t, 0, f.clk.Pending())
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "0:00", FormatTime(0))
	assert.Equal(t, "0:09", FormatTime(9))
	assert.Equal(t, "2:00", FormatTime(120))
	assert.Equal(t, "3:59", FormatTime(239))
	assert.Equal(t, "0:00", FormatTime(-4))
}

func TestElapsedAndFilledBars(t *testing.T) {
	assert.Equal(t, 0, Elapsed(200, 0))
	assert.Equal(t, 100, Elapsed(200, 50))
	assert.Equal(t, 199, Elapsed(200, 99.5))

	assert.Equal(t, 0, FilledBars(50, 0))
	assert.Equal(t, 1, FilledBars(50, 0.5))
	assert.Equal(t, 25, FilledBars(50, 50))
	assert.Equal(t, 50, FilledBars(50, 99.5))
}
