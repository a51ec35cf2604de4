package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
	"github.com/clonkbot/synthia-music-ai-972047/internal/player"
)

var barGlyphs = []rune("▁▂▃▄▅▆▇█")

// WaveformGlyphs maps amplitudes in [0,1] to bar glyphs
func WaveformGlyphs(waveform []float64) []rune {
	return lo.Map(waveform, func(v float64, _ int) rune {
		i := int(v * float64(len(barGlyphs)))
		return barGlyphs[lo.Clamp(i, 0, len(barGlyphs)-1)]
	})
}

// PlayerPanel shows the current song, its waveform and the song list
type PlayerPanel struct {
	styles   Styles
	width    int
	height   int
	focused  bool
	cursor   int
	songs    []catalog.Song
	state    player.State
	progress progress.Model
}

// NewPlayerPanel creates an empty player panel
func NewPlayerPanel(styles Styles, width, height int) *PlayerPanel {
	pp := &PlayerPanel{
		styles: styles,
		progress: progress.New(
			progress.WithGradient(styles.Colors.Highlight, styles.Colors.Secondary),
			progress.WithoutPercentage(),
		),
	}
	pp.SetSize(width, height)
	return pp
}

// SetSize updates dimensions
func (pp *PlayerPanel) SetSize(width, height int) {
	pp.width = width
	pp.height = height
	pp.progress.Width = max(width-6, 10)
}

// Focus activates the panel
func (pp *PlayerPanel) Focus() {
	pp.focused = true
}

// Blur deactivates the panel
func (pp *PlayerPanel) Blur() {
	pp.focused = false
}

// SetState replaces the song list and playback state. The cursor jumps to
// the current song whenever the current song changes.
func (pp *PlayerPanel) SetState(songs []catalog.Song, state player.State) {
	prev := currentID(pp.state)
	pp.songs = songs
	pp.state = state

	if id := currentID(state); id != "" && id != prev {
		_, idx, found := lo.FindIndexOf(songs, func(s catalog.Song) bool { return s.ID == id })
		if found {
			pp.cursor = idx
		}
	}
	pp.cursor = lo.Clamp(pp.cursor, 0, max(len(songs)-1, 0))
}

// MoveCursor moves the list cursor by delta, clamped to the list
func (pp *PlayerPanel) MoveCursor(delta int) {
	pp.cursor = lo.Clamp(pp.cursor+delta, 0, max(len(pp.songs)-1, 0))
}

// Cursor returns the list cursor position
func (pp *PlayerPanel) Cursor() int {
	return pp.cursor
}

// SelectedID returns the song under the cursor, or "" when the list is empty
func (pp *PlayerPanel) SelectedID() string {
	if pp.cursor < 0 || pp.cursor >= len(pp.songs) {
		return ""
	}
	return pp.songs[pp.cursor].ID
}

func currentID(st player.State) string {
	if st.Current == nil {
		return ""
	}
	return st.Current.ID
}

// View renders the panel
func (pp *PlayerPanel) View() string {
	s := pp.styles.Player
	var b strings.Builder

	if cur := pp.state.Current; cur != nil {
		icon := "⏸"
		if pp.state.IsPlaying {
			icon = "▶"
		}
		b.WriteString(icon + " " + s.Title.Render(cur.Title) + "  " + s.Genre.Render(cur.Genre.Label()))
		b.WriteString("\n")
		b.WriteString(pp.renderWaveform())
		b.WriteString("\n")
		b.WriteString(pp.progress.ViewAs(pp.state.Progress / 100))
		b.WriteString("\n")
		elapsed := player.FormatTime(player.Elapsed(cur.Duration, pp.state.Progress))
		b.WriteString(s.Time.Render(elapsed + " / " + player.FormatTime(cur.Duration)))
	} else {
		b.WriteString(s.Placeholder.Render("No song selected. Create one!"))
	}

	b.WriteString("\n\n")
	b.WriteString(pp.renderSongs())

	return pp.styles.Panel("Player", b.String(), pp.width, pp.focused)
}

func (pp *PlayerPanel) renderWaveform() string {
	glyphs := WaveformGlyphs(pp.state.Waveform)
	filled := player.FilledBars(len(glyphs), pp.state.Progress)
	return pp.styles.Player.BarFilled.Render(string(glyphs[:filled])) +
		pp.styles.Player.BarEmpty.Render(string(glyphs[filled:]))
}

func (pp *PlayerPanel) renderSongs() string {
	s := pp.styles.Player
	if len(pp.songs) == 0 {
		return s.Placeholder.Render("Your songs will appear here")
	}

	cur := currentID(pp.state)
	rows := lo.Map(pp.songs, func(song catalog.Song, i int) string {
		marker := "  "
		if pp.focused && i == pp.cursor {
			marker = s.Cursor.Render("> ")
		}
		style := s.Song
		if song.ID == cur {
			style = s.Current
		}
		line := fmt.Sprintf("%s  %s  %s", song.Title, song.Genre.Label(), player.FormatTime(song.Duration))
		return marker + style.Render(line)
	})

	// Keep the cursor row visible.
	visible := max(pp.height-10, 3)
	start := 0
	if pp.cursor >= visible {
		start = pp.cursor - visible + 1
	}
	end := min(start+visible, len(rows))
	return lipgloss.JoinVertical(lipgloss.Left, rows[start:end]...)
}
