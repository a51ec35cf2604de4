// Package catalog holds generated songs, newest first.
package catalog

import (
	"strings"

	"github.com/samber/lo"

	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
)

// Genre is a song style. Values outside the known set are carried as-is.
type Genre string

const (
	GenreSynthwave  Genre = "synthwave"
	GenreLofi       Genre = "lofi"
	GenrePop        Genre = "pop"
	GenreElectronic Genre = "electronic"
	GenreAmbient    Genre = "ambient"
	GenreHipHop     Genre = "hiphop"

	DefaultGenre = GenreSynthwave
)

// GenreInfo pairs a genre with its display label.
type GenreInfo struct {
	ID    Genre
	Label string
}

// Genres lists the selectable genres in display order.
var Genres = []GenreInfo{
	{GenreSynthwave, "Synthwave"},
	{GenreLofi, "Lo-Fi"},
	{GenrePop, "Pop"},
	{GenreElectronic, "Electronic"},
	{GenreAmbient, "Ambient"},
	{GenreHipHop, "Hip Hop"},
}

// LookupGenre finds a known genre by ID.
func LookupGenre(id string) (GenreInfo, bool) {
	return lo.Find(Genres, func(g GenreInfo) bool {
		return string(g.ID) == id
	})
}

// Label returns the display label, or the raw value for unknown genres.
func (g Genre) Label() string {
	if info, ok := LookupGenre(string(g)); ok {
		return info.Label
	}
	return string(g)
}

// Song generation parameters.
const (
	WaveformSize = 50
	MinAmplitude = 0.2
	MaxAmplitude = 1.0
	MinDuration  = 120
	MaxDuration  = 240 // exclusive
	TitleLength  = 20
	Ellipsis     = "…"
)

// Song is a generated track. The catalog never mutates a song after Add.
type Song struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Genre    Genre     `json:"genre"`
	Duration int       `json:"duration"` // seconds
	Waveform []float64 `json:"waveform"`
}

// Title derives a song title from the first TitleLength characters of the
// trimmed prompt.
func Title(prompt string) string {
	runes := []rune(strings.TrimSpace(prompt))
	if len(runes) > TitleLength {
		runes = runes[:TitleLength]
	}
	return string(runes) + Ellipsis
}

// NewSong builds a song with a random duration and waveform.
func NewSong(id, prompt string, genre Genre, rng random.Source) Song {
	duration := MinDuration + rng.Intn(MaxDuration-MinDuration)
	waveform := lo.Times(WaveformSize, func(int) float64 {
		return random.Range(rng, MinAmplitude, MaxAmplitude)
	})
	return Song{
		ID:       id,
		Title:    Title(prompt),
		Genre:    genre,
		Duration: duration,
		Waveform: waveform,
	}
}

// Clone returns a copy that shares no waveform storage with s.
func (s Song) Clone() Song {
	s.Waveform = append([]float64(nil), s.Waveform...)
	return s
}
