package catalog

import (
	"github.com/samber/lo"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
)

// Catalog is the ordered song list owned by the session. It is not safe for
// concurrent use.
type Catalog struct {
	bus   *bus.Bus
	songs []Song
}

// New creates an empty catalog publishing to b.
func New(b *bus.Bus) *Catalog {
	return &Catalog{bus: b}
}

// Add prepends song, so the newest song comes first.
func (c *Catalog) Add(song Song) {
	song = song.Clone()
	c.songs = append([]Song{song}, c.songs...)
	c.bus.Publish(bus.EventSongAdded, song.Clone())
}

// Songs returns copies of every song, newest first.
func (c *Catalog) Songs() []Song {
	return lo.Map(c.songs, func(s Song, _ int) Song { return s.Clone() })
}

// Get returns a copy of the song with the given ID.
func (c *Catalog) Get(id string) (Song, bool) {
	song, ok := lo.Find(c.songs, func(s Song) bool { return s.ID == id })
	if !ok {
		return Song{}, false
	}
	return song.Clone(), true
}

// Len returns the number of songs.
func (c *Catalog) Len() int {
	return len(c.songs)
}
