// Package responder turns user actions into delayed, canned outcomes: a bot
// reply for a chat message, or a generated song for a song request.
package responder

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
	"github.com/clonkbot/synthia-music-ai-972047/internal/conversation"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/player"
	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
)

var (
	// ErrEmptyInput is returned for blank messages and prompts.
	ErrEmptyInput = errors.New("input is empty")
	// ErrBusy is returned when the request queue is full.
	ErrBusy = errors.New("too many pending requests")
)

// Kind identifies a request type.
type Kind string

const (
	KindReply Kind = "reply"
	KindSong  Kind = "song"
)

// Config holds the simulated delays.
type Config struct {
	ReplyDelay time.Duration // thinking time before a chat reply
	SongDelay  time.Duration // thinking time before a song is ready
	ReplySpeak time.Duration // speaking time after a chat reply
	SongSpeak  time.Duration // speaking time after a song announcement
	MaxPending int           // requests allowed to wait behind the active one
}

// DefaultConfig returns the stock delays.
func DefaultConfig() Config {
	return Config{
		ReplyDelay: 1500 * time.Millisecond,
		SongDelay:  3000 * time.Millisecond,
		ReplySpeak: 3000 * time.Millisecond,
		SongSpeak:  2500 * time.Millisecond,
		MaxPending: 4,
	}
}

type request struct {
	kind   Kind
	prompt string
	genre  catalog.Genre
}

// Responder serializes requests through a FIFO queue. Only the request at the
// head of the queue has a timer, so at most one reply is pending at a time.
// It is not safe for concurrent use.
type Responder struct {
	sched  clock.Scheduler
	bus    *bus.Bus
	rng    random.Source
	log    *logging.Logger
	cfg    Config
	conv   *conversation.Machine
	cat    *catalog.Catalog
	player *player.Player
	newID  func() string

	queue   []request
	pending clock.Slot
}

// Deps are the components a Responder mutates.
type Deps struct {
	Scheduler    clock.Scheduler
	Bus          *bus.Bus
	Random       random.Source
	Logger       *logging.Logger
	Conversation *conversation.Machine
	Catalog      *catalog.Catalog
	Player       *player.Player
}

// New creates an idle Responder.
func New(deps Deps, cfg Config) *Responder {
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}
	return &Responder{
		sched:  deps.Scheduler,
		bus:    deps.Bus,
		rng:    deps.Random,
		log:    log,
		cfg:    cfg,
		conv:   deps.Conversation,
		cat:    deps.Catalog,
		player: deps.Player,
		newID:  uuid.NewString,
	}
}

// SubmitUserMessage appends the trimmed text as a user message right away and
// queues a bot reply.
func (r *Responder) SubmitUserMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	if r.full() {
		return ErrBusy
	}

	r.conv.Append(conversation.RoleUser, text)
	r.enqueue(request{kind: KindReply})
	return nil
}

// SubmitSongRequest queues a song generation. The genre is not validated.
func (r *Responder) SubmitSongRequest(prompt, genre string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return ErrEmptyInput
	}
	if r.full() {
		return ErrBusy
	}

	r.enqueue(request{kind: KindSong, prompt: prompt, genre: catalog.Genre(genre)})
	return nil
}

// Pending returns the number of unresolved requests, including the active one.
func (r *Responder) Pending() int {
	return len(r.queue)
}

// Close cancels the active timer and drops every queued request.
func (r *Responder) Close() {
	r.pending.Stop()
	if n := len(r.queue); n > 0 {
		r.log.Info("responder", "Dropping unresolved requests", map[string]interface{}{
			"count": n,
		})
	}
	r.queue = nil
}

func (r *Responder) full() bool {
	return len(r.queue) > r.cfg.MaxPending
}

func (r *Responder) enqueue(req request) {
	r.queue = append(r.queue, req)
	r.log.Debug("responder", "Request queued", map[string]interface{}{
		"kind":    string(req.kind),
		"pending": len(r.queue),
	})
	r.bus.Publish(bus.EventRequestQueued, bus.RequestPayload{
		Kind:    string(req.kind),
		Pending: len(r.queue),
	})

	if !r.pending.Active() {
		r.startNext()
	}
}

// startNext raises the thinking flag and arms the timer for the head request.
func (r *Responder) startNext() {
	if len(r.queue) == 0 {
		return
	}
	delay := r.cfg.ReplyDelay
	if r.queue[0].kind == KindSong {
		delay = r.cfg.SongDelay
	}

	r.conv.SetThinking(true)
	r.pending.Replace(r.sched.AfterFunc(delay, func() {
		r.pending.Release()
		r.resolve()
	}))
}

func (r *Responder) resolve() {
	if len(r.queue) == 0 {
		return
	}
	req := r.queue[0]
	r.queue = r.queue[1:]

	r.conv.SetThinking(false)
	switch req.kind {
	case KindReply:
		r.reply()
	case KindSong:
		r.generate(req)
	}

	r.bus.Publish(bus.EventRequestResolved, bus.RequestPayload{
		Kind:    string(req.kind),
		Pending: len(r.queue),
	})
	r.startNext()
}

func (r *Responder) reply() {
	text := Replies[r.rng.Intn(len(Replies))]
	r.conv.Append(conversation.RoleBot, text)
	r.conv.Speak(r.cfg.ReplySpeak)
}

func (r *Responder) generate(req request) {
	song := catalog.NewSong(r.newID(), req.prompt, req.genre, r.rng)
	r.cat.Add(song)
	if err := r.player.Select(song.ID); err != nil {
		r.log.Error("responder", "Failed to select generated song", err, nil)
	}

	r.log.Info("responder", "Song generated", map[string]interface{}{
		"song":     song.ID,
		"title":    song.Title,
		"genre":    string(song.Genre),
		"duration": song.Duration,
	})

	r.conv.Append(conversation.RoleBot, SongAnnouncement(song.Title, string(song.Genre)))
	r.conv.Speak(r.cfg.SongSpeak)
}
