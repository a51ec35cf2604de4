// Package session owns one SYNTHIA session: the conversation, the song
// catalog, the player, the avatar and the responder that drives them.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clonkbot/synthia-music-ai-972047/internal/avatar"
	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/catalog"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
	"github.com/clonkbot/synthia-music-ai-972047/internal/conversation"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/player"
	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
	"github.com/clonkbot/synthia-music-ai-972047/internal/responder"
)

// Config groups the per-component settings.
type Config struct {
	Responder responder.Config
	Player    player.Config
	Avatar    avatar.Config
	Greeting  bool // post the introduction message on start
}

// withDefaults replaces unusable timings with the stock values, field by
// field. Zero jitter, zero queue depth and the flags are kept as given.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	orDefault := func(v *time.Duration, d time.Duration) {
		if *v <= 0 {
			*v = d
		}
	}

	orDefault(&c.Responder.ReplyDelay, def.Responder.ReplyDelay)
	orDefault(&c.Responder.SongDelay, def.Responder.SongDelay)
	orDefault(&c.Responder.ReplySpeak, def.Responder.ReplySpeak)
	orDefault(&c.Responder.SongSpeak, def.Responder.SongSpeak)
	if c.Responder.MaxPending < 0 {
		c.Responder.MaxPending = 0
	}

	orDefault(&c.Player.TickInterval, def.Player.TickInterval)
	if c.Player.ProgressStep <= 0 || c.Player.ProgressStep >= 100 {
		c.Player.ProgressStep = def.Player.ProgressStep
	}
	if c.Player.Jitter < 0 {
		c.Player.Jitter = 0
	}

	orDefault(&c.Avatar.BlinkMinGap, def.Avatar.BlinkMinGap)
	orDefault(&c.Avatar.BlinkDuration, def.Avatar.BlinkDuration)
	orDefault(&c.Avatar.MouthInterval, def.Avatar.MouthInterval)
	if c.Avatar.BlinkMaxGap < c.Avatar.BlinkMinGap {
		c.Avatar.BlinkMaxGap = c.Avatar.BlinkMinGap
	}
	return c
}

// ErrClosed is returned by requests made after Close.
var ErrClosed = errors.New("session closed")

// DefaultConfig returns the stock session settings.
func DefaultConfig() Config {
	return Config{
		Responder: responder.DefaultConfig(),
		Player:    player.DefaultConfig(),
		Avatar:    avatar.DefaultConfig(),
		Greeting:  true,
	}
}

// Options configures New. Zero values get working defaults: a real event
// loop, a time-seeded random source, a fresh bus, a discarding logger and
// DefaultConfig.
type Options struct {
	Scheduler clock.Scheduler
	Random    random.Source
	Bus       *bus.Bus
	Logger    *logging.Logger
	Config    *Config
}

// Snapshot is a consistent copy of the whole session state.
type Snapshot struct {
	ID       string                 `json:"id"`
	Messages []conversation.Message `json:"messages"`
	Thinking bool                   `json:"thinking"`
	Speaking bool                   `json:"speaking"`
	Songs    []catalog.Song         `json:"songs"`
	Playback player.State           `json:"playback"`
	Avatar   avatar.State           `json:"avatar"`
	Pending  int                    `json:"pending"`
}

// Session wires the components together and serializes every access through
// the scheduler. Its methods are safe to call from any goroutine except from
// inside a bus handler, which already runs on the scheduler.
type Session struct {
	id    string
	sched clock.Scheduler
	loop  *clock.Loop // set when the session owns its scheduler
	bus   *bus.Bus
	log   *logging.Logger

	conv      *conversation.Machine
	catalog   *catalog.Catalog
	player    *player.Player
	avatar    *avatar.Controller
	responder *responder.Responder

	closed    bool // guarded by the scheduler
	closeOnce sync.Once
}

// New creates and starts a session.
func New(opts Options) *Session {
	s := &Session{
		id:    uuid.NewString(),
		sched: opts.Scheduler,
		bus:   opts.Bus,
		log:   opts.Logger,
	}
	if s.sched == nil {
		s.loop = clock.NewLoop()
		s.sched = s.loop
	}
	if s.bus == nil {
		s.bus = bus.NewBus()
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	rng := opts.Random
	if rng == nil {
		rng = random.New(0)
	}
	cfg := DefaultConfig()
	if opts.Config != nil {
		cfg = opts.Config.withDefaults()
	}

	s.conv = conversation.New(s.sched, s.bus, s.log)
	s.catalog = catalog.New(s.bus)
	s.player = player.New(s.sched, s.bus, rng, s.catalog, cfg.Player, s.log)
	s.avatar = avatar.NewController(s.sched, s.bus, rng, cfg.Avatar, s.log)
	s.responder = responder.New(responder.Deps{
		Scheduler:    s.sched,
		Bus:          s.bus,
		Random:       rng,
		Logger:       s.log,
		Conversation: s.conv,
		Catalog:      s.catalog,
		Player:       s.player,
	}, cfg.Responder)

	s.sched.Do(func() {
		s.avatar.Start()
		if cfg.Greeting {
			s.conv.Append(conversation.RoleBot, responder.Greeting)
		}
	})

	s.log.Info("session", "Session started", map[string]interface{}{
		"session": s.id,
	})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// call runs fn on the scheduler. It reports ErrClosed when the session is
// closed, including when a closed loop drops fn without running it.
func (s *Session) call(fn func() error) error {
	err := ErrClosed
	s.sched.Do(func() {
		if !s.closed {
			err = fn()
		}
	})
	return err
}

// SubmitUserMessage posts a chat message and queues a reply.
func (s *Session) SubmitUserMessage(text string) error {
	return s.call(func() error { return s.responder.SubmitUserMessage(text) })
}

// SubmitQuickPrompt posts the i-th quick prompt as a chat message.
func (s *Session) SubmitQuickPrompt(i int) error {
	if i < 0 || i >= len(responder.QuickPrompts) {
		return fmt.Errorf("quick prompt %d out of range [0,%d)", i, len(responder.QuickPrompts))
	}
	return s.SubmitUserMessage(responder.QuickPrompts[i])
}

// SubmitSongRequest queues a song generation.
func (s *Session) SubmitSongRequest(prompt, genre string) error {
	return s.call(func() error { return s.responder.SubmitSongRequest(prompt, genre) })
}

// SelectSong makes a catalog song current.
func (s *Session) SelectSong(id string) error {
	return s.call(func() error { return s.player.Select(id) })
}

// TogglePlayPause flips playback and returns the new play flag.
func (s *Session) TogglePlayPause() bool {
	var playing bool
	s.sched.Do(func() { playing = s.player.TogglePlayPause() })
	return playing
}

// Snapshot returns a copy of the whole session state.
func (s *Session) Snapshot() Snapshot {
	var snap Snapshot
	s.sched.Do(func() {
		snap = Snapshot{
			ID:       s.id,
			Messages: s.conv.Messages(),
			Thinking: s.conv.IsThinking(),
			Speaking: s.conv.IsSpeaking(),
			Songs:    s.catalog.Songs(),
			Playback: s.player.State(),
			Avatar:   s.avatar.GetState(),
			Pending:  s.responder.Pending(),
		}
	})
	return snap
}

// Subscribe registers a bus handler. Use "" for every event. Handlers run on
// the scheduler and must not block or call back into the session.
func (s *Session) Subscribe(eventType bus.EventType, handler bus.Handler) bus.SubscriptionID {
	return s.bus.Subscribe(eventType, handler)
}

// Unsubscribe removes a bus handler.
func (s *Session) Unsubscribe(id bus.SubscriptionID) error {
	return s.bus.Unsubscribe(id)
}

// Close stops every timer and closes the bus. It is safe to call more than
// once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.sched.Do(func() {
			s.closed = true
			s.responder.Close()
			s.conv.Close()
			s.player.Close()
			s.avatar.Stop()
		})
		_ = s.bus.Close()
		if s.loop != nil {
			s.loop.Close()
		}
		s.log.Info("session", "Session closed", map[string]interface{}{
			"session": s.id,
		})
	})
}
