// Package avatar manages the avatar's expression state and animations
package avatar

import (
	"time"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
	"github.com/clonkbot/synthia-music-ai-972047/internal/random"
)

// Mode is the avatar's macro state
type Mode string

const (
	ModeIdle      Mode = "idle"
	ModeListening Mode = "listening"
	ModeThinking  Mode = "thinking"
	ModeSpeaking  Mode = "speaking"
)

// EyeState represents eye animation state
type EyeState string

const (
	EyeOpen   EyeState = "open"
	EyeClosed EyeState = "closed"
)

// State represents the avatar's current state
type State struct {
	Mode          Mode     `json:"mode"`
	EyeState      EyeState `json:"eyeState"`
	Blinking      bool     `json:"blinking"`
	MouthOpenness float64  `json:"mouthOpenness"`
	IsThinking    bool     `json:"isThinking"`
	IsSpeaking    bool     `json:"isSpeaking"`
}

// Config holds animation timing
type Config struct {
	BlinkMinGap   time.Duration
	BlinkMaxGap   time.Duration // exclusive
	BlinkDuration time.Duration
	MouthInterval time.Duration
}

// DefaultConfig returns the stock animation timing
func DefaultConfig() Config {
	return Config{
		BlinkMinGap:   3 * time.Second,
		BlinkMaxGap:   5 * time.Second,
		BlinkDuration: 150 * time.Millisecond,
		MouthInterval: 100 * time.Millisecond,
	}
}

// ModeFor maps the conversation flags to a macro mode. Thinking wins over
// speaking. A stopped avatar is idle.
func ModeFor(thinking, speaking, running bool) Mode {
	switch {
	case !running:
		return ModeIdle
	case thinking:
		return ModeThinking
	case speaking:
		return ModeSpeaking
	default:
		return ModeListening
	}
}

// StatusLabel returns the badge text shown next to the face
func StatusLabel(m Mode) string {
	switch m {
	case ModeThinking:
		return "Thinking..."
	case ModeSpeaking:
		return "Speaking"
	case ModeListening:
		return "Listening"
	default:
		return "Idle"
	}
}

// Controller drives the blink and mouth animations. It reacts to
// conversation flag changes on the bus and publishes its own state on every
// change. It is not safe for concurrent use.
type Controller struct {
	sched clock.Scheduler
	bus   *bus.Bus
	rng   random.Source
	log   *logging.Logger
	cfg   Config

	state   State
	running bool
	sub     bus.SubscriptionID

	// Animation timers
	blinkWait clock.Slot
	blinkEnd  clock.Slot
	mouth     clock.Slot
}

// NewController creates a stopped avatar controller
func NewController(sched clock.Scheduler, b *bus.Bus, rng random.Source, cfg Config, log *logging.Logger) *Controller {
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		sched: sched,
		bus:   b,
		rng:   rng,
		log:   log,
		cfg:   cfg,
		state: State{
			Mode:     ModeIdle,
			EyeState: EyeOpen,
		},
	}
}

// Start subscribes to conversation flags and begins the blink loop
func (c *Controller) Start() {
	if c.running {
		return
	}
	c.running = true
	c.sub = c.bus.Subscribe(bus.EventFlagsChanged, func(e bus.Event) {
		if flags, ok := e.Payload.(bus.FlagsPayload); ok {
			c.SetFlags(flags.Thinking, flags.Speaking)
		}
	})
	c.scheduleBlink()
	c.SetFlags(c.state.IsThinking, c.state.IsSpeaking)

	c.log.Info("avatar", "Animations started", nil)
}

// Stop halts all animation loops and returns to idle
func (c *Controller) Stop() {
	if !c.running {
		return
	}
	c.running = false
	if c.sub != "" {
		_ = c.bus.Unsubscribe(c.sub)
		c.sub = ""
	}
	c.blinkWait.Stop()
	c.blinkEnd.Stop()
	c.mouth.Stop()

	c.state.Blinking = false
	c.state.EyeState = EyeOpen
	c.state.MouthOpenness = 0
	c.refresh()

	c.log.Info("avatar", "Animations stopped", nil)
}

// GetState returns the current state
func (c *Controller) GetState() State {
	return c.state
}

// Running reports whether the animation loops are active
func (c *Controller) Running() bool {
	return c.running
}

// SetFlags mirrors the conversation flags. The mouth animates only while
// speaking and closes the moment speaking ends.
func (c *Controller) SetFlags(thinking, speaking bool) {
	c.state.IsThinking = thinking
	c.state.IsSpeaking = speaking

	switch {
	case speaking && c.running && !c.mouth.Active():
		c.mouth.Replace(clock.Every(c.sched, c.cfg.MouthInterval, c.moveMouth))
	case !speaking:
		c.mouth.Stop()
		c.state.MouthOpenness = 0
	}
	c.refresh()
}

// scheduleBlink waits a freshly drawn gap and blinks. Each blink schedules
// the next one.
func (c *Controller) scheduleBlink() {
	gap := random.Duration(c.rng, c.cfg.BlinkMinGap, c.cfg.BlinkMaxGap)
	c.blinkWait.Replace(c.sched.AfterFunc(gap, func() {
		c.blinkWait.Release()
		c.blink()
	}))
}

// blink closes the eyes and opens them after BlinkDuration
func (c *Controller) blink() {
	c.state.Blinking = true
	c.state.EyeState = EyeClosed
	c.notifyStateChange()

	c.blinkEnd.Replace(c.sched.AfterFunc(c.cfg.BlinkDuration, func() {
		c.blinkEnd.Release()
		c.state.Blinking = false
		c.state.EyeState = EyeOpen
		c.notifyStateChange()
	}))
	c.scheduleBlink()
}

func (c *Controller) moveMouth() {
	c.state.MouthOpenness = c.rng.Float64()
	c.notifyStateChange()
}

// refresh recomputes the macro mode and publishes the state
func (c *Controller) refresh() {
	mode := ModeFor(c.state.IsThinking, c.state.IsSpeaking, c.running)
	if mode != c.state.Mode {
		c.log.Debug("avatar", "Mode changed", map[string]interface{}{
			"from": string(c.state.Mode),
			"to":   string(mode),
		})
	}
	c.state.Mode = mode
	c.notifyStateChange()
}

// notifyStateChange publishes the state to observers
func (c *Controller) notifyStateChange() {
	c.bus.Publish(bus.EventAvatarChanged, c.state)
}
