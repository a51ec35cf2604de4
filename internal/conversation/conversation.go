// Package conversation holds the chat history and the thinking/speaking flags.
package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
	"github.com/clonkbot/synthia-music-ai-972047/internal/logging"
)

// Role identifies who wrote a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is a single chat entry. Messages are never edited after Append.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Machine owns the append-only message history and the two flags that gate
// input and drive the avatar. It is not safe for concurrent use; every call
// must come from the scheduler's thread.
type Machine struct {
	sched clock.Scheduler
	bus   *bus.Bus
	log   *logging.Logger
	newID func() string

	messages []Message
	thinking bool
	speaking bool

	// speakOff holds the timer that ends the current speaking episode.
	speakOff clock.Slot
}

// New creates an empty Machine. A nil logger discards output.
func New(sched clock.Scheduler, b *bus.Bus, log *logging.Logger) *Machine {
	if log == nil {
		log = logging.Nop()
	}
	return &Machine{
		sched: sched,
		bus:   b,
		log:   log,
		newID: uuid.NewString,
	}
}

// Messages returns a copy of the history in append order.
func (m *Machine) Messages() []Message {
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Len returns the number of messages.
func (m *Machine) Len() int {
	return len(m.messages)
}

// IsThinking reports whether a reply or song is being prepared.
func (m *Machine) IsThinking() bool {
	return m.thinking
}

// IsSpeaking reports whether the avatar is voicing the latest reply.
func (m *Machine) IsSpeaking() bool {
	return m.speaking
}

// Append adds a message stamped with the scheduler's current time.
func (m *Machine) Append(role Role, content string) Message {
	msg := Message{
		ID:        m.newID(),
		Role:      role,
		Content:   content,
		Timestamp: m.sched.Now(),
	}
	m.messages = append(m.messages, msg)

	m.log.Debug("conversation", "Message appended", map[string]interface{}{
		"role":  string(role),
		"count": len(m.messages),
	})
	m.bus.Publish(bus.EventMessageAppended, msg)
	return msg
}

// SetThinking sets the thinking flag. Observers are only notified on a flip.
func (m *Machine) SetThinking(v bool) {
	if m.thinking == v {
		return
	}
	m.thinking = v
	m.publishFlags()
}

// Speak sets the speaking flag and schedules it to clear after d. A pending
// clear from an earlier episode is cancelled first, so only the latest
// episode's timer can end speaking.
func (m *Machine) Speak(d time.Duration) {
	m.setSpeaking(true)
	m.speakOff.Replace(m.sched.AfterFunc(d, func() {
		m.speakOff.Release()
		m.setSpeaking(false)
	}))
}

func (m *Machine) setSpeaking(v bool) {
	if m.speaking == v {
		return
	}
	m.speaking = v
	m.publishFlags()
}

func (m *Machine) publishFlags() {
	m.log.Debug("conversation", "Flags changed", map[string]interface{}{
		"thinking": m.thinking,
		"speaking": m.speaking,
	})
	m.bus.Publish(bus.EventFlagsChanged, bus.FlagsPayload{
		Thinking: m.thinking,
		Speaking: m.speaking,
	})
}

// Close cancels the pending speaking-off timer. Flags keep their last value.
func (m *Machine) Close() {
	m.speakOff.Stop()
}
