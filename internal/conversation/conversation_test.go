package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clonkbot/synthia-music-ai-972047/internal/bus"
	"github.com/clonkbot/synthia-music-ai-972047/internal/clock"
)

var epoch = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newMachine(t *testing.T) (*Machine, *clock.Manual, *bus.Bus) {
	t.Helper()
	clk := clock.NewManual(epoch)
	b := bus.NewBus()
	t.Cleanup(func() { _ = b.Close() })
	return New(clk, b, nil), clk, b
}

func TestAppendKeepsOrder(t *testing.T) {
	m, clk, b := newMachine(t)

	var appended []Message
	b.Subscribe(bus.EventMessageAppended, func(e bus.Event) {
		appended = append(appended, e.Payload.(Message))
	})

	m.Append(RoleUser, "hello")
	clk.Advance(time.Second)
	m.Append(RoleBot, "hi there")

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, epoch, msgs[0].Timestamp)
	assert.Equal(t, RoleBot, msgs[1].Role)
	assert.Equal(t, epoch.Add(time.Second), msgs[1].Timestamp)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	assert.Equal(t, msgs, appended, "every append is published in order")
}

func TestMessagesReturnsCopy(t *testing.T) {
	m, _, _ := newMachine(t)
	m.Append(RoleUser, "original")

	msgs := m.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "original", m.Messages()[0].Content)
}

func TestSetThinkingPublishesOnlyOnFlip(t *testing.T) {
	m, _, b := newMachine(t)

	var flags []bus.FlagsPayload
	b.Subscribe(bus.EventFlagsChanged, func(e bus.Event) {
		flags = append(flags, e.Payload.(bus.FlagsPayload))
	})

	m.SetThinking(true)
	m.SetThinking(true)
	m.SetThinking(false)
	m.SetThinking(false)

	assert.Equal(t, []bus.FlagsPayload{{Thinking: true}, {Thinking: false}}, flags)
	assert.False(t, m.IsThinking())
}

func TestSpeakClearsAfterDelay(t *testing.T) {
	m, clk, _ := newMachine(t)

	m.Speak(3 * time.Second)
	assert.True(t, m.IsSpeaking())

	clk.Advance(2999 * time.Millisecond)
	assert.True(t, m.IsSpeaking())

	clk.Advance(time.Millisecond)
	assert.False(t, m.IsSpeaking())
	assert.Equal(t, 0, clk.Pending())
}

func TestSpeakReplacesPendingClear(t *testing.T) {
	m, clk, b := newMachine(t)

	var offAt []time.Time
	b.Subscribe(bus.EventFlagsChanged, func(e bus.Event) {
		if !e.Payload.(bus.FlagsPayload).Speaking {
			offAt = append(offAt, clk.Now())
		}
	})

	m.Speak(3 * time.Second)
	clk.Advance(time.Second)
	m.Speak(3 * time.Second)

	// The first episode's clear would have fired at +3s.
	clk.Advance(2 * time.Second)
	assert.True(t, m.IsSpeaking())

	clk.Advance(2 * time.Second)
	assert.False(t, m.IsSpeaking())
	assert.Equal(t, []time.Time{epoch.Add(4 * time.Second)}, offAt)
	assert.Equal(t, 0, clk.Pending())
}

func TestCloseCancelsSpeakingTimer(t *testing.T) {
	m, clk, _ := newMachine(t)

	m.Speak(time.Second)
	m.Close()
	m.Close()

	assert.Equal(t, 0, clk.Pending())
	clk.Advance(time.Minute)
	assert.True(t, m.IsSpeaking(), "flags keep their value after close")
}
