package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBus(t *testing.T) {
	b := NewBus()
	require.NotNil(t, b)
	assert.Equal(t, DefaultHistorySize, b.historySize)
	assert.NoError(t, b.Close())
}

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBus()
	defer b.Close()

	var got []Event
	id := b.Subscribe(EventFlagsChanged, func(e Event) { got = append(got, e) })
	require.NotEmpty(t, id)

	b.Publish(EventFlagsChanged, FlagsPayload{Thinking: true})
	b.Publish(EventMessageAppended, "ignored")

	require.Len(t, got, 1, "typed subscribers only see their type")
	assert.Equal(t, EventFlagsChanged, got[0].Type)
	assert.Equal(t, FlagsPayload{Thinking: true}, got[0].Payload)
}

func TestPublishIsSynchronousAndOrdered(t *testing.T) {
	b := NewBus()
	defer b.Close()

	var order []string
	b.Subscribe("", func(e Event) { order = append(order, "first:"+string(e.Type)) })
	b.Subscribe("", func(e Event) { order = append(order, "second:"+string(e.Type)) })

	b.Publish(EventSongAdded, nil)
	b.Publish(EventPlaybackTick, nil)

	assert.Equal(t, []string{
		"first:catalog.song_added",
		"second:catalog.song_added",
		"first:playback.tick",
		"second:playback.tick",
	}, order)
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus()
	defer b.Close()

	calls := 0
	id := b.Subscribe(EventAvatarChanged, func(Event) { calls++ })

	b.Publish(EventAvatarChanged, nil)
	require.NoError(t, b.Unsubscribe(id))
	b.Publish(EventAvatarChanged, nil)

	assert.Equal(t, 1, calls)
	assert.Error(t, b.Unsubscribe(id), "unsubscribing twice reports not found")
}

func TestSubscribeMultiple(t *testing.T) {
	b := NewBus()
	defer b.Close()

	calls := 0
	ids := b.SubscribeMultiple([]EventType{EventSongAdded, EventPlaybackChanged}, func(Event) { calls++ })

	b.Publish(EventSongAdded, nil)
	b.Publish(EventPlaybackChanged, nil)
	b.Publish(EventPlaybackTick, nil)

	assert.Len(t, ids, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, b.SubscriptionsCount())
}

func TestHistory(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBusWithConfig(3, func() time.Time { return start })
	defer b.Close()

	for i := 0; i < 5; i++ {
		b.Publish(EventPlaybackTick, i)
	}

	history := b.GetHistory()
	require.Len(t, history, 3)
	assert.Equal(t, 2, history[0].Payload)
	assert.Equal(t, 4, history[2].Payload)
	assert.Equal(t, uint64(5), history[2].ID)
	assert.Equal(t, start, history[2].Timestamp)

	last := b.GetHistorySlice(2)
	require.Len(t, last, 2)
	assert.Equal(t, 3, last[0].Payload)
	assert.Len(t, b.GetHistorySlice(10), 3)
}

func TestHandlerMayUnsubscribeItself(t *testing.T) {
	b := NewBus()
	defer b.Close()

	calls := 0
	var id SubscriptionID
	id = b.Subscribe(EventPlaybackTick, func(Event) {
		calls++
		_ = b.Unsubscribe(id)
	})

	b.Publish(EventPlaybackTick, nil)
	b.Publish(EventPlaybackTick, nil)
	assert.Equal(t, 1, calls)
}

func TestClose(t *testing.T) {
	b := NewBus()

	calls := 0
	b.Subscribe("", func(Event) { calls++ })

	require.NoError(t, b.Close())
	assert.Error(t, b.Close())

	b.Publish(EventSongAdded, nil)
	assert.Equal(t, 0, calls)
	assert.Empty(t, b.Subscribe(EventSongAdded, func(Event) {}))
}
