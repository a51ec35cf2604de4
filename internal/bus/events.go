// Package bus provides the observer bus that carries SYNTHIA state changes to
// renderers and to components that react to each other's flags.
package bus

import "time"

// EventType identifies different event types
type EventType string

// Event types for SYNTHIA
const (
	// Conversation events
	EventMessageAppended EventType = "conversation.message_appended"
	EventFlagsChanged    EventType = "conversation.flags_changed"

	// Catalog events
	EventSongAdded EventType = "catalog.song_added"

	// Playback events
	EventPlaybackChanged EventType = "playback.changed"
	EventPlaybackTick    EventType = "playback.tick"

	// Avatar events
	EventAvatarChanged EventType = "avatar.state_changed"

	// Simulator events
	EventRequestQueued   EventType = "responder.request_queued"
	EventRequestResolved EventType = "responder.request_resolved"
)

// AllEventTypes lists every event type in publication-domain order.
var AllEventTypes = []EventType{
	EventMessageAppended,
	EventFlagsChanged,
	EventSongAdded,
	EventPlaybackChanged,
	EventPlaybackTick,
	EventAvatarChanged,
	EventRequestQueued,
	EventRequestResolved,
}

// Event is a single state-change notification.
type Event struct {
	ID        uint64    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Payload carries the component-specific value, e.g. a conversation
	// message or an avatar state. Handlers type-switch on it.
	Payload any `json:"payload,omitempty"`
}

// FlagsPayload is the payload of EventFlagsChanged.
type FlagsPayload struct {
	Thinking bool `json:"thinking"`
	Speaking bool `json:"speaking"`
}

// RequestPayload is the payload of the responder events.
type RequestPayload struct {
	Kind    string `json:"kind"`
	Pending int    `json:"pending"`
}
