// Package events buffers the interaction events the agent records before
// they are dispatched. Plugins are the event sources; the buffer is the
// single sink they all record into.
package events

import (
	"encoding/json"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/xtgo/uuid"
)

const SessionStartEventType = "com.amazon.rum.session_start_event"

const DefaultBufferLimit = 200

// Event is one recorded occurrence. Details is the event-type-specific
// payload, already serialized.
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// Recorder accepts events from plugins.
type Recorder interface {
	RecordEvent(eventType string, details interface{})
}

// Buffer is a bounded in-memory Recorder. When full it drops the oldest
// events; delivery is best-effort and a long session must not grow without
// bound.
type Buffer struct {
	mu     sync.Mutex
	limit  int
	events []Event
}

func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultBufferLimit
	}
	return &Buffer{limit: limit}
}

func (b *Buffer) RecordEvent(eventType string, details interface{}) {
	var data json.RawMessage
	if details != nil {
		encoded, err := json.Marshal(details)
		if err != nil {
			log.Debugf("dropping %s event: %s", eventType, err)
			return
		}
		data = encoded
	}

	event := Event{
		ID:        uuid.NewRandom().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Details:   data,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	if over := len(b.events) - b.limit; over > 0 {
		log.Debugf("event buffer full, dropping %d oldest", over)
		b.events = b.events[over:]
	}
}

// Drain removes and returns all buffered events, oldest first.
func (b *Buffer) Drain() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	drained := b.events
	b.events = nil
	return drained
}

// Requeue puts undelivered events back at the front of the buffer so a
// later flush retries them, still bounded by the limit.
func (b *Buffer) Requeue(events []Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(events, b.events...)
	if over := len(b.events) - b.limit; over > 0 {
		b.events = b.events[over:]
	}
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
