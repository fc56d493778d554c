package goAuthClient

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/MrEthical07/goAuthClient/credential"
)

// SessionEvent defines a public type used by goAuthClient APIs.
//
// SessionEvent instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Subject   string            `json:"subject,omitempty"`
	State     string            `json:"state"`
	Reason    string            `json:"reason,omitempty"`
	Epoch     uint64            `json:"epoch"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Event types emitted on session transitions and lifecycle operations.
const (
	// EventLogin is an exported constant or variable used by the client SDK.
	EventLogin = "login"
	// EventRegister is an exported constant or variable used by the client SDK.
	EventRegister = "register"
	// EventLogout is an exported constant or variable used by the client SDK.
	EventLogout = "logout"
	// EventRenewal is an exported constant or variable used by the client SDK.
	EventRenewal = "renewal"
	// EventSessionExpired is an exported constant or variable used by the client SDK.
	EventSessionExpired = "session_expired"
	// EventCacheRestore is an exported constant or variable used by the client SDK.
	EventCacheRestore = "cache_restore"
	// EventTransition is an exported constant or variable used by the client SDK.
	EventTransition = "transition"
)

// EventSink defines a public type used by goAuthClient APIs.
type EventSink interface {
	Emit(ctx context.Context, event SessionEvent)
}

// NoOpSink defines a public type used by goAuthClient APIs.
type NoOpSink struct{}

// Emit describes the emit operation and its observable behavior.
func (NoOpSink) Emit(context.Context, SessionEvent) {}

// ChannelSink defines a public type used by goAuthClient APIs.
type ChannelSink struct {
	events chan SessionEvent
}

// NewChannelSink describes the newchannelsink operation and its observable behavior.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan SessionEvent, buffer),
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *ChannelSink) Emit(ctx context.Context, event SessionEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events describes the events operation and its observable behavior.
func (s *ChannelSink) Events() <-chan SessionEvent {
	return s.events
}

// JSONWriterSink defines a public type used by goAuthClient APIs.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *JSONWriterSink) Emit(ctx context.Context, event SessionEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

func transitionEvent(eventType string, snap credential.Snapshot, failure error) SessionEvent {
	e := SessionEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		State:     snap.State.String(),
		Epoch:     snap.Epoch,
		Success:   failure == nil,
	}
	if snap.Identity != nil {
		e.Subject = snap.Identity.Subject
	}
	if snap.Reason != credential.ReasonNone {
		e.Reason = snap.Reason.String()
	}
	if failure != nil {
		e.Error = failure.Error()
	}
	return e
}
