package service

import (
	"context"
	"sync"
)

// Frontend event names.
const (
	EventDesignState    = "design:state"
	EventDesignSaved    = "design:saved"
	EventDesignDeleted  = "design:deleted"
	EventDesignImported = "design:imported"
	EventBackupDone     = "backup:completed"
	EventDesignsChanged = "designs:changed"
)

// EventEmitter decouples services from the Wails runtime. The App implements
// it with runtime.EventsEmit; tests use MockEmitter.
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

// MockEmitter records every emission. Safe for use from watcher goroutines.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Named returns the recorded emissions of one event, oldest first.
func (m *MockEmitter) Named(event string) []EmittedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []EmittedEvent
	for _, e := range m.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, string, any) {}
