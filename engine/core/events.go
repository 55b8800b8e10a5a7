package core

import "sync"

// System internal event codes. Applications should use codes beyond
// MaxSystemEventCode.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EventApplicationQuit SystemEventCode = 0x01
	// A new configuration was loaded from disk. Data carries the new config.
	EventConfigReloaded SystemEventCode = 0x02

	MaxSystemEventCode SystemEventCode = 0xFF
)

// EventContext is the payload delivered to every listener of a fired event.
type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// FnOnEvent handles a fired event. Returning true marks the event handled
// and stops delivery to the remaining listeners.
type FnOnEvent func(context EventContext) bool

type eventSystemState struct {
	mu        sync.RWMutex
	listeners map[SystemEventCode][]FnOnEvent
}

var onceEvents sync.Once
var eventState *eventSystemState

func EventSystemInitialize() error {
	onceEvents.Do(func() {
		eventState = &eventSystemState{
			listeners: make(map[SystemEventCode][]FnOnEvent),
		}
	})
	return nil
}

// EventSystemShutdown drops every registered listener.
func EventSystemShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.listeners = make(map[SystemEventCode][]FnOnEvent)
	return nil
}

// EventRegister subscribes the callback to events fired with the given code.
func EventRegister(code SystemEventCode, onEvent FnOnEvent) {
	if eventState == nil || onEvent == nil {
		return
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()
	eventState.listeners[code] = append(eventState.listeners[code], onEvent)
}

// EventFire delivers the context to the listeners of its code, in
// registration order, stopping at the first one that handles it. Listeners
// run on the firing goroutine.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.RLock()
	listeners := make([]FnOnEvent, len(eventState.listeners[context.Type]))
	copy(listeners, eventState.listeners[context.Type])
	eventState.mu.RUnlock()

	for _, listener := range listeners {
		if listener(context) {
			return true
		}
	}
	return false
}
