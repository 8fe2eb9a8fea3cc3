package events

import (
	"sync"

	"listkeeper/domain/events"
	"listkeeper/logging"
)

// ListEventBus provides type-safe event publishing and subscription for list events
type ListEventBus struct {
	mu     sync.RWMutex
	logger *logging.Logger

	listCreatedHandlers []func(events.ListCreatedEvent)
	listDeletedHandlers []func(events.ListDeletedEvent)
	listPickedHandlers  []func(events.ListPickedEvent)
}

// NewListEventBus creates a new typed list event bus
func NewListEventBus() *ListEventBus {
	return &ListEventBus{
		logger:              logging.Default().WithComponent("list_event_bus"),
		listCreatedHandlers: make([]func(events.ListCreatedEvent), 0),
		listDeletedHandlers: make([]func(events.ListDeletedEvent), 0),
		listPickedHandlers:  make([]func(events.ListPickedEvent), 0),
	}
}

// Subscribe methods for each event type

func (bus *ListEventBus) OnListCreated(handler func(events.ListCreatedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listCreatedHandlers = append(bus.listCreatedHandlers, handler)
}

func (bus *ListEventBus) OnListDeleted(handler func(events.ListDeletedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listDeletedHandlers = append(bus.listDeletedHandlers, handler)
}

func (bus *ListEventBus) OnListPicked(handler func(events.ListPickedEvent)) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.listPickedHandlers = append(bus.listPickedHandlers, handler)
}

// Publish methods for each event type. Handlers run asynchronously so a slow
// subscriber never holds up the request that produced the event.

func (bus *ListEventBus) PublishListCreated(event events.ListCreatedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.ListCreatedEvent), len(bus.listCreatedHandlers))
	copy(handlers, bus.listCreatedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.ListCreatedEvent)) {
			defer bus.recoverHandler("ListCreated", event.Scope, event.Name)
			h(event)
		}(handler)
	}
}

func (bus *ListEventBus) PublishListDeleted(event events.ListDeletedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.ListDeletedEvent), len(bus.listDeletedHandlers))
	copy(handlers, bus.listDeletedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.ListDeletedEvent)) {
			defer bus.recoverHandler("ListDeleted", event.Scope, event.Name)
			h(event)
		}(handler)
	}
}

func (bus *ListEventBus) PublishListPicked(event events.ListPickedEvent) {
	bus.mu.RLock()
	handlers := make([]func(events.ListPickedEvent), len(bus.listPickedHandlers))
	copy(handlers, bus.listPickedHandlers)
	bus.mu.RUnlock()

	for _, handler := range handlers {
		go func(h func(events.ListPickedEvent)) {
			defer bus.recoverHandler("ListPicked", event.Scope, event.Name)
			h(event)
		}(handler)
	}
}

func (bus *ListEventBus) recoverHandler(eventType string, scope any, name string) {
	if r := recover(); r != nil {
		bus.logger.Error("Event handler panicked in "+eventType,
			"scope", scope,
			"list", name,
			"panic", r)
	}
}
