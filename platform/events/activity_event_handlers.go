package events

import (
	"github.com/prometheus/client_golang/prometheus"

	"listkeeper/domain/events"
	"listkeeper/logging"
)

// ActivityEventHandlers turns list events into activity logs and counters
type ActivityEventHandlers struct {
	logger *logging.Logger
	events *prometheus.CounterVec
	picks  prometheus.Counter
}

// NewActivityEventHandlers creates the handlers and registers their collectors on reg.
// A nil reg leaves the collectors unregistered.
func NewActivityEventHandlers(reg prometheus.Registerer) *ActivityEventHandlers {
	h := &ActivityEventHandlers{
		logger: logging.Default().WithComponent("list_activity"),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "listkeeper",
			Subsystem: "lists",
			Name:      "events_total",
			Help:      "List lifecycle events by type.",
		}, []string{"event"}),
		picks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "listkeeper",
			Subsystem: "lists",
			Name:      "picked_items_total",
			Help:      "Items drawn across all picks.",
		}),
	}
	if reg != nil {
		reg.MustRegister(h.events, h.picks)
	}
	return h
}

// RegisterHandlers subscribes the handlers to every list event
func (h *ActivityEventHandlers) RegisterHandlers(eventBus *ListEventBus) {
	eventBus.OnListCreated(h.handleListCreated)
	eventBus.OnListDeleted(h.handleListDeleted)
	eventBus.OnListPicked(h.handleListPicked)
}

func (h *ActivityEventHandlers) handleListCreated(event events.ListCreatedEvent) {
	h.logger.Lists("List created", "scope", int64(event.Scope), "list", event.Name, "items", event.ItemCount)
	h.events.WithLabelValues("created").Inc()
}

func (h *ActivityEventHandlers) handleListDeleted(event events.ListDeletedEvent) {
	h.logger.Lists("List deleted", "scope", int64(event.Scope), "list", event.Name)
	h.events.WithLabelValues("deleted").Inc()
}

func (h *ActivityEventHandlers) handleListPicked(event events.ListPickedEvent) {
	h.logger.Lists("Items picked", "scope", int64(event.Scope), "list", event.Name, "count", event.Count)
	h.events.WithLabelValues("picked").Inc()
	h.picks.Add(float64(event.Count))
}
