package events

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listkeeper/domain/events"
)

// counterValue sums every sample of the named counter family in reg.
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	total := 0.0
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestActivityEventHandlers_CountsEvents(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	handlers := NewActivityEventHandlers(reg)

	// Act
	handlers.handleListCreated(events.ListCreatedEvent{Scope: 1, Name: "food", ItemCount: 3, Timestamp: time.Now()})
	handlers.handleListPicked(events.ListPickedEvent{Scope: 1, Name: "food", Count: 4, Timestamp: time.Now()})
	handlers.handleListPicked(events.ListPickedEvent{Scope: 1, Name: "food", Count: 1, Timestamp: time.Now()})
	handlers.handleListDeleted(events.ListDeletedEvent{Scope: 1, Name: "food", Timestamp: time.Now()})

	// Assert
	assert.Equal(t, 4.0, counterValue(t, reg, "listkeeper_lists_events_total"))
	assert.Equal(t, 5.0, counterValue(t, reg, "listkeeper_lists_picked_items_total"))
}

func TestActivityEventHandlers_RegisterHandlers(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	handlers := NewActivityEventHandlers(reg)
	eventBus := NewListEventBus()
	handlers.RegisterHandlers(eventBus)

	// Act
	eventBus.PublishListPicked(events.ListPickedEvent{Scope: 9, Name: "food", Count: 2, Timestamp: time.Now()})

	// Assert
	assert.Eventually(t, func() bool {
		return counterValue(t, reg, "listkeeper_lists_picked_items_total") == 2.0
	}, time.Second, 5*time.Millisecond)
}

func TestActivityEventHandlers_NilRegistererIsAllowed(t *testing.T) {
	handlers := NewActivityEventHandlers(nil)

	assert.NotPanics(t, func() {
		handlers.handleListCreated(events.ListCreatedEvent{Name: "food", ItemCount: 1})
	})
}
