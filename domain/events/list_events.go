package events

import (
	"time"

	"listkeeper/domain/lists"
)

// ListCreatedEvent represents a list that was stored successfully
type ListCreatedEvent struct {
	Scope     lists.Scope
	Name      string
	ItemCount int
	Timestamp time.Time
}

// ListDeletedEvent represents a delete request that completed
type ListDeletedEvent struct {
	Scope     lists.Scope
	Name      string
	Timestamp time.Time
}

// ListPickedEvent represents a successful draw from a list
type ListPickedEvent struct {
	Scope     lists.Scope
	Name      string
	Count     int
	Timestamp time.Time
}
