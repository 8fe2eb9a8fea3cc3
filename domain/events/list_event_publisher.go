package events

// ListEventPublisher defines the interface for publishing list lifecycle events.
type ListEventPublisher interface {
	PublishListCreated(event ListCreatedEvent)
	PublishListDeleted(event ListDeletedEvent)
	PublishListPicked(event ListPickedEvent)
}
