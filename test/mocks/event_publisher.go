package mocks

import (
	"github.com/stretchr/testify/mock"

	"listkeeper/domain/events"
)

// MockListEventPublisher is a mock implementation of ListEventPublisher for testing
type MockListEventPublisher struct {
	mock.Mock
}

func (m *MockListEventPublisher) PublishListCreated(event events.ListCreatedEvent) {
	m.Called(event)
}

func (m *MockListEventPublisher) PublishListDeleted(event events.ListDeletedEvent) {
	m.Called(event)
}

func (m *MockListEventPublisher) PublishListPicked(event events.ListPickedEvent) {
	m.Called(event)
}
