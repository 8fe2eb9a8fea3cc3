package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"listkeeper/domain/lists"
)

// MockListRepository implements ListRepository for testing
type MockListRepository struct {
	mock.Mock
}

func (m *MockListRepository) GetRaw(ctx context.Context, scope lists.Scope, name string) (string, bool, error) {
	args := m.Called(ctx, scope, name)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockListRepository) GetParsed(ctx context.Context, scope lists.Scope, name string) ([]string, bool, error) {
	args := m.Called(ctx, scope, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

func (m *MockListRepository) ListNames(ctx context.Context, scope lists.Scope) ([]string, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockListRepository) Create(ctx context.Context, scope lists.Scope, name string, items []string) (*lists.List, error) {
	args := m.Called(ctx, scope, name, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lists.List), args.Error(1)
}

func (m *MockListRepository) Delete(ctx context.Context, scope lists.Scope, name string) error {
	args := m.Called(ctx, scope, name)
	return args.Error(0)
}
