package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"listkeeper/domain/events"
	"listkeeper/domain/lists"
	"listkeeper/infrastructure/repositories"
	"listkeeper/test/helpers"
)

func newTestSampler() *lists.Sampler {
	return lists.NewSampler(rand.NewPCG(1, 2))
}

func TestListService_ListNames(t *testing.T) {
	tests := []struct {
		name         string
		stored       []string
		expectEmpty  bool
		expectRender []string
	}{
		{
			name:         "scope_with_lists",
			stored:       []string{"food", "movies"},
			expectEmpty:  false,
			expectRender: []string{"food", "movies"},
		},
		{
			name:         "empty_scope",
			stored:       []string{},
			expectEmpty:  true,
			expectRender: []string{lists.NoListsFound},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mocks := helpers.NewMockRepositories()
			mocks.ExpectListNames(lists.Scope(1), tt.stored)
			service := NewListService(mocks.List, newTestSampler(), nil)

			// Act
			listing, err := service.ListNames(context.Background(), 1)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expectEmpty, listing.IsEmpty())
			assert.Equal(t, tt.expectRender, listing.OrSentinel())
			mocks.AssertAllExpectations(t)
		})
	}
}

func TestListService_ListNames_ListNamedLikeSentinel(t *testing.T) {
	mocks := helpers.NewMockRepositories()
	mocks.ExpectListNames(lists.Scope(1), []string{lists.NoListsFound})
	service := NewListService(mocks.List, newTestSampler(), nil)

	listing, err := service.ListNames(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, listing.IsEmpty(), "a real list named like the placeholder is not an empty scope")
}

func TestListService_PickFromList_Success(t *testing.T) {
	// Arrange
	mocks := helpers.NewMockRepositories()
	mocks.ExpectParsedList(lists.Scope(1), "movies", []string{"A", "B", "C"})
	mocks.Events.On("PublishListPicked", mock.MatchedBy(func(e events.ListPickedEvent) bool {
		return e.Scope == 1 && e.Name == "movies" && e.Count == 5
	})).Once()
	service := NewListService(mocks.List, newTestSampler(), mocks.Events)

	// Act
	picked, err := service.PickFromList(context.Background(), 1, "movies", 5)

	// Assert
	require.NoError(t, err)
	require.Len(t, picked, 5)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, picked[:3])
	mocks.AssertAllExpectations(t)
}

func TestListService_PickFromList_Errors(t *testing.T) {
	storageErr := lists.ErrStorageUnavailable

	tests := []struct {
		name        string
		listName    string
		count       int
		setupMocks  func(*helpers.MockRepositories)
		expectedErr error
	}{
		{
			name:        "zero_count",
			listName:    "movies",
			count:       0,
			setupMocks:  func(m *helpers.MockRepositories) {},
			expectedErr: lists.ErrInvalidArgument,
		},
		{
			name:        "negative_count",
			listName:    "movies",
			count:       -1,
			setupMocks:  func(m *helpers.MockRepositories) {},
			expectedErr: lists.ErrInvalidArgument,
		},
		{
			name:        "count_above_limit",
			listName:    "movies",
			count:       lists.MaxPickCount + 1,
			setupMocks:  func(m *helpers.MockRepositories) {},
			expectedErr: lists.ErrInvalidArgument,
		},
		{
			name:        "huge_count",
			listName:    "movies",
			count:       1 << 40,
			setupMocks:  func(m *helpers.MockRepositories) {},
			expectedErr: lists.ErrInvalidArgument,
		},
		{
			name:        "empty_name",
			listName:    "",
			count:       1,
			setupMocks:  func(m *helpers.MockRepositories) {},
			expectedErr: lists.ErrInvalidArgument,
		},
		{
			name:     "missing_list",
			listName: "nope",
			count:    1,
			setupMocks: func(m *helpers.MockRepositories) {
				m.ExpectMissingList(1, "nope")
			},
			expectedErr: lists.ErrNotFound,
		},
		{
			name:     "stored_list_without_items",
			listName: "blank",
			count:    1,
			setupMocks: func(m *helpers.MockRepositories) {
				m.ExpectParsedList(1, "blank", []string{})
			},
			expectedErr: lists.ErrInvalidArgument,
		},
		{
			name:     "storage_failure",
			listName: "movies",
			count:    1,
			setupMocks: func(m *helpers.MockRepositories) {
				m.List.On("GetParsed", mock.Anything, lists.Scope(1), "movies").Return(nil, false, storageErr)
			},
			expectedErr: lists.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := helpers.NewMockRepositories()
			tt.setupMocks(mocks)
			service := NewListService(mocks.List, newTestSampler(), mocks.Events)

			picked, err := service.PickFromList(context.Background(), 1, tt.listName, tt.count)

			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Nil(t, picked)
			mocks.AssertAllExpectations(t)
			mocks.Events.AssertNotCalled(t, "PublishListPicked", mock.Anything)
		})
	}
}

func TestListService_CreateList_ValidatesBeforeStorage(t *testing.T) {
	tests := []struct {
		name     string
		listName string
		items    []string
	}{
		{name: "blank_name", listName: " ", items: []string{"a"}},
		{name: "no_items", listName: "food", items: nil},
		{name: "separator_in_item", listName: "food", items: []string{"a;b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := helpers.NewMockRepositories()
			service := NewListService(mocks.List, newTestSampler(), mocks.Events)

			list, err := service.CreateList(context.Background(), 1, tt.listName, tt.items)

			assert.ErrorIs(t, err, lists.ErrInvalidArgument)
			assert.Nil(t, list)
			mocks.List.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestListService_CreateList_PublishesEvent(t *testing.T) {
	// Arrange
	mocks := helpers.NewMockRepositories()
	stored := helpers.NewTestData().SimpleList(10, 1, "food", "pizza", "sushi")
	mocks.List.On("Create", mock.Anything, lists.Scope(1), "food", []string{"pizza", "sushi"}).Return(stored, nil)
	mocks.Events.On("PublishListCreated", mock.MatchedBy(func(e events.ListCreatedEvent) bool {
		return e.Name == "food" && e.ItemCount == 2
	})).Once()
	service := NewListService(mocks.List, newTestSampler(), mocks.Events)

	// Act
	list, err := service.CreateList(context.Background(), 1, "food", []string{"pizza", "sushi"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(10), list.ID)
	mocks.AssertAllExpectations(t)
}

func TestListService_CreateList_Duplicate(t *testing.T) {
	mocks := helpers.NewMockRepositories()
	mocks.List.On("Create", mock.Anything, lists.Scope(1), "food", []string{"x"}).
		Return(nil, lists.ErrDuplicateListName)
	service := NewListService(mocks.List, newTestSampler(), mocks.Events)

	_, err := service.CreateList(context.Background(), 1, "food", []string{"x"})

	assert.ErrorIs(t, err, lists.ErrDuplicateListName)
	mocks.Events.AssertNotCalled(t, "PublishListCreated", mock.Anything)
}

func TestListService_DeleteList(t *testing.T) {
	mocks := helpers.NewMockRepositories()
	mocks.List.On("Delete", mock.Anything, lists.Scope(3), "chores").Return(nil).Twice()
	mocks.ExpectAnyEvents()
	service := NewListService(mocks.List, newTestSampler(), mocks.Events)

	require.NoError(t, service.DeleteList(context.Background(), 3, "chores"))
	require.NoError(t, service.DeleteList(context.Background(), 3, "chores"))

	mocks.AssertAllExpectations(t)
}

func TestListService_DeleteList_StorageFailure(t *testing.T) {
	mocks := helpers.NewMockRepositories()
	mocks.List.On("Delete", mock.Anything, lists.Scope(3), "chores").
		Return(errors.Join(lists.ErrStorageUnavailable, errors.New("disk I/O error")))
	service := NewListService(mocks.List, newTestSampler(), nil)

	err := service.DeleteList(context.Background(), 3, "chores")

	assert.ErrorIs(t, err, lists.ErrStorageUnavailable)
}

func TestListService_BusyScopeRespectsRequestContext(t *testing.T) {
	// Arrange
	mocks := helpers.NewMockRepositories()
	service := NewListService(mocks.List, newTestSampler(), mocks.Events)
	holder, err := service.locks.Lock(context.Background(), lists.Scope(5))
	require.NoError(t, err)
	defer holder()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// Act
	_, err = service.ListNames(ctx, 5)

	// Assert
	assert.ErrorIs(t, err, lists.ErrStorageUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	mocks.List.AssertNotCalled(t, "ListNames", mock.Anything, mock.Anything)
}

// End-to-end scenarios over a real sqlite store.

func newSQLiteService(t *testing.T) *ListService {
	t.Helper()
	repo := repositories.NewSQLListRepository(helpers.NewTestDatabase(t))
	return NewListService(repo, newTestSampler(), nil)
}

func TestListService_Scenario_CreateThenGet(t *testing.T) {
	service := newSQLiteService(t)
	ctx := context.Background()

	_, err := service.CreateList(ctx, 1, "movies", []string{"A", "B", "C"})
	require.NoError(t, err)

	items, found, err := service.GetList(ctx, 1, "movies")

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"A", "B", "C"}, items)
}

func TestListService_Scenario_EmptyScopeRendersSentinel(t *testing.T) {
	service := newSQLiteService(t)

	listing, err := service.ListNames(context.Background(), 2)

	require.NoError(t, err)
	assert.True(t, listing.IsEmpty())
	assert.Equal(t, []string{"No lists found."}, listing.OrSentinel())
}

func TestListService_Scenario_PickWithRefill(t *testing.T) {
	service := newSQLiteService(t)
	ctx := context.Background()
	_, err := service.CreateList(ctx, 1, "movies", []string{"A", "B", "C"})
	require.NoError(t, err)

	picked, err := service.PickFromList(ctx, 1, "movies", 5)

	require.NoError(t, err)
	require.Len(t, picked, 5)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, picked[:3])
	assert.NotEqual(t, picked[3], picked[4], "refill draws come from a fresh cycle")
	for _, p := range picked[3:] {
		assert.Contains(t, []string{"A", "B", "C"}, p)
	}
}

func TestListService_Scenario_PickMissing(t *testing.T) {
	service := newSQLiteService(t)

	_, err := service.PickFromList(context.Background(), 1, "nope", 1)

	assert.ErrorIs(t, err, lists.ErrNotFound)
}

func TestListService_Scenario_DeleteThenGet(t *testing.T) {
	service := newSQLiteService(t)
	ctx := context.Background()
	_, err := service.CreateList(ctx, 1, "movies", []string{"A", "B", "C"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteList(ctx, 1, "movies"))
	items, found, err := service.GetList(ctx, 1, "movies")

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, items)
}

func TestListService_Scenario_ScopeIsolation(t *testing.T) {
	service := newSQLiteService(t)
	ctx := context.Background()
	_, err := service.CreateList(ctx, 1, "movies", []string{"A"})
	require.NoError(t, err)

	listing, err := service.ListNames(ctx, 2)
	require.NoError(t, err)
	assert.True(t, listing.IsEmpty())

	_, found, err := service.GetList(ctx, 2, "movies")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = service.PickFromList(ctx, 2, "movies", 1)
	assert.ErrorIs(t, err, lists.ErrNotFound)
}
