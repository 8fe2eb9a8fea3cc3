package helpers

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"listkeeper/database"
	"listkeeper/domain/lists"
	"listkeeper/logging"
	"listkeeper/test/mocks"
)

// MockRepositories holds all repository mocks for easy injection
type MockRepositories struct {
	List   *mocks.MockListRepository
	Events *mocks.MockListEventPublisher
}

// NewMockRepositories creates a new set of repository mocks
func NewMockRepositories() *MockRepositories {
	return &MockRepositories{
		List:   &mocks.MockListRepository{},
		Events: &mocks.MockListEventPublisher{},
	}
}

// ExpectListNames sets up expectations for enumerating a scope
func (m *MockRepositories) ExpectListNames(scope lists.Scope, names []string) {
	m.List.On("ListNames", mock.Anything, scope).Return(names, nil)
}

// ExpectParsedList sets up expectations for reading an existing list
func (m *MockRepositories) ExpectParsedList(scope lists.Scope, name string, items []string) {
	m.List.On("GetParsed", mock.Anything, scope, name).Return(items, true, nil)
}

// ExpectMissingList sets up expectations for reading a list that does not exist
func (m *MockRepositories) ExpectMissingList(scope lists.Scope, name string) {
	m.List.On("GetParsed", mock.Anything, scope, name).Return(nil, false, nil)
}

// ExpectAnyEvents accepts every published event
func (m *MockRepositories) ExpectAnyEvents() {
	m.Events.On("PublishListCreated", mock.Anything).Maybe()
	m.Events.On("PublishListDeleted", mock.Anything).Maybe()
	m.Events.On("PublishListPicked", mock.Anything).Maybe()
}

// AssertAllExpectations verifies all mock expectations were met
func (m *MockRepositories) AssertAllExpectations(t mock.TestingT) {
	m.List.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}

// TestData provides builders for list fixtures
type TestData struct{}

// NewTestData creates a new test data builder
func NewTestData() *TestData {
	return &TestData{}
}

// SimpleList creates a stored list with a fixed id
func (td *TestData) SimpleList(id int64, scope lists.Scope, name string, items ...string) *lists.List {
	return &lists.List{
		ID:    id,
		Scope: scope,
		Name:  name,
		Items: items,
	}
}

// QuietLogger returns a logger that discards everything
func QuietLogger() *logging.Logger {
	return logging.NewLoggerWithWriter(&logging.Config{Level: "error", Format: "json"}, io.Discard)
}

// NewTestDatabase opens a migrated sqlite database in a temporary directory.
// It is closed when the test ends.
func NewTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	return OpenTestDatabase(t, filepath.Join(t.TempDir(), "lists.db"))
}

// OpenTestDatabase opens the sqlite file at path, closing it when the test ends.
// Opening the same path twice simulates a restart.
func OpenTestDatabase(t *testing.T, path string) *database.Database {
	t.Helper()
	cfg := database.DefaultConfig()
	cfg.Path = path

	db, err := database.New(cfg, QuietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
