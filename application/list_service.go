package application

import (
	"context"
	"fmt"
	"time"

	"listkeeper/domain/contracts"
	"listkeeper/domain/events"
	"listkeeper/domain/lists"
)

// NameListing is the result of enumerating a scope. An empty listing is a
// distinct state, not a list literally named like the placeholder.
type NameListing struct {
	Names []string
}

// IsEmpty reports whether the scope owns no lists.
func (n *NameListing) IsEmpty() bool {
	return n == nil || len(n.Names) == 0
}

// OrSentinel returns the names, or a single placeholder entry when there are none.
func (n *NameListing) OrSentinel() []string {
	if n.IsEmpty() {
		return []string{lists.NoListsFound}
	}
	return n.Names
}

// ListService coordinates list storage and sampling for the command surface.
type ListService struct {
	repo      contracts.ListRepository
	sampler   *lists.Sampler
	publisher events.ListEventPublisher
	locks     *ScopeLocker
}

// NewListService creates a new list service. publisher may be nil.
func NewListService(
	repo contracts.ListRepository,
	sampler *lists.Sampler,
	publisher events.ListEventPublisher,
) *ListService {
	return &ListService{
		repo:      repo,
		sampler:   sampler,
		publisher: publisher,
		locks:     NewScopeLocker(),
	}
}

// ListNames returns every list name in the scope, oldest first.
func (s *ListService) ListNames(ctx context.Context, scope lists.Scope) (*NameListing, error) {
	unlock, err := s.locks.Lock(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer unlock()

	names, err := s.repo.ListNames(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &NameListing{Names: names}, nil
}

// GetList returns the items of a list. found is false when the scope has no
// list with that name.
func (s *ListService) GetList(ctx context.Context, scope lists.Scope, name string) ([]string, bool, error) {
	if err := lists.ValidateName(name); err != nil {
		return nil, false, err
	}

	unlock, err := s.locks.Lock(ctx, scope)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	return s.repo.GetParsed(ctx, scope, name)
}

// CreateList stores a new list in the scope.
func (s *ListService) CreateList(ctx context.Context, scope lists.Scope, name string, items []string) (*lists.List, error) {
	if err := lists.ValidateName(name); err != nil {
		return nil, err
	}
	if err := lists.ValidateItems(items); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer unlock()

	list, err := s.repo.Create(ctx, scope, name, items)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.PublishListCreated(events.ListCreatedEvent{
			Scope:     scope,
			Name:      name,
			ItemCount: len(items),
			Timestamp: time.Now(),
		})
	}
	return list, nil
}

// DeleteList removes a list. Deleting a list that does not exist succeeds.
func (s *ListService) DeleteList(ctx context.Context, scope lists.Scope, name string) error {
	if err := lists.ValidateName(name); err != nil {
		return err
	}

	unlock, err := s.locks.Lock(ctx, scope)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.repo.Delete(ctx, scope, name); err != nil {
		return err
	}

	if s.publisher != nil {
		s.publisher.PublishListDeleted(events.ListDeletedEvent{
			Scope:     scope,
			Name:      name,
			Timestamp: time.Now(),
		})
	}
	return nil
}

// PickFromList draws count items from a list, cycling through every item
// before any repeats.
func (s *ListService) PickFromList(ctx context.Context, scope lists.Scope, name string, count int) ([]string, error) {
	if err := lists.ValidatePickCount(count); err != nil {
		return nil, err
	}
	if err := lists.ValidateName(name); err != nil {
		return nil, err
	}

	unlock, err := s.locks.Lock(ctx, scope)
	if err != nil {
		return nil, err
	}
	defer unlock()

	items, found, err := s.repo.GetParsed(ctx, scope, name)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("list %q: %w", name, lists.ErrNotFound)
	}

	picked, err := s.sampler.Pick(items, count)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", name, err)
	}

	if s.publisher != nil {
		s.publisher.PublishListPicked(events.ListPickedEvent{
			Scope:     scope,
			Name:      name,
			Count:     count,
			Timestamp: time.Now(),
		})
	}
	return picked, nil
}
