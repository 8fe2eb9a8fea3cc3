package contracts

import (
	"context"

	"listkeeper/domain/lists"
)

// ListRepository persists named lists. Every operation is confined to a
// single scope: lists of other scopes are never read, listed or touched.
type ListRepository interface {
	// GetRaw returns the stored item string. found is false when no list with
	// that name exists in the scope.
	GetRaw(ctx context.Context, scope lists.Scope, name string) (raw string, found bool, err error)
	// GetParsed returns the items of a list, empty items preserved.
	GetParsed(ctx context.Context, scope lists.Scope, name string) (items []string, found bool, err error)
	// ListNames returns the names of every list in the scope, oldest first.
	ListNames(ctx context.Context, scope lists.Scope) ([]string, error)
	// Create stores a new list. A name already used in the scope yields
	// lists.ErrDuplicateListName.
	Create(ctx context.Context, scope lists.Scope, name string, items []string) (*lists.List, error)
	// Delete removes a list. Deleting a missing list is not an error.
	Delete(ctx context.Context, scope lists.Scope, name string) error
}
