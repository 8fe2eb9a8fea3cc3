package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"listkeeper/database"
	"listkeeper/domain/contracts"
	"listkeeper/domain/lists"
)

const (
	selectListItems = `SELECT items FROM lists WHERE scope_id = ? AND name = ?`
	selectListNames = `SELECT name FROM lists WHERE scope_id = ? ORDER BY id`
	insertList      = `INSERT INTO lists (scope_id, name, items) VALUES (?, ?, ?) RETURNING id`
	deleteList      = `DELETE FROM lists WHERE scope_id = ? AND name = ?`
)

// SQLListRepository implements contracts.ListRepository on top of the
// database package with read/write separation.
type SQLListRepository struct {
	*BaseRepository
}

// NewSQLListRepository creates a new list repository.
func NewSQLListRepository(database *database.Database) contracts.ListRepository {
	return &SQLListRepository{
		BaseRepository: NewBaseRepository(database),
	}
}

// GetRaw returns the stored item string for a list.
func (r *SQLListRepository) GetRaw(ctx context.Context, scope lists.Scope, name string) (string, bool, error) {
	var items sql.NullString
	found, err := r.ReadQueries().QueryOne(ctx, selectListItems, []any{int64(scope), name}, &items)
	if err != nil {
		return "", false, fmt.Errorf("get list %q: %w", name, err)
	}
	if !found {
		return "", false, nil
	}
	return r.FromNullString(items), true, nil
}

// GetParsed returns the decoded items of a list.
func (r *SQLListRepository) GetParsed(ctx context.Context, scope lists.Scope, name string) ([]string, bool, error) {
	raw, found, err := r.GetRaw(ctx, scope, name)
	if err != nil || !found {
		return nil, found, err
	}
	return lists.DecodeItems(raw), true, nil
}

// ListNames returns the list names of a scope in creation order.
func (r *SQLListRepository) ListNames(ctx context.Context, scope lists.Scope) ([]string, error) {
	names := []string{}
	err := r.ReadQueries().QueryAll(ctx, selectListNames, []any{int64(scope)}, func(row database.Scanner) error {
		var name string
		if err := row.Scan(&name); err != nil {
			return err
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	return names, nil
}

// Create validates and stores a new list.
func (r *SQLListRepository) Create(ctx context.Context, scope lists.Scope, name string, items []string) (*lists.List, error) {
	if err := lists.ValidateName(name); err != nil {
		return nil, err
	}
	if err := lists.ValidateItems(items); err != nil {
		return nil, err
	}

	var id int64
	_, err := r.WriteQueries().QueryOne(ctx, insertList, []any{int64(scope), name, lists.EncodeItems(items)}, &id)
	if errors.Is(err, database.ErrUniqueViolation) {
		return nil, fmt.Errorf("list %q already exists: %w", name, lists.ErrDuplicateListName)
	}
	if err != nil {
		return nil, fmt.Errorf("create list %q: %w", name, err)
	}

	return &lists.List{
		ID:    id,
		Scope: scope,
		Name:  name,
		Items: append([]string(nil), items...),
	}, nil
}

// Delete removes a list if it exists.
func (r *SQLListRepository) Delete(ctx context.Context, scope lists.Scope, name string) error {
	if err := lists.ValidateName(name); err != nil {
		return err
	}
	if _, err := r.WriteQueries().Exec(ctx, deleteList, int64(scope), name); err != nil {
		return fmt.Errorf("delete list %q: %w", name, err)
	}
	return nil
}
