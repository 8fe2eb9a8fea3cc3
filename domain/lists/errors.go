package lists

import "errors"

// Error kinds returned by the list store. Callers match them with errors.Is;
// the concrete error usually wraps one of these with operation context.
var (
	// ErrStorageUnavailable is returned when the backend fails or a call times out.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidArgument is returned for malformed input, always before any mutation is attempted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound is returned when the referenced list does not exist in the given scope.
	ErrNotFound = errors.New("list not found")

	// ErrDuplicateListName is returned when a list with the same name already exists in the scope.
	ErrDuplicateListName = errors.New("duplicate list name")
)
