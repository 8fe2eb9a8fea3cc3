package lists

import (
	"fmt"
	"strings"
)

// ItemSeparator joins items in their stored form.
const ItemSeparator = ";"

// EncodeItems joins items into their stored form. Items must already have
// passed ValidateItems.
func EncodeItems(items []string) string {
	return strings.Join(items, ItemSeparator)
}

// DecodeItems splits a stored value back into items. Empty items produced by
// adjacent separators are kept. The empty string decodes to an empty list.
func DecodeItems(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ItemSeparator)
}

// ValidateName rejects names that cannot address a list.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("list name must not be empty: %w", ErrInvalidArgument)
	}
	return nil
}

// ValidateItems rejects item sets that would not survive an encode/decode
// round trip: no items at all, only empty items, or an item containing the
// separator.
func ValidateItems(items []string) error {
	if len(items) == 0 {
		return fmt.Errorf("list must contain at least one item: %w", ErrInvalidArgument)
	}
	nonEmpty := false
	for i, item := range items {
		if strings.Contains(item, ItemSeparator) {
			return fmt.Errorf("item %d contains reserved separator %q: %w", i, ItemSeparator, ErrInvalidArgument)
		}
		if item != "" {
			nonEmpty = true
		}
	}
	if !nonEmpty {
		return fmt.Errorf("list must contain at least one non-empty item: %w", ErrInvalidArgument)
	}
	return nil
}
