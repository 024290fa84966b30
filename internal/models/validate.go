package models

import "fmt"

// ValidateReorder checks a reorder batch before it reaches storage.
// Every returned error wraps ErrInvalidReorder.
func ValidateReorder(items []ReorderItem) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidReorder, ErrEmptyReorder)
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("%w: empty card id", ErrInvalidReorder)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w: %w: %s", ErrInvalidReorder, ErrDuplicateItem, item.ID)
		}
		seen[item.ID] = true

		if !item.Status.Valid() {
			return fmt.Errorf("%w: %w: %q", ErrInvalidReorder, ErrInvalidStatus, item.Status)
		}
		if item.Position < 0 {
			return fmt.Errorf("%w: %w: %s at %d", ErrInvalidReorder, ErrInvalidPosition, item.ID, item.Position)
		}
	}
	return nil
}
