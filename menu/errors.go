package menu

import "errors"

var (
	// ErrWorkspaceNotFound is returned when the target workspace doesn't exist.
	ErrWorkspaceNotFound = errors.New("menu: workspace not found")

	// ErrParentNotFound is returned when the proposed parent item doesn't exist.
	ErrParentNotFound = errors.New("menu: parent menu item not found")

	// ErrCrossWorkspaceParent is returned when the parent belongs to a different workspace.
	ErrCrossWorkspaceParent = errors.New("menu: parent menu item belongs to a different workspace")

	// ErrSelfParent is returned when an item is proposed as its own parent.
	ErrSelfParent = errors.New("menu: menu item cannot be its own parent")

	// ErrCycleDetected is returned when the proposed parent is a descendant of the item.
	ErrCycleDetected = errors.New("menu: parent change would create a cycle")

	// ErrNotFound is returned when a menu item or a batch member doesn't exist.
	ErrNotFound = errors.New("menu: menu item not found")

	// ErrEmptyStructure is returned when a structure upload contains no items.
	ErrEmptyStructure = errors.New("menu: menu structure is empty")

	// ErrInvalidInput is returned when a request payload is malformed.
	ErrInvalidInput = errors.New("menu: invalid input")

	// ErrConcurrentModification is returned when a written or guarded item
	// changed since it was read.
	ErrConcurrentModification = errors.New("menu: menu item was modified concurrently")

	// ErrAlreadyExists is returned when creating an item whose ID is taken.
	ErrAlreadyExists = errors.New("menu: menu item already exists")
)

var clientErrors = []error{
	ErrWorkspaceNotFound,
	ErrParentNotFound,
	ErrCrossWorkspaceParent,
	ErrSelfParent,
	ErrCycleDetected,
	ErrEmptyStructure,
	ErrInvalidInput,
}

// IsClientError reports whether err is a client-input fault, as opposed to
// a missing item, a conflict or an infrastructure failure.
func IsClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
