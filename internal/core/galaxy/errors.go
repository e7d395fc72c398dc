package galaxy

import "errors"

// Structural mutation errors. These are expected, recoverable conditions
// surfaced verbatim to the CLI; callers match them with errors.Is.
var (
	// ErrDuplicateID is returned when inserting a body whose id already exists.
	ErrDuplicateID = errors.New("duplicate identifier")
	// ErrParentNotFound is returned when the requested parent id is absent.
	ErrParentNotFound = errors.New("parent not found")
	// ErrParentNotContainer is returned when the requested parent is a leaf.
	ErrParentNotContainer = errors.New("parent is not a container")
	// ErrCycle is returned when a reparent would make a body its own descendant.
	ErrCycle = errors.New("cycle detected")
	// ErrNotEmpty is returned when removing a star with children without cascade.
	ErrNotEmpty = errors.New("container is not empty")
	// ErrNotFound is returned when the target id is absent.
	ErrNotFound = errors.New("body not found")
	// ErrNotContainer is returned when asking a leaf for its children.
	ErrNotContainer = errors.New("body is not a container")
	// ErrIdentifierSpaceExhausted is returned when the id counter overflows.
	ErrIdentifierSpaceExhausted = errors.New("identifier space exhausted")
)
