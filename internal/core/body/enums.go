package body

import "fmt"

// Kind selects the celestial body variant.
type Kind string

const (
	// KindComet is a bug or interrupting task. Leaf.
	KindComet Kind = "comet"
	// KindPlanet is a normal task. Leaf.
	KindPlanet Kind = "planet"
	// KindStar is a container holding an ordered list of children.
	KindStar Kind = "star"
)

// Valid reports whether the kind is one of the known variants.
func (k Kind) Valid() bool {
	switch k {
	case KindComet, KindPlanet, KindStar:
		return true
	}
	return false
}

// Initial returns the single-letter prefix used in display identifiers.
func (k Kind) Initial() string {
	switch k {
	case KindComet:
		return "C"
	case KindPlanet:
		return "P"
	case KindStar:
		return "S"
	}
	return "?"
}

func (k Kind) String() string { return string(k) }

// ParseKind converts a CLI argument into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
	return k, nil
}

// Status is the lifecycle state of a body. The set is closed and
// totally ordered: open < in_progress < blocked < done, so sorting by
// status surfaces actionable work first and finished work last.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

var statusOrder = map[Status]int{
	StatusOpen:       0,
	StatusInProgress: 1,
	StatusBlocked:    2,
	StatusDone:       3,
}

// Valid reports whether the status is a member of the closed set.
func (s Status) Valid() bool {
	_, ok := statusOrder[s]
	return ok
}

// Order returns the status sort rank.
func (s Status) Order() int { return statusOrder[s] }

func (s Status) String() string { return string(s) }

// ParseStatus converts a CLI argument into a Status.
func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
	return s, nil
}

// Priority ranks planets: low < medium < high < critical.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

var priorityOrder = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Valid reports whether the priority is a member of the closed set.
func (p Priority) Valid() bool {
	_, ok := priorityOrder[p]
	return ok
}

// Order returns the priority sort rank.
func (p Priority) Order() int { return priorityOrder[p] }

func (p Priority) String() string { return string(p) }

// ParsePriority converts a CLI argument into a Priority.
func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
	return p, nil
}
