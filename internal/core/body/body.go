// Package body defines the celestial body domain model: the tagged-variant
// work items (comets, planets) and containers (stars) that make up a galaxy.
package body

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ID uniquely identifies a celestial body within a galaxy.
// IDs are issued by the galaxy's counter and are never reused,
// even after the body is removed.
type ID uint64

// Errors returned by constructors and mutators for invalid intrinsic fields.
var (
	ErrEmptyTitle      = errors.New("title must not be empty")
	ErrInvalidSeverity = errors.New("severity must be between 1 and 5")
	ErrInvalidPriority = errors.New("unknown priority")
	ErrInvalidStatus   = errors.New("unknown status")
	ErrInvalidKind     = errors.New("unknown body kind")
)

// Severity bounds for comets.
const (
	MinSeverity = 1
	MaxSeverity = 5
)

// StatusChange records a single status transition in a body's history.
type StatusChange struct {
	Old     Status    `json:"old"`
	New     Status    `json:"new"`
	Comment string    `json:"comment,omitempty"`
	Time    time.Time `json:"time"`
}

// Body is a single celestial body. Kind selects the variant; the
// variant-specific fields are only meaningful for the matching kind.
//
// Children holds identifiers, not bodies. The containment relation is
// owned by the galaxy store, which is the only code allowed to mutate
// Children and Parent.
type Body struct {
	ID          ID             `json:"id"`
	Kind        Kind           `json:"kind"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Status      Status         `json:"status"`
	History     []StatusChange `json:"history,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	// Comet fields.
	Severity   int       `json:"severity,omitempty"`
	ReportedAt time.Time `json:"reported_at,omitzero"`

	// Planet fields. Tags and Fields are user-defined labels for
	// searching and filtering; they never affect behavior.
	Priority Priority          `json:"priority,omitempty"`
	DueAt    *time.Time        `json:"due_at,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`

	// Star fields. Insertion order is meaningful and preserved.
	Children []ID `json:"children,omitempty"`

	// Parent is nil for bodies in the galaxy root.
	Parent *ID `json:"parent,omitempty"`
}

// NewComet creates a comet (bug/interrupt) with the given severity.
func NewComet(id ID, title string, severity int) (*Body, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if severity < MinSeverity || severity > MaxSeverity {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeverity, severity)
	}

	now := time.Now()
	return &Body{
		ID:         id,
		Kind:       KindComet,
		Title:      strings.TrimSpace(title),
		Status:     StatusOpen,
		Severity:   severity,
		ReportedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NewPlanet creates a planet (normal task) with the given priority and
// optional due date.
func NewPlanet(id ID, title string, priority Priority, dueAt *time.Time) (*Body, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPriority, priority)
	}

	now := time.Now()
	return &Body{
		ID:        id,
		Kind:      KindPlanet,
		Title:     strings.TrimSpace(title),
		Status:    StatusOpen,
		Priority:  priority,
		DueAt:     dueAt,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// NewStar creates an empty star (container). Children are added through
// the galaxy store, never directly.
func NewStar(id ID, title string) (*Body, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Body{
		ID:        id,
		Kind:      KindStar,
		Title:     strings.TrimSpace(title),
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsContainer reports whether the body may hold children.
func (b *Body) IsContainer() bool {
	return b.Kind == KindStar
}

// Ref returns the short display form of the body's identifier,
// e.g. "S4" for a star with id 4.
func (b *Body) Ref() string {
	return fmt.Sprintf("%s%d", b.Kind.Initial(), b.ID)
}

// SetTitle updates the title and stamps UpdatedAt.
func (b *Body) SetTitle(title string) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	b.Title = strings.TrimSpace(title)
	b.touch()
	return nil
}

// SetDescription updates the description and stamps UpdatedAt.
func (b *Body) SetDescription(description string) {
	b.Description = description
	b.touch()
}

// SetStatus transitions the body to a new status, recording the change
// in the body's history.
func (b *Body) SetStatus(status Status, comment string) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	b.History = append(b.History, StatusChange{
		Old:     b.Status,
		New:     status,
		Comment: comment,
		Time:    time.Now(),
	})
	b.Status = status
	b.touch()
	return nil
}

// SetDueAt updates a planet's due date and stamps UpdatedAt.
// It is a no-op for other kinds.
func (b *Body) SetDueAt(dueAt *time.Time) {
	if b.Kind != KindPlanet {
		return
	}
	b.DueAt = dueAt
	b.touch()
}

// Validate checks the body's intrinsic fields. It knows nothing about
// the tree; hierarchy invariants are the galaxy store's job.
func (b *Body) Validate() error {
	if !b.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, b.Kind)
	}
	if err := validateTitle(b.Title); err != nil {
		return err
	}
	if !b.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, b.Status)
	}

	switch b.Kind {
	case KindComet:
		if b.Severity < MinSeverity || b.Severity > MaxSeverity {
			return fmt.Errorf("%w: got %d", ErrInvalidSeverity, b.Severity)
		}
	case KindPlanet:
		if !b.Priority.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidPriority, b.Priority)
		}
	}

	if !b.IsContainer() && len(b.Children) > 0 {
		return fmt.Errorf("%s cannot hold children", b.Kind)
	}

	return nil
}

func (b *Body) touch() {
	b.UpdatedAt = time.Now()
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}
