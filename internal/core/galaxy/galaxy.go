// Package galaxy implements the hierarchy store: the in-memory validated
// tree of celestial bodies for one loaded galaxy.
//
// Bodies live in a flat map keyed by id; containment is expressed as id
// lists (the galaxy root order plus each star's child list) with a parent
// back-pointer on every body. All structural mutation funnels through
// Insert, Remove, and Reparent so the tree invariants are enforced in one
// place. Every mutation either fully succeeds or leaves the store
// untouched: preconditions are validated before any state changes.
package galaxy

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jlong/planit/internal/core/body"
)

// Galaxy is the root container for one project's hierarchy.
type Galaxy struct {
	Title       string
	Description string
	CreatedAt   time.Time

	nextID body.ID
	bodies map[body.ID]*body.Body
	root   []body.ID
}

// New creates an empty galaxy. The id counter starts at 1; id 0 is
// reserved as the "never issued" zero value.
func New(title, description string) *Galaxy {
	return &Galaxy{
		Title:       title,
		Description: description,
		CreatedAt:   time.Now(),
		nextID:      1,
		bodies:      make(map[body.ID]*body.Body),
	}
}

// Rebuild reconstructs a galaxy from persisted records and re-validates
// every invariant. Used by the persistence layer; hand-edited or corrupted
// stores fail here rather than producing a broken tree.
func Rebuild(title, description string, createdAt time.Time, nextID body.ID, bodies []*body.Body, root []body.ID) (*Galaxy, error) {
	g := &Galaxy{
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
		nextID:      nextID,
		bodies:      make(map[body.ID]*body.Body, len(bodies)),
		root:        slices.Clone(root),
	}

	for _, b := range bodies {
		if _, ok := g.bodies[b.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, b.ID)
		}
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", b.ID, err)
		}
		g.bodies[b.ID] = b
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// NextID issues an identifier guaranteed distinct from every identifier
// ever issued for this galaxy, including removed bodies. The bumped
// counter is persisted with the galaxy on save, before the new body can
// be observed, so a crash cannot cause reuse on reload.
func (g *Galaxy) NextID() (body.ID, error) {
	if g.nextID == math.MaxUint64 {
		return 0, ErrIdentifierSpaceExhausted
	}
	id := g.nextID
	g.nextID++
	return id, nil
}

// Len returns the number of bodies in the galaxy.
func (g *Galaxy) Len() int { return len(g.bodies) }

// Root returns a copy of the galaxy's top-level ordered child sequence.
func (g *Galaxy) Root() []body.ID { return slices.Clone(g.root) }

// Counter returns the current value of the id counter for persistence.
func (g *Galaxy) Counter() body.ID { return g.nextID }

// Bodies returns every body sorted by id, for persistence and diffing.
func (g *Galaxy) Bodies() []*body.Body {
	out := make([]*body.Body, 0, len(g.bodies))
	for _, b := range g.bodies {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *body.Body) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Insert adds a body under the given parent, or at the galaxy root when
// parent is nil. The body's id must have been issued by NextID.
func (g *Galaxy) Insert(parent *body.ID, b *body.Body) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if len(b.Children) > 0 {
		return fmt.Errorf("inserted body %d must not carry children", b.ID)
	}
	if b.ID == 0 || b.ID >= g.nextID {
		return fmt.Errorf("identifier %d was not issued by this galaxy", b.ID)
	}
	if _, ok := g.bodies[b.ID]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateID, b.ID)
	}

	if parent == nil {
		g.bodies[b.ID] = b
		b.Parent = nil
		g.root = append(g.root, b.ID)
		log.Debug().Uint64("id", uint64(b.ID)).Str("kind", b.Kind.String()).Msg("inserted body at galaxy root")
		return nil
	}

	p, ok := g.bodies[*parent]
	if !ok {
		return fmt.Errorf("%w: %d", ErrParentNotFound, *parent)
	}
	if !p.IsContainer() {
		return fmt.Errorf("%w: %d is a %s", ErrParentNotContainer, p.ID, p.Kind)
	}

	g.bodies[b.ID] = b
	pid := p.ID
	b.Parent = &pid
	p.Children = append(p.Children, b.ID)
	log.Debug().Uint64("id", uint64(b.ID)).Uint64("parent", uint64(pid)).Str("kind", b.Kind.String()).Msg("inserted body")
	return nil
}

// Remove deletes a body. A star with children is refused unless cascade
// is set, in which case the whole subtree goes with it. Removed ids are
// never reissued.
func (g *Galaxy) Remove(id body.ID, cascade bool) error {
	b, ok := g.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if len(b.Children) > 0 && !cascade {
		return fmt.Errorf("%w: %d has %d children", ErrNotEmpty, id, len(b.Children))
	}

	doomed := g.subtree(id)
	for _, did := range doomed {
		delete(g.bodies, did)
	}

	if b.Parent == nil {
		g.root = removeID(g.root, id)
	} else if p, ok := g.bodies[*b.Parent]; ok {
		p.Children = removeID(p.Children, id)
	}

	log.Debug().Uint64("id", uint64(id)).Int("removed", len(doomed)).Bool("cascade", cascade).Msg("removed body")
	return nil
}

// Reparent moves a body under a new parent, or to the galaxy root when
// newParent is nil. The move is refused if it would make the body a
// descendant of itself. No intermediate state is observable: the body is
// never absent from both child lists nor present in both.
func (g *Galaxy) Reparent(id body.ID, newParent *body.ID) error {
	b, ok := g.bodies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	if newParent != nil {
		np, ok := g.bodies[*newParent]
		if !ok {
			return fmt.Errorf("%w: %d", ErrParentNotFound, *newParent)
		}
		if !np.IsContainer() {
			return fmt.Errorf("%w: %d is a %s", ErrParentNotContainer, np.ID, np.Kind)
		}
		if slices.Contains(g.subtree(id), *newParent) {
			return fmt.Errorf("%w: %d is inside the subtree of %d", ErrCycle, *newParent, id)
		}
	}

	// All checks passed; detach then attach.
	if b.Parent == nil {
		g.root = removeID(g.root, id)
	} else if op, ok := g.bodies[*b.Parent]; ok {
		op.Children = removeID(op.Children, id)
	}

	if newParent == nil {
		b.Parent = nil
		g.root = append(g.root, id)
	} else {
		pid := *newParent
		b.Parent = &pid
		g.bodies[pid].Children = append(g.bodies[pid].Children, id)
	}

	log.Debug().Uint64("id", uint64(id)).Msg("reparented body")
	return nil
}

// subtree returns the ids of the subtree rooted at id in pre-order,
// including id itself.
func (g *Galaxy) subtree(id body.ID) []body.ID {
	out := []body.ID{id}
	if b, ok := g.bodies[id]; ok {
		for _, cid := range b.Children {
			out = append(out, g.subtree(cid)...)
		}
	}
	return out
}

func removeID(ids []body.ID, id body.ID) []body.ID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
