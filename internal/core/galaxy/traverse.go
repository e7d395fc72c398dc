package galaxy

import (
	"fmt"
	"iter"

	"github.com/jlong/planit/internal/core/body"
)

// All returns a depth-first, pre-order walk of every body, following the
// galaxy root order and each star's insertion order. The sequence is
// lazy and restartable: ranging over it again starts from scratch.
func (g *Galaxy) All() iter.Seq[*body.Body] {
	return func(yield func(*body.Body) bool) {
		g.walk(g.root, yield)
	}
}

// ByKind returns the pre-order walk filtered to a single body kind.
func (g *Galaxy) ByKind(kind body.Kind) iter.Seq[*body.Body] {
	return func(yield func(*body.Body) bool) {
		for b := range g.All() {
			if b.Kind != kind {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// Find looks up a body by id in the flat map.
func (g *Galaxy) Find(id body.ID) (*body.Body, bool) {
	b, ok := g.bodies[id]
	return b, ok
}

// ChildrenOf returns the ordered children of a star.
func (g *Galaxy) ChildrenOf(id body.ID) ([]*body.Body, error) {
	b, ok := g.bodies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if !b.IsContainer() {
		return nil, fmt.Errorf("%w: %d is a %s", ErrNotContainer, id, b.Kind)
	}

	out := make([]*body.Body, 0, len(b.Children))
	for _, cid := range b.Children {
		out = append(out, g.bodies[cid])
	}
	return out, nil
}

func (g *Galaxy) walk(ids []body.ID, yield func(*body.Body) bool) bool {
	for _, id := range ids {
		b, ok := g.bodies[id]
		if !ok {
			continue
		}
		if !yield(b) {
			return false
		}
		if len(b.Children) > 0 {
			if !g.walk(b.Children, yield) {
				return false
			}
		}
	}
	return true
}
