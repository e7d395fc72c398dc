package galaxy

import (
	"fmt"

	"github.com/jlong/planit/internal/core/body"
)

// Validate checks the four hierarchy invariants and returns an error
// naming the first one violated:
//
//  1. every referenced child id exists ("no dangling children")
//  2. no body is a descendant of itself ("acyclicity")
//  3. every body has exactly one parent and the parent pointer agrees
//     with the containment lists (the relation is a tree)
//  4. every id is below the id counter (removed ids stay retired)
//
// Mutations validated through Insert/Remove/Reparent cannot break these;
// Validate exists for load-time defense against hand-edited stores and
// for property tests.
func (g *Galaxy) Validate() error {
	if err := g.validateReferences(); err != nil {
		return err
	}
	if err := g.validateAcyclic(); err != nil {
		return err
	}
	if err := g.validateTree(); err != nil {
		return err
	}
	return g.validateCounter()
}

// validateReferences checks invariant 1: every id referenced as a child
// resolves to a body in the flat map.
func (g *Galaxy) validateReferences() error {
	for _, id := range g.root {
		if _, ok := g.bodies[id]; !ok {
			return fmt.Errorf("dangling child reference: galaxy root lists missing body %d", id)
		}
	}
	for _, b := range g.bodies {
		for _, cid := range b.Children {
			if _, ok := g.bodies[cid]; !ok {
				return fmt.Errorf("dangling child reference: body %d lists missing body %d", b.ID, cid)
			}
		}
	}
	return nil
}

// validateAcyclic checks invariant 2 with a three-color depth-first walk
// over the containment edges.
func (g *Galaxy) validateAcyclic() error {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully explored
	)
	color := make(map[body.ID]int, len(g.bodies))

	var visit func(id body.ID) error
	visit = func(id body.ID) error {
		switch color[id] {
		case gray:
			return fmt.Errorf("cycle detected: body %d is a descendant of itself", id)
		case black:
			return nil
		}
		color[id] = gray
		for _, cid := range g.bodies[id].Children {
			if err := visit(cid); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}

	for id := range g.bodies {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// validateTree checks invariant 3: every body is referenced exactly once
// (from the galaxy root or a single star) and its parent pointer matches
// the list that references it.
func (g *Galaxy) validateTree() error {
	refs := make(map[body.ID]int, len(g.bodies))
	for _, id := range g.root {
		refs[id]++
		if p := g.bodies[id].Parent; p != nil {
			return fmt.Errorf("body %d is in the galaxy root but points at parent %d", id, *p)
		}
	}
	for _, b := range g.bodies {
		for _, cid := range b.Children {
			refs[cid]++
			c := g.bodies[cid]
			if c.Parent == nil || *c.Parent != b.ID {
				return fmt.Errorf("body %d parent pointer disagrees with containment under %d", cid, b.ID)
			}
		}
	}

	for _, b := range g.Bodies() {
		switch refs[b.ID] {
		case 1:
		case 0:
			return fmt.Errorf("body %d is unreachable from the galaxy root", b.ID)
		default:
			return fmt.Errorf("body %d is referenced by %d parents", b.ID, refs[b.ID])
		}
	}
	return nil
}

// validateCounter checks invariant 4: no stored id is at or above the
// persisted counter, which would allow a retired id to be reissued.
func (g *Galaxy) validateCounter() error {
	for _, b := range g.bodies {
		if b.ID == 0 || b.ID >= g.nextID {
			return fmt.Errorf("body %d is not below the id counter %d", b.ID, g.nextID)
		}
	}
	return nil
}
