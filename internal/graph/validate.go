package graph

import (
	"errors"
	"fmt"
)

// ErrInconsistent is returned by Validate when the graph breaks one of its
// structural invariants.
var ErrInconsistent = errors.New("graph: inconsistent")

// Validate checks the structural invariants of g: distinct endpoints on every
// edge, symmetric adjacency, and duplicate-free adjacency lists.
func (g *Graph) Validate() error {
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.D0 == e.D1 {
			return fmt.Errorf("%w: edge %d joins cell %d to itself", ErrInconsistent, i, e.D0)
		}
		if e.V0 == e.V1 {
			return fmt.Errorf("%w: edge %d joins corner %d to itself", ErrInconsistent, i, e.V0)
		}
	}

	for i := range g.Cells {
		c := &g.Cells[i]
		for _, list := range [][]int{c.Neighbors, c.Borders, c.Corners} {
			if hasDuplicates(list) {
				return fmt.Errorf("%w: cell %d has duplicate adjacency", ErrInconsistent, i)
			}
		}
		for _, n := range c.Neighbors {
			if !contains(g.Cells[n].Neighbors, i) {
				return fmt.Errorf("%w: cell %d lists %d but not vice versa", ErrInconsistent, i, n)
			}
		}
		for _, q := range c.Corners {
			if !contains(g.Corners[q].Touches, i) {
				return fmt.Errorf("%w: cell %d lists corner %d which does not touch it", ErrInconsistent, i, q)
			}
		}
	}

	for i := range g.Corners {
		q := &g.Corners[i]
		for _, list := range [][]int{q.Neighbors, q.Edges, q.Touches} {
			if hasDuplicates(list) {
				return fmt.Errorf("%w: corner %d has duplicate adjacency", ErrInconsistent, i)
			}
		}
		for _, n := range q.Neighbors {
			if !contains(g.Corners[n].Neighbors, i) {
				return fmt.Errorf("%w: corner %d lists %d but not vice versa", ErrInconsistent, i, n)
			}
		}
		for _, c := range q.Touches {
			if !contains(g.Cells[c].Corners, i) {
				return fmt.Errorf("%w: corner %d touches cell %d which does not list it", ErrInconsistent, i, c)
			}
		}
	}
	return nil
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func hasDuplicates(list []int) bool {
	seen := make(map[int]struct{}, len(list))
	for _, x := range list {
		if _, ok := seen[x]; ok {
			return true
		}
		seen[x] = struct{}{}
	}
	return false
}
