package graph

import "github.com/joshharrison/critpath/internal/activity"

// Edge is a directed dependency between two nodes, addressed by index.
type Edge struct {
	From, To int
	Line     int // source line of the record that first declared the edge
}

// Graph is a directed dependency graph of activities. Nodes live in an
// arena indexed by input order; edges are index pairs. A Graph is not
// modified after Build returns.
type Graph struct {
	nodes []activity.Activity
	index map[string]int
	succ  [][]int // node -> nodes it precedes
	pred  [][]int // node -> nodes it follows
	edges []Edge
	seen  map[[2]int]int // (from, to) -> position in edges
}

// Options controls how declared dependency lists are tokenized.
type Options struct {
	Separator string
}
