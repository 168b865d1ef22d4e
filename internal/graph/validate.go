package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshharrison/critpath/internal/diag"
)

// Validation is the outcome of Validate.
type Validation struct {
	Valid    bool
	Errors   diag.List
	Warnings diag.List

	Starts     []string   // activities with no predecessors
	Ends       []string   // activities with no successors
	Components [][]string // weakly connected components, in input order
	Cycles     [][]string
}

// Diagnostics returns errors followed by warnings.
func (v *Validation) Diagnostics() diag.List {
	out := make(diag.List, 0, len(v.Errors)+len(v.Warnings))
	out = append(out, v.Errors...)
	return append(out, v.Warnings...)
}

// Validate runs every structural check on g and accumulates the findings.
// No check short-circuits another.
func Validate(g *Graph) *Validation {
	v := &Validation{}

	for _, i := range g.SelfLoops() {
		line, _ := g.EdgeLine(i, i)
		v.Errors = append(v.Errors, diag.Errorf(diag.KindSelfLoop, []string{g.ID(i)}, []int{line},
			"activity %s depends on itself (%s)", g.ID(i), source(line)))
	}

	for _, cycle := range g.SimpleCycles() {
		ids := g.IDs(cycle)
		v.Cycles = append(v.Cycles, ids)

		hops := make([]string, len(cycle))
		lines := make([]int, 0, len(cycle))
		for k, from := range cycle {
			to := cycle[(k+1)%len(cycle)]
			line, _ := g.EdgeLine(from, to)
			lines = append(lines, line)
			hops[k] = fmt.Sprintf("%s->%s (%s)", g.ID(from), g.ID(to), source(line))
		}
		v.Errors = append(v.Errors, diag.Errorf(diag.KindCycle, ids, lines,
			"dependency cycle %s -> %s; edges: %s",
			strings.Join(ids, " -> "), ids[0], strings.Join(hops, ", ")))
	}

	components := g.WeakComponents()
	for _, c := range components {
		v.Components = append(v.Components, g.IDs(c))
	}
	if len(components) > 1 {
		parts := make([]string, len(components))
		var all []string
		for k, c := range v.Components {
			parts[k] = fmt.Sprintf("component %d: %s", k+1, strings.Join(c, ", "))
			all = append(all, c...)
		}
		v.Warnings = append(v.Warnings, diag.Warnf(diag.KindConnectivity, all, nil,
			"graph is not weakly connected, found %d components: %s",
			len(components), strings.Join(parts, "; ")))
	}

	v.Starts = g.IDs(g.Starts())
	v.Ends = g.IDs(g.Ends())
	if len(v.Starts) == 0 {
		v.Errors = append(v.Errors, diag.Errorf(diag.KindMissingBoundary, nil, nil,
			"no start activity found (every activity has a predecessor)"))
	}
	if len(v.Ends) == 0 {
		v.Errors = append(v.Errors, diag.Errorf(diag.KindMissingBoundary, nil, nil,
			"no end activity found (every activity has a successor)"))
	}

	v.Valid = len(v.Errors) == 0
	return v
}

func source(line int) string {
	if line <= 0 {
		return "unknown source"
	}
	return "line " + strconv.Itoa(line)
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
