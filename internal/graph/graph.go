package graph

import (
	"strings"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
)

// Build constructs a Graph from activities in input order. Problems are
// accumulated into the returned list rather than aborting the build: bad
// records are skipped, duplicate identifiers keep their first occurrence,
// and references to unknown activities produce no edge.
func Build(acts []activity.Activity, opts Options) (*Graph, diag.List) {
	if opts.Separator == "" {
		opts.Separator = activity.DefaultSeparator
	}

	g := &Graph{
		index: make(map[string]int),
		seen:  make(map[[2]int]int),
	}
	var diags diag.List

	// Index all activities; the first occurrence of an identifier wins.
	dupLines := make(map[string][]int)
	var (
		dupOrder []string
		dupRows  []activity.Activity
	)
	for _, a := range acts {
		a.ID = strings.TrimSpace(a.ID)
		problems := a.Check()
		diags = append(diags, problems...)
		if len(problems) > 0 && len(problems[0].IDs) == 0 {
			// no usable identifier
			continue
		}
		if first, ok := g.index[a.ID]; ok {
			if _, tracked := dupLines[a.ID]; !tracked {
				dupLines[a.ID] = []int{g.nodes[first].Line}
				dupOrder = append(dupOrder, a.ID)
			}
			dupLines[a.ID] = append(dupLines[a.ID], a.Line)
			dupRows = append(dupRows, a)
			continue
		}
		g.index[a.ID] = len(g.nodes)
		g.nodes = append(g.nodes, a)
		g.succ = append(g.succ, nil)
		g.pred = append(g.pred, nil)
	}
	for _, id := range dupOrder {
		diags = append(diags, diag.Errorf(diag.KindDuplicateID, []string{id}, dupLines[id],
			"activity identifier %q is declared on lines %s", id, joinInts(dupLines[id])))
	}

	// Edges from both declared directions; each ordered pair is added once.
	for i, a := range g.nodes {
		diags = append(diags, g.resolve(a, opts.Separator, func(p int) { g.addEdge(p, i, a.Line) },
			func(s int) { g.addEdge(i, s, a.Line) })...)
	}
	// Duplicate rows contribute no edges, but their lists are still checked.
	for _, a := range dupRows {
		diags = append(diags, g.resolve(a, opts.Separator, nil, nil)...)
	}

	return g, diags
}

// resolve tokenizes the dependency lists of a and looks every token up.
// Known predecessors and successors are passed to onPred and onSucc when
// those are non-nil.
func (g *Graph) resolve(a activity.Activity, sep string, onPred, onSucc func(int)) diag.List {
	var diags diag.List

	preds, bad := activity.SplitList(a.Predecessors, sep)
	diags = append(diags, badTokens(a, "predecessor", bad)...)
	for _, p := range preds {
		from, ok := g.index[p]
		if !ok {
			diags = append(diags, diag.Errorf(diag.KindReference, []string{a.ID, p}, []int{a.Line},
				"line %d: predecessor %q of activity %s does not exist", a.Line, p, a.ID))
			continue
		}
		if onPred != nil {
			onPred(from)
		}
	}

	succs, bad := activity.SplitList(a.Successors, sep)
	diags = append(diags, badTokens(a, "successor", bad)...)
	for _, s := range succs {
		to, ok := g.index[s]
		if !ok {
			diags = append(diags, diag.Errorf(diag.KindReference, []string{a.ID, s}, []int{a.Line},
				"line %d: successor %q of activity %s does not exist", a.Line, s, a.ID))
			continue
		}
		if onSucc != nil {
			onSucc(to)
		}
	}
	return diags
}

func badTokens(a activity.Activity, role string, bad []activity.Token) diag.List {
	var out diag.List
	for _, tok := range bad {
		out = append(out, diag.Errorf(diag.KindFormat, []string{a.ID}, []int{a.Line},
			"line %d: malformed %s identifier %q of activity %s (position %d)",
			a.Line, role, tok.Value, a.ID, tok.Pos))
	}
	return out
}

func (g *Graph) addEdge(from, to, line int) {
	key := [2]int{from, to}
	if _, ok := g.seen[key]; ok {
		return
	}
	g.seen[key] = len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Line: line})
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// ID returns the identifier of node i.
func (g *Graph) ID(i int) string {
	return g.nodes[i].ID
}

// IDs maps node indexes to identifiers.
func (g *Graph) IDs(idx []int) []string {
	out := make([]string, len(idx))
	for k, i := range idx {
		out[k] = g.nodes[i].ID
	}
	return out
}

// Index returns the node index of an identifier.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Activity returns the canonical activity of node i.
func (g *Graph) Activity(i int) activity.Activity {
	return g.nodes[i]
}

// Successors returns the nodes that node i precedes, in declaration order.
func (g *Graph) Successors(i int) []int {
	return g.succ[i]
}

// Predecessors returns the nodes that node i follows, in declaration order.
func (g *Graph) Predecessors(i int) []int {
	return g.pred[i]
}

// Edges returns all edges in declaration order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// EdgeLine returns the source line that introduced the edge from -> to.
func (g *Graph) EdgeLine(from, to int) (int, bool) {
	pos, ok := g.seen[[2]int{from, to}]
	if !ok {
		return 0, false
	}
	return g.edges[pos].Line, true
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.seen[[2]int{from, to}]
	return ok
}

// Starts returns the nodes with no predecessors.
func (g *Graph) Starts() []int {
	var out []int
	for i := range g.nodes {
		if len(g.pred[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Ends returns the nodes with no successors.
func (g *Graph) Ends() []int {
	var out []int
	for i := range g.nodes {
		if len(g.succ[i]) == 0 {
			out = append(out, i)
		}
	}
	return out
}
