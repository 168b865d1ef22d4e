package graph

import "sort"

// stronglyConnected returns the strongly connected components of the
// subgraph induced by allowed, using Tarjan's algorithm with an explicit
// call stack. Self-loops are ignored. Each component is sorted by node
// index and components are ordered by their smallest member.
func (g *Graph) stronglyConnected(allowed []bool) [][]int {
	n := len(g.nodes)
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = -1
	}

	type frame struct {
		node int
		next int // position in succ[node]
	}

	var (
		counter int
		stack   []int
		sccs    [][]int
	)

	for root := 0; root < n; root++ {
		if !allowed[root] || index[root] >= 0 {
			continue
		}

		index[root], low[root] = counter, counter
		counter++
		stack = append(stack, root)
		onStack[root] = true
		calls := []frame{{node: root}}

		for len(calls) > 0 {
			f := &calls[len(calls)-1]
			v := f.node

			if f.next < len(g.succ[v]) {
				w := g.succ[v][f.next]
				f.next++
				if w == v || !allowed[w] {
					continue
				}
				if index[w] < 0 {
					index[w], low[w] = counter, counter
					counter++
					stack = append(stack, w)
					onStack[w] = true
					calls = append(calls, frame{node: w})
				} else if onStack[w] && index[w] < low[v] {
					low[v] = index[w]
				}
				continue
			}

			// all edges of v processed
			if low[v] == index[v] {
				var scc []int
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					scc = append(scc, w)
					if w == v {
						break
					}
				}
				sort.Ints(scc)
				sccs = append(sccs, scc)
			}
			calls = calls[:len(calls)-1]
			if len(calls) > 0 {
				parent := calls[len(calls)-1].node
				if low[v] < low[parent] {
					low[parent] = low[v]
				}
			}
		}
	}

	sort.Slice(sccs, func(a, b int) bool { return sccs[a][0] < sccs[b][0] })
	return sccs
}

// SimpleCycles enumerates every elementary cycle of length two or more
// using Johnson's algorithm. Self-loops are not reported here. Each cycle
// starts at its smallest node index and lists nodes in edge order.
func (g *Graph) SimpleCycles() [][]int {
	n := len(g.nodes)
	var cycles [][]int

	all := make([]bool, n)
	for i := range all {
		all[i] = true
	}
	pending := g.stronglyConnected(all)

	blocked := make([]bool, n)
	blockedBy := make([]map[int]bool, n)
	inSCC := make([]bool, n)

	for len(pending) > 0 {
		scc := pending[0]
		pending = pending[1:]
		if len(scc) < 2 {
			continue
		}

		start := scc[0]
		for _, v := range scc {
			inSCC[v] = true
			blocked[v] = false
			blockedBy[v] = nil
		}

		var path []int
		var unblock func(u int)
		unblock = func(u int) {
			blocked[u] = false
			for w := range blockedBy[u] {
				delete(blockedBy[u], w)
				if blocked[w] {
					unblock(w)
				}
			}
		}

		var circuit func(v int) bool
		circuit = func(v int) bool {
			found := false
			path = append(path, v)
			blocked[v] = true
			for _, w := range g.succ[v] {
				if w == v || !inSCC[w] {
					continue
				}
				if w == start {
					cycle := make([]int, len(path))
					copy(cycle, path)
					cycles = append(cycles, cycle)
					found = true
				} else if !blocked[w] && circuit(w) {
					found = true
				}
			}
			if found {
				unblock(v)
			} else {
				for _, w := range g.succ[v] {
					if w == v || !inSCC[w] {
						continue
					}
					if blockedBy[w] == nil {
						blockedBy[w] = make(map[int]bool)
					}
					blockedBy[w][v] = true
				}
			}
			path = path[:len(path)-1]
			return found
		}
		circuit(start)

		// Drop the start node and search what remains of this component.
		rest := make([]bool, n)
		for _, v := range scc {
			inSCC[v] = false
			if v != start {
				rest[v] = true
			}
		}
		pending = append(g.stronglyConnected(rest), pending...)
	}

	return cycles
}

// WeakComponents returns the weakly connected components, each sorted by
// node index and ordered by their smallest member.
func (g *Graph) WeakComponents() [][]int {
	n := len(g.nodes)
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}

	var out [][]int
	for root := 0; root < n; root++ {
		if comp[root] >= 0 {
			continue
		}
		id := len(out)
		members := []int{root}
		comp[root] = id
		for k := 0; k < len(members); k++ {
			v := members[k]
			for _, nbrs := range [][]int{g.succ[v], g.pred[v]} {
				for _, w := range nbrs {
					if comp[w] < 0 {
						comp[w] = id
						members = append(members, w)
					}
				}
			}
		}
		sort.Ints(members)
		out = append(out, members)
	}
	return out
}

// SelfLoops returns the nodes with an edge to themselves.
func (g *Graph) SelfLoops() []int {
	var out []int
	for i := range g.nodes {
		if g.HasEdge(i, i) {
			out = append(out, i)
		}
	}
	return out
}
