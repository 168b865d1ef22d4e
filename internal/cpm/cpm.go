package cpm

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/joshharrison/critpath/internal/diag"
	"github.com/joshharrison/critpath/internal/graph"
)

// Analyze performs critical path method analysis on a validated graph.
// It fails without a schedule when the graph is empty, cannot be ordered,
// or breaks a scheduling invariant.
func Analyze(g *graph.Graph, opts Options) (*Schedule, error) {
	n := g.Len()
	if n == 0 {
		return nil, diag.ErrEmptyGraph
	}

	order, err := topoSort(g)
	if err != nil {
		return nil, err
	}

	durations := make([]float64, n)
	for i := range durations {
		d := g.Activity(i).Duration
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return nil, &diag.InternalConsistencyError{
				ActivityID: g.ID(i),
				Detail:     fmt.Sprintf("duration %v is not a positive finite number", d),
			}
		}
		durations[i] = d
	}

	es := make([]float64, n)
	ef := make([]float64, n)
	ls := make([]float64, n)
	lf := make([]float64, n)

	// Forward pass: ES = max(EF of all predecessors)
	for _, v := range order {
		start := 0.0
		for _, p := range g.Predecessors(v) {
			if ef[p] > start {
				start = ef[p]
			}
		}
		es[v] = start
		ef[v] = start + durations[v]
	}

	components := g.WeakComponents()
	componentOf := make([]int, n)
	componentEnd := make([]float64, len(components))
	projectDuration := 0.0
	for c, members := range components {
		for _, v := range members {
			componentOf[v] = c
			componentEnd[c] = math.Max(componentEnd[c], ef[v])
		}
		projectDuration = math.Max(projectDuration, componentEnd[c])
	}

	// Backward pass: LF = min(LS of all successors), or the horizon for end activities
	for k := len(order) - 1; k >= 0; k-- {
		v := order[k]
		finish := projectDuration
		if opts.PerComponent {
			finish = componentEnd[componentOf[v]]
		}
		for _, s := range g.Successors(v) {
			if ls[s] < finish {
				finish = ls[s]
			}
		}
		lf[v] = finish
		ls[v] = finish - durations[v]
	}

	sched := &Schedule{
		Entries:         make([]Entry, n),
		ProjectDuration: projectDuration,
		index:           make(map[string]int, n),
	}
	for i := 0; i < n; i++ {
		slack := ls[i] - es[i]
		if math.IsNaN(slack) || slack < -Epsilon {
			return nil, &diag.InternalConsistencyError{
				ActivityID: g.ID(i),
				Detail:     fmt.Sprintf("negative slack %g (early start %g, late start %g)", slack, es[i], ls[i]),
			}
		}
		sched.Entries[i] = Entry{
			ID:         g.ID(i),
			Duration:   durations[i],
			ES:         es[i],
			EF:         ef[i],
			LS:         ls[i],
			LF:         lf[i],
			Slack:      slack,
			Critical:   math.Abs(slack) < Epsilon,
			Subproject: componentOf[i],
		}
		sched.index[g.ID(i)] = i
	}

	// Critical path: critical activities in topological order
	for _, v := range order {
		sched.TopoOrder = append(sched.TopoOrder, g.ID(v))
		if sched.Entries[v].Critical {
			sched.CriticalPath = append(sched.CriticalPath, g.ID(v))
		}
	}

	for c, members := range components {
		sp := Subproject{
			Index:    c,
			IDs:      g.IDs(members),
			Duration: componentEnd[c],
		}
		for _, v := range order {
			if componentOf[v] == c && sched.Entries[v].Critical {
				sp.CriticalPath = append(sp.CriticalPath, g.ID(v))
			}
		}
		sched.Subprojects = append(sched.Subprojects, sp)
	}

	sched.Waves = computeWaves(sched, order)

	return sched, nil
}

// topoSort performs Kahn's algorithm. Among ready nodes the one earliest
// in input order is always taken first, so the order is reproducible.
func topoSort(g *graph.Graph) ([]int, error) {
	n := g.Len()
	inDegree := make([]int, n)
	var ready []int
	for i := 0; i < n; i++ {
		inDegree[i] = len(g.Predecessors(i))
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)
	for len(ready) > 0 {
		v := ready[0]
		ready = ready[1:]
		order = append(order, v)

		for _, s := range g.Successors(v) {
			inDegree[s]--
			if inDegree[s] == 0 {
				pos := sort.SearchInts(ready, s)
				ready = slices.Insert(ready, pos, s)
			}
		}
	}

	if len(order) != n {
		var left []string
		for i := 0; i < n; i++ {
			if inDegree[i] > 0 {
				left = append(left, g.ID(i))
			}
		}
		return nil, &diag.CycleError{Unordered: left}
	}
	return order, nil
}

// computeWaves groups activities by their early start time.
func computeWaves(s *Schedule, order []int) []Wave {
	byStart := slices.Clone(order)
	sort.SliceStable(byStart, func(a, b int) bool {
		return s.Entries[byStart[a]].ES < s.Entries[byStart[b]].ES
	})

	var waves []Wave
	var members []int
	flush := func() {
		if len(members) == 0 {
			return
		}
		idx := len(waves)
		w := Wave{Index: idx, Start: s.Entries[members[0]].ES}

		// Critical activities first, then input order
		sort.SliceStable(members, func(a, b int) bool {
			ca, cb := s.Entries[members[a]].Critical, s.Entries[members[b]].Critical
			if ca != cb {
				return ca
			}
			return members[a] < members[b]
		})
		for _, v := range members {
			s.Entries[v].Wave = idx
			w.IDs = append(w.IDs, s.Entries[v].ID)
			if s.Entries[v].Critical {
				w.IsCritical = true
			}
		}
		waves = append(waves, w)
		members = nil
	}

	for _, v := range byStart {
		if len(members) > 0 && s.Entries[v].ES-s.Entries[members[0]].ES >= Epsilon {
			flush()
		}
		members = append(members, v)
	}
	flush()

	return waves
}
