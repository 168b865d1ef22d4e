package cpm

// Epsilon is the absolute tolerance for every time comparison.
const Epsilon = 1e-9

// Schedule holds the complete critical path analysis.
type Schedule struct {
	Entries         []Entry      `json:"entries"`       // in input order
	TopoOrder       []string     `json:"topo_order"`    // deterministic topological order
	CriticalPath    []string     `json:"critical_path"` // critical activities in topological order
	ProjectDuration float64      `json:"project_duration"`
	Subprojects     []Subproject `json:"subprojects"`
	Waves           []Wave       `json:"waves"`

	index map[string]int
}

// Entry holds the scheduling info for a single activity.
type Entry struct {
	ID       string  `json:"id"`
	Duration float64 `json:"duration"`
	ES       float64 `json:"early_start"`
	EF       float64 `json:"early_finish"`
	LS       float64 `json:"late_start"`
	LF       float64 `json:"late_finish"`
	Slack    float64 `json:"slack"`
	Critical bool    `json:"critical"`

	Subproject int `json:"subproject"` // weakly connected component index
	Wave       int `json:"wave"`
}

// Subproject is a weakly connected part of the graph scheduled on its own.
type Subproject struct {
	Index        int      `json:"index"`
	IDs          []string `json:"ids"`
	Duration     float64  `json:"duration"`
	CriticalPath []string `json:"critical_path"`
}

// Wave groups activities that share the same early start.
type Wave struct {
	Index      int      `json:"index"`
	Start      float64  `json:"start"`
	IDs        []string `json:"ids"`
	IsCritical bool     `json:"is_critical"` // true if wave contains critical activities
}

// Options tunes the backward pass.
type Options struct {
	// PerComponent anchors the late finish of each end activity at the
	// duration of its own weakly connected component instead of the whole
	// project, so every independent sub-project has its own critical path.
	PerComponent bool
}

// Entry looks up the schedule entry of an activity.
func (s *Schedule) Entry(id string) (Entry, bool) {
	i, ok := s.index[id]
	if !ok {
		return Entry{}, false
	}
	return s.Entries[i], true
}

// CriticalCount returns the number of critical activities.
func (s *Schedule) CriticalCount() int {
	return len(s.CriticalPath)
}
