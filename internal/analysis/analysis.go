// Package analysis runs the full critical path pipeline over one set of
// activity records: build the graph, validate it, schedule it and aggregate
// resource load. A run either produces a complete result or none.
package analysis

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/cpm"
	"github.com/joshharrison/critpath/internal/diag"
	"github.com/joshharrison/critpath/internal/graph"
	"github.com/joshharrison/critpath/internal/resource"
)

// Options configures every stage of a run.
type Options struct {
	Graph    graph.Options
	Schedule cpm.Options
	Load     resource.Options
}

// Analyzer runs analyses. It holds no per-run state and may be shared
// between goroutines.
type Analyzer struct {
	log  *zap.Logger
	opts Options
}

// New creates an Analyzer. A nil logger discards output.
func New(log *zap.Logger, opts Options) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{log: log, opts: opts}
}

// Result is the outcome of one analysis run. Schedule, Load and Summary
// are set only when Valid is true.
type Result struct {
	Name        string    `json:"name,omitempty"`
	Valid       bool      `json:"valid"`
	Diagnostics diag.List `json:"diagnostics"`

	Starts     []string   `json:"starts"`
	Ends       []string   `json:"ends"`
	Components [][]string `json:"components"`
	Cycles     [][]string `json:"cycles,omitempty"`

	Schedule *cpm.Schedule         `json:"schedule,omitempty"`
	Load     *resource.LoadProfile `json:"load,omitempty"`
	Summary  *Summary              `json:"summary,omitempty"`

	// Graph is the dependency graph the run was computed on.
	Graph *graph.Graph `json:"-"`
}

// Summary holds the headline figures of a schedule.
type Summary struct {
	Activities       int     `json:"activities"`
	ProjectDuration  float64 `json:"project_duration"`
	CriticalLength   float64 `json:"critical_length"` // sum of critical durations
	CriticalCount    int     `json:"critical_count"`
	NonCriticalCount int     `json:"non_critical_count"`
	PeakLoad         float64 `json:"peak_load"`
	PeakDay          int     `json:"peak_day"`
	TotalWorkforce   float64 `json:"total_workforce"`
	Subprojects      int     `json:"subprojects"`
}

// InvalidInputError reports that hard diagnostics blocked scheduling.
type InvalidInputError struct {
	Name   string
	Errors int
}

func (e *InvalidInputError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("input is invalid (%d errors)", e.Errors)
	}
	return fmt.Sprintf("%s: input is invalid (%d errors)", e.Name, e.Errors)
}

// Err returns an *InvalidInputError when the run was blocked.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &InvalidInputError{Name: r.Name, Errors: len(r.Diagnostics.Errors())}
}

// Run analyzes acts. pre carries diagnostics raised while reading the
// records, such as rejected rows; any error among them blocks scheduling
// just like a structural error would.
//
// A non-nil error is returned only for failures that indicate a defect
// rather than bad input. The returned Result then carries the diagnostics
// but no schedule.
func (a *Analyzer) Run(acts []activity.Activity, pre diag.List) (*Result, error) {
	g, built := graph.Build(acts, a.opts.Graph)
	a.log.Debug("graph built",
		zap.Int("records", len(acts)),
		zap.Int("activities", g.Len()),
		zap.Int("edges", len(g.Edges())),
		zap.Int("diagnostics", len(built)))

	v := graph.Validate(g)
	a.log.Debug("graph validated",
		zap.Bool("structurally_valid", v.Valid),
		zap.Int("cycles", len(v.Cycles)),
		zap.Int("components", len(v.Components)))

	res := &Result{
		Starts:     v.Starts,
		Ends:       v.Ends,
		Components: v.Components,
		Cycles:     v.Cycles,
		Graph:      g,
	}
	res.Diagnostics = append(res.Diagnostics, pre...)
	res.Diagnostics = append(res.Diagnostics, built...)
	res.Diagnostics = append(res.Diagnostics, v.Diagnostics()...)

	if res.Diagnostics.HasErrors() {
		a.log.Info("analysis blocked",
			zap.Int("errors", len(res.Diagnostics.Errors())),
			zap.Int("warnings", len(res.Diagnostics.Warnings())))
		return res, nil
	}

	sched, err := cpm.Analyze(g, a.opts.Schedule)
	if err != nil {
		var ice *diag.InternalConsistencyError
		if errors.As(err, &ice) {
			res.Diagnostics = append(res.Diagnostics, ice.Diagnostic())
		}
		a.log.Error("scheduling failed", zap.Error(err))
		return res, fmt.Errorf("schedule: %w", err)
	}

	load, err := resource.Aggregate(sched, g, a.opts.Load)
	if err != nil {
		var herr *resource.HorizonError
		if !errors.As(err, &herr) {
			return res, fmt.Errorf("aggregate load: %w", err)
		}
		res.Diagnostics = append(res.Diagnostics, diag.Errorf(diag.KindHorizon, nil, nil, "%s", herr.Error()))
		a.log.Info("analysis blocked", zap.Error(err))
		return res, nil
	}

	res.Valid = true
	res.Schedule = sched
	res.Load = load
	res.Summary = summarize(sched, load)

	a.log.Info("analysis complete",
		zap.Float64("project_duration", sched.ProjectDuration),
		zap.Int("critical", res.Summary.CriticalCount),
		zap.Float64("peak_load", load.Peak),
		zap.Int("warnings", len(res.Diagnostics.Warnings())))
	return res, nil
}

func summarize(s *cpm.Schedule, lp *resource.LoadProfile) *Summary {
	sum := &Summary{
		Activities:      len(s.Entries),
		ProjectDuration: s.ProjectDuration,
		CriticalCount:   s.CriticalCount(),
		PeakLoad:        lp.Peak,
		PeakDay:         lp.PeakDay,
		TotalWorkforce:  lp.TotalWorkforce,
		Subprojects:     len(s.Subprojects),
	}
	sum.NonCriticalCount = sum.Activities - sum.CriticalCount
	for _, e := range s.Entries {
		if e.Critical {
			sum.CriticalLength += e.Duration
		}
	}
	return sum
}
