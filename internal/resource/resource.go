// Package resource aggregates per-activity resource demand over a computed
// schedule.
package resource

import (
	"fmt"
	"math"

	"github.com/joshharrison/critpath/internal/cpm"
	"github.com/joshharrison/critpath/internal/graph"
)

// LoadProfile is the aggregate demand active on each integer day of the
// project, for days 0 through ceil(project duration).
type LoadProfile struct {
	Days           []float64 `json:"days"`
	Peak           float64   `json:"peak"`
	PeakDay        int       `json:"peak_day"`
	TotalWorkforce float64   `json:"total_workforce"` // sum of duration x demand
}

// DefaultMaxDays bounds the length of a load profile.
const DefaultMaxDays = 1 << 20

// Options bounds the aggregation.
type Options struct {
	// MaxDays is the longest project, in days, that gets a day-by-day
	// profile. Zero means DefaultMaxDays.
	MaxDays int
}

// HorizonError reports a project too long to profile day by day.
type HorizonError struct {
	Duration float64
	MaxDays  int
}

func (e *HorizonError) Error() string {
	return fmt.Sprintf("project duration %g exceeds the load profile limit of %d days", e.Duration, e.MaxDays)
}

// Aggregate builds the load profile of s. Demand is read from the
// canonical activities of g. An activity occupies day d when
// ES <= d < EF, so an activity finishing on day d does not load it.
// Projects longer than opts.MaxDays fail with a *HorizonError.
func Aggregate(s *cpm.Schedule, g *graph.Graph, opts Options) (*LoadProfile, error) {
	maxDays := opts.MaxDays
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	// NaN and values beyond the int range fail this comparison.
	limit := math.Ceil(s.ProjectDuration - cpm.Epsilon)
	if !(limit <= float64(maxDays)) {
		return nil, &HorizonError{Duration: s.ProjectDuration, MaxDays: maxDays}
	}
	horizon := int(limit)
	if horizon < 0 {
		horizon = 0
	}
	lp := &LoadProfile{Days: make([]float64, horizon+1)}

	for _, e := range s.Entries {
		i, ok := g.Index(e.ID)
		if !ok {
			continue
		}
		demand := g.Activity(i).Demand
		lp.TotalWorkforce += e.Duration * demand

		first := int(math.Ceil(e.ES - cpm.Epsilon))
		for d := first; d <= horizon && float64(d) < e.EF-cpm.Epsilon; d++ {
			lp.Days[d] += demand
		}
	}

	for d, load := range lp.Days {
		if load > lp.Peak {
			lp.Peak = load
			lp.PeakDay = d
		}
	}
	return lp, nil
}

// Busy returns the number of days with non-zero load.
func (lp *LoadProfile) Busy() int {
	n := 0
	for _, load := range lp.Days {
		if load > 0 {
			n++
		}
	}
	return n
}
