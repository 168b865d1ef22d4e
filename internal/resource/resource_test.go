package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/cpm"
	"github.com/joshharrison/critpath/internal/graph"
)

func schedule(t *testing.T, acts ...activity.Activity) (*cpm.Schedule, *graph.Graph) {
	t.Helper()
	g, diags := graph.Build(acts, graph.Options{})
	require.Empty(t, diags)
	s, err := cpm.Analyze(g, cpm.Options{})
	require.NoError(t, err)
	return s, g
}

func TestAggregate_Diamond(t *testing.T) {
	s, g := schedule(t,
		activity.Activity{ID: "A", Duration: 3, Demand: 2},
		activity.Activity{ID: "B", Duration: 2, Demand: 1, Predecessors: "A"},
		activity.Activity{ID: "C", Duration: 4, Demand: 3, Predecessors: "A"},
		activity.Activity{ID: "D", Duration: 1, Demand: 5, Predecessors: "B,C"},
	)

	lp, err := Aggregate(s, g, Options{})
	require.NoError(t, err)

	// Days 0..8; A on 0-2, B on 3-4, C on 3-6, D on 7. Day 8 is past the end.
	assert.Equal(t, []float64{2, 2, 2, 4, 4, 3, 3, 5, 0}, lp.Days)
	assert.Equal(t, 5.0, lp.Peak)
	assert.Equal(t, 7, lp.PeakDay)
	assert.Equal(t, 3.0*2+2*1+4*3+1*5, lp.TotalWorkforce)
	assert.Equal(t, 8, lp.Busy())
}

func TestAggregate_HalfOpenInterval(t *testing.T) {
	// A finishes exactly when B starts; they never overlap.
	s, g := schedule(t,
		activity.Activity{ID: "A", Duration: 2, Demand: 4},
		activity.Activity{ID: "B", Duration: 2, Demand: 4, Predecessors: "A"},
	)

	lp, err := Aggregate(s, g, Options{})
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4, 4, 4, 0}, lp.Days)
	assert.Equal(t, 4.0, lp.Peak)
	assert.Equal(t, 0, lp.PeakDay, "first day reaching the peak")
}

func TestAggregate_FractionalTimes(t *testing.T) {
	// A: [0, 1.5) covers days 0 and 1; B: [1.5, 2.5) covers day 2 only.
	s, g := schedule(t,
		activity.Activity{ID: "A", Duration: 1.5, Demand: 1},
		activity.Activity{ID: "B", Duration: 1, Demand: 2, Predecessors: "A"},
	)

	lp, err := Aggregate(s, g, Options{})
	require.NoError(t, err)
	require.Len(t, lp.Days, 4, "days 0..ceil(2.5)")
	assert.Equal(t, []float64{1, 1, 2, 0}, lp.Days)
	assert.Equal(t, 1.5*1+1*2, lp.TotalWorkforce)
}

func TestAggregate_ZeroDemand(t *testing.T) {
	s, g := schedule(t, activity.Activity{ID: "A", Duration: 3, Demand: 0})

	lp, err := Aggregate(s, g, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, lp.Peak)
	assert.Equal(t, 0, lp.Busy())
	assert.Equal(t, 0.0, lp.TotalWorkforce)
}

func TestAggregate_HorizonLimit(t *testing.T) {
	s, g := schedule(t, activity.Activity{ID: "A", Duration: 30, Demand: 1})

	_, err := Aggregate(s, g, Options{MaxDays: 29})
	var herr *HorizonError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, 29, herr.MaxDays)
	assert.Equal(t, 30.0, herr.Duration)

	lp, err := Aggregate(s, g, Options{MaxDays: 30})
	require.NoError(t, err)
	assert.Len(t, lp.Days, 31)
}

func TestAggregate_HugeDurations(t *testing.T) {
	for _, dur := range []float64{1e15, 1e300} {
		s, g := schedule(t, activity.Activity{ID: "A", Duration: dur, Demand: 2})

		lp, err := Aggregate(s, g, Options{})
		var herr *HorizonError
		require.ErrorAs(t, err, &herr, "duration %g", dur)
		assert.Equal(t, DefaultMaxDays, herr.MaxDays)
		assert.Nil(t, lp)
	}
}
