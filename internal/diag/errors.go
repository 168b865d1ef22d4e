package diag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyGraph is returned when there is nothing to schedule.
var ErrEmptyGraph = errors.New("dependency graph has no activities")

// CycleError is returned by the scheduler when the graph it was handed
// cannot be ordered topologically.
type CycleError struct {
	// Unordered lists the activities left over once every orderable one
	// was placed.
	Unordered []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency graph has a cycle (%d activities cannot be ordered: %s)",
		len(e.Unordered), strings.Join(e.Unordered, ", "))
}

// InternalConsistencyError reports a broken scheduling invariant, such as
// negative slack, on a graph that already passed validation.
type InternalConsistencyError struct {
	ActivityID string
	Detail     string
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("internal consistency violated at activity %s: %s", e.ActivityID, e.Detail)
}

// Diagnostic converts the error into a reportable diagnostic.
func (e *InternalConsistencyError) Diagnostic() Diagnostic {
	return Errorf(KindInternal, []string{e.ActivityID}, nil, "%s", e.Error())
}
