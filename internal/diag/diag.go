// Package diag holds the structured diagnostics produced while building,
// validating and scheduling a dependency graph.
package diag

import (
	"fmt"
	"sort"
)

// Kind classifies a diagnostic. Kinds are strings so they serialize
// naturally to JSON.
type Kind string

const (
	// KindFormat marks a malformed record or field.
	KindFormat Kind = "FORMAT"

	// KindReference marks a dependency on an activity that does not exist.
	KindReference Kind = "REFERENCE"

	// KindDuplicateID marks an identifier declared by more than one record.
	KindDuplicateID Kind = "DUPLICATE_IDENTIFIER"

	// KindSelfLoop marks an activity that depends on itself.
	KindSelfLoop Kind = "SELF_LOOP"

	// KindCycle marks a simple dependency cycle.
	KindCycle Kind = "CYCLE"

	// KindMissingBoundary marks a graph without a start or without an end activity.
	KindMissingBoundary Kind = "MISSING_BOUNDARY"

	// KindConnectivity marks a graph made of several weakly connected components.
	KindConnectivity Kind = "CONNECTIVITY"

	// KindHorizon marks a schedule too long to profile day by day.
	KindHorizon Kind = "HORIZON_LIMIT"

	// KindInternal marks a broken scheduling invariant on an already validated graph.
	KindInternal Kind = "INTERNAL_CONSISTENCY"
)

// Severity is either error or warning. Errors block scheduling.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single finding about the input.
type Diagnostic struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	IDs      []string `json:"ids,omitempty"`
	Lines    []int    `json:"lines,omitempty"`
	Message  string   `json:"message"`
}

// Errorf builds an error-severity diagnostic.
func Errorf(kind Kind, ids []string, lines []int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		IDs:      ids,
		Lines:    compactLines(lines),
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning-severity diagnostic.
func Warnf(kind Kind, ids []string, lines []int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		IDs:      ids,
		Lines:    compactLines(lines),
		Message:  fmt.Sprintf(format, args...),
	}
}

// IsError reports whether the diagnostic blocks scheduling.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Severity, d.Kind, d.Message)
}

// compactLines drops unknown (zero) positions and sorts the rest.
func compactLines(lines []int) []int {
	var out []int
	for _, l := range lines {
		if l > 0 {
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// HasErrors reports whether any diagnostic in the list is an error.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.IsError() {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (l List) Errors() List {
	return l.filter(func(d Diagnostic) bool { return d.IsError() })
}

// Warnings returns only the warning-severity diagnostics.
func (l List) Warnings() List {
	return l.filter(func(d Diagnostic) bool { return !d.IsError() })
}

// OfKind returns the diagnostics of the given kind.
func (l List) OfKind(kind Kind) List {
	return l.filter(func(d Diagnostic) bool { return d.Kind == kind })
}

func (l List) filter(keep func(Diagnostic) bool) List {
	var out List
	for _, d := range l {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
