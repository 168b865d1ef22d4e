// Package activity defines the activity record consumed by the graph
// builder and the rules every record has to satisfy.
package activity

import (
	"math"
	"strings"
	"unicode"

	"github.com/joshharrison/critpath/internal/diag"
)

const (
	// None is the sentinel meaning "no dependency".
	None = "-"

	// DefaultSeparator splits dependency lists.
	DefaultSeparator = ","
)

// Check validates the scalar fields of an activity and returns a format
// diagnostic for each violation.
func (a Activity) Check() diag.List {
	var out diag.List
	if strings.TrimSpace(a.ID) == "" || a.ID == None {
		out = append(out, diag.Errorf(diag.KindFormat, nil, []int{a.Line},
			"line %d: activity identifier must not be empty or %q", a.Line, None))
		return out
	}
	if math.IsNaN(a.Duration) || math.IsInf(a.Duration, 0) {
		out = append(out, diag.Errorf(diag.KindFormat, []string{a.ID}, []int{a.Line},
			"activity %s: duration must be a finite number (got %v)", a.ID, a.Duration))
	} else if a.Duration <= 0 {
		out = append(out, diag.Errorf(diag.KindFormat, []string{a.ID}, []int{a.Line},
			"activity %s: duration must be positive (got %g)", a.ID, a.Duration))
	}
	if math.IsNaN(a.Demand) || math.IsInf(a.Demand, 0) {
		out = append(out, diag.Errorf(diag.KindFormat, []string{a.ID}, []int{a.Line},
			"activity %s: resource demand must be a finite number (got %v)", a.ID, a.Demand))
	} else if a.Demand < 0 {
		out = append(out, diag.Errorf(diag.KindFormat, []string{a.ID}, []int{a.Line},
			"activity %s: resource demand must not be negative (got %g)", a.ID, a.Demand))
	}
	return out
}

// SplitList tokenizes a declared dependency list. Entries are trimmed;
// empty entries and the None sentinel are dropped. Entries that are not
// identifiers are returned separately in bad.
func SplitList(raw, sep string) (valid []string, bad []Token) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == None {
		return nil, nil
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	for i, part := range strings.Split(raw, sep) {
		tok := strings.TrimSpace(part)
		if tok == "" || tok == None {
			continue
		}
		if !IsIdentifier(tok) {
			bad = append(bad, Token{Value: part, Pos: i + 1})
			continue
		}
		valid = append(valid, tok)
	}
	return valid, bad
}

// IsIdentifier reports whether s is made of letters and digits, with
// spaces allowed between them.
func IsIdentifier(s string) bool {
	seen := false
	for _, r := range s {
		switch {
		case r == ' ':
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			seen = true
		default:
			return false
		}
	}
	return seen
}
