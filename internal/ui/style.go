package ui

import (
	"github.com/fatih/color"

	"github.com/joshharrison/critpath/internal/diag"
)

// Sprint color functions for building styled strings.
var (
	Bold        = color.New(color.Bold).SprintFunc()
	Dim         = color.New(color.Faint).SprintFunc()
	Cyan        = color.New(color.FgCyan).SprintFunc()
	Green       = color.New(color.FgGreen).SprintFunc()
	Red         = color.New(color.FgRed).SprintFunc()
	Yellow      = color.New(color.FgYellow).SprintFunc()
	Magenta     = color.New(color.FgMagenta).SprintFunc()
	BoldCyan    = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen   = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed     = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldYellow  = color.New(color.Bold, color.FgYellow).SprintFunc()
	BoldMagenta = color.New(color.Bold, color.FgMagenta).SprintFunc()
	BoldWhite   = color.New(color.Bold, color.FgWhite).SprintFunc()
)

// SetEnabled forces colored output on or off. Color is disabled
// automatically when stdout is not a terminal.
func SetEnabled(on bool) {
	color.NoColor = !on
}

// SeverityIcon returns a colored icon for a diagnostic severity.
func SeverityIcon(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return Red("✗")
	case diag.SeverityWarning:
		return Yellow("⚠")
	default:
		return Dim("◌")
	}
}

// SeverityLabel returns the severity name, colored like its icon.
func SeverityLabel(s diag.Severity) string {
	switch s {
	case diag.SeverityError:
		return BoldRed(string(s))
	case diag.SeverityWarning:
		return BoldYellow(string(s))
	default:
		return Dim(string(s))
	}
}

// CriticalMarker returns the critical path marker, or a blank of the same
// width.
func CriticalMarker(critical bool) string {
	if critical {
		return BoldYellow("⚡")
	}
	return " "
}

// Verdict returns a colored valid/invalid label.
func Verdict(valid bool) string {
	if valid {
		return BoldGreen("valid")
	}
	return BoldRed("invalid")
}
