package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/joshharrison/critpath/internal/analysis"
	"github.com/joshharrison/critpath/internal/cpm"
	"github.com/joshharrison/critpath/internal/ui"
)

// DefaultBarWidth is the width of the longest load histogram bar.
const DefaultBarWidth = 40

// Reporter renders an analysis result for the terminal.
type Reporter struct {
	Result   *analysis.Result
	BarWidth int
}

// New creates a new Reporter.
func New(res *analysis.Result, barWidth int) *Reporter {
	if barWidth < 1 {
		barWidth = DefaultBarWidth
	}
	return &Reporter{Result: res, BarWidth: barWidth}
}

// PrintDiagnostics writes the validity verdict followed by every
// diagnostic, errors first.
func (r *Reporter) PrintDiagnostics(w io.Writer) {
	res := r.Result
	errs := res.Diagnostics.Errors()
	warns := res.Diagnostics.Warnings()

	title := "Validation"
	if res.Name != "" {
		title += " of " + res.Name
	}
	fmt.Fprintf(w, "🔎 %s: %s", ui.BoldCyan(title), ui.Verdict(res.Valid))
	fmt.Fprintf(w, " %s\n", ui.Dim(fmt.Sprintf("(%d errors, %d warnings)", len(errs), len(warns))))

	if len(res.Starts) > 0 {
		fmt.Fprintf(w, "Starts:    %s\n", strings.Join(res.Starts, ", "))
	}
	if len(res.Ends) > 0 {
		fmt.Fprintf(w, "Ends:      %s\n", strings.Join(res.Ends, ", "))
	}

	for _, d := range append(errs, warns...) {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			ui.SeverityIcon(d.Severity), ui.SeverityLabel(d.Severity), ui.Magenta(string(d.Kind)), d.Message)
	}
}

// PrintSchedule writes the per-activity schedule table in topological
// order.
func (r *Reporter) PrintSchedule(w io.Writer) {
	s := r.Result.Schedule
	if s == nil {
		fmt.Fprintln(w, ui.Dim("no schedule (input is invalid)"))
		return
	}

	fmt.Fprintf(w, "🎯 %s\n", ui.BoldCyan("Schedule"))
	fmt.Fprintln(w, ui.Cyan("════════"))
	fmt.Fprintf(w, "  %-12s %8s %8s %8s %8s %8s %8s\n", "ACTIVITY", "DUR", "ES", "EF", "LS", "LF", "SLACK")
	for _, id := range s.TopoOrder {
		e, _ := s.Entry(id)
		slack := formatTime(e.Slack)
		if e.Critical {
			slack = ui.BoldYellow(slack)
		}
		fmt.Fprintf(w, "%s %-12s %8s %8s %8s %8s %8s %8s\n",
			ui.CriticalMarker(e.Critical), truncate(e.ID, 12),
			formatTime(e.Duration), formatTime(e.ES), formatTime(e.EF),
			formatTime(e.LS), formatTime(e.LF), slack)
	}
	fmt.Fprintln(w)

	if len(s.Subprojects) > 1 {
		for _, sp := range s.Subprojects {
			fmt.Fprintf(w, "Subproject %d: %s %s\n", sp.Index+1,
				ui.BoldYellow("⚡ "+strings.Join(sp.CriticalPath, " → ")),
				ui.Dim(fmt.Sprintf("(%s days)", formatTime(sp.Duration))))
		}
		return
	}
	fmt.Fprintf(w, "Critical:  %s\n", ui.BoldYellow("⚡ "+strings.Join(s.CriticalPath, " → ")))
}

// PrintWaves writes the activities grouped by early start, with each
// activity's successors underneath.
func (r *Reporter) PrintWaves(w io.Writer) {
	s := r.Result.Schedule
	g := r.Result.Graph
	if s == nil || g == nil {
		fmt.Fprintln(w, ui.Dim("no schedule (input is invalid)"))
		return
	}

	fmt.Fprintf(w, "🔗 %s\n", ui.BoldCyan("Activity Dependency Graph"))
	fmt.Fprintln(w, ui.Cyan("═════════════════════════"))
	fmt.Fprintln(w)

	for _, wave := range s.Waves {
		fmt.Fprintf(w, "%s 🌊 %s %d %s %s\n", ui.Cyan("──"), ui.BoldWhite("Wave"), wave.Index+1,
			ui.Dim("starts day "+formatTime(wave.Start)), ui.Cyan("──────────────────"))
		for _, id := range wave.IDs {
			e, _ := s.Entry(id)
			fmt.Fprintf(w, "  %s [%s] %s\n", ui.CriticalMarker(e.Critical), ui.BoldMagenta(id),
				ui.Dim(fmt.Sprintf("%s days, slack %s", formatTime(e.Duration), formatTime(e.Slack))))

			i, _ := g.Index(id)
			for _, next := range g.Successors(i) {
				fmt.Fprintf(w, "      %s %s\n", ui.Dim("└──→"), ui.Magenta(g.ID(next)))
			}
		}
		fmt.Fprintln(w)
	}
}

// PrintLoad writes the day-by-day load histogram. Bars are scaled so the
// peak fills BarWidth.
func (r *Reporter) PrintLoad(w io.Writer) {
	lp := r.Result.Load
	if lp == nil {
		fmt.Fprintln(w, ui.Dim("no load profile (input is invalid)"))
		return
	}

	fmt.Fprintf(w, "📊 %s\n", ui.BoldCyan("Resource Load"))
	fmt.Fprintln(w, ui.Cyan("═════════════"))
	width := len(strconv.Itoa(len(lp.Days) - 1))
	for day, load := range lp.Days {
		n := 0
		if lp.Peak > 0 {
			n = int(math.Round(load / lp.Peak * float64(r.BarWidth)))
		}
		bar := strings.Repeat("█", n)
		if day == lp.PeakDay && lp.Peak > 0 {
			bar = ui.BoldYellow(bar)
		} else {
			bar = ui.Cyan(bar)
		}
		fmt.Fprintf(w, "  day %*d │%s %s\n", width, day, bar, ui.Dim(formatTime(load)))
	}
	fmt.Fprintf(w, "Peak:      %s on day %d\n", ui.Bold(formatTime(lp.Peak)), lp.PeakDay)
	fmt.Fprintf(w, "Busy:      %d of %d days\n", lp.Busy(), len(lp.Days))
}

// PrintSummary writes the headline figures and returns the same text.
func (r *Reporter) PrintSummary(w io.Writer) string {
	var b strings.Builder
	mw := io.MultiWriter(w, &b)

	res := r.Result
	statusEmoji := "✅"
	if !res.Valid {
		statusEmoji = "❌"
	}
	fmt.Fprintf(mw, "\n%s %s\n", statusEmoji, ui.BoldCyan("Critical Path Summary"))
	fmt.Fprintf(mw, "%s\n", ui.Cyan("═════════════════════════"))
	if res.Name != "" {
		fmt.Fprintf(mw, "Input:     %s\n", ui.Dim(res.Name))
	}
	fmt.Fprintf(mw, "Status:    %s\n", ui.Verdict(res.Valid))

	sum := res.Summary
	if sum == nil {
		fmt.Fprintf(mw, "Errors:    %s\n", ui.Red(strconv.Itoa(len(res.Diagnostics.Errors()))))
		return b.String()
	}

	fmt.Fprintf(mw, "Duration:  %s days\n", ui.Bold(formatTime(sum.ProjectDuration)))
	fmt.Fprintf(mw, "Tasks:     %s, %s, %d total\n",
		ui.Yellow(fmt.Sprintf("%d critical", sum.CriticalCount)),
		ui.Green(fmt.Sprintf("%d non-critical", sum.NonCriticalCount)),
		sum.Activities)
	fmt.Fprintf(mw, "Critical:  %s days of critical work\n", formatTime(sum.CriticalLength))
	fmt.Fprintf(mw, "Peak:      %s on day %d\n", formatTime(sum.PeakLoad), sum.PeakDay)
	fmt.Fprintf(mw, "Workforce: %s workforce-days\n", formatTime(sum.TotalWorkforce))
	if sum.Subprojects > 1 {
		fmt.Fprintf(mw, "Parts:     %d independent subprojects\n", sum.Subprojects)
	}
	if warns := res.Diagnostics.Warnings(); len(warns) > 0 {
		fmt.Fprintf(mw, "Warnings:  %s\n", ui.Yellow(strconv.Itoa(len(warns))))
	}
	return b.String()
}

// WriteDOT writes the dependency graph in Graphviz DOT format. Critical
// activities and the edges between them are drawn in red.
func (r *Reporter) WriteDOT(w io.Writer) error {
	g := r.Result.Graph
	if g == nil {
		return fmt.Errorf("no dependency graph to render")
	}
	s := r.Result.Schedule

	critical := func(id string) (cpm.Entry, bool) {
		if s == nil {
			return cpm.Entry{}, false
		}
		e, ok := s.Entry(id)
		return e, ok && e.Critical
	}

	var b strings.Builder
	b.WriteString("digraph critpath {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n\n")

	for i := 0; i < g.Len(); i++ {
		id := g.ID(i)
		label := fmt.Sprintf("%s\\nd=%s", id, formatTime(g.Activity(i).Duration))
		attrs := fmt.Sprintf(`label="%s"`, label)
		if _, ok := critical(id); ok {
			attrs += `, style="rounded,bold", color=red`
		}
		fmt.Fprintf(&b, "  %q [%s];\n", id, attrs)
	}
	b.WriteString("\n")

	for _, e := range g.Edges() {
		from, to := g.ID(e.From), g.ID(e.To)
		style := ""
		fe, fromCrit := critical(from)
		te, toCrit := critical(to)
		if fromCrit && toCrit && math.Abs(te.ES-fe.EF) < cpm.Epsilon {
			style = " [color=red, penwidth=2]"
		}
		fmt.Fprintf(&b, "  %q -> %q%s;\n", from, to, style)
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON returns the machine-readable result.
func (r *Reporter) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Result, "", "  ")
}

// formatTime renders a time value without floating-point noise.
func formatTime(t float64) string {
	return strconv.FormatFloat(math.Round(t*1e6)/1e6, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}
