package reporter

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/analysis"
	"github.com/joshharrison/critpath/internal/cpm"
	"github.com/joshharrison/critpath/internal/ui"
)

func TestMain(m *testing.M) {
	ui.SetEnabled(false)
	os.Exit(m.Run())
}

func makeResult(t *testing.T) *analysis.Result {
	t.Helper()
	acts := []activity.Activity{
		{ID: "A", Duration: 3, Demand: 2, Predecessors: "-", Successors: "B,C", Line: 1},
		{ID: "B", Duration: 2, Demand: 1, Predecessors: "A", Successors: "D", Line: 2},
		{ID: "C", Duration: 4, Demand: 3, Predecessors: "A", Successors: "D", Line: 3},
		{ID: "D", Duration: 1, Demand: 5, Predecessors: "B,C", Successors: "-", Line: 4},
	}
	res, err := analysis.New(nil, analysis.Options{Schedule: cpm.Options{PerComponent: true}}).Run(acts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	res.Name = "plan.csv"
	return res
}

func makeInvalid(t *testing.T) *analysis.Result {
	t.Helper()
	acts := []activity.Activity{
		{ID: "P", Duration: 1, Demand: 1, Predecessors: "Q", Successors: "-", Line: 1},
		{ID: "Q", Duration: 1, Demand: 1, Predecessors: "P", Successors: "-", Line: 2},
	}
	res, err := analysis.New(nil, analysis.Options{}).Run(acts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestPrintDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	New(makeInvalid(t), 0).PrintDiagnostics(&buf)

	output := buf.String()
	if !strings.Contains(output, "invalid") {
		t.Error("expected output to contain the verdict")
	}
	if !strings.Contains(output, "CYCLE") {
		t.Error("expected output to contain the cycle diagnostic")
	}
	if !strings.Contains(output, "P -> Q -> P") {
		t.Error("expected output to contain the cycle trace")
	}
	if !strings.Contains(output, "✗") {
		t.Error("expected output to contain the error icon")
	}
}

func TestPrintSchedule(t *testing.T) {
	var buf bytes.Buffer
	New(makeResult(t), 0).PrintSchedule(&buf)

	output := buf.String()
	if !strings.Contains(output, "ACTIVITY") {
		t.Error("expected output to contain the table header")
	}
	if !strings.Contains(output, "A → C → D") {
		t.Error("expected output to contain the critical path")
	}
	if !strings.Contains(output, "⚡") {
		t.Error("expected output to contain critical path marker")
	}
	lines := strings.Split(output, "\n")
	for _, l := range lines {
		if strings.Contains(l, " B ") && strings.HasPrefix(l, "⚡") {
			t.Error("B has slack and should not be marked critical")
		}
	}
}

func TestPrintSchedule_Invalid(t *testing.T) {
	var buf bytes.Buffer
	New(makeInvalid(t), 0).PrintSchedule(&buf)
	if !strings.Contains(buf.String(), "no schedule") {
		t.Error("invalid input should not print a schedule")
	}
}

func TestPrintWaves(t *testing.T) {
	var buf bytes.Buffer
	New(makeResult(t), 0).PrintWaves(&buf)

	output := buf.String()
	for _, want := range []string{"Wave 1", "Wave 2", "Wave 3", "└──→ D"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestPrintLoad(t *testing.T) {
	var buf bytes.Buffer
	New(makeResult(t), 10).PrintLoad(&buf)

	output := buf.String()
	if !strings.Contains(output, "day 7 │"+strings.Repeat("█", 10)+" 5") {
		t.Errorf("peak day should fill the bar width, got:\n%s", output)
	}
	if !strings.Contains(output, "day 0 │"+strings.Repeat("█", 4)+" 2") {
		t.Errorf("day 0 should be scaled to 4 cells, got:\n%s", output)
	}
	if !strings.Contains(output, "Peak:      5 on day 7") {
		t.Error("expected output to contain the peak")
	}
	if !strings.Contains(output, "Busy:      8 of 9 days") {
		t.Error("expected output to contain the busy day count")
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := New(makeResult(t), 0).PrintSummary(&buf)

	if summary != buf.String() {
		t.Error("returned summary should match written output")
	}
	for _, want := range []string{
		"Critical Path Summary",
		"plan.csv",
		"Duration:  8 days",
		"3 critical, 1 non-critical, 4 total",
		"Workforce: 25 workforce-days",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary should contain %q", want)
		}
	}
}

func TestPrintSummary_Invalid(t *testing.T) {
	summary := New(makeInvalid(t), 0).PrintSummary(&bytes.Buffer{})
	if !strings.Contains(summary, "invalid") {
		t.Error("summary should show the verdict")
	}
	if strings.Contains(summary, "Duration") {
		t.Error("invalid summary should not show a duration")
	}
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	if err := New(makeResult(t), 0).WriteDOT(&buf); err != nil {
		t.Fatalf("WriteDOT: %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "digraph critpath {") {
		t.Error("expected a digraph header")
	}
	if !strings.Contains(output, `"A" -> "C" [color=red, penwidth=2];`) {
		t.Error("critical edge A -> C should be highlighted")
	}
	if !strings.Contains(output, `"A" -> "B";`) {
		t.Error("edge A -> B should not be highlighted")
	}
	if !strings.Contains(output, `"C" [label="C\nd=4", style="rounded,bold", color=red];`) {
		t.Error("critical node C should be highlighted")
	}
}

func TestJSON(t *testing.T) {
	data, err := New(makeResult(t), 0).JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["valid"] != true {
		t.Error("JSON should report the result as valid")
	}
	if out["name"] != "plan.csv" {
		t.Error("JSON should contain the input name")
	}
	if _, ok := out["schedule"]; !ok {
		t.Error("JSON should contain the schedule")
	}
	if _, ok := out["Graph"]; ok {
		t.Error("JSON should not contain the graph")
	}
}
