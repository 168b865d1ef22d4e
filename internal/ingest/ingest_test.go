package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
)

const diamondCSV = `A,"B,C",-,3,2
B,D,A,2,1
C,D,A,4,3

D,,B;C,1,5
`

func TestRead_CSV(t *testing.T) {
	acts, diags, err := Read(strings.NewReader(diamondCSV), Options{AltSeparator: ";"})
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, acts, 4)

	assert.Equal(t, activity.Activity{
		ID: "A", Duration: 3, Demand: 2, Predecessors: "-", Successors: "B,C", Line: 1,
	}, acts[0])

	d := acts[3]
	assert.Equal(t, "D", d.ID)
	assert.Equal(t, 5, d.Line, "blank lines still count")
	assert.Equal(t, "B,C", d.Predecessors, "alternative separator rewritten")
	assert.Equal(t, "-", d.Successors, "empty cell means no dependency")
}

func TestRead_CSVHeader(t *testing.T) {
	in := "work,successors,predecessors,duration,resources\nA,-,-,1,1\n"
	acts, diags, err := Read(strings.NewReader(in), Options{Format: FormatCSV, HasHeader: true})
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, acts, 1)
	assert.Equal(t, 2, acts[0].Line)
}

func TestRead_CSVFormatErrors(t *testing.T) {
	in := strings.Join([]string{
		"A,-,-,3",     // too few columns
		"B,-,-,abc,1", // bad duration
		"C,-,-,2,",    // missing resources
		"-,-,-,2,1",   // missing identifier
		"E,-,-,2.5,0", // fine
		"F,-,-,nan,1", // parses; rejected later by the builder
	}, "\n")

	acts, diags, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)

	require.Len(t, acts, 2)
	assert.Equal(t, "E", acts[0].ID)
	assert.Equal(t, "F", acts[1].ID)

	require.Len(t, diags, 4)
	for _, d := range diags {
		assert.Equal(t, diag.KindFormat, d.Kind)
		assert.True(t, d.IsError())
	}
	assert.Contains(t, diags[0].Message, "not enough columns")
	assert.Equal(t, []int{2}, diags[1].Lines)
	assert.Contains(t, diags[1].Message, `invalid number "abc"`)
	assert.Equal(t, []string{"C"}, diags[2].IDs)
	assert.Contains(t, diags[2].Message, "value is missing")
	assert.Nil(t, diags[3].IDs)
}

func TestRead_JSON(t *testing.T) {
	in := `[
		{"id": "A", "successors": ["B", "C"], "duration": 3, "resources": 2},
		{"id": "B", "predecessors": "A", "duration": 2, "resources": 1},
		{"id": "C", "predecessors": ["A"], "duration": 4, "resources": null},
		"garbage"
	]`

	acts, diags, err := Read(strings.NewReader(in), Options{})
	require.NoError(t, err)

	require.Len(t, acts, 2)
	assert.Equal(t, "B,C", acts[0].Successors)
	assert.Equal(t, "-", acts[0].Predecessors)
	assert.Equal(t, 3.0, acts[0].Duration)
	assert.Equal(t, 2, acts[1].Line)

	require.Len(t, diags, 2)
	assert.Equal(t, []string{"C"}, diags[0].IDs)
	assert.Equal(t, []int{4}, diags[1].Lines)
}

func TestRead_JSONWrappedObject(t *testing.T) {
	in := `{"activities": [{"activity": "X", "duration": "1.5", "workforce": 0}]}`
	acts, diags, err := Read(strings.NewReader(in), Options{Format: FormatJSON})
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, acts, 1)
	assert.Equal(t, 1.5, acts[0].Duration)
}

func TestRead_JSONInvalid(t *testing.T) {
	_, diags, err := Read(strings.NewReader(`[{"id": `), Options{Format: FormatJSON})
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.KindFormat, diags[0].Kind)
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, _, err := Read(strings.NewReader(""), Options{Format: "xml"})
	assert.Error(t, err)
}

func TestReadFile_ExtensionSelectsFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"A","duration":1,"resources":1}]`), 0o644))

	acts, diags, err := ReadFile(path, Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Len(t, acts, 1)

	_, _, err = ReadFile(filepath.Join(dir, "missing.csv"), Options{})
	assert.Error(t, err)
}
