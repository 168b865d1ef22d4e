// Package ingest normalizes raw project records into activities. Each
// record carries five fields: identifier, successors, predecessors,
// duration and resource demand. Empty fields are absent values.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
)

// Format selects the record encoding.
type Format string

const (
	FormatAuto Format = "auto"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Options controls record parsing.
type Options struct {
	Format Format

	// Comma is the CSV field delimiter.
	Comma rune

	// Separator is the canonical dependency list separator; AltSeparator
	// occurrences are rewritten to it.
	Separator    string
	AltSeparator string

	// HasHeader skips the first CSV record.
	HasHeader bool
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatAuto
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	if o.Separator == "" {
		o.Separator = activity.DefaultSeparator
	}
	return o
}

// field names, in record order
const (
	fieldID = iota
	fieldSuccessors
	fieldPredecessors
	fieldDuration
	fieldDemand
	fieldCount
)

var fieldNames = [fieldCount]string{"identifier", "successors", "predecessors", "duration", "resources"}

// optional is a parsed numeric field that may be absent.
type optional struct {
	value   float64
	present bool
}

// ReadFile reads and normalizes the records in path. With FormatAuto the
// format follows the file extension.
func ReadFile(path string, opts Options) ([]activity.Activity, diag.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read records: %w", err)
	}
	if opts.Format == "" || opts.Format == FormatAuto {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			opts.Format = FormatJSON
		case ".csv", ".txt":
			opts.Format = FormatCSV
		}
	}
	return Read(bytes.NewReader(data), opts)
}

// Read normalizes the records in r. Malformed records are reported as
// format diagnostics and left out of the result; the error return is
// reserved for unreadable input.
func Read(r io.Reader, opts Options) ([]activity.Activity, diag.List, error) {
	opts = opts.withDefaults()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read records: %w", err)
	}

	format := opts.Format
	if format == FormatAuto {
		format = sniff(data)
	}
	switch format {
	case FormatCSV:
		return readCSV(data, opts)
	case FormatJSON:
		return readJSON(data, opts)
	default:
		return nil, nil, fmt.Errorf("unsupported record format %q (use csv or json)", format)
	}
}

// sniff picks JSON when the payload starts with an array or object.
func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON
	}
	return FormatCSV
}

// normalize turns the five raw fields of one record into an activity.
// ok is false when the record had to be rejected.
func normalize(line int, fields [fieldCount]string, opts Options) (activity.Activity, diag.List, bool) {
	var diags diag.List
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	id := fields[fieldID]
	hasID := id != "" && id != activity.None
	if !hasID {
		diags = append(diags, diag.Errorf(diag.KindFormat, nil, []int{line},
			"line %d, column %q: activity identifier is missing", line, fieldNames[fieldID]))
	}

	duration, d := parseNumber(line, fieldDuration, fields[fieldDuration], id)
	diags = append(diags, d...)
	demand, d := parseNumber(line, fieldDemand, fields[fieldDemand], id)
	diags = append(diags, d...)

	if !hasID || !duration.present || !demand.present {
		return activity.Activity{}, diags, false
	}

	return activity.Activity{
		ID:           id,
		Duration:     duration.value,
		Demand:       demand.value,
		Predecessors: normalizeList(fields[fieldPredecessors], opts),
		Successors:   normalizeList(fields[fieldSuccessors], opts),
		Line:         line,
	}, nil, true
}

// parseNumber parses a required numeric field. Absent and unparsable
// values are both format errors.
func parseNumber(line, field int, raw, id string) (optional, diag.List) {
	var ids []string
	if id != "" && id != activity.None {
		ids = []string{id}
	}
	if raw == "" || raw == activity.None {
		return optional{}, diag.List{diag.Errorf(diag.KindFormat, ids, []int{line},
			"line %d, column %q: value is missing", line, fieldNames[field])}
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return optional{}, diag.List{diag.Errorf(diag.KindFormat, ids, []int{line},
			"line %d, column %q: invalid number %q", line, fieldNames[field], raw)}
	}
	return optional{value: v, present: true}, nil
}

func normalizeList(raw string, opts Options) string {
	if raw == "" {
		return activity.None
	}
	if opts.AltSeparator != "" && opts.AltSeparator != opts.Separator {
		raw = strings.ReplaceAll(raw, opts.AltSeparator, opts.Separator)
	}
	return raw
}
