package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
)

func readCSV(data []byte, opts Options) ([]activity.Activity, diag.List, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = opts.Comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var (
		acts  []activity.Activity
		diags diag.List
		first = true
	)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			diags = append(diags, diag.Errorf(diag.KindFormat, nil, []int{perr.Line},
				"line %d: %v", perr.Line, perr.Err))
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse csv: %w", err)
		}

		line, _ := r.FieldPos(0)
		if first {
			first = false
			if opts.HasHeader {
				continue
			}
		}
		if blank(row) {
			continue
		}
		if len(row) < fieldCount {
			diags = append(diags, diag.Errorf(diag.KindFormat, nil, []int{line},
				"line %d: not enough columns (expected %d, got %d)", line, fieldCount, len(row)))
			continue
		}

		var fields [fieldCount]string
		copy(fields[:], row)
		a, problems, ok := normalize(line, fields, opts)
		diags = append(diags, problems...)
		if ok {
			acts = append(acts, a)
		}
	}
	return acts, diags, nil
}

func blank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
