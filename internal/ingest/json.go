package ingest

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/joshharrison/critpath/internal/activity"
	"github.com/joshharrison/critpath/internal/diag"
)

// jsonKeys lists the accepted keys of each field, first match wins.
var jsonKeys = [fieldCount][]string{
	fieldID:           {"id", "activity", "name"},
	fieldSuccessors:   {"successors", "followers"},
	fieldPredecessors: {"predecessors", "depends_on"},
	fieldDuration:     {"duration"},
	fieldDemand:       {"resources", "demand", "workforce"},
}

// readJSON accepts an array of record objects, or an object holding such
// an array under "activities". Record positions are 1-based array indexes.
func readJSON(data []byte, opts Options) ([]activity.Activity, diag.List, error) {
	if !gjson.ValidBytes(data) {
		return nil, diag.List{diag.Errorf(diag.KindFormat, nil, nil, "input is not valid JSON")}, nil
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("activities")
	}
	if !root.IsArray() {
		return nil, diag.List{diag.Errorf(diag.KindFormat, nil, nil,
			"expected an array of activity records")}, nil
	}

	var (
		acts  []activity.Activity
		diags diag.List
		pos   int
	)
	root.ForEach(func(_, rec gjson.Result) bool {
		pos++
		if !rec.IsObject() {
			diags = append(diags, diag.Errorf(diag.KindFormat, nil, []int{pos},
				"record %d: expected an object, got %s", pos, rec.Type))
			return true
		}

		var fields [fieldCount]string
		for f, keys := range jsonKeys {
			fields[f] = jsonField(rec, keys, opts.Separator)
		}
		a, problems, ok := normalize(pos, fields, opts)
		diags = append(diags, problems...)
		if ok {
			acts = append(acts, a)
		}
		return true
	})
	return acts, diags, nil
}

// jsonField renders a record field as the raw text a CSV cell would hold.
// Arrays are joined with sep; null and missing become empty.
func jsonField(rec gjson.Result, keys []string, sep string) string {
	for _, k := range keys {
		v := rec.Get(k)
		if !v.Exists() {
			continue
		}
		switch {
		case v.Type == gjson.Null:
			return ""
		case v.IsArray():
			var parts []string
			v.ForEach(func(_, item gjson.Result) bool {
				parts = append(parts, item.String())
				return true
			})
			return strings.Join(parts, sep)
		case v.Type == gjson.Number:
			return strconv.FormatFloat(v.Float(), 'g', -1, 64)
		default:
			return v.String()
		}
	}
	return ""
}
