// Package render turns backend records into display rows. Missing text is
// shown as "N/A", missing numbers as 0, and an empty collection never
// produces a table, only the fixed "No <entity> found" line.
package render

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	NA              = "N/A"
	DefaultLayout   = "1/2/2006, 3:04:05 PM"
	multiValueJoint = ", "
)

// timestamp layouts seen from the backend; zone-less values are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type Formatter struct {
	loc    *time.Location
	layout string
}

func NewFormatter(loc *time.Location, layout string) Formatter {
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = DefaultLayout
	}

	return Formatter{loc: loc, layout: layout}
}

func (f Formatter) Location() *time.Location {
	if f.loc == nil {
		return time.UTC
	}
	return f.loc
}

// ParseTimestamp reads the timestamp shapes the backend emits.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Time formats a timestamp locale-style. Values that do not parse are shown
// as received.
func (f Formatter) Time(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return NA
	}

	t, ok := ParseTimestamp(raw)
	if !ok {
		return raw
	}

	layout := f.layout
	if layout == "" {
		layout = DefaultLayout
	}

	return t.In(f.Location()).Format(layout)
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return NA
	case string:
		if strings.TrimSpace(val) == "" {
			return NA
		}
		return val
	case []any:
		return join(val)
	case bool:
		return strconv.FormatBool(val)
	case float64, json.Number, int:
		return number(val)
	}

	return fmt.Sprint(v)
}

func number(v any) string {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case json.Number:
		return val.String()
	case string:
		if _, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return strings.TrimSpace(val)
		}
	case []any:
		if len(val) == 1 {
			return number(val[0])
		}
	}

	return "0"
}

// join renders multi-valued fields such as linked order IDs.
func join(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		s := text(v)
		if s != NA {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return NA
	}

	return strings.Join(parts, multiValueJoint)
}
