package model

import (
	"fmt"
	"strings"
	"time"
)

var inputLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime reads a user supplied instant. Date-only and zone-less values are
// interpreted in local time; a date-only value means the end of that day.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for i, layout := range inputLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, v)
		} else {
			t, err = time.ParseInLocation(layout, v, time.Local)
		}
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(23*time.Hour + 59*time.Minute)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("model: cannot parse time %q", v)
}

// FormatTime renders an instant for storage and JSON output.
func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339Nano)
}
