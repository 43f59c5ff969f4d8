package options

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/amal/pkg/model"
)

const (
	layoutShort     = "1/2"
	layoutShortTime = "1/2 15:04"
)

// OnOptions holds a user supplied date or instant.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions, name, usage string) {
	cmd.Flags().StringVar(&o.OnString, name, "", usage+
		` Examples: "2024-02-28", "2024-02-28 14:30", "2/28" or "2/28 14:30".`)
}

// GetOn parses the value relative to now. Nil means unset.
func (o *OnOptions) GetOn(now time.Time) (*time.Time, error) {
	if o.OnString == "" {
		return nil, nil
	}
	t, err := ParseOn(o.OnString, now)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseOn accepts everything model.ParseTime does plus month/day forms
// without a year.
func ParseOn(v string, now time.Time) (time.Time, error) {
	t, err := model.ParseTime(v)
	if err == nil {
		return t, nil
	}
	for _, layout := range []string{layoutShort, layoutShortTime} {
		s, perr := time.ParseInLocation(layout, v, time.Local)
		if perr != nil {
			continue
		}
		hour, min := s.Hour(), s.Minute()
		if layout == layoutShort {
			hour, min = 23, 59
		}
		t = time.Date(now.Year(), s.Month(), s.Day(), hour, min, 0, 0, time.Local)
		// I am gonna assume if you said 1/3 on 12/5, you meant next year, not 11 months ago.
		if t.Before(now) && now.Sub(t) > 24*time.Hour {
			t = t.AddDate(1, 0, 0)
		}
		return t, nil
	}
	return time.Time{}, err
}
