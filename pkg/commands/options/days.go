package options

import (
	"fmt"
	"strconv"
	"strings"
)

var dayIndex = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

// ParseDays reads weekday names or numbers (0 is Sunday). "weekdays" and
// "weekends" expand.
func ParseDays(values []string) ([]int, error) {
	var days []int
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		switch v {
		case "":
			continue
		case "weekdays":
			days = append(days, 1, 2, 3, 4, 5)
			continue
		case "weekends":
			days = append(days, 0, 6)
			continue
		}
		if d, ok := dayIndex[v]; ok {
			days = append(days, d)
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("unknown day %q", v)
		}
		days = append(days, n)
	}
	return days, nil
}
