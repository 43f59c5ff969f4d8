package printers

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/ledger"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/recurrence"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints a month grid for a routine: completed days bold, due days
// plain, days it was not due faint.
func (pp *PrettyPrint) Calendar(r *model.Routine, then time.Time) {
	first := time.Date(then.Year(), then.Month(), 1, 12, 0, 0, 0, time.Local)
	days := DaysIn(first)
	marks := make([]int, days)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		switch {
		case ledger.IsCompletedOn(r, day, pp.User):
			marks[i] = 2
		case recurrence.IsDueOn(r, day):
			marks[i] = 1
		}
	}
	pp.PrintMonthCount(first, marks)
}

// PrintMonthCount prints a month grid; count[i] is 0 (faint), 1 (plain) or
// more (bold) for day i+1.
func (pp *PrettyPrint) PrintMonthCount(then time.Time, count []int) {
	d := StartDay(then)
	out := pp.out()

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month().String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(out, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	days := DaysIn(then)

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(out, "   ")
	}

	l0 := color.New(color.Faint, color.FgWhite)
	l1 := color.New(color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiGreen)

	for i := 0; i < days; i++ {
		p := l0
		if i < len(count) {
			switch {
			case count[i] >= 2:
				p = l2
			case count[i] == 1:
				p = l1
			}
		}
		_, _ = p.Fprintf(out, "%2d ", i+1)

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(out, "\n")
		}
	}
	_, _ = fmt.Fprint(out, "\n\n")
}

// Report prints finished work grouped by area.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	out := pp.out()
	since := result.Since.Local().Format("2006-01-02 15:04")
	until := result.Until.Local().Format("2006-01-02 15:04")
	_, _ = fmt.Fprintf(out, "Report · last %s (%s → %s)\n", label, since, until)

	if result.Total == 0 {
		_, _ = fmt.Fprintln(out, "  Nothing finished in this window.")
		pp.NewLine()
		return
	}

	faint := color.New(color.Faint)
	for _, section := range result.Sections {
		_, _ = fmt.Fprintf(out, "\n%s %s\n", Swatch(section.Color), color.New(color.Bold).Sprint(section.Area))
		for _, item := range section.Items {
			stamp := item.CompletedAt.Local().Format("Jan 2 15:04")
			switch {
			case item.Task != nil:
				_, _ = fmt.Fprintf(out, "  [x] %s %s\n", item.Task.Title, faint.Sprint(stamp))
			case item.Routine != nil:
				_, _ = fmt.Fprintf(out, "  ↻  %s %s\n", item.Routine.Title, faint.Sprintf("×%d, last %s", item.Completions, stamp))
			}
		}
	}
	pp.NewLine()
}

// Review prints stale open tasks, oldest group last.
func (pp *PrettyPrint) Review(candidates []app.ReviewCandidate) {
	if len(candidates) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	groups := map[string][]app.ReviewCandidate{}
	var order []string
	for _, c := range candidates {
		age := int(now.Sub(c.LastTouched).Hours() / 24)
		var key string
		switch {
		case age < 14:
			key = "Last week"
		case age < 60:
			key = "Last month"
		default:
			key = "Older"
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}
	rank := map[string]int{"Last week": 0, "Last month": 1, "Older": 2}
	sort.SliceStable(order, func(i, j int) bool { return rank[order[i]] < rank[order[j]] })
	for _, key := range order {
		pp.TitleWithCount(key, len(groups[key]))
		tasks := make([]model.Task, 0, len(groups[key]))
		for _, c := range groups[key] {
			tasks = append(tasks, c.Task)
		}
		pp.TaskList(nil, tasks...)
	}
}

func NextMonth(then time.Time) time.Time {
	return time.Date(then.Local().Year(), then.Local().Month()+1, 1, 12, 0, 0, 0, then.Location())
}

func DaysIn(then time.Time) int {
	return time.Date(then.Year(), then.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then time.Time) time.Weekday {
	return time.Date(then.Year(), then.Month(), 1, 12, 0, 0, 0, time.UTC).Weekday()
}
