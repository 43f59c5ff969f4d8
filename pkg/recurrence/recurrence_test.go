package recurrence

import (
	"testing"
	"time"

	"tableflip.dev/amal/pkg/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestMonthlyDueOnlyOnMonthDay(t *testing.T) {
	for _, md := range []int{1, 15, 29, 30, 31} {
		r := &model.Routine{Schedule: model.ScheduleMonthly, MonthDay: md, Days: []int{1, 2}}
		start := day(2023, time.January, 1)
		for d := start; d.Before(day(2026, time.January, 1)); d = d.AddDate(0, 0, 1) {
			if got, want := IsDueOn(r, d), d.Day() == md; got != want {
				t.Fatalf("monthDay %d on %s: expected %v, got %v", md, d.Format("2006-01-02"), want, got)
			}
		}
	}
}

func TestMonthlyDefaultsToFirst(t *testing.T) {
	r := &model.Routine{Schedule: model.ScheduleMonthly}
	if !IsDueOn(r, day(2024, time.July, 1)) {
		t.Fatal("expected monthly routine without monthDay to fire on the 1st")
	}
	if IsDueOn(r, day(2024, time.July, 2)) {
		t.Fatal("expected monthly routine without monthDay to skip the 2nd")
	}
}

func TestDaySetTakesPrecedenceOverSchedule(t *testing.T) {
	for _, sched := range []model.Schedule{model.ScheduleDaily, model.ScheduleWeekly, model.ScheduleCustom, model.ScheduleLegacy} {
		r := &model.Routine{Schedule: sched, Days: []int{0, 3}}
		for d := day(2024, time.March, 1); d.Before(day(2024, time.April, 1)); d = d.AddDate(0, 0, 1) {
			wd := d.Weekday()
			want := wd == time.Sunday || wd == time.Wednesday
			if got := IsDueOn(r, d); got != want {
				t.Fatalf("%q on %s: expected %v, got %v", sched, wd, want, got)
			}
		}
	}
}

func TestFallbackSchedulesAreAlwaysDue(t *testing.T) {
	for _, sched := range []model.Schedule{model.ScheduleDaily, model.ScheduleLegacy, model.ScheduleWeekly, model.ScheduleCustom, "mondays"} {
		r := &model.Routine{Schedule: sched}
		for d := day(2024, time.March, 1); d.Before(day(2024, time.March, 8)); d = d.AddDate(0, 0, 1) {
			if !IsDueOn(r, d) {
				t.Fatalf("%q on %s: expected due", sched, d.Weekday())
			}
		}
	}
}

func TestDaysUntilNextZeroIffDue(t *testing.T) {
	routines := []*model.Routine{
		{Schedule: model.ScheduleWeekly, Days: []int{1, 2, 3, 4, 5}},
		{Schedule: model.ScheduleWeekly, Days: []int{6}},
		{Schedule: model.ScheduleMonthly, MonthDay: 31},
		{Schedule: model.ScheduleMonthly, MonthDay: 2},
		{Schedule: model.ScheduleDaily},
	}
	for _, r := range routines {
		for d := day(2024, time.January, 1); d.Before(day(2025, time.January, 1)); d = d.AddDate(0, 0, 1) {
			n := DaysUntilNext(r, d)
			if (n == 0) != IsDueOn(r, d) {
				t.Fatalf("%+v on %s: daysUntilNext=%d, due=%v", r, d.Format("2006-01-02"), n, IsDueOn(r, d))
			}
			if n < 0 {
				t.Fatalf("negative offset %d", n)
			}
			if n > 0 && !IsDueOn(r, d.AddDate(0, 0, n)) {
				t.Fatalf("%+v on %s: expected due %d days later", r, d.Format("2006-01-02"), n)
			}
		}
	}
}

func TestWeekdaysOnSaturday(t *testing.T) {
	r := &model.Routine{Schedule: model.ScheduleWeekly, Days: []int{1, 2, 3, 4, 5}}
	sat := day(2024, time.June, 1)
	if sat.Weekday() != time.Saturday {
		t.Fatalf("fixture is %s", sat.Weekday())
	}
	if IsDueOn(r, sat) {
		t.Fatal("expected weekday routine not due on Saturday")
	}
	if got := DaysUntilNext(r, sat); got != 2 {
		t.Fatalf("expected 2 days to Monday, got %d", got)
	}
}

func TestDaysUntilNextMonthly(t *testing.T) {
	r := &model.Routine{Schedule: model.ScheduleMonthly, MonthDay: 10}
	if got := DaysUntilNext(r, day(2024, time.February, 5)); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
	if got := DaysUntilNext(r, day(2024, time.February, 20)); got != 19 {
		t.Fatalf("expected 19 (leap February), got %d", got)
	}
	r.MonthDay = 31
	if got := DaysUntilNext(r, day(2024, time.April, 5)); got != 56 {
		t.Fatalf("expected 56 days to May 31st, got %d", got)
	}
}

func TestLabel(t *testing.T) {
	cases := []struct {
		r    model.Routine
		want string
	}{
		{model.Routine{Days: []int{0, 1, 2, 3, 4, 5, 6}}, "Daily"},
		{model.Routine{Days: []int{5, 4, 3, 2, 1}}, "Weekdays"},
		{model.Routine{Days: []int{6, 0}}, "Weekends"},
		{model.Routine{Days: []int{3, 1}}, "Mon, Wed"},
		{model.Routine{Schedule: model.ScheduleMonthly, MonthDay: 1}, "Monthly on the 1st"},
		{model.Routine{Schedule: model.ScheduleMonthly, MonthDay: 22}, "Monthly on the 22nd"},
		{model.Routine{Schedule: model.ScheduleMonthly, MonthDay: 13}, "Monthly on the 13th"},
		{model.Routine{Schedule: model.ScheduleMonthly}, "Monthly on the 1st"},
		{model.Routine{Schedule: model.ScheduleWeekly}, "Weekly"},
		{model.Routine{Schedule: model.ScheduleCustom}, "Custom"},
		{model.Routine{Schedule: model.ScheduleDaily}, "Daily"},
		{model.Routine{}, "Daily"},
	}
	for _, tc := range cases {
		if got := Label(&tc.r); got != tc.want {
			t.Fatalf("%+v: expected %q, got %q", tc.r, tc.want, got)
		}
	}
}

func TestOrdinal(t *testing.T) {
	for n, want := range map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 23: "23rd", 31: "31st"} {
		if got := Ordinal(n); got != want {
			t.Fatalf("Ordinal(%d): expected %q, got %q", n, want, got)
		}
	}
}

func TestTimeOn(t *testing.T) {
	r := &model.Routine{Time: "07:45"}
	got, ok := TimeOn(r, day(2024, time.June, 3))
	if !ok || got.Hour() != 7 || got.Minute() != 45 || got.Day() != 3 {
		t.Fatalf("expected 07:45 on the 3rd, got %s (%v)", got, ok)
	}
	if _, ok := TimeOn(&model.Routine{}, day(2024, time.June, 3)); ok {
		t.Fatal("expected no time for routine without time")
	}
	if _, ok := TimeOn(&model.Routine{Time: "soon"}, day(2024, time.June, 3)); ok {
		t.Fatal("expected malformed time to be ignored")
	}
}
