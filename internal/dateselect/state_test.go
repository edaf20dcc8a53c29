package dateselect

import (
	"testing"
	"time"

	"possu/internal/calendar"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 12, 0, 0, 0, time.UTC)
}

func mustState(t *testing.T, s State, y int, m calendar.Month, d int) {
	t.Helper()
	if !s.Year.Equal(calendar.Some(y)) || !s.Month.Equal(calendar.Some(m)) || !s.Day.Equal(calendar.Some(d)) {
		t.Fatalf("state = %+v, want %d-%v-%d", s, y, m, d)
	}
}

func TestInit(t *testing.T) {
	cases := []struct {
		name       string
		start, end time.Time
		preselect  time.Time
		y          int
		m          calendar.Month
		d          int
	}{
		{"inside", day(1999, 1, 1), day(2001, 12, 31), day(2000, 2, 29), 2000, calendar.February, 29},
		{"after range", day(1999, 1, 1), day(2001, 4, 10), day(2030, 8, 30), 2001, calendar.April, 10},
		{"before range", day(1999, 1, 1), day(2001, 4, 10), day(1980, 5, 3), 2001, calendar.April, 3},
		{"single day", day(2020, 7, 7), day(2020, 7, 7), day(2024, 1, 1), 2020, calendar.July, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Init(calendar.NewRange(tc.start, tc.end), tc.preselect)
			mustState(t, s, tc.y, tc.m, tc.d)
		})
	}
}

func TestUpdateYearCascadesToLeapDay(t *testing.T) {
	r := calendar.NewRange(day(1999, 1, 1), day(2001, 12, 31))
	s := Init(r, day(2000, 2, 29))
	s = Update(r, s, SelectYear(1999))
	mustState(t, s, 1999, calendar.February, 28)
}

func TestUpdateYearCascadesToLastMonth(t *testing.T) {
	r := calendar.NewRange(day(1999, 1, 1), day(2001, 4, 10))
	s := Init(r, day(2000, 8, 3))
	s = Update(r, s, SelectYear(2001))
	mustState(t, s, 2001, calendar.April, 3)
}

func TestUpdateMonthKeepsYear(t *testing.T) {
	r := calendar.NewRange(day(1999, 1, 1), day(2001, 12, 31))
	s := Init(r, day(2000, 3, 31))
	s = Update(r, s, SelectMonth(calendar.April))
	mustState(t, s, 2000, calendar.April, 30)
	s = Update(r, s, SelectMonth(calendar.May))
	// the day was already resolved to 30, which May offers
	mustState(t, s, 2000, calendar.May, 30)
}

func TestUpdateDayIsLeaf(t *testing.T) {
	r := calendar.NewRange(day(1999, 1, 1), day(2001, 12, 31))
	s := Init(r, day(2000, 3, 31))
	s = Update(r, s, SelectDay(5))
	mustState(t, s, 2000, calendar.March, 5)
}

func TestUpdateUnofferedValueClears(t *testing.T) {
	r := calendar.NewRange(day(1999, 1, 1), day(2001, 4, 10))
	s := Init(r, day(2000, 8, 3))

	got := Update(r, s, SelectDay(31))
	mustState(t, got, 2000, calendar.August, 31)
	got = Update(r, s, SelectDay(32))
	if got.Day.IsSome() {
		t.Fatalf("day 32 must clear, got %+v", got)
	}

	got = Update(r, s, SelectYear(1980))
	if got.Year.IsSome() || got.Month.IsSome() || got.Day.IsSome() {
		t.Fatalf("unoffered year must clear every level, got %+v", got)
	}

	s2 := Update(r, s, SelectYear(2001))
	got = Update(r, s2, SelectMonth(calendar.June))
	if got.Month.IsSome() || got.Day.IsSome() || !got.Year.Equal(calendar.Some(2001)) {
		t.Fatalf("June 2001 is not offered, got %+v", got)
	}
	if _, ok := Compose(got, day(2000, 8, 3)).Get(); ok {
		t.Fatal("partial state must not compose")
	}
}

func TestUpdateRecoversAfterClear(t *testing.T) {
	r := calendar.NewRange(day(1999, 1, 1), day(2001, 4, 10))
	s := Update(r, Init(r, day(2000, 8, 3)), SelectNone(LevelYear))
	s = Update(r, s, SelectYear(2000))
	// nothing to prefer, so every level falls back to its last option
	mustState(t, s, 2000, calendar.December, 31)
}

func TestInvertedRangeNeverComposes(t *testing.T) {
	r := calendar.NewRange(day(2001, 1, 1), day(2000, 1, 1))
	preselect := day(2000, 6, 1)
	s := Init(r, preselect)
	actions := []Action{SelectYear(2000), SelectMonth(calendar.June), SelectDay(1), SelectYear(2001)}
	for _, a := range actions {
		s = Update(r, s, a)
		if _, ok := Compose(s, preselect).Get(); ok {
			t.Fatalf("inverted range composed a date after %+v", a)
		}
	}
}

func TestComposePreservesClockAndOffset(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	template := time.Date(2024, 5, 6, 17, 45, 12, 999, loc)
	s := State{Year: calendar.Some(2023), Month: calendar.Some(calendar.February), Day: calendar.Some(28)}
	got, ok := Compose(s, template).Get()
	if !ok {
		t.Fatal("expected a date")
	}
	want := time.Date(2023, 2, 28, 17, 45, 12, 999, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLevelNames(t *testing.T) {
	for _, l := range Levels {
		got, ok := ParseLevel(l.String())
		if !ok || got != l {
			t.Fatalf("ParseLevel(%q) = %v, %v", l.String(), got, ok)
		}
	}
	if _, ok := ParseLevel("hour"); ok {
		t.Fatal("hour is not a level")
	}
	if LevelMonth.Label() != "Month" {
		t.Fatalf("label = %q", LevelMonth.Label())
	}
}
