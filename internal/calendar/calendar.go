// Package calendar answers US equity market business-day questions used to
// default provider date ranges.
package calendar

import "time"

// LastNBusinessDays returns the last n US market business days (most recent first),
// starting at from's date.
func LastNBusinessDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := TruncateToDate(from)

	for len(out) < n {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// LastBusinessDay returns from's date if it is a business day, otherwise the
// closest business day before it.
func LastBusinessDay(from time.Time) time.Time {
	return LastNBusinessDays(1, from)[0]
}

// TruncateToDate drops the clock part of t, keeping its location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsBusinessDay returns true if d is a NYSE trading day.
func IsBusinessDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	_, holiday := holidays(d.Year(), d.Location())[TruncateToDate(d)]
	return !holiday
}

func holidays(year int, loc *time.Location) map[time.Time]struct{} {
	date := func(m time.Month, day int) time.Time { return time.Date(year, m, day, 0, 0, 0, 0, loc) }

	// New Year, MLK, Washington's Birthday, Good Friday, Memorial Day,
	// Juneteenth, Independence Day, Labor Day, Thanksgiving, Christmas.
	days := []time.Time{
		observed(date(time.January, 1)),
		nthWeekday(year, time.January, time.Monday, 3, loc),
		nthWeekday(year, time.February, time.Monday, 3, loc),
		easterSunday(year, loc).AddDate(0, 0, -2),
		lastWeekday(year, time.May, time.Monday, loc),
		observed(date(time.June, 19)),
		observed(date(time.July, 4)),
		nthWeekday(year, time.September, time.Monday, 1, loc),
		nthWeekday(year, time.November, time.Thursday, 4, loc),
		observed(date(time.December, 25)),
	}
	// Juneteenth became a market holiday in 2022.
	if year < 2022 {
		days = append(days[:5], days[6:]...)
	}

	out := make(map[time.Time]struct{}, len(days))
	for _, d := range days {
		out[d] = struct{}{}
	}
	return out
}

// observed moves a Saturday holiday to Friday and a Sunday holiday to Monday.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(year int, m time.Month, wd time.Weekday, n int, loc *time.Location) time.Time {
	d := time.Date(year, m, 1, 0, 0, 0, 0, loc)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(year int, m time.Month, wd time.Weekday, loc *time.Location) time.Time {
	d := time.Date(year, m+1, 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
