package calendar

import "time"

// Month is a calendar month, 1 (January) through 12 (December).
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

// MonthFromInt maps any integer onto a Month by wrapping, ((n-1) mod 12)+1.
// 0 is December, 13 is January, 24 is December. Values outside 1..12 are
// not rejected.
func MonthFromInt(n int) Month {
	m := (n - 1) % 12
	if m < 0 {
		m += 12
	}
	return Month(m + 1)
}

// String returns the English name of the month.
func (m Month) String() string {
	return time.Month(MonthFromInt(int(m))).String()
}

// Time converts m to the standard library month.
func (m Month) Time() time.Month {
	return time.Month(m)
}
