// Package calendar maps simulation hours onto a 365 day, 8760 hour year.
package calendar

// HoursPerYear is the length of the simulated year.
const HoursPerYear = 8760

var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// HoursInMonth returns the number of hours in a 1-based month, or 0 when
// month is outside 1..12.
func HoursInMonth(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return daysInMonth[month-1] * 24
}

// MonthHour splits a 0-based hour of year into a 1-based month and a
// 1-based hour of day. Hours past the end of the year wrap around so
// multi-year series reuse the same calendar.
func MonthHour(hourOfYear int) (month, hour int) {
	h := hourOfYear % HoursPerYear
	if h < 0 {
		h += HoursPerYear
	}
	sum := 0
	for month = 1; month <= 12; month++ {
		sum += HoursInMonth(month)
		if h < sum {
			break
		}
	}
	return month, h%24 + 1
}
