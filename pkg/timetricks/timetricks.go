package timetricks

import (
	"time"
)

const (
	dayFormat      = "20060102"
	shortDayFormat = "01/02"
	clockFormat    = "03:04:05 PM"
	longDayFormat  = "Monday, January 2, 2006"
	weekPlusMinute = 7*24*time.Hour + time.Minute

	// Daylight hours for the dashboard's sun/moon indicator.
	dawnHour = 6
	duskHour = 18
)

func SameDay(t time.Time, t2 time.Time) bool {
	return t.Format(dayFormat) == t2.Format(dayFormat)
}

// Tomorrow reports whether t falls on the day after now.
func Tomorrow(t, now time.Time) bool {
	return SameDay(t.Add(-24*time.Hour), now)
}

func TrimClock(t time.Time) time.Time {
	h, m, s := t.Clock()
	return t.Add(-1 *
		(time.Duration(h)*time.Hour +
			time.Duration(m)*time.Minute +
			time.Duration(s)*time.Second))
}

// WithinWeek reports whether t falls between the start of now's day and the
// end of the sixth day after it.
func WithinWeek(t, now time.Time) bool {
	// Trim current time so they have no wall clock component, just
	// calendar date, and use it to compute the first minute of the coming week.
	// Then check if our time t occurs before then, as well as after the start
	// of today (minus a minute in case t falls at midnight).
	start := TrimClock(now)
	firstMinuteOfNextWeek := start.Add(weekPlusMinute)
	return t.After(start.Add(-1*time.Minute)) && t.Before(firstMinuteOfNextWeek)
}

func SetClock(t time.Time, hour, minute time.Duration) time.Time {
	return TrimClock(t).Add(hour*time.Hour + minute*time.Minute)
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}

// Day names the day of t relative to now: "Today", "Tomorrow", a weekday
// within the coming week, and a month/day date otherwise.
func Day(t, now time.Time) string {
	switch {
	case SameDay(t, now):
		return "Today"
	case Tomorrow(t, now):
		return "Tomorrow"
	case WithinWeek(t, now):
		return t.Weekday().String()
	default:
		return t.Format(shortDayFormat)
	}
}

// IsDaytime is true from 6 AM until 6 PM.
func IsDaytime(t time.Time) bool {
	h := t.Hour()
	return h >= dawnHour && h < duskHour
}

// FormatClock prints t like "09:05:03 AM".
func FormatClock(t time.Time) string {
	return t.Format(clockFormat)
}

// FormatDate prints t like "Monday, January 2, 2006".
func FormatDate(t time.Time) string {
	return t.Format(longDayFormat)
}
