package sunset

import (
	"math"
	"time"

	"github.com/spencer-p/coastdash/pkg/timetricks"

	"github.com/keep94/sunrise"
)

// maxDayShift bounds how far we walk to line the sunrise package up with the
// requested calendar day.
const maxDayShift = 3

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	if place.Location != nil {
		start = start.In(place.Location)
	}

	var s sunrise.Sunrise
	s.Around(place.Lat, place.Long, start)

	// Make sure we start with the correct day
	// The sunrise package is not very clean with its dates.
	for i := 0; i < maxDayShift && !timetricks.SameDay(start, s.Sunrise()); i++ {
		if s.Sunrise().Before(start) {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	// Get sunrises and sunsets for the given number of days.
	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, numDays*2)
	for i := 0; i < numDays*2; i += 2 {
		ret[i] = SunEvent{s.Sunrise(), Sunrise}
		ret[i+1] = SunEvent{s.Sunset(), Sunset}
		s.AddDays(1)
	}
	return ret
}

// Today returns the sunrise and sunset on the calendar day of t.
func Today(t time.Time, place Place) (rise, set SunEvent) {
	if place.Location != nil {
		t = t.In(place.Location)
	}
	events := GetSunEvents(timetricks.TrimClock(t), 24*time.Hour, place)
	return events[0], events[1]
}
