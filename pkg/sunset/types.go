package sunset

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

var (
	Fairfield = Place{
		41.1415, -73.2637,
		locationOrPanic("America/New_York"),
	}
	SantaMonica = Place{
		34.0195, -118.4912,
		locationOrPanic("America/Los_Angeles"),
	}
)

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s", s.Time.Format(time.RFC822), s.Event)
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset  Event = false
)

func (e Event) String() string {
	if e == Sunrise {
		return "Sunrise"
	}
	return "Sunset"
}

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
