package sunset

import (
	"testing"
	"time"

	"github.com/spencer-p/coastdash/pkg/timetricks"
)

func TestGetSunEvents(t *testing.T) {
	start := time.Date(2020, time.October, 25, 0, 0, 0, 0, Fairfield.Location)
	events := GetSunEvents(start, 5*24*time.Hour, Fairfield)
	if len(events) != 10 {
		t.Fatalf("got %d events, wanted 10", len(events))
	}
	if !timetricks.SameDay(start, events[0].Time) {
		t.Errorf("first event %s is not on %s", events[0].String(), start.Format(time.RFC822))
	}
	for i, e := range events {
		want := Sunrise
		if i%2 == 1 {
			want = Sunset
		}
		if e.Event != want {
			t.Errorf("event %d is a %s, wanted %s", i, e.Event, want)
		}
	}
	rise, set := events[0].Time, events[1].Time
	if !rise.Before(set) {
		t.Errorf("sunrise %s is not before sunset %s", rise, set)
	}
	// Late October in Connecticut is roughly 7 AM to 6 PM.
	if h := rise.In(Fairfield.Location).Hour(); h < 6 || h > 8 {
		t.Errorf("sunrise at hour %d", h)
	}
	if h := set.In(Fairfield.Location).Hour(); h < 17 || h > 19 {
		t.Errorf("sunset at hour %d", h)
	}
}

func TestToday(t *testing.T) {
	// Late evening in UTC is still the afternoon of the same day in California.
	ref := time.Date(2021, time.June, 21, 23, 0, 0, 0, time.UTC)
	rise, set := Today(ref, SantaMonica)
	if rise.Event != Sunrise || set.Event != Sunset {
		t.Fatalf("got %s and %s", rise.String(), set.String())
	}
	local := ref.In(SantaMonica.Location)
	if !timetricks.SameDay(local, rise.Time.In(SantaMonica.Location)) {
		t.Errorf("sunrise %s is not on %s", rise.String(), local.Format(time.RFC822))
	}
}
