// Package dashboard assembles everything the coastal dashboard shows into one
// view, computed from explicit inputs.
package dashboard

import (
	"time"

	"github.com/spencer-p/coastdash/pkg/beaches"
	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/location"
	"github.com/spencer-p/coastdash/pkg/sunset"
	"github.com/spencer-p/coastdash/pkg/timetricks"
)

// Inputs are the facts a dashboard is computed from. Now carries the time zone
// the dashboard is shown in.
type Inputs struct {
	Now      time.Time
	Location location.Coordinate
	// Warning is shown when Location is a fallback.
	Warning    string
	Schedule   coastal.Schedule
	Candidates []coastal.SwimWindow
	Beaches    []beaches.Beach
}

// Defaults fills in the literal tide table, swim windows, and beaches of the
// dashboard for the given time and place.
func Defaults(now time.Time, loc location.Coordinate, warning string) Inputs {
	return Inputs{
		Now:        now,
		Location:   loc,
		Warning:    warning,
		Schedule:   coastal.DefaultSchedule(),
		Candidates: coastal.DefaultSwimWindows(),
		Beaches:    beaches.Default(),
	}
}

// LocalTime is the clock panel of the dashboard.
type LocalTime struct {
	Clock   string    `json:"clock"`
	Date    string    `json:"date"`
	Zone    string    `json:"zone"`
	Daytime bool      `json:"daytime"`
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// View is a fully computed dashboard.
type View struct {
	LocalTime LocalTime              `json:"localTime"`
	Location  location.Coordinate    `json:"location"`
	Warning   string                 `json:"warning,omitempty"`
	Tide      coastal.TideSnapshot   `json:"tide"`
	Swim      coastal.RankedSwimPlan `json:"swim"`
	Beaches   []beaches.Beach        `json:"beaches"`
}

// Compose computes a fresh view. It fails only if the schedule is invalid.
func Compose(in Inputs) (View, error) {
	tide, err := coastal.ComputeTideSnapshot(in.Now, in.Schedule)
	if err != nil {
		return View{}, err
	}

	return View{
		LocalTime: localTime(in.Now, in.Location),
		Location:  in.Location,
		Warning:   in.Warning,
		Tide:      tide,
		Swim:      coastal.RankSwimWindows(in.Candidates),
		Beaches:   beaches.Nearby(in.Beaches),
	}, nil
}

// ComposeLocalTime computes only the clock panel.
func ComposeLocalTime(now time.Time, loc location.Coordinate) LocalTime {
	return localTime(now, loc)
}

func localTime(now time.Time, loc location.Coordinate) LocalTime {
	rise, set := sunset.Today(now, sunset.Place{
		Lat:      loc.Lat,
		Long:     loc.Lng,
		Location: now.Location(),
	})
	return LocalTime{
		Clock:   timetricks.FormatClock(now),
		Date:    timetricks.FormatDate(now),
		Zone:    now.Format("MST"),
		Daytime: timetricks.IsDaytime(now),
		Sunrise: rise.Time,
		Sunset:  set.Time,
	}
}
