package visualize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/splines"
	"github.com/spencer-p/coastdash/pkg/sunset"
	"github.com/spencer-p/coastdash/pkg/timetricks"
)

const (
	width  = 1200
	height = 300
)

// Tidal draws one day of tide as an SVG image.
type Tidal struct {
	date      time.Time
	now       time.Time
	schedule  coastal.Schedule
	approx    coastal.Approximation
	sunEvents sunset.SunEvents
}

func NewTidal(schedule coastal.Schedule, approx coastal.Approximation, sunEvents sunset.SunEvents) *Tidal {
	return &Tidal{
		schedule:  schedule,
		approx:    approx,
		sunEvents: sunEvents,
	}
}

// SetDate picks the day to draw.
func (img *Tidal) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

// SetNow marks the current time on the image if it falls on the drawn day.
func (img *Tidal) SetNow(t time.Time) {
	img.now = t
}

func (img *Tidal) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" onclick="" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Calculate dawn/dusk and draw the sunshine.
	sunupIndex, ok := img.sunup(img.date)
	if !ok || sunupIndex+1 >= len(img.sunEvents) {
		return n, fmt.Errorf("Not enough sun data")
	}
	sunup := img.sunEvents[sunupIndex]
	sundown := img.sunEvents[sunupIndex+1]
	risex := img.timeToX(sunup.Time)
	setx := img.timeToX(sundown.Time)
	io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
		risex, 0,
		setx-risex, height))

	// Draw markers for tide levels.
	io(fmt.Fprintf(w, `<rect class="six_foot" fill="#caf0f8" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(6),
		width, tideHeightToY(4)-tideHeightToY(6)+1))
	io(fmt.Fprintf(w, `<rect class="two_foot" fill="#e9c46a" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(2),
		width, tideHeightToY(0)-tideHeightToY(2)+1))

	// Fill the water between consecutive extremes, including the tides on
	// either side of the day so the curve runs off both edges.
	spline := splines.CurvesBetween(img.date, img.schedule)
	for _, curve := range spline {
		x1 := img.timeToX(curve.Start)
		y1 := tideHeightToY(spline.Eval(curve.Start))
		x2 := img.timeToX(curve.End) + 1 // +1 to create overlap
		y2 := tideHeightToY(spline.Eval(curve.End))

		cx1, cy1 := (x1+x2)/2, y1
		cx2, cy2 := cx1, y2

		io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d `, x1, y1))
		io(fmt.Fprintf(w, `C %d,%d %d,%d %d,%d `,
			cx1, cy1,
			cx2, cy2,
			x2, y2))
		io(fmt.Fprintf(w, `L %d,%d L %d,%d z"/>`, x2, height, x1, height))
	}

	// Overlay the hourly approximation used for the current height.
	io(fmt.Fprintf(w, `<polyline class="approximation" fill="none" stroke="navy" stroke-dasharray="4" points="`))
	for hour := 0; hour <= 24; hour++ {
		x := img.timeToX(img.date.Add(time.Duration(hour) * time.Hour))
		io(fmt.Fprintf(w, "%d,%d ", x, tideHeightToY(img.approx.HeightAt(hour))))
	}
	io(fmt.Fprintf(w, `"/>`))

	// Mark each scheduled tide.
	for _, e := range img.schedule {
		class := "low"
		if e.Type == coastal.High {
			class = "high"
		}
		io(fmt.Fprintf(w, `<circle class="%s" fill="navy" cx="%d" cy="%d" r="6"><title>%s</title></circle>`,
			class,
			img.timeToX(e.Time.On(img.date)),
			tideHeightToY(e.Height),
			e.String()))
	}

	// Draw the night time shadows.
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		0, 0,
		risex, height))
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		setx, 0,
		width-setx, height))

	if !img.now.IsZero() && timetricks.SameDay(img.now, img.date) {
		nowx := img.timeToX(img.now)
		io(fmt.Fprintf(w, `<line class="now" stroke="#e76f51" stroke-width="3" x1="%d" y1="%d" x2="%d" y2="%d"/>`,
			nowx, 0, nowx, height))
	}

	// Insert spline data as JSON.
	io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
	if encErr := json.NewEncoder(w).Encode(spline); encErr != nil {
		err = encErr
	}
	io(fmt.Fprintf(w, `</text>`))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

// sunup finds the first sunrise after t.
func (img *Tidal) sunup(t time.Time) (int, bool) {
	for i := 0; i < len(img.sunEvents); i++ {
		if img.sunEvents[i].Event == sunset.Sunrise && img.sunEvents[i].Time.After(t) {
			return i, true
		}
	}
	return 0, false
}

func tideHeightToY(tideHeight float64) int {
	return height - int((tideHeight+2)*(height/10)) // scaling ratio of img height to 10 feet of tide variance
}

func (img *Tidal) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
