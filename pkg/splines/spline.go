// Package splines draws a continuous tide curve through a day's extremes.
package splines

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/spencer-p/coastdash/pkg/coastal"
)

// Point is a water height at an instant.
type Point struct {
	Time time.Time
	// Height in feet
	Height float64
}

// Curve represents a curve that links a tide event to another smoothly. Its
// derivitative at Start and End are zero and it is undefined outside Start and
// End.
type Curve struct {
	Start, End time.Time
	a, b, c, d float64
}

// A Spline is a slice of curves linked together to form a full picture.
type Spline []Curve

// CurvesBetween links the tide events of a schedule placed on the calendar day
// of day. The last tide of the previous day and the first tide of the next day
// are included so the spline covers all of day, assuming every day repeats
// the schedule.
func CurvesBetween(day time.Time, s coastal.Schedule) Spline {
	if len(s) == 0 {
		return nil
	}
	prev, next := day.AddDate(0, 0, -1), day.AddDate(0, 0, 1)
	last := s[len(s)-1]

	points := make([]Point, 0, len(s)+2)
	points = append(points, Point{last.Time.On(prev), last.Height})
	for _, e := range s {
		points = append(points, Point{e.Time.On(day), e.Height})
	}
	points = append(points, Point{s[0].Time.On(next), s[0].Height})
	return Through(points)
}

// Through links consecutive points, which must be in chronological order.
func Through(points []Point) Spline {
	if len(points) < 2 {
		return nil
	}

	curves := make([]Curve, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		curves[i] = curveBetween(
			points[i].Time,
			points[i].Height,
			points[i+1].Time,
			points[i+1].Height)
	}
	return curves
}

// Discrete finds n tide heights evenly spaced across the Spline.
func Discrete(spline Spline, n int) []float64 {
	if len(spline) < 1 || n < 2 {
		return nil
	}
	start, end := spline.Bounds()
	dur := end.Sub(start)
	step := time.Duration(float64(dur) / float64(n-1))

	result := make([]float64, n)
	for i := range result {
		result[i] = spline.Eval(start.Add(step * time.Duration(i)))
	}
	return result
}

// Bounds returns the instants the spline is defined between.
func (s Spline) Bounds() (start, end time.Time) {
	if len(s) == 0 {
		return time.Time{}, time.Time{}
	}
	return s[0].Start, s[len(s)-1].End
}

func curveBetween(time1 time.Time, h1 float64, time2 time.Time, h2 float64) Curve {
	t1 := 0.0
	t2 := xrel(time1, time2)
	denominator := math.Pow(t1-t2, 3.0)
	a := (-2 * (h1 - h2)) / denominator
	b := (3 * (h1 - h2) * (t1 + t2)) / denominator
	c := (-6 * (h1 - h2) * t1 * t2) / denominator
	d := -1 * (-1*h2*math.Pow(t1, 3) + 3*h2*math.Pow(t1, 2)*t2 - 3*h1*t1*math.Pow(t2, 2) + h1*math.Pow(t2, 3)) / denominator
	curve := Curve{
		Start: time1,
		End:   time2,
		a:     a,
		b:     b,
		c:     c,
		d:     d,
	}
	return curve
}

// Eval returns the height at t, or NaN outside the spline.
func (s Spline) Eval(t time.Time) float64 {
	left, right := 0, len(s)
	for right > left {
		mid := left + (right-left)/2
		if t.Before(s[mid].Start) {
			right = mid
		} else if t.After(s[mid].End) {
			left = mid + 1
		} else {
			return s[mid].Eval(t)
		}
	}
	// Function not defined.
	return math.NaN()
}

func (c Curve) Eval(t time.Time) float64 {
	if t.Before(c.Start) || t.After(c.End) {
		return math.NaN()
	}
	x := xrel(c.Start, t)
	return c.a*x*x*x + c.b*x*x + c.c*x + c.d
}

// Coefficients returns the cubic's coefficients, with x in seconds since Start.
func (c Curve) Coefficients() (a, b, cc, d float64) {
	return c.a, c.b, c.c, c.d
}

// xrel computes an x coordinate for t that is relative to origin.
// This reduces large floating point errors by moving x coordinates closer to
// the "origin" (just the start of a particular curve).
func xrel(origin time.Time, t time.Time) float64 {
	return float64(t.Unix() - origin.Unix())
}

func (c Curve) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	_, err := fmt.Fprintf(&buf, `{"start":%d,"end":%d,"a":%g,"b":%g,"c":%g,"d":%g}`,
		c.Start.Unix(), c.End.Unix(),
		c.a, c.b, c.c, c.d)
	return buf.Bytes(), err
}
