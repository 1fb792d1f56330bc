package coastal

import (
	"math"
	"time"
)

const (
	phaseHours  = 12
	phaseOffset = 6 // hours between the clock and the tide phase
)

// Approximation is a sinusoidal stand-in for a tide curve with a twelve hour
// period. It only looks at the hour of the day.
type Approximation struct {
	// BaseHeight is the mean water level in feet.
	BaseHeight float64
	// Amplitude is the distance in feet from the mean to either extreme.
	Amplitude float64
}

// DefaultApproximation is the curve used by the dashboard.
var DefaultApproximation = Approximation{
	BaseHeight: 3.5,
	Amplitude:  2.5,
}

// ComputeTideSnapshot computes the tide at ref with DefaultApproximation.
func ComputeTideSnapshot(ref time.Time, s Schedule) (TideSnapshot, error) {
	return DefaultApproximation.Snapshot(ref, s)
}

// Snapshot computes the approximate tide height and trend at ref and picks the
// next tide out of s. The schedule must be valid (see Schedule.Validate).
func (a Approximation) Snapshot(ref time.Time, s Schedule) (TideSnapshot, error) {
	if err := s.Validate(); err != nil {
		return TideSnapshot{}, err
	}

	hour := ref.Hour()
	return TideSnapshot{
		CurrentHeight: round1(a.HeightAt(hour)),
		Trend:         TrendAt(hour),
		NextTide:      s.Next(ref),
		DayTides:      s.Copy(),
	}, nil
}

// HeightAt returns the unrounded height in feet at the given hour of the day.
func (a Approximation) HeightAt(hour int) float64 {
	phase := float64(PhaseHour(hour))
	return a.BaseHeight + a.Amplitude*math.Sin((phase/phaseHours)*2*math.Pi)
}

// Range returns the lowest and highest heights the approximation can produce.
func (a Approximation) Range() (low, high float64) {
	amp := math.Abs(a.Amplitude)
	return a.BaseHeight - amp, a.BaseHeight + amp
}

// PhaseHour maps an hour of the day onto the twelve hour tide phase.
func PhaseHour(hour int) int {
	p := (hour + phaseOffset) % phaseHours
	if p < 0 {
		p += phaseHours
	}
	return p
}

// TrendAt is Rising for the first half of the phase and Falling otherwise.
func TrendAt(hour int) Trend {
	if PhaseHour(hour) < phaseHours/2 {
		return Rising
	}
	return Falling
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
