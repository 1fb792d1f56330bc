package coastal

import (
	"encoding"
	"fmt"
	"strings"
	"time"
)

const clockFmt = "15:04"

// Clock is a time of day with minute resolution.
type Clock struct {
	Hour, Minute int
}

// Verify the custom types can be used as JSON strings.
var _ encoding.TextMarshaler = Clock{}
var _ encoding.TextUnmarshaler = new(Clock)
var _ encoding.TextUnmarshaler = new(Tide)
var _ encoding.TextUnmarshaler = new(Trend)

// ParseClock reads a time of day in 24 hour "15:04" form.
func ParseClock(s string) (Clock, error) {
	parsed, err := time.Parse(clockFmt, strings.TrimSpace(s))
	if err != nil {
		return Clock{}, fmt.Errorf("clock %q not in fmt %q: %w", s, clockFmt, err)
	}
	return Clock{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// ClockOf returns the time of day of t in t's location, dropping seconds.
func ClockOf(t time.Time) Clock {
	h, m, _ := t.Clock()
	return Clock{Hour: h, Minute: m}
}

func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 && c.Minute >= 0 && c.Minute < 60
}

// Before reports whether c is earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.sinceMidnight() < o.sinceMidnight()
}

// On places c on the calendar day of t.
func (c Clock) On(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, t.Location())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(buf []byte) error {
	parsed, err := ParseClock(string(buf))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) sinceMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

// sinceMidnight is the exact offset of t into its day, down to the nanosecond.
func sinceMidnight(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(t.Nanosecond())
}

// Tide is the kind of a tide extreme.
type Tide uint

const (
	High Tide = iota
	Low
)

func (t Tide) Valid() bool {
	return t == High || t == Low
}

func (t Tide) String() string {
	switch t {
	case High:
		return "High"
	case Low:
		return "Low"
	default:
		return "invalid"
	}
}

// ParseTide accepts "H", "L", "high" and "low" in any case.
func ParseTide(s string) (Tide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "high":
		return High, nil
	case "l", "low":
		return Low, nil
	default:
		return 0, fmt.Errorf("invalid tide type %q", s)
	}
}

func (t Tide) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tide type %d", uint(t))
	}
	return []byte(strings.ToLower(t.String())), nil
}

func (t *Tide) UnmarshalText(buf []byte) error {
	parsed, err := ParseTide(string(buf))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Trend is the direction the water is moving.
type Trend uint

const (
	Rising Trend = iota
	Falling
)

func (t Trend) String() string {
	switch t {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "invalid"
	}
}

// Title is the capitalized form used on the dashboard.
func (t Trend) Title() string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func (t Trend) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Trend) UnmarshalText(buf []byte) error {
	switch strings.ToLower(string(buf)) {
	case "rising":
		*t = Rising
	case "falling":
		*t = Falling
	default:
		return fmt.Errorf("invalid trend %q", buf)
	}
	return nil
}

// TideEvent is a single predicted extreme in the tide cycle.
type TideEvent struct {
	Time Clock `json:"time"`
	Type Tide  `json:"type"`
	// Height in feet
	Height float64 `json:"height"`
}

func (e TideEvent) String() string {
	return fmt.Sprintf("%s at %s, %s", e.Type, e.Time, FormatHeight(e.Height))
}

// TideSnapshot is the state of the tide at a reference time.
type TideSnapshot struct {
	// CurrentHeight is in feet, rounded to one decimal.
	CurrentHeight float64   `json:"currentHeight"`
	Trend         Trend     `json:"trend"`
	NextTide      TideEvent `json:"nextTide"`
	DayTides      Schedule  `json:"dayTides"`
}

// FormatHeight prints a height in feet with one decimal, e.g. "4.2 ft".
func FormatHeight(feet float64) string {
	return fmt.Sprintf("%.1f ft", feet)
}
