// Package location holds the coordinate the dashboard is showing and the
// fallback used when the user's position is unknown.
package location

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DeniedWarning      = "Location access denied. Using default location."
	UnsupportedWarning = "Geolocation not supported. Using default location."
)

var (
	ErrOutOfRange = errors.New("coordinate out of range")
	ErrMissing    = errors.New("coordinate missing")
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Default is Santa Monica, CA.
var Default = Coordinate{Lat: 34.0195, Lng: -118.4912}

// Parse reads a coordinate from decimal degree strings. Both values must be
// present; ErrMissing is returned when both are empty.
func Parse(lat, lng string) (Coordinate, error) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" && lng == "" {
		return Coordinate{}, ErrMissing
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("latitude %q not a float: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("longitude %q not a float: %w", lng, err)
	}
	c := Coordinate{Lat: la, Lng: ln}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// Validate reports ErrOutOfRange for coordinates off the globe, including NaN
// and infinite values.
func (c Coordinate) Validate() error {
	if !finite(c.Lat) || !finite(c.Lng) {
		return fmt.Errorf("%w: %v,%v is not a number", ErrOutOfRange, c.Lat, c.Lng)
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", ErrOutOfRange, c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("%w: longitude %v", ErrOutOfRange, c.Lng)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Resolve picks the coordinate to show. A requested coordinate wins when the
// provider succeeded. Otherwise Default is used along with a warning for the
// user: a provider error means access was denied, a nil request means there
// was no provider at all.
func Resolve(requested *Coordinate, err error) (Coordinate, string) {
	switch {
	case err != nil:
		return Default, DeniedWarning
	case requested == nil:
		return Default, UnsupportedWarning
	case requested.Validate() != nil:
		return Default, DeniedWarning
	default:
		return *requested, ""
	}
}

// Key identifies the coordinate to four decimals, about eleven meters. It is
// used to key cached results.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lng)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("Latitude: %.4f, Longitude: %.4f", c.Lat, c.Lng)
}
