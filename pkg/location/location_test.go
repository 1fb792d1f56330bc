package location

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	table := []struct {
		lat, lng string
		want     Coordinate
		wantErr  error
	}{{
		lat:  "41.1415",
		lng:  "-73.2637",
		want: Coordinate{Lat: 41.1415, Lng: -73.2637},
	}, {
		lat:  " 0 ",
		lng:  "180",
		want: Coordinate{Lat: 0, Lng: 180},
	}, {
		lat:     "",
		lng:     "",
		wantErr: ErrMissing,
	}, {
		lat:     "91",
		lng:     "0",
		wantErr: ErrOutOfRange,
	}, {
		lat:     "0",
		lng:     "-180.5",
		wantErr: ErrOutOfRange,
	}, {
		lat:     "NaN",
		lng:     "0",
		wantErr: ErrOutOfRange,
	}, {
		lat:     "0",
		lng:     "nan",
		wantErr: ErrOutOfRange,
	}, {
		lat:     "Inf",
		lng:     "0",
		wantErr: ErrOutOfRange,
	}, {
		lat:     "0",
		lng:     "-Inf",
		wantErr: ErrOutOfRange,
	}}

	for _, tc := range table {
		t.Run(tc.lat+","+tc.lng, func(t *testing.T) {
			got, err := Parse(tc.lat, tc.lng)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, wanted %v", err, tc.wantErr)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("incorrect parse (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestParseGarbage(t *testing.T) {
	for _, in := range [][2]string{{"north", "1"}, {"1", ""}, {"", "1"}} {
		if _, err := Parse(in[0], in[1]); err == nil {
			t.Errorf("Parse(%q, %q) succeeded", in[0], in[1])
		}
	}
}

func TestResolve(t *testing.T) {
	fairfield := Coordinate{Lat: 41.1415, Lng: -73.2637}
	table := []struct {
		name        string
		requested   *Coordinate
		err         error
		want        Coordinate
		wantWarning string
	}{{
		name:      "provided",
		requested: &fairfield,
		want:      fairfield,
	}, {
		name:        "denied",
		requested:   &fairfield,
		err:         errors.New("user said no"),
		want:        Default,
		wantWarning: DeniedWarning,
	}, {
		name:        "unsupported",
		want:        Default,
		wantWarning: UnsupportedWarning,
	}, {
		name:        "nonsense",
		requested:   &Coordinate{Lat: 200},
		want:        Default,
		wantWarning: DeniedWarning,
	}, {
		name:        "not a number",
		requested:   &Coordinate{Lat: math.NaN(), Lng: math.Inf(1)},
		want:        Default,
		wantWarning: DeniedWarning,
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			got, warning := Resolve(tc.requested, tc.err)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("wrong coordinate (-want,+got):\n%s", diff)
			}
			if warning != tc.wantWarning {
				t.Errorf("got warning %q, wanted %q", warning, tc.wantWarning)
			}
		})
	}
}

func TestKey(t *testing.T) {
	a := Coordinate{Lat: 34.01951, Lng: -118.49119}
	if a.Key() != Default.Key() {
		t.Errorf("%q and %q should share a key", a.Key(), Default.Key())
	}
	if got, want := Default.Key(), "34.0195,-118.4912"; got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}
