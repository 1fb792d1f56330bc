package dashboard

import (
	"fmt"
	"io"
	"strings"

	"github.com/spencer-p/coastdash/pkg/beaches"
	"github.com/spencer-p/coastdash/pkg/coastal"
)

// featuresShown is how many beach features are listed before "+N more".
const featuresShown = 3

// errWriter stops writing after the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

// WriteText renders the whole view as plain text.
func WriteText(w io.Writer, v View) error {
	ew := &errWriter{w: w}

	ew.printf("Coastal Conditions\n")
	ew.printf("%s  %s %s\n", v.LocalTime.Date, v.LocalTime.Clock, v.LocalTime.Zone)
	ew.printf("%s\n", v.Location)
	if v.Warning != "" {
		ew.printf("! %s\n", v.Warning)
	}
	if !v.LocalTime.Sunrise.IsZero() {
		ew.printf("Sunrise %s, Sunset %s\n",
			v.LocalTime.Sunrise.Format("3:04 PM"),
			v.LocalTime.Sunset.Format("3:04 PM"))
	}

	ew.printf("\nTide\n")
	writeTide(ew, v.Tide)

	ew.printf("\nBest swim times\n")
	writeSwim(ew, v.Swim)

	ew.printf("\nNearby beaches\n")
	for _, b := range v.Beaches {
		writeBeach(ew, b)
	}
	return ew.err
}

// WriteTideText renders only the tide panel.
func WriteTideText(w io.Writer, tide coastal.TideSnapshot) error {
	ew := &errWriter{w: w}
	writeTide(ew, tide)
	return ew.err
}

// WriteSwimText renders only the swim times panel.
func WriteSwimText(w io.Writer, plan coastal.RankedSwimPlan) error {
	ew := &errWriter{w: w}
	writeSwim(ew, plan)
	return ew.err
}

func writeTide(ew *errWriter, tide coastal.TideSnapshot) {
	ew.printf("  Current height: %s, %s\n", coastal.FormatHeight(tide.CurrentHeight), tide.Trend.Title())
	ew.printf("  Next tide: %s %s (%s)\n", tide.NextTide.Type, tide.NextTide.Time, coastal.FormatHeight(tide.NextTide.Height))
	for _, e := range tide.DayTides {
		ew.printf("  %-5s %-4s %s\n", e.Time, e.Type, coastal.FormatHeight(e.Height))
	}
}

func writeSwim(ew *errWriter, plan coastal.RankedSwimPlan) {
	top, ok := plan.Top()
	if !ok {
		ew.printf("  No swim times available\n")
		return
	}
	ew.printf("  Top choice: %s (%s)\n", top.Time, top.Period)
	for i, sw := range plan.Windows {
		ew.printf("  %d. %-8s %-12s %s %s\n", i+1, sw.Time, sw.Period, coastal.FormatScore(sw.Score), sw.Label())
		ew.printf("     %s, tide %s\n", sw.Reason, coastal.FormatHeight(sw.TideHeight))
		if len(sw.Conditions) > 0 {
			ew.printf("     %s\n", strings.Join(sw.Conditions, ", "))
		}
	}
}

func writeBeach(ew *errWriter, b beaches.Beach) {
	ew.printf("  %s, %s  %.1f mi  %s %.1f\n", b.Name, b.Town, b.Distance, Stars(b.Rating), b.Rating)
	shown, more := beaches.Highlights(b.Features, featuresShown)
	features := strings.Join(shown, ", ")
	if more > 0 {
		features += fmt.Sprintf(" +%d more", more)
	}
	if features != "" {
		ew.printf("     %s\n", features)
	}
}

// Stars draws a rating out of five as filled and empty stars.
func Stars(rating float64) string {
	n := beaches.Stars(rating)
	return strings.Repeat("★", n) + strings.Repeat("☆", beaches.MaxStars-n)
}
