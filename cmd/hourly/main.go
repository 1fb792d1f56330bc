package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/splines"
	"github.com/spencer-p/coastdash/pkg/timetricks"
)

var errBadStep = errors.New("step must be positive")

func main() {
	if err := run(os.Stdout, os.Args[1:], time.Now()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run prints the day containing now, one line per step.
func run(w io.Writer, args []string, now time.Time) error {
	flags := flag.NewFlagSet("hourly", flag.ContinueOnError)
	schedule := flags.String("schedule", "", "tide schedule, e.g. \"02:15 L 1.2, 08:30 H 5.8\"")
	step := flags.Duration("step", time.Hour, "time between samples")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *step <= 0 {
		return fmt.Errorf("%w, got %s", errBadStep, *step)
	}

	tides := coastal.DefaultSchedule()
	if *schedule != "" {
		var err error
		tides, err = coastal.ParseSchedule(*schedule)
		if err != nil {
			return err
		}
	}

	tstart := timetricks.TrimClock(now)
	tend := tstart.Add(24 * time.Hour)
	spl := splines.CurvesBetween(tstart, tides)
	fmt.Fprintf(w, "time  approx  spline\n")
	for t := tstart; t.Before(tend); t = t.Add(*step) {
		snap, err := coastal.ComputeTideSnapshot(t, tides)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s  %4.1f %-7s %4.1f\n", coastal.ClockOf(t), snap.CurrentHeight, snap.Trend, spl.Eval(t))
	}
	return nil
}
