package coastal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidSchedule is returned for an empty, malformed or out of order tide
// schedule.
var ErrInvalidSchedule = errors.New("invalid tide schedule")

// Schedule is a day of tide extremes in chronological order.
type Schedule []TideEvent

// DefaultSchedule returns the low/high/low/high day the dashboard shows when
// no schedule is configured.
func DefaultSchedule() Schedule {
	return Schedule{
		{Time: Clock{2, 15}, Type: Low, Height: 1.2},
		{Time: Clock{8, 30}, Type: High, Height: 5.8},
		{Time: Clock{14, 45}, Type: Low, Height: 0.9},
		{Time: Clock{20, 20}, Type: High, Height: 6.1},
	}
}

// Validate checks that s is non-empty, that every event is well formed and
// that the events are strictly increasing in time of day.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no tide events", ErrInvalidSchedule)
	}
	for i, e := range s {
		if !e.Time.Valid() {
			return fmt.Errorf("%w: event %d has bad time %s", ErrInvalidSchedule, i, e.Time)
		}
		if !e.Type.Valid() {
			return fmt.Errorf("%w: event %d has bad type %d", ErrInvalidSchedule, i, uint(e.Type))
		}
		if i > 0 && !s[i-1].Time.Before(e.Time) {
			return fmt.Errorf("%w: %s does not come after %s", ErrInvalidSchedule, e.Time, s[i-1].Time)
		}
	}
	return nil
}

// Next returns the first event strictly later in the day than ref. After the
// last event of the day it wraps to the first one, assuming tomorrow repeats
// today. The zero TideEvent is returned for an empty schedule.
func (s Schedule) Next(ref time.Time) TideEvent {
	if len(s) == 0 {
		return TideEvent{}
	}
	now := sinceMidnight(ref)
	for _, e := range s {
		if e.Time.sinceMidnight() > now {
			return e
		}
	}
	return s[0]
}

// Copy returns a schedule that shares no memory with s.
func (s Schedule) Copy() Schedule {
	if s == nil {
		return nil
	}
	return append(Schedule(nil), s...)
}

// String prints s in the form read by ParseSchedule.
func (s Schedule) String() string {
	entries := make([]string, len(s))
	for i, e := range s {
		entries[i] = fmt.Sprintf("%s %s %s",
			e.Time,
			e.Type.String()[:1],
			strconv.FormatFloat(e.Height, 'f', -1, 64))
	}
	return strings.Join(entries, ", ")
}

// ParseSchedule reads a comma separated list of "15:04 H|L feet" entries, for
// instance "02:15 L 1.2, 08:30 H 5.8". A trailing "ft" on the height is
// allowed. The result is validated.
func ParseSchedule(text string) (Schedule, error) {
	var result Schedule
	for _, entry := range strings.Split(text, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		e, err := parseEvent(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
		}
		result = append(result, e)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func parseEvent(entry string) (TideEvent, error) {
	fields := strings.Fields(entry)
	if len(fields) == 4 && strings.EqualFold(fields[3], "ft") {
		fields = fields[:3]
	}
	if len(fields) != 3 {
		return TideEvent{}, fmt.Errorf("tide event %q needs a time, a type and a height", entry)
	}

	c, err := ParseClock(fields[0])
	if err != nil {
		return TideEvent{}, err
	}
	kind, err := ParseTide(fields[1])
	if err != nil {
		return TideEvent{}, err
	}
	height, err := strconv.ParseFloat(strings.TrimSuffix(fields[2], "ft"), 64)
	if err != nil {
		return TideEvent{}, fmt.Errorf("tide height %q not a float: %w", fields[2], err)
	}
	return TideEvent{Time: c, Type: kind, Height: height}, nil
}
