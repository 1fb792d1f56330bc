package coastal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Period is the part of the day a swim window falls in.
type Period uint

const (
	Morning Period = iota
	LateMorning
	Afternoon
	Evening
)

func (p Period) String() string {
	switch p {
	case Morning:
		return "Morning"
	case LateMorning:
		return "Late Morning"
	case Afternoon:
		return "Afternoon"
	case Evening:
		return "Evening"
	default:
		return "invalid"
	}
}

func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(buf []byte) error {
	for _, candidate := range []Period{Morning, LateMorning, Afternoon, Evening} {
		if strings.EqualFold(candidate.String(), string(buf)) {
			*p = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid period %q", buf)
}

// Label is the qualitative reading of a desirability score.
type Label uint

const (
	Fair Label = iota
	Good
	Great
	Excellent
)

func (l Label) String() string {
	switch l {
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Great:
		return "Great"
	case Excellent:
		return "Excellent"
	default:
		return "invalid"
	}
}

func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ClassifyScore buckets a 0-10 score. Boundaries are inclusive: 9.0 is
// Excellent and 8.999 is Great.
func ClassifyScore(score float64) Label {
	switch {
	case score >= 9:
		return Excellent
	case score >= 8:
		return Great
	case score >= 7:
		return Good
	default:
		return Fair
	}
}

// FormatScore prints a score out of ten, e.g. "9.2/10".
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "/10"
}

// SwimWindow is a candidate time of day to go swimming.
type SwimWindow struct {
	// Time is a display label such as "11:30 AM".
	Time   string `json:"time"`
	Period Period `json:"period"`
	// Score ranks the window from 0 to 10, higher is better.
	Score      float64  `json:"score"`
	Reason     string   `json:"reason"`
	TideHeight float64  `json:"tideHeight"`
	Conditions []string `json:"conditions"`
}

func (w SwimWindow) Label() Label {
	return ClassifyScore(w.Score)
}

func (w SwimWindow) String() string {
	return fmt.Sprintf("%s (%s), %s %s, %s",
		w.Time,
		w.Period,
		w.Label(),
		FormatScore(w.Score),
		w.Reason)
}

func (w SwimWindow) copy() SwimWindow {
	if w.Conditions != nil {
		w.Conditions = append([]string(nil), w.Conditions...)
	}
	return w
}

// RankedSwimPlan holds swim windows from best to worst.
type RankedSwimPlan struct {
	Windows []SwimWindow `json:"windows"`
	// TopChoice is the first window, or nil when there were no candidates.
	TopChoice *SwimWindow `json:"topChoice,omitempty"`
}

// Top returns the best window. ok is false for an empty plan.
func (p RankedSwimPlan) Top() (w SwimWindow, ok bool) {
	if p.TopChoice == nil {
		return SwimWindow{}, false
	}
	return *p.TopChoice, true
}

// RankSwimWindows sorts copies of the candidates by score, highest first.
// Windows with equal scores keep their input order. An empty input gives an
// empty plan with no top choice.
func RankSwimWindows(candidates []SwimWindow) RankedSwimPlan {
	windows := make([]SwimWindow, len(candidates))
	for i := range candidates {
		windows[i] = candidates[i].copy()
	}
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Score > windows[j].Score
	})

	plan := RankedSwimPlan{Windows: windows}
	if len(windows) > 0 {
		top := windows[0].copy()
		plan.TopChoice = &top
	}
	return plan
}

// DefaultSwimWindows returns the fixed candidate windows of the dashboard.
// Their scores are not derived from the tide; they are supplied as data.
func DefaultSwimWindows() []SwimWindow {
	return []SwimWindow{{
		Time:       "8:00 AM",
		Period:     Morning,
		Score:      8.5,
		Reason:     "Perfect morning conditions with rising tide",
		TideHeight: 4.2,
		Conditions: []string{"Rising Tide", "Calm Waters", "Good Visibility"},
	}, {
		Time:       "11:30 AM",
		Period:     LateMorning,
		Score:      9.2,
		Reason:     "Optimal tide height and warming temperatures",
		TideHeight: 5.8,
		Conditions: []string{"High Tide", "Warm Water", "Peak Sun"},
	}, {
		Time:       "3:00 PM",
		Period:     Afternoon,
		Score:      8.8,
		Reason:     "Warmest water temperature of the day",
		TideHeight: 4.5,
		Conditions: []string{"Moderate Tide", "Warmest Water", "Good Weather"},
	}, {
		Time:       "6:30 PM",
		Period:     Evening,
		Score:      7.9,
		Reason:     "Beautiful sunset swim with calm conditions",
		TideHeight: 3.1,
		Conditions: []string{"Falling Tide", "Calm Waters", "Sunset Views"},
	}}
}
