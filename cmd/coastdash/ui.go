package main

import (
	"fmt"
	"strings"
	"time"

	bhelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spencer-p/coastdash/pkg/coastal"
	"github.com/spencer-p/coastdash/pkg/dashboard"
	"github.com/spencer-p/coastdash/pkg/timetricks"
)

const (
	tickInterval    = time.Second
	refreshInterval = time.Minute
)

// tickMsg advances the clock.
type tickMsg time.Time

// refreshMsg recomputes the tide and swim plan.
type refreshMsg time.Time

type model struct {
	settings settings
	clock    func() time.Time
	now      time.Time
	view     dashboard.View
	err      error
	width    int
	keys     keyMap
	help     bhelp.Model
}

func initialModel(s settings, clock func() time.Time) model {
	m := model{
		settings: s,
		clock:    clock,
		keys:     keys,
		help:     bhelp.New(),
	}
	return m.refresh(clock())
}

// refresh composes a new dashboard for now.
func (m model) refresh(now time.Time) model {
	m.now = now
	m.view, m.err = dashboard.Compose(m.settings.inputs(now))
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func scheduleRefresh() tea.Cmd {
	return tea.Every(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), scheduleRefresh())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case refreshMsg:
		return m.refresh(time.Time(msg)), scheduleRefresh()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Refresh):
			return m.refresh(m.clock()), nil
		}
	}
	return m, nil
}

func (m model) View() string {
	header := headerStyle.Render(appTitle) + " " +
		clockStyle.Render(timetricks.FormatClock(m.now)) + " " +
		infoStyle.Render(timetricks.FormatDate(m.now))

	var body string
	if m.err != nil {
		body = errStyle.Render(m.err.Error())
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.locationView(),
			lipgloss.JoinHorizontal(lipgloss.Top,
				panelStyle.Render(tideView(m.view.Tide)),
				panelStyle.Render(swimView(m.view.Swim))),
			panelStyle.Render(beachesView(m.view)))
	}

	layout := lipgloss.JoinVertical(lipgloss.Left, header, body, footerStyle.Render(m.help.View(m.keys)))
	if m.width > 0 {
		layout = lipgloss.NewStyle().MaxWidth(m.width).Render(layout)
	}
	return layout
}

func (m model) locationView() string {
	b := &strings.Builder{}
	b.WriteString(infoStyle.Render(m.view.Location.String()))
	if lt := m.view.LocalTime; !lt.Sunrise.IsZero() {
		fmt.Fprintf(b, "  Sunrise %s  Sunset %s",
			lt.Sunrise.Format("3:04 PM"),
			lt.Sunset.Format("3:04 PM"))
	}
	if m.view.Warning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(m.view.Warning))
	}
	return b.String()
}

func tideView(tide coastal.TideSnapshot) string {
	b := &strings.Builder{}
	b.WriteString(titleStyle.Render("Tide"))
	b.WriteString("\n")
	fmt.Fprintf(b, "%s, %s\n", coastal.FormatHeight(tide.CurrentHeight), tide.Trend.Title())
	fmt.Fprintf(b, "Next: %s %s (%s)\n", tide.NextTide.Type, tide.NextTide.Time, coastal.FormatHeight(tide.NextTide.Height))
	for _, e := range tide.DayTides {
		fmt.Fprintf(b, "\n%-5s %-4s %s", e.Time, e.Type, coastal.FormatHeight(e.Height))
	}
	return b.String()
}

func swimView(plan coastal.RankedSwimPlan) string {
	b := &strings.Builder{}
	b.WriteString(titleStyle.Render("Best swim times"))
	top, ok := plan.Top()
	if !ok {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("No swim times available"))
		return b.String()
	}
	fmt.Fprintf(b, "\nTop choice: %s (%s)\n", top.Time, top.Period)
	for _, sw := range plan.Windows {
		fmt.Fprintf(b, "\n%-8s %-12s %s", sw.Time, sw.Period, renderScore(sw.Score))
		fmt.Fprintf(b, "\n  %s", infoStyle.Render(sw.Reason))
	}
	return b.String()
}

func beachesView(v dashboard.View) string {
	b := &strings.Builder{}
	b.WriteString(titleStyle.Render("Nearby beaches"))
	for _, beach := range v.Beaches {
		fmt.Fprintf(b, "\n%-16s %4.1f mi %s %.1f",
			beach.Name,
			beach.Distance,
			starStyle.Render(dashboard.Stars(beach.Rating)),
			beach.Rating)
	}
	return b.String()
}
