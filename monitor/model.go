// Package monitor is a terminal view of a running music clock.
package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/stargazer/glow"
	"github.com/robmorgan/stargazer/music"
	"github.com/robmorgan/stargazer/rhythm"
)

// MaxLogLines is how many recent clock events are shown.
const MaxLogLines = 8

// Model steps a music timeline on every frame and renders the clock state. It takes the place of
// Timeline.Run, so the clock is only ever touched from the bubbletea goroutine.
type Model struct {
	timeline    *music.Timeline
	clock       *music.Clock
	performance *music.StaticPerformance
	star        *glow.Star
	interval    time.Duration

	spinner     spinner.Model
	barProgress progress.Model
	glowMeter   progress.Model
	log         *eventLog
	quitting    bool
}

type eventLog struct {
	lines []string
}

func (l *eventLog) add(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > MaxLogLines {
		l.lines = l.lines[len(l.lines)-MaxLogLines:]
	}
}

// New creates a monitor for c. performance is adjusted from the keyboard and star may be nil.
func New(tl *music.Timeline, c *music.Clock, performance *music.StaticPerformance, star *glow.Star, interval time.Duration) Model {
	if interval <= 0 {
		interval = music.DefaultFrameInterval
	}

	s := spinner.New()
	s.Style = spinnerStyle

	newBar := func() progress.Model {
		return progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		)
	}

	m := Model{
		timeline:    tl,
		clock:       c,
		performance: performance,
		star:        star,
		interval:    interval,
		spinner:     s,
		barProgress: newBar(),
		glowMeter:   newBar(),
		log:         &eventLog{},
	}
	m.watch(c.Events())
	return m
}

func (m Model) watch(events *music.Observers) {
	events.OnSegmentQueued(func(segment rhythm.Segment, notify bool) {
		m.log.add("queued " + m.segmentName(segment))
	})
	events.OnSegmentStarted(func(from, to rhythm.Segment) {
		m.log.add("started " + m.segmentName(to) + " after " + m.segmentName(from))
	})
	events.OnComplexityChanged(func(rising bool) {
		if rising {
			m.log.add("complexity up")
		} else {
			m.log.add("complexity down")
		}
	})
}

func (m Model) segmentName(seg rhythm.Segment) string {
	if s := m.clock.Song(); s != nil {
		return s.SegmentName(seg)
	}
	return seg.String()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.interval), m.spinner.Tick)
}

type tickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

var _ tea.Model = Model{}

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
