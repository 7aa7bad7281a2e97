package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/robmorgan/stargazer/rhythm"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	logStyle   = helpStyle.Copy().UnsetMargins()
	appStyle   = lipgloss.NewStyle().Margin(1, 2, 0, 2)
)

func (m Model) View() string {
	st := m.clock.Snapshot()
	now := m.clock.Now()

	var s strings.Builder

	title := st.Song
	if title == "" {
		title = "no song"
	}
	fmt.Fprintf(&s, "%s %s\n\n", m.spinner.View(), titleStyle.Render(title))
	fmt.Fprintf(&s, "Segment: %s -> %s\n", m.segmentName(st.Current), m.segmentName(st.Pending))
	fmt.Fprintf(&s, "Position: %s  bars played: %d\n", st.MusicTime, st.TotalBars)
	fmt.Fprintf(&s, "Bar: %.3fs  beat: %.3fs  desync: %+.3fs\n", st.BarDuration, st.BeatDuration, st.FilteredBarDesync)
	fmt.Fprintf(&s, "Complexity: %d (player %d)  lookahead: %d\n", st.Complexity, m.performance.Level, st.SuckLookahead)
	fmt.Fprintf(&s, "Stars: %d/%d\n\n", st.StarsConnected, st.StarsThreshold)

	phase := 0.0
	if st.CurrentBar >= 0 && st.BarDuration > 0 {
		phase = rhythm.Clamp((now-st.LastBarTime)/st.BarDuration, 0.0, 1.0)
	}
	s.WriteString(m.barProgress.ViewAs(phase) + "\n")

	if m.star != nil {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(m.star.Hex())).Render("    ")
		s.WriteString(m.glowMeter.ViewAs(m.star.Level()) + " " + swatch + "\n")
	}

	if len(m.log.lines) > 0 {
		s.WriteString("\n" + logStyle.Render(strings.Join(m.log.lines, "\n")) + "\n")
	}

	s.WriteString(helpStyle.Render("(b)egin (f)irst star (s)tar (n)ext segment (p)lay another song ([,]) complexity -/+\n\nPress q to exit\n"))

	if m.quitting {
		s.WriteString("\n")
	}
	return appStyle.Render(s.String())
}
