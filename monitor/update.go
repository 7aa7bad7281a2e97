package monitor

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/stargazer/music"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "[":
			if m.performance.Level > 0 {
				m.performance.Level--
			}
		case "]":
			m.performance.Level++
		case "b":
			m.timeline.Post(func(c *music.Clock) { c.Begin() })
		case "f":
			m.timeline.Post(func(c *music.Clock) { c.OnFirstStarCreated() })
		case "s":
			m.timeline.Post(func(c *music.Clock) { c.OnStarReached() })
		case "n":
			m.timeline.Post(func(c *music.Clock) { c.RequestNextSegment(true) })
		case "p":
			m.timeline.Post(func(c *music.Clock) {
				if err := c.PlaySong(""); err != nil {
					m.log.add(err.Error())
				}
			})
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		m.timeline.Step()
		return m, tickCmd(m.interval)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}
