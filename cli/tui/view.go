package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/adbpush/session"
)

// minLogLines is the output height when the window is too small to fit more.
const minLogLines = 5

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.session.Snapshot()
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render("ADB Push - File Transfer Tool"))
	b.WriteString("\n")
	b.WriteString(s.Muted.Render("Drag files onto this window to stage them."))
	b.WriteString("\n\n")

	b.WriteString(m.renderDevice(state))
	b.WriteString("\n")
	b.WriteString(m.renderFiles(state))
	b.WriteString("\n")
	b.WriteString(m.renderTarget())
	b.WriteString("\n")
	b.WriteString(m.renderLog(state))
	b.WriteString("\n")

	if m.focus == focusAddPath {
		b.WriteString(m.addPath.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(s.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderDevice(state session.State) string {
	s := m.styles
	line := s.Label.Render("Device Connected: ") +
		s.DeviceStyle(state.Device.Valid()).Bold(true).Render(state.Device.String())
	if m.refreshing {
		line += s.Muted.Render("  refreshing...")
	}
	return s.Box.Render(line)
}

func (m Model) renderFiles(state session.State) string {
	s := m.styles
	if len(state.Pending) == 0 {
		return s.Box.Render(s.Muted.Render("No files dropped yet."))
	}

	var b strings.Builder
	b.WriteString(s.Label.Render(fmt.Sprintf("Dropped files (%d):", len(state.Pending))))
	for _, p := range state.Pending {
		b.WriteString("\n")
		b.WriteString(s.Value.Render(p))
	}
	return s.Box.Render(b.String())
}

func (m Model) renderTarget() string {
	s := m.styles
	box := s.Box
	if m.focus == focusTarget {
		box = s.Focused
	}
	return box.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		s.Label.Render(m.remoteRoot),
		m.target.View(),
	))
}

func (m Model) renderLog(state session.State) string {
	s := m.styles
	title := s.Label.Render("Output Logs")
	if state.Sending {
		title += s.Warning.Render("  transfer in progress")
	}

	if len(state.Log) == 0 {
		return s.Box.Render(title + "\n" + s.Muted.Render("No logs yet."))
	}

	entries := state.Log
	if limit := m.logLines(); len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, title)
	for _, e := range entries {
		lines = append(lines, m.entryStyle(e).Render(e.Message))
	}
	return s.Box.Render(strings.Join(lines, "\n"))
}

// logLines is how many log entries fit below the fixed sections.
func (m Model) logLines() int {
	if m.height == 0 {
		return 1 << 30
	}
	return max(minLogLines, m.height-24)
}

func (m Model) entryStyle(e session.Entry) lipgloss.Style {
	switch {
	case e.Kind == session.KindTransfer && e.Outcome != nil && e.Outcome.Sent():
		return m.styles.Success
	case e.Kind == session.KindTransfer:
		return m.styles.Error
	default:
		return m.styles.Warning
	}
}
