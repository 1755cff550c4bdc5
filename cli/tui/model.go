package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/adbpush/session"
	"github.com/pithecene-io/adbpush/types"
)

type focus int

const (
	focusNone focus = iota
	focusTarget
	focusAddPath
)

// Options configures the TUI.
type Options struct {
	// Session holds all application state (required).
	Session *session.Session
	// RemoteRoot is shown in front of the target field.
	RemoteRoot string
	// Theme is "dark" or "light".
	Theme string
}

// Model is the Bubble Tea model of the drop target.
type Model struct {
	ctx     context.Context
	session *session.Session

	keys    keyMap
	help    help.Model
	styles  Styles
	target  textinput.Model
	addPath textinput.Model
	focus   focus

	remoteRoot string
	refreshing bool
	outcomes   <-chan types.TransferOutcome
	status     string

	width    int
	height   int
	quitting bool
}

// New creates the model. ctx bounds every bridge call the UI starts.
func New(ctx context.Context, opts Options) Model {
	styles := NewStyles(opts.Theme)

	target := textinput.New()
	target.Prompt = ""
	target.Placeholder = "target folder"
	target.SetValue(opts.Session.Fragment())

	addPath := textinput.New()
	addPath.Prompt = "Add: "
	addPath.Placeholder = "/path/to/file"

	return Model{
		ctx:        ctx,
		session:    opts.Session,
		keys:       defaultKeyMap(),
		help:       help.New(),
		styles:     styles,
		target:     target,
		addPath:    addPath,
		remoteRoot: opts.RemoteRoot,
		refreshing: true,
	}
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init resolves the device once at startup.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case deviceRefreshedMsg:
		m.refreshing = false
		m.status = fmt.Sprintf("Device: %s", msg.device)
		return m, nil

	case outcomeMsg:
		if msg.outcome.Sent() {
			m.status = fmt.Sprintf("Sent %s", msg.outcome.Source)
		} else {
			m.status = fmt.Sprintf("Failed %s", msg.outcome.Source)
		}
		return m, m.waitOutcomeCmd()

	case batchDoneMsg:
		m.outcomes = nil
		m.status = "Transfer complete"
		return m, nil

	case tea.KeyMsg:
		if m.focus != focusNone {
			return m.updateInput(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Paste {
		return m.drop(string(msg.Runes)), nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.startSend()

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		m.status = "Refreshing device..."
		return m, m.refreshCmd()

	case key.Matches(msg, m.keys.Add):
		m.focus = focusAddPath
		return m, m.addPath.Focus()

	case key.Matches(msg, m.keys.Target):
		m.focus = focusTarget
		return m, m.target.Focus()

	case key.Matches(msg, m.keys.ClearFiles):
		if m.session.ClearPending() {
			m.status = "Files cleared"
		} else {
			m.status = "Cannot clear files while a transfer is running"
		}
		return m, nil

	case key.Matches(msg, m.keys.ClearOutput):
		m.session.ClearLog()
		m.status = ""
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

// updateInput routes keys to the focused text field.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusTarget:
		if !msg.Paste && (key.Matches(msg, m.keys.Submit) || key.Matches(msg, m.keys.Cancel)) {
			m.target.Blur()
			m.focus = focusNone
			return m, nil
		}
		var cmd tea.Cmd
		m.target, cmd = m.target.Update(msg)
		m.session.SetFragment(m.target.Value())
		return m, cmd

	case focusAddPath:
		if !msg.Paste && key.Matches(msg, m.keys.Submit) {
			text := m.addPath.Value()
			m.addPath.Reset()
			m.addPath.Blur()
			m.focus = focusNone
			return m.addTyped(text), nil
		}
		if !msg.Paste && msg.Type == tea.KeyEsc {
			m.addPath.Reset()
			m.addPath.Blur()
			m.focus = focusNone
			return m, nil
		}
		var cmd tea.Cmd
		m.addPath, cmd = m.addPath.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) drop(text string) Model {
	return m.stage(ParseDrop(text))
}

// addTyped stages text from the add-path field. A typed path is taken
// literally, spaces included; only text that names no existing file is
// parsed like a drop (quoted paths, file:// URIs).
func (m Model) addTyped(text string) Model {
	path := strings.TrimSpace(text)
	if path == "" {
		return m
	}
	if _, err := os.Stat(path); err != nil {
		return m.drop(path)
	}
	return m.stage([]string{path})
}

func (m Model) stage(paths []string) Model {
	if len(paths) == 0 {
		return m
	}
	staged := m.session.Drop(paths...)
	m.status = fmt.Sprintf("Staged %d of %d dropped paths", staged, len(paths))
	return m
}

func (m Model) startSend() (tea.Model, tea.Cmd) {
	ch, ok := m.session.StartSend(m.ctx)
	if !ok {
		m.status = "Send refused, see output"
		return m, nil
	}
	m.outcomes = ch
	m.status = "Sending..."
	return m, m.waitOutcomeCmd()
}

func (m Model) refreshCmd() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		return deviceRefreshedMsg{device: s.Refresh(ctx)}
	}
}

// waitOutcomeCmd blocks on the running batch for its next outcome.
func (m Model) waitOutcomeCmd() tea.Cmd {
	ch := m.outcomes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		outcome, ok := <-ch
		if !ok {
			return batchDoneMsg{}
		}
		return outcomeMsg{outcome: outcome}
	}
}
