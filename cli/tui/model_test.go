package tui

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/adbpush/bridge/bridgetest"
	"github.com/pithecene-io/adbpush/device"
	"github.com/pithecene-io/adbpush/session"
	"github.com/pithecene-io/adbpush/transfer"
)

func newTestModel(t *testing.T) (Model, *bridgetest.Runner) {
	t.Helper()
	runner := bridgetest.NewRunner().Devices("List of devices attached\nABC123\tdevice\n")
	s := session.New(session.Config{
		Registry:     device.NewRegistry(runner, nil, nil),
		Orchestrator: transfer.New(transfer.Config{Runner: runner}),
	})
	return New(t.Context(), Options{Session: s, RemoteRoot: transfer.DefaultRemoteRoot}), runner
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return model, cmd
}

// drain runs cmd and feeds every resulting message back into the model
// until no command is left.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		m, cmd = update(t, m, cmd())
	}
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func paste(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Paste: true}
}

func tempFiles(t *testing.T, names ...string) []string {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func ready(t *testing.T) (Model, *bridgetest.Runner) {
	t.Helper()
	m, runner := newTestModel(t)
	return drain(t, m, m.Init()), runner
}

func TestInit_RefreshesDevice(t *testing.T) {
	m, _ := newTestModel(t)
	if !strings.Contains(m.View(), "refreshing") {
		t.Error("expected refreshing indicator before the first refresh")
	}

	m = drain(t, m, m.Init())

	if got := m.session.Device(); got != "ABC123" {
		t.Errorf("device = %q, want ABC123", got)
	}
	view := m.View()
	if !strings.Contains(view, "Device Connected:") || !strings.Contains(view, "ABC123") {
		t.Errorf("view missing device line:\n%s", view)
	}
}

func TestPaste_DropsFiles(t *testing.T) {
	m, _ := ready(t)
	files := tempFiles(t, "a b.txt", "c.txt")

	m, _ = update(t, m, paste("'"+files[0]+"' '"+files[1]+"' "))

	if got := m.session.Snapshot().Pending; !slices.Equal(got, files) {
		t.Errorf("pending = %v, want %v", got, files)
	}
	if view := m.View(); !strings.Contains(view, "Dropped files (2):") {
		t.Errorf("view missing file list:\n%s", view)
	}
}

func TestPaste_DirectoryRejected(t *testing.T) {
	m, _ := ready(t)
	dir := t.TempDir()

	m, _ = update(t, m, paste(dir))

	if len(m.session.Snapshot().Pending) != 0 {
		t.Error("directory was staged")
	}
	if view := m.View(); !strings.Contains(view, dir+" is a directory") {
		t.Errorf("view missing invalid drop entry:\n%s", view)
	}
}

func TestSend_StreamsOutcomes(t *testing.T) {
	m, runner := ready(t)
	files := tempFiles(t, "a.txt", "b.txt")
	m, _ = update(t, m, paste(files[0]+" "+files[1]))

	m, cmd := update(t, m, keyPress("s"))
	if cmd == nil {
		t.Fatal("send returned no command")
	}
	m = drain(t, m, cmd)

	if len(runner.CallsTo("push")) != 2 {
		t.Errorf("push calls = %d, want 2", len(runner.CallsTo("push")))
	}
	state := m.session.Snapshot()
	if len(state.Pending) != 0 || state.Sending {
		t.Errorf("state after batch = %+v", state)
	}
	view := m.View()
	first := strings.Index(view, `Sent "`+files[0])
	second := strings.Index(view, `Sent "`+files[1])
	if first < 0 || second < 0 || first > second {
		t.Errorf("outcomes missing or out of order:\n%s", view)
	}
	if m.status != "Transfer complete" {
		t.Errorf("status = %q", m.status)
	}
}

func TestSend_CtrlS(t *testing.T) {
	m, runner := ready(t)
	m, _ = update(t, m, paste(tempFiles(t, "a")[0]))

	m, cmd := update(t, m, keyPress("ctrl+s"))
	drain(t, m, cmd)

	if len(runner.CallsTo("push")) != 1 {
		t.Errorf("push calls = %d, want 1", len(runner.CallsTo("push")))
	}
}

func TestSend_NoFiles(t *testing.T) {
	m, runner := ready(t)

	m, cmd := update(t, m, keyPress("s"))

	if cmd != nil {
		t.Error("refused send should not start a command")
	}
	if view := m.View(); !strings.Contains(view, session.MsgNoFiles) {
		t.Errorf("view missing %q:\n%s", session.MsgNoFiles, view)
	}
	if len(runner.CallsTo("push")) != 0 {
		t.Error("push invoked with no files")
	}
}

func TestTarget_EditAndSend(t *testing.T) {
	m, runner := ready(t)
	m, _ = update(t, m, paste(tempFiles(t, "a")[0]))

	m, _ = update(t, m, keyPress("tab"))
	m, _ = update(t, m, keyPress("Download"))
	m, _ = update(t, m, keyPress("s")) // typed, not a send
	m, _ = update(t, m, keyPress("enter"))

	if got := m.session.Fragment(); got != "Downloads" {
		t.Fatalf("fragment = %q, want Downloads", got)
	}
	if len(runner.CallsTo("push")) != 0 {
		t.Fatal("typing into the target field triggered a send")
	}

	m, cmd := update(t, m, keyPress("s"))
	drain(t, m, cmd)

	pushes := runner.CallsTo("push")
	if len(pushes) != 1 || pushes[0][2] != "/storage/emulated/0/Downloads" {
		t.Errorf("pushes = %v", pushes)
	}
}

func TestTarget_PasteIsText(t *testing.T) {
	m, _ := ready(t)

	m, _ = update(t, m, keyPress("tab"))
	m, _ = update(t, m, paste("Music/Albums"))
	m, _ = update(t, m, keyPress("esc"))

	if got := m.session.Fragment(); got != "Music/Albums" {
		t.Errorf("fragment = %q", got)
	}
	if len(m.session.Snapshot().Pending) != 0 {
		t.Error("paste into target field was treated as a drop")
	}
}

func TestAddPath(t *testing.T) {
	m, _ := ready(t)
	file := tempFiles(t, "notes.txt")[0]

	m, _ = update(t, m, keyPress("a"))
	m, _ = update(t, m, keyPress(file))
	m, _ = update(t, m, keyPress("enter"))

	if got := m.session.Snapshot().Pending; !slices.Equal(got, []string{file}) {
		t.Errorf("pending = %v", got)
	}
	if m.focus != focusNone {
		t.Error("add-path field still focused")
	}
}

func TestAddPath_PathWithSpaces(t *testing.T) {
	file := tempFiles(t, "My Photos cat.jpg")[0]

	tests := []struct {
		name  string
		typed string
	}{
		{"literal", file},
		{"surrounding space", "  " + file + " "},
		{"quoted", "'" + file + "'"},
		{"file uri", "file://" + strings.ReplaceAll(file, " ", "%20")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := ready(t)
			m, _ = update(t, m, keyPress("a"))
			m, _ = update(t, m, keyPress(tt.typed))
			m, _ = update(t, m, keyPress("enter"))

			if got := m.session.Snapshot().Pending; !slices.Equal(got, []string{file}) {
				t.Errorf("pending = %q, want %q", got, []string{file})
			}
		})
	}
}

func TestClearKeys(t *testing.T) {
	m, _ := ready(t)
	m, _ = update(t, m, paste(tempFiles(t, "a")[0]))
	m, _ = update(t, m, paste(t.TempDir()))

	m, _ = update(t, m, keyPress("c"))
	m, _ = update(t, m, keyPress("x"))

	state := m.session.Snapshot()
	if len(state.Pending) != 0 || len(state.Log) != 0 {
		t.Errorf("state after clear = %+v", state)
	}
	view := m.View()
	if !strings.Contains(view, "No files dropped yet.") || !strings.Contains(view, "No logs yet.") {
		t.Errorf("view after clear:\n%s", view)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := ready(t)
	if strings.Contains(m.View(), "clear output") {
		t.Fatal("full help shown before toggle")
	}

	m, _ = update(t, m, keyPress("?"))

	if !strings.Contains(m.View(), "clear output") {
		t.Error("full help not shown after toggle")
	}
}

func TestQuit(t *testing.T) {
	m, _ := ready(t)

	m, cmd := update(t, m, keyPress("q"))

	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command did not produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}
