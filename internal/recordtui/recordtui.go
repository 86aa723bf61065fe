// Package recordtui shows a live recording prompt: a running clock while the
// microphone captures, Enter to finish, Esc to discard.
package recordtui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/amonks/interview/internal/ui"
	"github.com/amonks/interview/recording"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCanceled indicates the user discarded the recording.
var ErrCanceled = errors.New("recording canceled")

// Recorder is the subset of *recording.Controller the prompt drives.
type Recorder interface {
	Start() (string, error)
	Stop() (recording.Result, error)
	Cleanup()
	Elapsed() time.Duration
	Err() error
}

const tickInterval = 200 * time.Millisecond

var (
	dotStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	clockStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

type startedMsg struct {
	filename string
	err      error
}

type stoppedMsg struct {
	result recording.Result
	err    error
}

type tickMsg time.Time

type model struct {
	recorder Recorder
	label    string

	filename string
	elapsed  time.Duration
	stopping bool
	done     bool

	result recording.Result
	err    error
}

// Run records until the user presses Enter and returns the saved recording.
// Esc or ctrl+c discards the capture and returns ErrCanceled.
func Run(ctx context.Context, recorder Recorder, label string, in io.Reader, out io.Writer) (recording.Result, error) {
	if recorder == nil {
		return recording.Result{}, fmt.Errorf("recorder is required")
	}
	options := []tea.ProgramOption{tea.WithContext(ctx)}
	if in != nil {
		options = append(options, tea.WithInput(in))
	}
	if out != nil {
		options = append(options, tea.WithOutput(out))
	}

	final, err := tea.NewProgram(newModel(recorder, label), options...).Run()
	if err != nil {
		recorder.Cleanup()
		return recording.Result{}, err
	}
	m := final.(model)
	return m.result, m.err
}

func newModel(recorder Recorder, label string) model {
	if label == "" {
		label = "Recording"
	}
	return model{recorder: recorder, label: label}
}

func (m model) Init() tea.Cmd {
	recorder := m.recorder
	return func() tea.Msg {
		filename, err := recorder.Start()
		return startedMsg{filename: filename, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.done = true
			return m, tea.Quit
		}
		m.filename = msg.filename
		return m, tick()

	case tickMsg:
		if m.stopping || m.done {
			return m, nil
		}
		if err := m.recorder.Err(); err != nil {
			m.recorder.Cleanup()
			m.err = err
			m.done = true
			return m, tea.Quit
		}
		m.elapsed = m.recorder.Elapsed()
		return m, tick()

	case stoppedMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.stopping || m.done {
		return m, nil
	}
	switch msg.String() {
	case "enter", " ":
		if m.filename == "" {
			return m, nil
		}
		m.stopping = true
		recorder := m.recorder
		return m, func() tea.Msg {
			result, err := recorder.Stop()
			return stoppedMsg{result: result, err: err}
		}
	case "esc", "ctrl+c", "q":
		m.recorder.Cleanup()
		m.err = ErrCanceled
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m model) View() string {
	if m.done {
		return ""
	}
	if m.filename == "" {
		return hintStyle.Render("Opening microphone...") + "\n"
	}
	status := "enter to stop, esc to discard"
	if m.stopping {
		status = "saving..."
	}
	return fmt.Sprintf("%s %s %s  %s\n",
		dotStyle.Render("●"),
		m.label,
		clockStyle.Render(ui.FormatClock(m.elapsed)),
		hintStyle.Render(status),
	)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
