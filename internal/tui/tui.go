package tui

import (
	"dropfix/internal/config"
	"dropfix/internal/daemon"
	"dropfix/internal/logger"
	"dropfix/internal/model"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	fieldSource = iota
	fieldTarget
	fieldCount
)

type tickMsg time.Time

type savedMsg struct{ err error }

type clearedMsg struct{ err error }

// Model is the terminal counterpart of the desktop window.
type Model struct {
	cfg     *config.Config
	service *daemon.Service

	inputs [fieldCount]textinput.Model
	focus  int

	status  model.Status
	lines   []string
	message string
	failed  bool
	saving  bool

	width  int
	height int
}

func New(cfg *config.Config, service *daemon.Service) Model {
	paths := service.Paths()

	m := Model{cfg: cfg, service: service}
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 1024
		m.inputs[i] = in
	}

	m.inputs[fieldSource].Placeholder = "folder to watch"
	m.inputs[fieldSource].SetValue(paths.Source)
	m.inputs[fieldTarget].Placeholder = "folder to move corrected files into"
	m.inputs[fieldTarget].SetValue(paths.Target)
	m.inputs[fieldSource].Focus()

	m.refresh()
	return m
}

// Run blocks until the user quits or stopCh fires.
func Run(cfg *config.Config, service *daemon.Service, stopCh <-chan struct{}) error {
	p := tea.NewProgram(New(cfg, service), tea.WithAltScreen())

	finished := make(chan struct{})
	defer close(finished)

	go func() {
		select {
		case <-stopCh:
			logger.Log.Info("stop requested via API")
			p.Quit()
		case <-finished:
		}
	}()

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.refresh()
		return m, m.tick()

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.setMessage("save failed: "+msg.err.Error(), true)
		} else {
			m.setMessage("settings saved, watching restarted", false)
		}
		m.refresh()
		return m, nil

	case clearedMsg:
		if msg.err != nil {
			m.setMessage("clear failed: "+msg.err.Error(), true)
		} else {
			m.setMessage("log cleared", false)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "down", "enter":
			m.moveFocus(1)
			return m, nil

		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil

		case "ctrl+s":
			if m.saving {
				return m, nil
			}
			m.saving = true
			m.setMessage("saving...", false)
			return m, m.save(m.paths())

		case "ctrl+l":
			return m, clearLog
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	m.inputs[m.focus].CursorEnd()
}

func (m *Model) setMessage(text string, failed bool) {
	m.message = text
	m.failed = failed
}

func (m Model) paths() config.Paths {
	return config.Paths{
		Source: strings.TrimSpace(m.inputs[fieldSource].Value()),
		Target: strings.TrimSpace(m.inputs[fieldTarget].Value()),
	}
}

func (m Model) save(p config.Paths) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		err := service.SaveSettings(p)
		if err != nil {
			logger.Log.Error("failed to save settings", zap.Error(err))
		} else {
			logger.Log.Info("settings saved",
				zap.String("source", p.Source),
				zap.String("target", p.Target))
		}
		return savedMsg{err: err}
	}
}

func clearLog() tea.Msg {
	return clearedMsg{err: logger.Clear()}
}

func (m *Model) refresh() {
	m.status = m.service.Status()

	lines, err := logger.Tail(m.cfg.LogTailLines)
	if err != nil {
		lines = []string{"log unavailable: " + err.Error()}
	}
	m.lines = lines
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dropfix"))
	b.WriteString("\n\n")
	b.WriteString(m.fieldView("Source:", fieldSource))
	b.WriteString("\n")
	b.WriteString(m.fieldView("Target:", fieldTarget))
	b.WriteString("\n\n")

	if m.message != "" {
		style := okStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.message))
		b.WriteString("\n\n")
	}

	b.WriteString(logBoxStyle.Render(strings.Join(m.visibleLines(), "\n")))
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Tab: next field  Ctrl+S: save  Ctrl+L: clear log  Esc: quit"))

	return b.String()
}

func (m Model) fieldView(label string, field int) string {
	style := labelStyle
	if m.focus == field {
		style = focusedLabelStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, style.Render(label), m.inputs[field].View())
}

// visibleLines trims the tail to what fits above the status bar.
func (m Model) visibleLines() []string {
	if len(m.lines) == 0 {
		return []string{dimStyle.Render("(log is empty)")}
	}

	// title, two fields, message, borders, status and help
	room := m.height - 12
	if m.height == 0 || room >= len(m.lines) {
		return m.lines
	}
	if room < 1 {
		room = 1
	}
	return m.lines[len(m.lines)-room:]
}

func (m Model) statusView() string {
	st := m.status

	stateStyle := errorStyle
	switch st.State {
	case model.StateWatching, model.StateRunning:
		stateStyle = okStyle
	case model.StateNotConfigured, model.StateStopped:
		stateStyle = warnStyle
	}

	counters := st.Intake.Counters.String()
	if st.Intake.Counters.Errors > 0 {
		counters = errorStyle.Render(counters)
	}

	return fmt.Sprintf("Status: %s  %s", stateStyle.Render(string(st.State)), counters)
}
