// Package tui is the interactive terminal front end. It is strictly a
// presentation layer: it observes engine state, forwards input to the
// interpreter, and drives the tick on a fixed period. No simulation logic
// lives here.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/calebmoore/clipfactory/internal/command"
	"github.com/calebmoore/clipfactory/internal/engine"
	"github.com/calebmoore/clipfactory/internal/notify"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	operatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	channelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true)
	enabledBtn    = lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true)
	disabledBtn   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Log collects rendered notifications for the viewport. It implements
// notify.Sink; the model shares it by pointer because bubbletea copies the
// model value on every update.
type Log struct {
	lines []string
}

// Notify styles and appends one notification.
func (l *Log) Notify(n notify.Notification) {
	var style lipgloss.Style
	switch {
	case n.Channel == notify.ChannelOperator:
		style = operatorStyle
	case n.Severity == notify.SeverityWarning:
		style = warningStyle
	case n.Severity == notify.SeveritySuccess:
		style = successStyle
	default:
		style = neutralStyle
	}

	prefix := channelStyle.Render(fmt.Sprintf("%-8s", n.Channel))
	for _, line := range strings.Split(n.Message, "\n") {
		l.lines = append(l.lines, prefix+" "+style.Render(line))
	}
}

type tickMsg time.Time

// Model is the bubbletea state for one session.
type Model struct {
	eng    *engine.Engine
	interp *command.Interpreter
	render notify.Renderer
	log    *Log

	// OnTick runs after every simulation step (journal snapshots etc).
	onTick func(engine.TickResult)

	interval time.Duration
	input    string
	width    int
	height   int
}

// New builds the TUI model. The sink passed to the interpreter must include
// the returned model's log (use Log() to compose sinks before calling).
func New(eng *engine.Engine, interp *command.Interpreter, log *Log, sink notify.Sink, interval time.Duration, onTick func(engine.TickResult)) Model {
	return Model{
		eng:      eng,
		interp:   interp,
		render:   notify.Renderer{Sink: sink},
		log:      log,
		interval: interval,
		onTick:   onTick,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
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
		res := m.eng.Tick()
		m.render.TickResult(res)
		if m.onTick != nil {
			m.onTick(res)
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			m.interp.Dispatch(m.input)
			m.input = ""
		case tea.KeyTab:
			m.input = m.interp.Complete(m.input)
		case tea.KeyUp:
			m.input = m.interp.HistoryOlder()
		case tea.KeyDown:
			m.input = m.interp.HistoryNewer()
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				runes := []rune(m.input)
				m.input = string(runes[:len(runes)-1])
			}
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	v := m.eng.View()

	title := titleStyle.Render("clipfactory") + neutralStyle.Render(
		fmt.Sprintf("  %s | clips %s | $%s | wire %s",
			engine.SimClock(v.Elapsed),
			humanize.Comma(int64(v.ClipsMade)),
			humanize.CommafWithDigits(v.Funds, 2),
			humanize.Comma(int64(v.Wire))))

	logHeight := m.height - 4
	if logHeight < 1 {
		logHeight = 1
	}
	start := 0
	if len(m.log.lines) > logHeight {
		start = len(m.log.lines) - logHeight
	}
	logView := strings.Join(m.log.lines[start:], "\n")
	for i := len(m.log.lines) - start; i < logHeight; i++ {
		logView += "\n"
	}

	var footer string
	if m.interp.ButtonsEnabled() {
		footer = m.buttonBar(v)
	}

	prompt := promptStyle.Render("> ") + m.input + promptStyle.Render("█")
	return title + "\n" + logView + "\n" + footer + "\n" + prompt
}

// buttonBar surfaces the unlocked actions, dimmed when unaffordable. Policy
// comes entirely from the engine's declarative action table.
func (m Model) buttonBar(v engine.View) string {
	var parts []string
	for _, a := range engine.Actions {
		if !a.Unlocked(v) {
			continue
		}
		label := "[" + a.Command + "]"
		if a.Enabled(v) {
			parts = append(parts, enabledBtn.Render(label))
		} else {
			parts = append(parts, disabledBtn.Render(label))
		}
	}
	return strings.Join(parts, " ")
}
