// Package tui is the interactive front end: it turns key presses into
// session mutations, shows the session's status line, and reports
// export outcomes as they arrive.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/achernya/autoclip/export"
	"github.com/achernya/autoclip/player"
	"github.com/achernya/autoclip/session"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	padding  = 2
	maxWidth = 160

	seekStep       = 5.0
	tickInterval   = 250 * time.Millisecond
	playerTimeout  = 500 * time.Millisecond
	statusDuration = time.Hour
)

var (
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Render
	statusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

type Config struct {
	Session  *session.State
	Exporter *export.Coordinator
	Player   player.Player
	Keys     KeyMap
	Logger   hclog.Logger
}

type Model struct {
	ctx      context.Context
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model
	viewport viewport.Model
	logger   hclog.Logger

	session  *session.State
	exporter *export.Coordinator
	player   player.Player
	clock    *player.Clock
	osd      player.OSD

	position    float64
	positionErr error
	path        string
	status      string
	flash       string
	flashStyle  lipgloss.Style
	flashSeq    int
	spinning    bool
	quitArmed   bool
	logs        string
}

type (
	outcomeMsg  export.Outcome
	positionMsg struct {
		pos  float64
		path string
		err  error
	}
	clearFlashMsg struct{ seq int }
)

// New builds the model. ctx bounds every export it starts: when ctx
// is cancelled, running encoders are killed.
func New(ctx context.Context, cfg Config) *Model {
	vp := viewport.New(maxWidth-2, 12)
	vp.Style = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		PaddingLeft(1).
		MarginLeft(padding)
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	m := &Model{
		ctx:      ctx,
		keys:     cfg.Keys,
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewport: vp,
		logger:   logger.Named("tui"),
		session:  cfg.Session,
		exporter: cfg.Exporter,
		player:   cfg.Player,
	}
	if c, ok := cfg.Player.(*player.Clock); ok {
		m.clock = c
	}
	if o, ok := cfg.Player.(player.OSD); ok {
		m.osd = o
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	p := m.player
	ctx := m.ctx
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, playerTimeout)
		defer cancel()
		pos, err := p.Position(ctx)
		// The path only labels the screen; a failure here
		// just leaves the label blank.
		path, _ := p.Path(ctx)
		return positionMsg{pos: pos, path: path, err: err}
	})
}

// now asks the player for the current position. It is only called in
// response to a key press, so a short blocking call is acceptable.
func (m *Model) now() (float64, bool) {
	ctx, cancel := context.WithTimeout(m.ctx, playerTimeout)
	defer cancel()
	pos, err := m.player.Position(ctx)
	if err != nil {
		m.logger.Debug("playback position unavailable", "error", err)
		return 0, false
	}
	m.position = pos
	return pos, true
}

func (m *Model) mediaPath() string {
	ctx, cancel := context.WithTimeout(m.ctx, playerTimeout)
	defer cancel()
	path, err := m.player.Path(ctx)
	if err != nil {
		m.logger.Debug("media path unavailable", "error", err)
		return ""
	}
	m.path = path
	return path
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		width := msg.Width - padding*2 - 4
		if width > maxWidth {
			width = maxWidth
		}
		m.viewport.Width = width - padding
		m.help.Width = width
		return m, nil

	case positionMsg:
		m.position, m.positionErr, m.path = msg.pos, msg.err, msg.path
		return m, m.tick()

	case outcomeMsg:
		return m, m.handleOutcome(export.Outcome(msg))

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.exporter.Running() == 0 {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		if m.exporter.Running() > 0 && !m.quitArmed {
			m.quitArmed = true
			return m.showFlash("Exports still running; quitting stops them. Press again to quit.", warnStyle, 5*time.Second)
		}
		return tea.Quit
	}
	m.quitArmed = false

	if key.Matches(msg, m.keys.Toggle) {
		path := ""
		if !m.session.Active() {
			path = m.mediaPath()
		}
		return m.present(m.session.Toggle(path))
	}

	if m.session.Active() {
		switch {
		case key.Matches(msg, m.keys.Start):
			if now, ok := m.now(); ok {
				return m.present(m.session.SetStart(now))
			}
			return m.showFlash("Playback position unavailable", warnStyle, 3*time.Second)
		case key.Matches(msg, m.keys.End):
			if now, ok := m.now(); ok {
				return m.present(m.session.SetEnd(now))
			}
			return m.showFlash("Playback position unavailable", warnStyle, 3*time.Second)
		case key.Matches(msg, m.keys.Previous):
			return m.present(m.session.CycleProfile(session.Previous))
		case key.Matches(msg, m.keys.Next):
			return m.present(m.session.CycleProfile(session.Next))
		case key.Matches(msg, m.keys.Export):
			return m.startExport()
		}
	}

	if m.clock != nil {
		switch {
		case key.Matches(msg, m.keys.Pause):
			m.clock.TogglePause()
			m.now()
			return nil
		case key.Matches(msg, m.keys.SeekBack):
			m.clock.Seek(-seekStep)
			m.now()
			return nil
		case key.Matches(msg, m.keys.SeekForward):
			m.clock.Seek(seekStep)
			m.now()
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

// present applies a session signal to the screen and, when the player
// has one, its on-screen display.
func (m *Model) present(sig session.Signal) tea.Cmd {
	switch sig {
	case session.SignalRefresh:
		m.status = m.session.Display()
		return m.osdText(m.status, statusDuration)
	case session.SignalClear:
		m.status = ""
		return m.osdText("", time.Millisecond)
	}
	return nil
}

func (m *Model) startExport() tea.Cmd {
	ch := m.exporter.Export(m.ctx, m.session, m.mediaPath())
	if ch == nil {
		return nil
	}
	cmds := []tea.Cmd{waitForOutcome(ch)}
	if m.exporter.Running() > 0 {
		m.addLog("export started (" + m.session.Profile().String() + ")")
		if !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
	}
	return tea.Batch(cmds...)
}

// waitForOutcome blocks on a bubbletea goroutine; the outcome itself
// is handled in Update, on the interaction loop.
func waitForOutcome(ch <-chan export.Outcome) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(<-ch)
	}
}

func (m *Model) handleOutcome(o export.Outcome) tea.Cmd {
	msg := o.Message()
	m.addLog(msg)
	style := okStyle
	switch o.Kind {
	case export.ValidationFailed, export.ProcessFailed:
		style = warnStyle
	case export.LaunchFailed:
		style = errStyle
	}
	cmd := m.showFlash(msg, style, o.DisplayFor())
	return tea.Batch(cmd, m.osdText(msg, o.DisplayFor()))
}

func (m *Model) showFlash(text string, style lipgloss.Style, d time.Duration) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.flash = text
	m.flashStyle = style
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

func (m *Model) osdText(text string, d time.Duration) tea.Cmd {
	if m.osd == nil {
		return nil
	}
	osd, ctx, logger := m.osd, m.ctx, m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, playerTimeout)
		defer cancel()
		if err := osd.ShowText(ctx, text, d); err != nil {
			logger.Debug("osd update failed", "error", err)
		}
		return nil
	}
}

func (m *Model) addLog(log string) {
	now := time.Now()
	m.logs += now.Format(time.TimeOnly) + " | " + log + "\n"
	m.viewport.SetContent(m.logs)
	m.viewport.GotoBottom()
}

func (m *Model) playhead() string {
	state := "▶"
	if m.clock != nil && !m.clock.Playing() {
		state = "⏸"
	}
	pos := session.FormatTimestamp(m.position)
	if m.positionErr != nil {
		pos = "--:--:--.---"
	}
	name := m.mediaName()
	return fmt.Sprintf("%s %s  %s", state, pos, name)
}

func (m *Model) mediaName() string {
	if src := m.session.Source(); src != "" && m.session.Active() {
		return filepath.Base(src)
	}
	if m.path != "" {
		return filepath.Base(m.path)
	}
	return ""
}

func (m *Model) headerView() string {
	pad := strings.Repeat(" ", padding)
	status := helpStyle("clip mode off")
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}
	running := ""
	if n := m.exporter.Running(); n > 0 {
		running = fmt.Sprintf("  %s %d export(s) running", m.spinner.View(), n)
	}
	flash := ""
	if m.flash != "" {
		flash = pad + m.flashStyle.Render(m.flash)
	}
	return "\n" +
		pad + m.playhead() + running + "\n" +
		pad + status + "\n" +
		flash + "\n\n"
}

func (m *Model) footerView() string {
	pad := strings.Repeat(" ", padding)
	keys := helpKeys{keys: m.keys, active: m.session.Active(), seekable: m.clock != nil}
	return pad + m.help.View(keys) + "\n"
}

func (m *Model) View() string {
	return m.headerView() +
		m.viewport.View() + "\n" +
		m.footerView()
}
