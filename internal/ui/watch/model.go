// Package watch provides the terminal stopwatch view.
package watch

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/tickwatch/internal/clipboard"
	"github.com/zjrosen/tickwatch/internal/config"
	"github.com/zjrosen/tickwatch/internal/cue"
	"github.com/zjrosen/tickwatch/internal/log"
	"github.com/zjrosen/tickwatch/internal/stopwatch"
	"github.com/zjrosen/tickwatch/internal/ui/styles"
)

// Clickable zone IDs.
const (
	ZoneGo    = "go"
	ZoneClear = "clear"
	ZoneStop  = "stop"
	ZoneClose = "close"
)

const (
	panelWidth  = 44
	panelHeight = 9
)

// CueControl adjusts cue playback at runtime. cue.Worker implements it.
type CueControl interface {
	SetMuted(muted bool)
	Muted() bool
	SetFrequencies(f cue.Frequencies)
}

// pollMsg drives the poll cycle.
type pollMsg struct{}

// copiedMsg reports the result of a clipboard copy.
type copiedMsg struct {
	text string
	err  error
}

// ConfigChangedMsg carries a reloaded configuration into the running view.
type ConfigChangedMsg struct {
	Config config.Config
}

// Options configures a Model.
type Options struct {
	Engine *stopwatch.Engine

	// Cues is optional; without it the mute key does nothing.
	Cues CueControl

	// Clipboard is optional; without it the copy key does nothing.
	Clipboard clipboard.Copier

	// PollInterval defaults to stopwatch.DefaultPollInterval.
	PollInterval time.Duration

	// Precision is the number of decimals shown.
	Precision int

	// CuesEnabled is the cue.enabled value the cues were created with.
	// Reloads only change mute when cue.enabled changes from it.
	CuesEnabled bool
}

// Model holds the stopwatch view state.
type Model struct {
	engine   *stopwatch.Engine
	cues     CueControl
	clip     clipboard.Copier
	zones    *zone.Manager
	keys     KeyMap
	help     help.Model
	interval time.Duration

	precision   int
	cuesEnabled bool
	elapsed     time.Duration
	width       int
	height      int
	quitting    bool

	// notice is shown in the border until the next key press.
	notice string
}

// New creates a stopwatch view around an engine.
func New(opts Options) Model {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = stopwatch.DefaultPollInterval
	}
	return Model{
		engine:      opts.Engine,
		cues:        opts.Cues,
		clip:        opts.Clipboard,
		zones:       zone.New(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		interval:    interval,
		precision:   opts.Precision,
		cuesEnabled: opts.CuesEnabled,
	}
}

// Init starts the poll cycle.
func (m Model) Init() tea.Cmd {
	return m.schedulePoll()
}

// schedulePoll requests the next poll after the configured interval.
// Each handled poll schedules exactly one successor, so only one cycle runs.
func (m Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollMsg:
		if m.quitting {
			return m, nil
		}
		m.elapsed = m.engine.Poll()
		return m, m.schedulePoll()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, id := range []string{ZoneGo, ZoneClear, ZoneStop, ZoneClose} {
			if m.zones.Get(id).InBounds(msg) {
				return m.Click(id)
			}
		}

	case copiedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "copy failed", msg.err)
			m.notice = "copy failed"
		} else {
			log.Debug(log.CatUI, "copied reading", "text", msg.text)
			m.notice = "copied"
		}

	case ConfigChangedMsg:
		m = m.applyConfig(msg.Config)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Toggle):
		m.engine.Toggle()
	case key.Matches(msg, m.keys.Start):
		m.engine.Start()
	case key.Matches(msg, m.keys.Stop):
		m.engine.Stop()
	case key.Matches(msg, m.keys.Clear):
		m.engine.Clear()
	case key.Matches(msg, m.keys.Mute):
		if m.cues != nil {
			m.cues.SetMuted(!m.cues.Muted())
		}
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyReading()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	default:
		return m, nil
	}
	m.elapsed = m.engine.Poll()
	return m, nil
}

// Click performs the action of the clickable zone id.
func (m Model) Click(id string) (tea.Model, tea.Cmd) {
	switch id {
	case ZoneGo:
		m.engine.Start()
	case ZoneClear:
		m.engine.Clear()
	case ZoneStop:
		m.engine.Stop()
	case ZoneClose:
		return m.quit()
	default:
		return m, nil
	}
	m.elapsed = m.engine.Poll()
	return m, nil
}

// copyReading copies the displayed reading off the update loop.
func (m Model) copyReading() tea.Cmd {
	if m.clip == nil {
		return nil
	}
	clip := m.clip
	text := styles.FormatElapsed(m.elapsed, m.precision)
	return func() tea.Msg {
		return copiedMsg{text: text, err: clip.Copy(text)}
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) applyConfig(cfg config.Config) Model {
	m.precision = cfg.Display.Precision
	if cfg.Poll.Interval > 0 {
		m.interval = cfg.Poll.Interval
	}
	m.engine.SetCueDuration(cfg.Cue.Duration)
	if m.cues != nil {
		m.cues.SetFrequencies(cue.Frequencies{LowHz: cfg.Cue.LowHz, HighHz: cfg.Cue.HighHz})
		// A mute set with the key survives reloads that leave cue.enabled alone.
		if cfg.Cue.Enabled != m.cuesEnabled {
			m.cues.SetMuted(!cfg.Cue.Enabled)
		}
	}
	m.cuesEnabled = cfg.Cue.Enabled
	log.Info(log.CatUI, "applied reloaded config",
		"precision", m.precision, "interval", m.interval, "cues_enabled", cfg.Cue.Enabled)
	return m
}

// Elapsed returns the value shown by the last poll.
func (m Model) Elapsed() time.Duration {
	return m.elapsed
}

// Quitting reports whether the view has asked the program to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// View renders the stopwatch.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	running := m.engine.Running()
	accent := styles.StatusColor(running)

	elapsed := styles.ElapsedStyle.Render(styles.FormatElapsed(m.elapsed, m.precision))

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.zones.Mark(ZoneGo, styles.ButtonStyle.Render("Go")),
		"  ",
		m.zones.Mark(ZoneClear, styles.ButtonStyle.Render("Clear")),
		"  ",
		m.zones.Mark(ZoneStop, styles.ButtonStyle.Render("Stop")),
	)

	hint := m.help.View(m.keys)

	center := lipgloss.NewStyle().Width(panelWidth - 2).Align(lipgloss.Center)
	var content strings.Builder
	content.WriteString("\n")
	content.WriteString(center.Render(elapsed))
	content.WriteString("\n\n")
	content.WriteString(center.Render(buttons))
	content.WriteString("\n\n")
	content.WriteString(center.Render(hint))

	height := panelHeight
	if m.help.ShowAll {
		height += 2
	}
	status := lipgloss.NewStyle().Foreground(accent).Render(styles.FormatState(running))
	if m.cues != nil && m.cues.Muted() {
		status += " " + styles.HintStyle.Render("muted")
	}
	if m.notice != "" {
		status += " " + styles.HintStyle.Render(m.notice)
	}
	status += " " + m.zones.Mark(ZoneClose, styles.CloseStyle.Render("X"))
	panel := styles.RenderPanel(content.String(), "tickwatch", status, panelWidth, height, accent)

	return m.zones.Scan(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel))
}

// SetSize updates the view dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.help.Width = width
	return m
}
