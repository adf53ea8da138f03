// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/piflow/internal/digits"
	"github.com/verte-zerg/piflow/internal/game"
	"github.com/verte-zerg/piflow/internal/mnemonic"
	"github.com/verte-zerg/piflow/internal/model"
	"github.com/verte-zerg/piflow/internal/progress"
	"github.com/verte-zerg/piflow/internal/record"
)

const title = "π piflow"

// Model implements the Bubble Tea practice UI.
type Model struct {
	config  model.Config
	machine *game.Machine
	tracker *progress.Tracker
	source  *digits.Source
	log     zerolog.Logger

	keys keyMap
	help help.Model

	width  int
	height int

	last    model.ValidationResult
	summary model.SessionSummary
	newBest bool
}

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	prefixStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	accentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle      = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// NewModel constructs a practice TUI model. The machine should report to tracker.
func NewModel(cfg model.Config, machine *game.Machine, tracker *progress.Tracker, source *digits.Source, log zerolog.Logger) *Model {
	return &Model{
		config:  cfg,
		machine: machine,
		tracker: tracker,
		source:  source,
		log:     log,
		keys:    newKeyMap(),
		help:    help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		if m.machine.State().Active() {
			return m, tick()
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.finish()
			return m, tea.Quit
		}
		switch m.machine.State() {
		case game.Idle:
			return m.updateIdle(msg)
		case game.Playing, game.Practice:
			return m.updateActive(msg)
		case game.Finished:
			return m.updateFinished(msg)
		}
	}
	return m, nil
}

func (m *Model) updateIdle(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Start):
		return m, m.start()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateActive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.rewindOne()
		return m, nil
	case tea.KeyEsc:
		m.finish()
		return m, nil
	case tea.KeyRunes:
		m.handleRunes(msg.Runes)
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) updateFinished(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Again):
		m.machine.Reset()
		return m, m.start()
	case key.Matches(msg, m.keys.Menu):
		m.machine.Reset()
		return m, nil
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) start() tea.Cmd {
	if !m.machine.Start() {
		return nil
	}
	m.last = model.ValidationResult{}
	m.summary = model.SessionSummary{}
	m.newBest = false
	return tick()
}

// handleRunes validates digit runes. Anything else is dropped before it
// reaches the machine.
func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if r < '0' || r > '9' {
			continue
		}
		if !m.machine.State().Active() {
			return
		}
		m.last = m.machine.Validate(byte(r))
		if m.machine.State() == game.Finished {
			m.captureFinish(m.machine.Summary())
		}
	}
}

func (m *Model) rewindOne() {
	pos := m.machine.Position()
	if pos == 0 {
		return
	}
	if m.machine.Rewind(game.PrefixLen + pos - 1) {
		m.last = model.ValidationResult{}
	}
}

func (m *Model) finish() {
	summary, ok := m.machine.Finish()
	if !ok {
		return
	}
	m.captureFinish(summary)
}

func (m *Model) captureFinish(summary model.SessionSummary) {
	m.summary = summary
	m.newBest = summary.DigitsReached > m.tracker.PreviousBest()
	m.log.Info().Int("digits", summary.DigitsReached).Int("mistakes", len(summary.Mistakes)).Bool("new_best", m.newBest).Msg("session finished")
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.machine.State() {
	case game.Idle:
		body = m.viewIdle()
	case game.Playing, game.Practice:
		body = m.viewActive()
	case game.Finished:
		body = m.viewFinished()
	}
	content := lipgloss.JoinVertical(lipgloss.Center, titleStyle.Render(title), "", body)
	footer := m.help.ShortHelpView(m.keys.bindingsFor(m.machine.State()))
	if m.width == 0 || m.height < 3 {
		return content + "\n\n" + footer
	}
	bodyHeight := m.height - 1
	bodyView := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return bodyView + "\n" + footerLine
}

func (m *Model) viewIdle() string {
	lines := []string{
		"Memorize the digits of π",
		mutedStyle.Render("Press Enter to start"),
	}
	pb := m.tracker.Record()
	if pb.MaxDigits > 0 {
		best := fmt.Sprintf("%s digits", humanize.Comma(int64(pb.MaxDigits)))
		card := mutedStyle.Render("Your best") + "\n" + accentStyle.Render(best)
		if when := record.BestDate(pb); !when.IsZero() {
			card += "\n" + mutedStyle.Render(humanize.Time(when))
		}
		lines = append(lines, "", cardStyle.Render(card))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) viewActive() string {
	pos := m.machine.Position()
	best := m.tracker.Record().MaxDigits
	statusLine := strings.Join([]string{
		fmt.Sprintf("Digits %d", pos),
		fmt.Sprintf("Best %d", best),
		fmt.Sprintf("Mistakes %d", m.machine.Mistakes()),
		fmt.Sprintf("%ds", int(m.machine.Elapsed().Seconds())),
	}, "  ")

	lines := []string{mutedStyle.Render(statusLine), "", m.renderStrip()}
	if m.last.Accepted && !m.last.Correct {
		lines = append(lines, "", incorrectStyle.Render(fmt.Sprintf("%c is not the digit at %d", m.last.Input, m.last.Position+1)))
	}
	if m.machine.State() == game.Practice {
		lines = append(lines, "", accentStyle.Render("Practice"))
		if m.config.Mnemonics {
			if hint := mnemonic.Hint(pos); hint != "" {
				lines = append(lines, mutedStyle.Render(hint))
			}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderStrip() string {
	history := m.machine.History()
	pos := len(history)
	offset := 0
	if m.config.Window > 0 && pos > m.config.Window {
		offset = pos - m.config.Window
	}
	hint := ""
	if m.machine.State() == game.Practice && m.config.HintDigits > 0 {
		hint = m.source.Range(pos, pos+m.config.HintDigits)
	}
	runes := buildStrip(offset, string(history[offset:]), hint)
	width := m.width * 7 / 10
	return wrapStyledRunes(runes, width)
}

func (m *Model) viewFinished() string {
	lines := []string{}
	if m.newBest {
		lines = append(lines, accentStyle.Render("New record!"), "")
	}
	duration := m.summary.Duration()
	card := strings.Join([]string{
		mutedStyle.Render("Digits reached"),
		titleStyle.Render(fmt.Sprintf("%d", m.summary.DigitsReached)),
		mutedStyle.Render("Time"),
		fmt.Sprintf("%ds", int(duration.Seconds())),
		mutedStyle.Render("Mistakes"),
		fmt.Sprintf("%d", len(m.summary.Mistakes)),
	}, "\n")
	lines = append(lines, cardStyle.Render(card))
	if m.summary.SourceLen > 0 && m.summary.DigitsReached >= m.summary.SourceLen {
		lines = append(lines, "", accentStyle.Render("You reached the end of the known digits."))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}
