// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/piflow/internal/model"
	"github.com/verte-zerg/piflow/internal/record"
	"github.com/verte-zerg/piflow/internal/stats"
	"github.com/verte-zerg/piflow/internal/store"
)

const (
	tabOverview = iota
	tabPositions
	tabConfusion
	tabHistory
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store  *store.Store
	key    string
	cfg    model.StatsConfig
	source stats.DigitSource
	now    func() time.Time

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	posTable  table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, key string, cfg model.StatsConfig, source stats.DigitSource) *Model {
	m := &Model{
		store:  st,
		key:    key,
		cfg:    cfg,
		source: source,
		now:    time.Now,
		tabs:   []string{"Overview", "Positions", "Confusion", "History"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.posTable = table.New(table.WithFocused(true), table.WithStyles(positionTableStyles()))
	m.refreshReport()
	return m
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
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.refreshReport()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabPositions {
			m.posTable, cmd = m.posTable.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	header := lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), m.renderHeader())
	var body string
	if m.errMsg != "" {
		body = errorStyle.Render(m.errMsg)
	} else if m.activeTab == tabPositions {
		body = m.posTable.View()
	} else {
		body = m.viewports[m.activeTab].View()
	}
	help := headerStyle.Render("←/→ tabs · -/= curve window · r reload · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = (m.activeTab + delta + n) % n
	if m.activeTab == tabPositions {
		m.posTable.Focus()
	} else {
		m.posTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	items := make([]string, 0, len(m.tabs))
	for i, name := range m.tabs {
		if i == m.activeTab {
			items = append(items, activeNavStyle.Render(name))
		} else {
			items = append(items, inactiveNavStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}

func (m *Model) renderHeader() string {
	parts := []string{fmt.Sprintf("Sessions %d", len(m.report.Sessions)), fmt.Sprintf("Window %d", m.cfg.CurveWindow)}
	if m.cfg.Since != nil {
		parts = append(parts, "Since "+m.cfg.Since.Format("2006-01-02"))
	}
	if m.cfg.Last > 0 {
		parts = append(parts, fmt.Sprintf("Last %d", m.cfg.Last))
	}
	return headerStyle.Render(strings.Join(parts, " · "))
}

// chromeHeight is the rows used outside the tab body.
const chromeHeight = 5

func (m *Model) updateLayout() {
	bodyHeight := max(m.height-chromeHeight, 3)
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.posTable.SetWidth(m.width)
	m.posTable.SetHeight(bodyHeight)
	m.renderTabContents()
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.key, m.cfg)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load stats: %v", err)
		return
	}
	m.errMsg = ""
	m.report = report
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	now := m.now()
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, m.width, now))
	m.viewports[tabConfusion].SetContent(renderText(func(buf *bytes.Buffer) error {
		return stats.RenderConfusion(buf, m.report.Record, m.cfg.WeakTop)
	}))
	m.viewports[tabHistory].SetContent(renderHistory(m.report.Sessions, m.report.WindowMistakes, m.cfg.WeakTop))

	headers, rows := stats.PositionRows(stats.WeakPositions(m.report.Record, m.cfg.WeakTop), m.source, now)
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		columns[i] = table.Column{Title: h, Width: max(len(h), 6)}
	}
	columns[len(columns)-1].Width = 16
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}
	m.posTable.SetRows(nil)
	m.posTable.SetColumns(columns)
	m.posTable.SetRows(tableRows)
}

func renderOverview(report stats.Report, window, width int, now time.Time) string {
	pb := report.Record
	cards := []string{
		metricCard("Best", humanize.Comma(int64(pb.MaxDigits))),
		metricCard("Sessions", humanize.Comma(int64(pb.TotalSessions))),
		metricCard("Digits typed", humanize.Comma(int64(pb.TotalDigitsTyped))),
	}
	if when := record.BestDate(pb); !when.IsZero() {
		cards = append(cards, metricCard("Best set", humanize.RelTime(when, now, "ago", "from now")))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	curves := renderText(func(buf *bytes.Buffer) error {
		return stats.RenderCurves(buf, report.Sessions, window, width)
	})
	return row + "\n\n" + curves
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderHistory(sessions []model.SessionAggregate, recent []model.PositionAggregate, top int) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}
	var b strings.Builder
	if len(recent) > 0 {
		b.WriteString("Recent trouble spots:")
		for i, agg := range recent {
			if top > 0 && i >= top {
				break
			}
			fmt.Fprintf(&b, " %d (%d)", agg.Position+1, agg.Mistakes)
		}
		b.WriteString("\n\n")
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		dpm, acc := stats.SessionMetrics(s.DigitsReached, s.Mistakes, s.DurationMs)
		fmt.Fprintf(&b, "%s  %4d digits  %3d mistakes  %6.1f/min  %5.1f%%\n",
			s.EndedAt.Local().Format("2006-01-02 15:04"), s.DigitsReached, s.Mistakes, dpm, acc*100)
	}
	return b.String()
}

func renderText(render func(buf *bytes.Buffer) error) string {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return errorStyle.Render(err.Error())
	}
	return buf.String()
}

func positionTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#4A3A1A"))
	return s
}

var curveWindows = []int{1, 5, 10, 20, 50}

func nextCurveWindow(n int) int {
	for _, w := range curveWindows {
		if w > n {
			return w
		}
	}
	return curveWindows[len(curveWindows)-1]
}

func prevCurveWindow(n int) int {
	for i := len(curveWindows) - 1; i >= 0; i-- {
		if curveWindows[i] < n {
			return curveWindows[i]
		}
	}
	return curveWindows[0]
}
