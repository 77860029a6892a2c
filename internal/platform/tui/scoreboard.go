package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-lander/internal/registry"
	"github.com/vovakirdan/tui-lander/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 90 // Minimum width to show mode list sidebar
	sidebarWidth       = 26 // Width of mode list sidebar
	maxRows            = 50 // Max rows to load per view
)

// boardView selects what the scoreboard table lists.
type boardView int

const (
	viewPilots boardView = iota
	viewRecent
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextGame   key.Binding
	PrevGame   key.Binding
	ToggleView key.Binding
	Clear      key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextGame, k.ToggleView, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextGame, k.PrevGame},
		{k.ToggleView, k.Clear, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevGame: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
		),
		ToggleView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "pilots/recent"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the leaderboard screen.
type ScoreboardModel struct {
	games       []registry.GameInfo
	gameCursor  int
	store       *storage.Store
	view        boardView
	pilots      []storage.PilotEntry
	attempts    []storage.Attempt
	stats       *storage.GameStats
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:       registry.List(),
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.help.Width = width

	m.table = m.createTable()
	m.reload()

	return m
}

// columns returns the table layout for the active view.
func (m *ScoreboardModel) columns() []table.Column {
	if m.view == viewRecent {
		return []table.Column{
			{Title: "Pilot", Width: 12},
			{Title: "Lvl", Width: 4},
			{Title: "Result", Width: 8},
			{Title: "V/H speed", Width: 12},
			{Title: "Check", Width: 10},
			{Title: "Time", Width: 8},
		}
	}

	cols := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Pilot", Width: 14},
		{Title: "Best", Width: 5},
		{Title: "Landed", Width: 7},
		{Title: "Tries", Width: 6},
	}

	// Give spare width to the pilot name.
	tableWidth := m.width - 6
	if m.showSidebar {
		tableWidth -= sidebarWidth + 4
	}
	used := 0
	for _, c := range cols {
		used += c.Width + 2
	}
	if extra := tableWidth - used; extra > 0 {
		cols[1].Width += min(extra, 16)
	}
	return cols
}

// createTable creates a new table with columns for the active view.
func (m *ScoreboardModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, stats and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// reload fetches the active view for the selected mode.
func (m *ScoreboardModel) reload() {
	m.pilots, m.attempts, m.stats = nil, nil, nil
	if m.store != nil && len(m.games) > 0 {
		gameID := m.games[m.gameCursor].ID
		if stats, err := m.store.GetGameStats(gameID); err == nil {
			m.stats = stats
		}
		switch m.view {
		case viewPilots:
			if pilots, err := m.store.Leaderboard(gameID, maxRows); err == nil {
				m.pilots = pilots
			}
		case viewRecent:
			if attempts, err := m.store.RecentAttempts(gameID, maxRows); err == nil {
				m.attempts = attempts
			}
		}
	}
	m.updateTableRows()
}

// clearSelected drops every recorded attempt of the selected mode.
func (m *ScoreboardModel) clearSelected() {
	if m.store == nil || len(m.games) == 0 {
		return
	}
	if err := m.store.ClearAttempts(m.games[m.gameCursor].ID); err != nil {
		return
	}
	m.reload()
}

// updateTableRows fills the table from the loaded data.
func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	switch m.view {
	case viewPilots:
		rows = make([]table.Row, len(m.pilots))
		for i, p := range m.pilots {
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				p.Pilot,
				fmt.Sprintf("%d", p.BestLevel),
				fmt.Sprintf("%d", p.Landings),
				fmt.Sprintf("%d", p.Attempts),
			}
		}
	case viewRecent:
		rows = make([]table.Row, len(m.attempts))
		for i, a := range m.attempts {
			rows[i] = table.Row{
				a.Pilot,
				fmt.Sprintf("%d", a.Level),
				a.Outcome,
				fmt.Sprintf("%.1f/%.1f", a.VerticalSpeed, a.HorizontalSpeed),
				verifyLabel(a),
				a.CreatedAt.Format("15:04:05"),
			}
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func verifyLabel(a storage.Attempt) string {
	switch a.Verified {
	case storage.VerifyAccepted:
		return "ok"
	case storage.VerifyRejected:
		return "rejected"
	default:
		return "-"
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor + 1) % len(m.games)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevGame):
			if len(m.games) > 0 {
				m.gameCursor = (m.gameCursor - 1 + len(m.games)) % len(m.games)
				m.reload()
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleView):
			if m.view == viewPilots {
				m.view = viewRecent
			} else {
				m.view = viewPilots
			}
			m.table = m.createTable()
			m.reload()
			return m, nil

		case key.Matches(msg, m.keys.Clear):
			m.clearSelected()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	title := "LEADERBOARD"
	if m.view == viewRecent {
		title = "RECENT ATTEMPTS"
	}
	if len(m.games) > 0 {
		title = fmt.Sprintf("%s - %s", title, m.games[m.gameCursor].Title)
	}

	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(m.statsLine(), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the selected mode.
func (m ScoreboardModel) statsLine() string {
	if m.stats == nil || m.stats.Attempts == 0 {
		return statusStyle.Render("no attempts this session")
	}
	return statusStyle.Render(fmt.Sprintf(
		"%d attempts | %d landed | %d crashed | best level %d | avg impact %.2f",
		m.stats.Attempts, m.stats.Landings, m.stats.Crashes, m.stats.BestLevel, m.stats.AvgImpact,
	))
}

// renderWideLayout renders the scoreboard with sidebar for mode selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Modes\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, g := range m.games {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.gameCursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}

		name := g.Title
		maxLen := sidebarWidth - 6
		if len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		sidebar.WriteString(style.Render(cursor + name))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()),
		"  ",
		tableStyle.Render(m.renderTableContent()),
	)
}

// renderNarrowLayout renders the scoreboard with the current mode above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	if len(m.games) > 0 {
		b.WriteString(centerText(fmt.Sprintf("< %s >", m.games[m.gameCursor].Title), m.width))
		b.WriteString("\n\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or an empty message.
func (m ScoreboardModel) renderTableContent() string {
	if len(m.table.Rows()) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No attempts recorded yet.\nFly a mission to get on the board!")
	}

	return m.table.View()
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
