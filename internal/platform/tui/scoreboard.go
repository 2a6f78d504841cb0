package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilematch/internal/registry"
	"github.com/vovakirdan/tilematch/internal/storage"
)

const maxScores = 100 // Runs loaded per game

// scoreboardView selects what the table lists.
type scoreboardView int

const (
	viewRuns     scoreboardView = iota // Best runs of the selected game
	viewProfiles                       // Saved counter of every profile
)

type scoreboardKeys struct {
	Scroll   key.Binding
	NextGame key.Binding
	PrevGame key.Binding
	Profiles key.Binding
	Back     key.Binding
	Quit     key.Binding
}

func (k scoreboardKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.NextGame, k.Profiles, k.Back, k.Quit}
}

func (k scoreboardKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Scroll, k.NextGame, k.PrevGame}, {k.Profiles, k.Back, k.Quit}}
}

func newScoreboardKeys() scoreboardKeys {
	return scoreboardKeys{
		Scroll:   key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "scroll")),
		NextGame: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevGame: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Profiles: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "runs/profiles")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the best runs of each game mode, or the saved
// profile counters.
type ScoreboardModel struct {
	store     *storage.Store
	games     []registry.GameInfo
	game      int
	view      scoreboardView
	empty     bool
	table     table.Model
	help      help.Model
	keys      scoreboardKeys
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a scoreboard. A nil store shows empty tables.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:  store,
		games:  registry.List(),
		help:   help.New(),
		keys:   newScoreboardKeys(),
		width:  width,
		height: height,
	}
	m.reload()
	return m
}

// reload rebuilds the table for the current view and game.
func (m *ScoreboardModel) reload() {
	var columns []table.Column
	var rows []table.Row
	if m.view == viewProfiles {
		columns, rows = m.profileRows()
	} else {
		columns, rows = m.runRows()
	}
	m.empty = len(rows) == 0

	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-9)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	m.table.SetStyles(styles)
}

func (m *ScoreboardModel) runRows() ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Score", Width: 8},
		{Title: "Levels", Width: 7},
		{Title: "Profile", Width: 16},
		{Title: "Date", Width: 14},
	}
	if m.store == nil || len(m.games) == 0 {
		return columns, nil
	}
	runs, err := m.store.TopScores(m.games[m.game].ID, maxScores)
	if err != nil {
		return columns, nil
	}
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			"#" + strconv.Itoa(i+1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Level),
			r.Profile,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return columns, rows
}

func (m *ScoreboardModel) profileRows() ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Profile", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Level", Width: 6},
		{Title: "Updated", Width: 14},
	}
	if m.store == nil {
		return columns, nil
	}
	profiles, err := m.store.Profiles()
	if err != nil {
		return columns, nil
	}
	rows := make([]table.Row, len(profiles))
	for i, p := range profiles {
		rows[i] = table.Row{
			p.Profile,
			strconv.Itoa(p.Score),
			strconv.Itoa(p.Level + 1),
			p.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	return columns, rows
}

func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Profiles):
			if m.view == viewRuns {
				m.view = viewProfiles
			} else {
				m.view = viewRuns
			}
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.NextGame):
			m.cycleGame(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevGame):
			m.cycleGame(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// cycleGame moves to the next or previous game mode. Profiles span every
// mode, so the profile view ignores it.
func (m *ScoreboardModel) cycleGame(step int) {
	if m.view != viewRuns || len(m.games) == 0 {
		return
	}
	m.game = (m.game + step + len(m.games)) % len(m.games)
	m.reload()
}

func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var b strings.Builder
	title := "PROFILES"
	if m.view == viewRuns {
		title = "HIGH SCORES"
		if len(m.games) > 0 {
			title += " - " + m.games[m.game].Title
		}
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.view == viewRuns {
		b.WriteString(centerText(m.renderTabs(), m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boxStyle.Render(m.renderTable())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	idle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	active := idle.Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))

	tabs := make([]string, len(m.games))
	for i, g := range m.games {
		if i == m.game {
			tabs[i] = active.Render(g.Title)
		} else {
			tabs[i] = idle.Render(g.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m ScoreboardModel) renderTable() string {
	if !m.empty {
		return m.table.View()
	}
	msg := "No runs recorded yet.\nClear a level to set a high score!"
	if m.view == viewProfiles {
		msg = "No profiles saved yet.\nPlay the campaign to save a score."
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4).Render(msg)
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	finalModel, err := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
