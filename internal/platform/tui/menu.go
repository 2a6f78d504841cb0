package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tilematch/internal/config"
	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/games/tilematch"
	"github.com/vovakirdan/tilematch/internal/registry"
	"github.com/vovakirdan/tilematch/internal/storage"
)

// campaignPresets are the presets the campaign entry cycles through.
// Practice is its own game.
var campaignPresets = []config.Preset{
	config.PresetCampaign,
	config.PresetRelaxed,
	config.PresetSpeedrun,
}

// MenuItem represents a selectable game in the menu.
type MenuItem struct {
	GameID    string
	Title     string
	HighScore int
	presetIdx int
	presets   []config.Preset
}

// Preset returns the preset currently chosen for the item.
func (it MenuItem) Preset() config.Preset {
	if len(it.presets) == 0 {
		return config.PresetCampaign
	}
	return it.presets[it.presetIdx]
}

// MenuModel is the Bubble Tea model for the game picker menu.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	profile        string
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	theme          Theme
	quitting       bool
	selected       *MenuItem // Set when user selects a game
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, profile string, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))

	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if g.ID == tilematch.GameID {
			item.presets = campaignPresets
		}
		if store != nil {
			if best, err := store.HighScore(g.ID); err == nil {
				item.HighScore = best
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		cursor:    0,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		profile:   profile,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		theme:     GetTheme(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft, MenuActionRight:
		if len(m.items) == 0 {
			break
		}
		item := &m.items[m.cursor]
		if n := len(item.presets); n > 1 {
			step := 1
			if action == MenuActionLeft {
				step = n - 1
			}
			item.presetIdx = (item.presetIdx + step) % n
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit // Exit menu to show scoreboard
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("  T I L E   M A T C H  "), m.width))
	b.WriteString("\n\n")

	subtitle := "Select a game"
	if m.profile != "" {
		subtitle += "  (profile: " + m.theme.MenuValue.Render(m.profile) + ")"
	}
	b.WriteString(centerText(m.theme.MenuDescription.Render(subtitle), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		style := m.theme.MenuItemNormal
		if i == m.cursor {
			cursor = "> "
			style = m.theme.MenuItemActive
		}

		line := style.Render(cursor + item.Title)
		if len(item.presets) > 0 {
			line += " " + m.theme.MenuValue.Render("< "+string(item.Preset())+" >")
		}
		if item.HighScore > 0 {
			line += m.theme.MenuDescription.Render(fmt.Sprintf("  best %d", item.HighScore))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Preset  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(m.theme.HUDControls.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width. Styled text is measured
// without its escape sequences.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Preset          config.Preset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, profile string, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, profile, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		return result, nil
	}

	if m.IsQuitting() {
		result.Quit = true
		return result, nil
	}

	if m.Selected() != nil {
		result.GameID = m.Selected().GameID
		result.Preset = m.Selected().Preset()
	} else {
		result.Quit = true
	}

	return result, nil
}
