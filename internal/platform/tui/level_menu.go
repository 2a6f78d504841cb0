package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilematch/internal/core"
	"github.com/vovakirdan/tilematch/internal/games/tilematch"
)

// LevelSelection holds the user's selection from the level picker.
type LevelSelection struct {
	Level int // 0 = start from beginning, 1-N = specific level
}

// LevelMenuModel is the level picker shown before a run.
type LevelMenuModel struct {
	cursor       int
	width        int
	height       int
	keyMapper    *KeyMapper
	levelNames   []string
	selection    LevelSelection
	choosing     bool
	quitting     bool
	back         bool
	scrollOffset int
	theme        Theme
}

// NewLevelMenuModel creates a level selection model for the given names.
func NewLevelMenuModel(levelNames []string, width, height int) LevelMenuModel {
	return LevelMenuModel{
		cursor:     0,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
		levelNames: levelNames,
		choosing:   true,
		theme:      GetTheme(),
	}
}

// Init initializes the model.
func (m LevelMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil
	}
	return m, nil
}

func (m LevelMenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
			m.updateScroll()
		}
	case MenuActionDown:
		if m.cursor < len(m.levelNames) {
			m.cursor++
			m.updateScroll()
		}
	case MenuActionSelect:
		if len(m.levelNames) == 0 {
			return m, nil
		}
		m.choosing = false
		m.selection = LevelSelection{Level: m.cursor}
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// visibleItems is the number of level rows that fit below the header.
func (m LevelMenuModel) visibleItems() int {
	return max(3, m.height-10) // Account for header and footer
}

// updateScroll adjusts scroll offset to keep cursor visible.
func (m *LevelMenuModel) updateScroll() {
	// Row 0 is "Start from Beginning"; level i sits on row i.
	row := max(0, m.cursor-1)
	visible := m.visibleItems()

	if row < m.scrollOffset {
		m.scrollOffset = row
	} else if row >= m.scrollOffset+visible {
		m.scrollOffset = row - visible + 1
	}
}

// View renders the level selection.
func (m LevelMenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(m.theme.MenuTitle.Render("T I L E   M A T C H"), m.width))
	b.WriteString("\n\n")

	if len(m.levelNames) == 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("No levels found. Check the levels directory."), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(m.theme.HUDControls.Render("Esc: Back  |  Q: Quit"), m.width))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(centerText(m.theme.MenuDescription.Render("Select a level:"), m.width))
	b.WriteString("\n\n")

	if m.scrollOffset == 0 {
		b.WriteString(centerText(m.itemLine(0, "Start from Beginning"), m.width))
		b.WriteString("\n")
	}

	endIdx := min(m.scrollOffset+m.visibleItems(), len(m.levelNames))
	for i := m.scrollOffset; i < endIdx; i++ {
		line := m.itemLine(i+1, fmt.Sprintf("%2d. %s", i+1, m.levelNames[i]))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Scroll indicators
	if m.scrollOffset > 0 {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more above ..."), m.width))
		b.WriteString("\n")
	}
	if endIdx < len(m.levelNames) {
		b.WriteString(centerText(m.theme.MenuDescription.Render("... more below ..."), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := m.theme.HUDControls.Render("Up/Down: Navigate  |  Enter: Select  |  Esc: Back  |  Q: Quit")
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

func (m LevelMenuModel) itemLine(row int, text string) string {
	if row == m.cursor {
		return m.theme.MenuItemActive.Render("> " + text)
	}
	return m.theme.MenuItemNormal.Render("  " + text)
}

// Selected returns the selection, or nil if still choosing.
func (m LevelMenuModel) Selected() *LevelSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m LevelMenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelMenuModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the level picker for the current level pack and
// returns the selection, nil when the user backed out.
func RunLevelSelector(cfg core.RuntimeConfig) (*LevelSelection, core.RuntimeConfig, error) {
	model := NewLevelMenuModel(tilematch.LevelNames(), cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(LevelMenuModel)
	if !ok {
		return nil, cfg, nil
	}
	cfg.ScreenW, cfg.ScreenH = m.width, m.height

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
