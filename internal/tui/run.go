package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nexus-forensics/nexus/internal/types"
)

// Run opens the explorer on res and blocks until the user quits. The last
// category filter is restored from and saved to the user's preferences.
func Run(input string, res types.DetectionResult) error {
	prefs := LoadPrefs()
	m := NewModel(input, res)
	m.restoreFilter(prefs.Filter)

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	if fm, ok := final.(Model); ok {
		prefs.Filter = string(fm.filter)
		_ = SavePrefs(prefs)
	}
	return nil
}

// restoreFilter applies a saved filter if the result has that category.
func (m *Model) restoreFilter(saved string) {
	for _, c := range m.filterCycle() {
		if string(c) == saved {
			m.filter = c
			m.applyFilter()
			return
		}
	}
}
