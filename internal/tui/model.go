package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nexus-forensics/nexus/internal/report"
	"github.com/nexus-forensics/nexus/internal/types"
)

var (
	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)

	popupStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(1, 4)

	strongStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	weakStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const defaultStatus = "q: quit | ?: help | j/k: navigate | f: filter | c: copy"

type statusMsg string

// Model is the state of the candidate explorer.
type Model struct {
	table    table.Model
	viewport viewport.Model
	result   types.DetectionResult
	input    string

	filter  types.Category // "" shows every category
	visible []types.Candidate

	width, height int
	ready         bool
	quitting      bool
	showHelp      bool
	statusMessage string

	// copy writes to the system clipboard; replaced in tests.
	copy func(string) error
}

// NewModel builds an explorer over one detection result.
func NewModel(input string, res types.DetectionResult) Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Candidate", Width: 32},
		{Title: "Score", Width: 8},
		{Title: "Category", Width: 18},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("15")).
		Bold(true).
		Padding(0, 1).
		Align(lipgloss.Left)
	s.Selected = lipgloss.NewStyle().
		Foreground(lipgloss.Color("232")).
		Background(lipgloss.Color("208")).
		Bold(true).
		Padding(0, 1)
	s.Cell = lipgloss.NewStyle().Padding(0, 1)
	t.SetStyles(s)

	m := Model{
		table:         t,
		result:        res,
		input:         input,
		statusMessage: defaultStatus,
		copy:          clipboard.WriteAll,
	}
	m.applyFilter()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// filterCycle is "" followed by every category present in the result, in
// display order.
func (m *Model) filterCycle() []types.Category {
	present := map[types.Category]bool{}
	for _, c := range m.result.Candidates {
		present[c.Category] = true
	}
	cycle := []types.Category{""}
	for _, cat := range types.Categories() {
		if present[cat] {
			cycle = append(cycle, cat)
		}
	}
	return cycle
}

func (m *Model) nextFilter() {
	cycle := m.filterCycle()
	next := 0
	for i, c := range cycle {
		if c == m.filter {
			next = (i + 1) % len(cycle)
			break
		}
	}
	m.filter = cycle[next]
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.visible = nil
	for _, c := range m.result.Candidates {
		if m.filter == "" || c.Category == m.filter {
			m.visible = append(m.visible, c)
		}
	}
	rows := make([]table.Row, len(m.visible))
	for i, c := range m.visible {
		rows[i] = table.Row{
			fmt.Sprint(i + 1),
			report.DisplayName(c.Name),
			fmt.Sprintf("%.1f%%", c.Score*100),
			report.CategoryLabel(c.Category),
		}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	m.updateViewportContent()
}

func (m *Model) selected() *types.Candidate {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return nil
	}
	return &m.visible[i]
}

func (m *Model) copySelected() tea.Cmd {
	c := m.selected()
	if c == nil {
		return func() tea.Msg { return statusMsg("No candidate selected") }
	}
	if err := m.copy(c.Name); err != nil {
		return func() tea.Msg { return statusMsg(fmt.Sprintf("Clipboard error: %v", err)) }
	}
	name := c.Name
	return func() tea.Msg { return statusMsg(fmt.Sprintf("Copied: %s", name)) }
}

func scoreStyle(score float64) lipgloss.Style {
	switch {
	case score >= 0.85:
		return strongStyle
	case score >= 0.55:
		return mediumStyle
	default:
		return weakStyle
	}
}

// detail renders the pane for one candidate.
func detail(c types.Candidate) string {
	var sb strings.Builder
	tier := report.TierFor(c.Score)
	sb.WriteString(titleStyle.Render(report.DisplayName(c.Name)) + "\n\n")
	fmt.Fprintf(&sb, "%s %s %.1f%%\n", keyStyle.Render("Score:     "), scoreStyle(c.Score).Render(report.Bar(c.Score)), c.Score*100)
	fmt.Fprintf(&sb, "%s %s (%s)\n", keyStyle.Render("Confidence:"), tier.Confidence, tier.Reliability)
	fmt.Fprintf(&sb, "%s %s - %s\n", keyStyle.Render("Category:  "), report.CategoryLabel(c.Category), report.CategoryDescription(c.Category))
	if len(c.Params) > 0 {
		sb.WriteString("\n" + keyStyle.Render("Parameters:") + "\n")
		for _, p := range c.Params {
			fmt.Fprintf(&sb, "  %s: %s\n", p.Key, paramText(p.Value))
		}
	}
	return sb.String()
}

func paramText(v types.ParamValue) string {
	switch v.Kind() {
	case types.KindNumber:
		f, _ := v.Float()
		return fmt.Sprintf("%.4f", f)
	case types.KindList:
		items, _ := v.Strings()
		return strings.Join(items, ", ")
	default:
		return v.String()
	}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	if c := m.selected(); c != nil {
		m.viewport.SetContent(detail(*c))
	} else {
		m.viewport.SetContent("")
	}
	m.viewport.GotoTop()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "?", "h":
			m.showHelp = true
			return m, nil
		case "f":
			m.nextFilter()
			if m.filter == "" {
				m.statusMessage = "Filter: all categories"
			} else {
				m.statusMessage = "Filter: " + report.CategoryLabel(m.filter)
			}
			return m, nil
		case "c", "y":
			return m, m.copySelected()
		case "down", "j", "up", "k":
			m.table, cmd = m.table.Update(msg)
			m.updateViewportContent()
			return m, cmd
		case "g", "home":
			m.table.GotoTop()
			m.updateViewportContent()
			return m, nil
		case "G", "end":
			m.table.GotoBottom()
			m.updateViewportContent()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		nameWidth := max(20, m.width-4-8-18-12)
		cols := m.table.Columns()
		cols[1].Width = nameWidth
		m.table.SetColumns(cols)

		headerHeight := 2
		available := m.height - lipgloss.Height(statusStyle.Render("")) - headerHeight
		tableHeight := max(3, available/2)
		viewportHeight := max(3, available-tableHeight-detailPaneBorderStyle.GetVerticalFrameSize()-1)
		m.table.SetWidth(m.width)
		m.table.SetHeight(tableHeight)
		if m.viewport.Height == 0 {
			m.viewport = viewport.New(m.width, viewportHeight)
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case statusMsg:
		m.statusMessage = string(msg)
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) header() string {
	r := m.result
	input := m.input
	if len([]rune(input)) > 40 {
		input = string([]rune(input)[:40]) + "…"
	}
	filter := "all"
	if m.filter != "" {
		filter = report.CategoryLabel(m.filter)
	}
	return titleStyle.Render("nexus explorer") + fmt.Sprintf(
		" %q | %d chars | entropy %.2f | IC %.4f | %d/%d candidates | filter: %s",
		input, r.InputLength, r.Metrics.Entropy, r.Metrics.IndexOfCoincidence,
		len(m.visible), len(r.Candidates), filter)
}

func helpText() string {
	lines := []string{
		titleStyle.Render("Keys"),
		"",
		keyStyle.Render("j / k") + "   move down / up",
		keyStyle.Render("g / G") + "   first / last candidate",
		keyStyle.Render("f    ") + "   cycle category filter",
		keyStyle.Render("c    ") + "   copy candidate name",
		keyStyle.Render("q    ") + "   quit",
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpText())
	}

	var body string
	if len(m.visible) == 0 {
		body = emptyTextStyle.Width(m.width).Render("\nNo candidates\n")
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.table.View(),
			detailPaneBorderStyle.Width(max(0, m.width-2)).Render(m.viewport.View()),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.header(),
		body,
		statusStyle.Width(m.width).Render(m.statusMessage),
	)
}
