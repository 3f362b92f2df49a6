package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tjt7a/anml/pkg/automata"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// ElementBrowserModel - Interactive element browser
// =============================================================================

// ElementBrowserModel is the bubbletea model for browsing a network's
// elements. Enter jumps to the selected element's first successor and
// backspace returns to where the jump started.
type ElementBrowserModel struct {
	Network *automata.Network
	Rows    []elementRow
	Cursor  int
	Height  int
	Offset  int

	index   map[string]int
	history []int
}

// newElementBrowser creates a browser over n's elements.
func newElementBrowser(n *automata.Network) ElementBrowserModel {
	rows := elementRows(n)
	index := make(map[string]int, len(rows))
	for i, r := range rows {
		index[r.id] = i
	}
	return ElementBrowserModel{
		Network: n,
		Rows:    rows,
		Height:  15,
		index:   index,
	}
}

func (m ElementBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ElementBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.moveTo(m.Cursor - 1)
		case "down", "j":
			m.moveTo(m.Cursor + 1)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.Rows) - 1)
		case "enter", "l":
			m.follow()
		case "backspace", "h":
			if n := len(m.history); n > 0 {
				prev := m.history[n-1]
				m.history = m.history[:n-1]
				m.moveTo(prev)
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 12
		if m.Height < 5 {
			m.Height = 5
		}
		m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor at i, clamped, and scrolls it into view.
func (m *ElementBrowserModel) moveTo(i int) {
	if len(m.Rows) == 0 {
		return
	}
	i = max(0, min(i, len(m.Rows)-1))
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// follow jumps to the first successor of the selected element.
func (m *ElementBrowserModel) follow() {
	if len(m.Rows) == 0 {
		return
	}
	h, ok := m.Network.Lookup(m.Rows[m.Cursor].id)
	if !ok {
		return
	}
	succ := m.Network.SuccessorIDs(h)
	if len(succ) == 0 {
		return
	}
	m.history = append(m.history, m.Cursor)
	m.moveTo(m.index[succ[0]])
}

func (m ElementBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Network " + m.Network.ID()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ follow edge  ⌫ back  q quit"))
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(listDimStyle.Render("  (no elements)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-16s %-8s %s", cursor, r.id, r.kind, r.match)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case r.kind == "counter":
			b.WriteString(styleCounter.Render(line))
		case r.report != "":
			b.WriteString(styleReport.Render(line))
		case r.start != "":
			b.WriteString(styleStart.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(detailBoxStyle.Render(m.detail(m.Rows[m.Cursor])))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))

	return b.String()
}

func (m ElementBrowserModel) detail(r elementRow) string {
	lines := []string{
		"id         " + r.id,
		"kind       " + r.kind,
		"match      " + r.match,
	}
	if r.raw != "" {
		lines = append(lines, "raw        "+r.raw)
	}
	if r.start != "" {
		lines = append(lines, "start      "+r.start)
	}
	if r.report != "" {
		lines = append(lines, "reportcode "+r.report)
	}
	activates := r.activates
	if activates == "" {
		activates = "—"
	}
	lines = append(lines, "activates  "+activates)
	return strings.Join(lines, "\n")
}
