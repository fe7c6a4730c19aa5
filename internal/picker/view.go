package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alisonjenkins/tmux-sessionizer/internal/domain"
)

var (
	styleSelected = lipgloss.NewStyle().Reverse(true)
	styleHeader   = lipgloss.NewStyle().Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleOverlay  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// View implements bubbletea.Model.View, dispatching by state. The
// layout goes two-pane horizontal when a preview is configured and the
// pane is at least twice as many columns wide as it is rows tall,
// vertical (input at the bottom) otherwise.
func (m *Model) View() string {
	switch m.state {
	case stateLoading:
		return styleOverlay.Render("Loading: " + m.loadingMessage)
	case stateError:
		return styleOverlay.Render(styleError.Render("Error: " + m.errorMessage))
	case stateModeSelect:
		return m.renderModeSelect()
	default:
		return m.renderNormal()
	}
}

func (m *Model) renderNormal() string {
	matched, total, items := m.matcher.Snapshot()
	suffix := ""
	if m.streamOpen {
		suffix = " (scanning…)"
	}
	header := styleHeader.Render(fmt.Sprintf("[%s] %d/%d%s", m.mode.Key(), matched, total, suffix))

	idx, hasSel := m.sel.selected()
	listBody := renderItemLines(items, idx, hasSel, m.inputAtBottom())

	input := renderInputLine(m.editor, m.list.Width)

	var body string
	if m.inputAtBottom() {
		body = lipgloss.JoinVertical(lipgloss.Left, listBody, input)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, input, listBody)
	}

	if m.deps.Preview != nil && len(items) > 0 && hasSel && idx < len(items) {
		preview := m.deps.Preview(items[idx])
		if m.width >= m.height*2 {
			return lipgloss.JoinHorizontal(lipgloss.Top, header+"\n"+body, preview)
		}
		return header + "\n" + lipgloss.JoinVertical(lipgloss.Left, body, preview)
	}

	return header + "\n" + body
}

// renderItemLines lays the matched items out top-down, or bottom-up
// when the input is anchored at the bottom, so the best match always
// sits adjacent to the input line.
func renderItemLines(items []domain.SessionItem, selIdx int, hasSel bool, bottomUp bool) string {
	lines := make([]string, len(items))
	for i, it := range items {
		line := it.VisibleName
		if hasSel && i == selIdx {
			line = styleSelected.Render(line)
		}
		pos := i
		if bottomUp {
			pos = len(items) - 1 - i
		}
		lines[pos] = line
	}
	return strings.Join(lines, "\n")
}

func renderInputLine(e lineEditor, width int) string {
	return "> " + e.text()
}

func (m *Model) renderModeSelect() string {
	filtered := m.filteredModes()
	idx, hasSel := m.modeSelect.sel.selected()

	lines := make([]string, 0, len(filtered)+1)
	lines = append(lines, "> "+m.modeSelect.editor.text())
	for i, mode := range filtered {
		line := mode.Key()
		if hasSel && i == idx {
			line = styleSelected.Render(line)
		}
		lines = append(lines, line)
	}
	return styleOverlay.Render(strings.Join(lines, "\n"))
}
