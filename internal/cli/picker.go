package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hausweber/heatnet/pkg/store"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// runListModel is the bubbletea model for interactive run selection.
type runListModel struct {
	runs     []*store.RunRecord
	cursor   int
	selected *store.RunRecord
	height   int
	offset   int
}

func newRunListModel(runs []*store.RunRecord) runListModel {
	return runListModel{runs: runs, height: 15}
}

func (m runListModel) Init() tea.Cmd {
	return nil
}

func (m runListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.runs)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.selected = m.runs[m.cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m runListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Run"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.runs) {
		end = len(m.runs)
	}

	for i := m.offset; i < end; i++ {
		rec := m.runs[i]
		label := rec.Label
		if label == "" {
			label = "(unlabeled)"
		}
		line := fmt.Sprintf("%s  %s  %s",
			rec.ID[:8],
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			label)

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + line))
		} else {
			b.WriteString(listNormalStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.runs) > m.height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.runs))))
	}
	return b.String()
}

// pickRun shows the interactive run picker and returns the chosen record,
// or nil if the user quit without selecting.
func pickRun(runs []*store.RunRecord) (*store.RunRecord, error) {
	model, err := tea.NewProgram(newRunListModel(runs)).Run()
	if err != nil {
		return nil, fmt.Errorf("run picker: %w", err)
	}
	final, ok := model.(runListModel)
	if !ok {
		return nil, nil
	}
	return final.selected, nil
}
