// internal/report/viewer.go
package report

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tohyewhong/qagredo-local/internal/pipeline"
	"github.com/tohyewhong/qagredo-local/internal/util"
)

const (
	viewerHeaderHeight = 1
	viewerFooterHeight = 1
)

type viewerModel struct {
	viewport viewport.Model
	title    string
	content  string
}

func newViewerModel(title, content string) viewerModel {
	vp := viewport.New(100, 30)
	vp.SetContent(content)
	return viewerModel{viewport: vp, title: title, content: content}
}

func (m viewerModel) Init() tea.Cmd {
	return nil
}

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - viewerHeaderHeight - viewerFooterHeight
		m.viewport.SetContent(util.WrapToWidth(m.content, msg.Width))
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) View() string {
	header := headerStyle.Render(m.title)
	footer := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).
		Render(fmt.Sprintf(" %3.f%%  (arrows/pgup/pgdn to scroll, q to quit)", m.viewport.ScrollPercent()*100))
	return header + "\n" + m.viewport.View() + "\n" + footer
}

// View pages the rendered grading report in an interactive viewport.
func View(run *pipeline.RunResult) error {
	title := fmt.Sprintf("Grading report - %s/%s", run.Provider, run.Model)
	program := tea.NewProgram(newViewerModel(title, Render(run)), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("report viewer: %w", err)
	}
	return nil
}
