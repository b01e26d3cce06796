package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var helpStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#666666"))

type viewerModel struct {
	d     *dump
	table table.Model
}

func newViewerModel(d *dump) *viewerModel {
	rows := d.rows()
	valueWidth, bytesWidth := len("VALUE"), len("BYTES")
	for _, r := range rows {
		valueWidth = max(valueWidth, len(r[1]))
		bytesWidth = max(bytesWidth, len(r[2]))
	}

	trows := make([]table.Row, len(rows))
	for i, r := range rows {
		trows[i] = table.Row(r)
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: max(3, len(strconv.Itoa(len(rows))))},
			{Title: "VALUE", Width: min(valueWidth, 48)},
			{Title: "BYTES", Width: min(bytesWidth, 32)},
		}),
		table.WithRows(trows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 20)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#7D56F4")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4"))
	t.SetStyles(s)

	return &viewerModel{d: d, table: t}
}

func (m *viewerModel) Init() tea.Cmd {
	return nil
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *viewerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("arraydump"))
	b.WriteString(" ")
	b.WriteString(infoStyle.Render(m.d.summary()))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("↑/↓ move • q quit"))
	return b.String()
}

func runInteractive(d *dump) error {
	p := tea.NewProgram(newViewerModel(d), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
