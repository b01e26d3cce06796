package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	bytesStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// rows returns index, value and raw bytes of every element.
func (d *dump) rows() [][]string {
	raw := d.ga.Bytes()
	size := d.ga.ElementSize()
	out := make([][]string, len(d.values))
	for i, v := range d.values {
		out[i] = []string{
			strconv.Itoa(i),
			v,
			hex.EncodeToString(raw[i*size : (i+1)*size]),
		}
	}
	return out
}

func (d *dump) summary() string {
	return fmt.Sprintf("%s[%d] from %s, %d-byte elements at 0x%x (header 0x%x)",
		d.kind.name, d.ga.Len(), d.source, d.ga.ElementSize(), uint32(d.ga.Data()), uint32(d.ga.Handle()))
}

func renderTable(d *dump) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 2:
				return bytesStyle
			default:
				return cellStyle
			}
		}).
		Headers("#", "VALUE", "BYTES").
		Rows(d.rows()...)

	return titleStyle.Render("arraydump") + " " + infoStyle.Render(d.summary()) + "\n" + t.String()
}

func renderPlain(w io.Writer, d *dump) {
	fmt.Fprintln(w, d.summary())
	for _, r := range d.rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r[0], r[1], r[2])
	}
}
