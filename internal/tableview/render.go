package tableview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	oddRowStyle = cellStyle.Foreground(lipgloss.Color("245"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderTable draws the current page as a terminal table followed by a
// one-line summary of the page, the row count and any active filter.
func (v *View) RenderTable() string {
	headers := make([]string, 0, len(v.cfg.Columns)+1)
	headers = append(headers, "ID")
	for _, col := range v.cfg.Columns {
		label := col.Label
		if col.Key == v.sortKey {
			if v.sortDir == Asc {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		headers = append(headers, label)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row%2 == 1:
				return oddRowStyle
			default:
				return cellStyle
			}
		})

	for _, rec := range v.PageRows() {
		cells := make([]string, 0, len(headers))
		cells = append(cells, shortID(rec.GetID()))
		for _, col := range v.cfg.Columns {
			cells = append(cells, displayText(rec, col))
		}
		t.Row(cells...)
	}

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(v.footer()))
	return b.String()
}

func (v *View) footer() string {
	size := "all"
	if v.pageSize != PageSizeAll {
		size = fmt.Sprintf("%d", v.pageSize)
	}
	line := fmt.Sprintf("%s: page %d of %d, %d rows, %s per page", v.cfg.Title, v.Page(), v.TotalPages(), v.Total(), size)
	if pills := v.SelectedPills(); len(pills) > 0 {
		line += fmt.Sprintf(", %s: %s", v.cfg.PillField, strings.Join(pills, ", "))
	}
	return line
}

// shortID keeps UUIDs readable in a terminal; edit and delete accept any
// unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
