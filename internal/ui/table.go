package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	internalstrings "github.com/amonks/interview/internal/strings"
)

const tableCellMaxWidth = 50

var (
	headerStyle = lipgloss.NewStyle().Bold(true).PaddingRight(2)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// FormatTable renders headers and rows as a borderless aligned table.
func FormatTable(headers []string, rows [][]string) string {
	normalized := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = TruncateTableCell(cell)
		}
		normalized = append(normalized, cells)
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(normalized...)

	return strings.TrimRight(t.String(), " \n") + "\n"
}

// TruncateTableCell flattens line breaks and limits a cell's width.
func TruncateTableCell(value string) string {
	value = internalstrings.NormalizeWhitespace(value)
	if lipgloss.Width(value) <= tableCellMaxWidth {
		return value
	}
	runes := []rune(value)
	return string(runes[:tableCellMaxWidth-1]) + "…"
}
