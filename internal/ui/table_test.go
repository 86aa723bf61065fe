package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	got := TruncateTableCell("Hello\nWorld\r\nAgain\tTab")

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellLimitsWidth(t *testing.T) {
	got := TruncateTableCell(strings.Repeat("a", tableCellMaxWidth+10))

	if len([]rune(got)) != tableCellMaxWidth {
		t.Fatalf("expected %d runes, got %d: %q", tableCellMaxWidth, len([]rune(got)), got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestFormatTableIncludesHeadersAndRows(t *testing.T) {
	out := FormatTable([]string{"ID", "DOMAIN"}, [][]string{
		{"abc123", "Python"},
		{"def456", "System\nDesign"},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "ID") || !strings.Contains(lines[0], "DOMAIN") {
		t.Fatalf("expected header line, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "System Design") {
		t.Fatalf("expected flattened cell, got %q", lines[2])
	}
}
