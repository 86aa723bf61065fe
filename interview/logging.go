package interview

import (
	"fmt"
	"io"
	"strings"

	"github.com/amonks/interview/internal/ui"
	"github.com/amonks/interview/sandbox"
	"github.com/charmbracelet/lipgloss"
)

// Logger receives the user-facing events of a practice session.
type Logger interface {
	Question(QuestionLog)
	Execution(ExecutionLog)
	Feedback(FeedbackLog)
	Summary(Summary)
}

// QuestionLog announces a question.
type QuestionLog struct {
	Number   int
	Total    int
	Question Question
}

// ExecutionLog reports a sandbox run.
type ExecutionLog struct {
	Result sandbox.Result
}

// FeedbackLog reports an evaluation.
type FeedbackLog struct {
	Feedback Feedback
	Average  float64
}

// NopLogger discards every event.
type NopLogger struct{}

func (NopLogger) Question(QuestionLog)   {}
func (NopLogger) Execution(ExecutionLog) {}
func (NopLogger) Feedback(FeedbackLog)   {}
func (NopLogger) Summary(Summary)        {}

// ConsoleLogger writes styled session blocks to a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	headerStyle lipgloss.Style
	okStyle     lipgloss.Style
	failStyle   lipgloss.Style
	started     bool
}

// NewConsoleLogger builds a styled logger writing to writer.
func NewConsoleLogger(writer io.Writer) *ConsoleLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &ConsoleLogger{
		writer:      writer,
		headerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		okStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		failStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
}

// ResetSpacing clears entry spacing so the next block is adjacent.
func (logger *ConsoleLogger) ResetSpacing() {
	if logger == nil {
		return
	}
	logger.started = false
}

// Question prints the question header and body. Coding problems are
// rendered as markdown.
func (logger *ConsoleLogger) Question(entry QuestionLog) {
	label := fmt.Sprintf("Question %d of %d", entry.Number, entry.Total)
	if entry.Question.Coding {
		label += fmt.Sprintf(" (%s)", entry.Question.Language)
	}
	body := formatLogBody(entry.Question.Text, documentIndent)
	if entry.Question.Coding {
		body = formatMarkdownBody(entry.Question.Text, documentIndent)
	}
	logger.writeBlock(logger.headerStyle.Render(label+":"), body)
}

// Execution prints the outcome of a sandbox run.
func (logger *ConsoleLogger) Execution(entry ExecutionLog) {
	result := entry.Result
	status := logger.okStyle.Render("ok")
	if !result.Succeeded {
		status = logger.failStyle.Render(strings.ReplaceAll(string(result.Kind), "_", " "))
	}
	label := fmt.Sprintf("Execution (%s, %s):", status, ui.FormatDurationShort(result.Duration))
	output := result.Output()
	if strings.TrimSpace(output) == "" {
		output = "(no output)"
	}
	logger.writeBlock(
		formatLogLabel(logger.headerStyle.Render(label), 0),
		IndentBlock(normalizeLogBody(output), documentIndent),
	)
}

// Feedback prints the score and rendered feedback.
func (logger *ConsoleLogger) Feedback(entry FeedbackLog) {
	label := fmt.Sprintf("Feedback (score %d/%d, average %.1f):", entry.Feedback.Score, MaxScore, entry.Average)
	if !entry.Feedback.Relevant {
		label = "Feedback:"
	}
	logger.writeBlock(
		logger.headerStyle.Render(label),
		formatMarkdownBody(entry.Feedback.Text, documentIndent),
	)
}

// Summary prints the final scorecard and badge.
func (logger *ConsoleLogger) Summary(summary Summary) {
	lines := []string{
		fmt.Sprintf("Answered: %d of %d", summary.Answered, summary.Total),
		fmt.Sprintf("Score: %d/%d (%.0f%%)", summary.TotalScore, summary.MaxScore, summary.Percentage),
		fmt.Sprintf("Average: %.2f", summary.Average),
		"",
		"Badge: " + summary.Badge.Title,
		ReflowParagraphs(summary.Badge.Message, lineWidth-documentIndent),
	}
	logger.writeBlock(
		logger.headerStyle.Render("Session complete:"),
		IndentBlock(strings.Join(lines, "\n"), documentIndent),
	)
}

func (logger *ConsoleLogger) writeBlock(lines ...string) {
	if len(lines) == 0 {
		return
	}
	if logger.started {
		fmt.Fprintln(logger.writer)
	}
	logger.started = true
	for _, line := range lines {
		fmt.Fprintln(logger.writer, line)
	}
}

func normalizeLogBody(value string) string {
	value = strings.TrimRight(value, "\r\n")
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatLogLabel(label string, indent int) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	return IndentBlock(label, indent)
}

func formatLogBody(body string, indent int) string {
	return IndentBlock(ReflowParagraphs(normalizeLogBody(body), lineWidth-indent), indent)
}

func formatMarkdownBody(body string, indent int) string {
	rendered := RenderMarkdown(normalizeLogBody(body), lineWidth-indent)
	if strings.TrimSpace(rendered) == "" {
		rendered = "-"
	}
	return IndentBlock(rendered, indent)
}
