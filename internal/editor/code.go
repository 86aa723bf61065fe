package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"
)

// ErrEmptySubmission indicates the editor was closed without any code.
var ErrEmptySubmission = errors.New("no code written")

// CodeData describes the file a candidate edits to answer a coding question.
type CodeData struct {
	// Language is a sandbox language name such as "python" or "cpp".
	Language string
	// Extension is the file extension, including the dot.
	Extension string
	// Problem is shown above the marker as a comment.
	Problem string
	// Starter is placed below the marker.
	Starter string
}

const markerText = "---- write your solution below this line ----"

var codeTemplate = template.Must(template.New("code").Funcs(template.FuncMap{
	"commented": func(prefix, text string) string {
		lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(prefix+" "+line, " ")
		}
		return strings.Join(lines, "\n")
	},
}).Parse(`{{ commented .Prefix .Problem }}
{{ .Prefix }} {{ .Marker }}
{{ .Starter }}`))

// CommentPrefix returns the line comment marker for lang.
func CommentPrefix(lang string) string {
	switch lang {
	case "python":
		return "#"
	case "sql":
		return "--"
	default:
		return "//"
	}
}

// RenderCode renders the editable answer file.
func RenderCode(data CodeData) (string, error) {
	var buf bytes.Buffer
	err := codeTemplate.Execute(&buf, struct {
		CodeData
		Prefix string
		Marker string
	}{data, CommentPrefix(data.Language), markerText})
	if err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParseCode returns the code below the marker line, or the whole content when
// the marker was deleted.
func ParseCode(content string) (string, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if _, after, ok := strings.Cut(content, markerText+"\n"); ok {
		content = after
	} else if _, after, ok := strings.Cut(content, markerText); ok {
		content = after
	}
	content = strings.TrimRight(content, "\n") + "\n"
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptySubmission
	}
	return strings.TrimLeft(content, "\n"), nil
}

// EditCode writes the answer file to a temp file, opens it in the editor,
// and returns the parsed code.
func EditCode(data CodeData) (string, error) {
	rendered, err := RenderCode(data)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", "iv-answer-*"+data.Extension)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()
	defer os.Remove(path)

	if _, err := file.WriteString(rendered); err != nil {
		file.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(path); err != nil {
		return "", err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read temp file: %w", err)
	}
	return ParseCode(string(content))
}
