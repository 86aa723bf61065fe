package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// codeTerminator ends a code block typed on stdin.
const codeTerminator = "."

// readParagraph reads lines until a blank line or EOF. It returns io.EOF only
// when nothing was read.
func readParagraph(reader *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(trimmed) == "" && line != "" {
			if len(lines) > 0 {
				break
			}
		} else if trimmed != "" {
			lines = append(lines, trimmed)
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}

// readCodeBlock reads lines until one containing only codeTerminator or EOF.
func readCodeBlock(reader *bufio.Reader) (string, error) {
	var builder strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if strings.TrimSpace(line) == codeTerminator {
			break
		}
		builder.WriteString(strings.TrimRight(line, "\r\n"))
		if line != "" {
			builder.WriteString("\n")
		}
		if err != nil {
			if errors.Is(err, io.EOF) && strings.TrimSpace(builder.String()) != "" {
				break
			}
			return "", err
		}
	}
	return builder.String(), nil
}

func prompt(w io.Writer, text string) {
	fmt.Fprintf(w, "%s\n> ", text)
}
