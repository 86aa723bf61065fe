package interview

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	internalstrings "github.com/amonks/interview/internal/strings"
	"github.com/amonks/interview/sandbox"
)

const (
	questionTemplateName         = "question.tmpl"
	codingQuestionTemplateName   = "coding-question.tmpl"
	answerRelevanceTemplateName  = "answer-relevance.tmpl"
	answerEvaluationTemplateName = "answer-evaluation.tmpl"
	codeRelevanceTemplateName    = "code-relevance.tmpl"
	codeEvaluationTemplateName   = "code-evaluation.tmpl"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// PromptData supplies values for interview prompt templates.
type PromptData struct {
	Domain   string
	Language sandbox.Language
	Previous []string

	Question string
	Answer   string

	Code      string
	Output    string
	Succeeded bool
	Guidance  string
}

// TemplateNames lists the prompt templates that can be overridden.
func TemplateNames() []string {
	return []string{
		questionTemplateName,
		codingQuestionTemplateName,
		answerRelevanceTemplateName,
		answerEvaluationTemplateName,
		codeRelevanceTemplateName,
		codeEvaluationTemplateName,
	}
}

// LoadPrompt returns the named template, preferring a file of the same name
// in overrideDir.
func LoadPrompt(overrideDir, name string) (string, error) {
	if internalstrings.IsBlank(name) {
		return "", fmt.Errorf("prompt name is required")
	}

	if overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(overrideDir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt override: %w", err)
		}
	}

	data, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("read default prompt: %w", err)
	}
	return string(data), nil
}

// RenderPrompt loads and executes the named template.
func RenderPrompt(overrideDir, name string, data PromptData) (string, error) {
	contents, err := LoadPrompt(overrideDir, name)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(contents)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", name, err)
	}

	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return out.String(), nil
}

func languageGuidance(lang sandbox.Language) string {
	switch lang {
	case sandbox.LanguagePython:
		return "PEP 8 style, pythonic idioms, efficiency, and exception handling"
	case sandbox.LanguageJava:
		return "Java naming conventions, object-oriented design, use of the collections framework, and exception handling"
	case sandbox.LanguageJavaScript:
		return "modern ES6+ syntax, asynchronous patterns, and error handling"
	case sandbox.LanguageCpp:
		return "C++ conventions, memory management, use of the STL, and performance"
	default:
		return "general best practices, algorithmic efficiency, and error handling"
	}
}
