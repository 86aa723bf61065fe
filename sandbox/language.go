package sandbox

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/amonks/interview/internal/validation"
)

// Language names a submission language.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJava       Language = "java"
	LanguageJavaScript Language = "javascript"
	LanguageCpp        Language = "cpp"
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"
)

// ErrUnknownLanguage indicates a language name could not be parsed.
var ErrUnknownLanguage = errors.New("unknown language")

// ValidLanguages returns every language the sandbox understands.
func ValidLanguages() []Language {
	return []Language{LanguagePython, LanguageJava, LanguageJavaScript, LanguageCpp, LanguageHTML, LanguageCSS}
}

// Executable reports whether the language produces console output.
func (l Language) Executable() bool {
	switch l {
	case LanguagePython, LanguageJava, LanguageJavaScript, LanguageCpp:
		return true
	}
	return false
}

var languageAliases = map[string]Language{
	"python":     LanguagePython,
	"python3":    LanguagePython,
	"py":         LanguagePython,
	"java":       LanguageJava,
	"javascript": LanguageJavaScript,
	"js":         LanguageJavaScript,
	"node":       LanguageJavaScript,
	"nodejs":     LanguageJavaScript,
	"cpp":        LanguageCpp,
	"c++":        LanguageCpp,
	"cxx":        LanguageCpp,
	"cc":         LanguageCpp,
	"html":       LanguageHTML,
	"css":        LanguageCSS,
}

// ParseLanguage normalizes a user-supplied language name.
func ParseLanguage(name string) (Language, error) {
	if lang, ok := languageAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return lang, nil
	}
	return "", validation.FormatInvalidValueError(ErrUnknownLanguage, Language(name), ValidLanguages())
}

var extensionLanguages = map[string]Language{
	".py":   LanguagePython,
	".java": LanguageJava,
	".js":   LanguageJavaScript,
	".mjs":  LanguageJavaScript,
	".cpp":  LanguageCpp,
	".cc":   LanguageCpp,
	".cxx":  LanguageCpp,
	".html": LanguageHTML,
	".htm":  LanguageHTML,
	".css":  LanguageCSS,
}

// LanguageForExtension infers a language from a file path.
func LanguageForExtension(path string) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}
