package interview

import (
	"errors"
	"strings"

	"github.com/amonks/interview/internal/validation"
	"github.com/amonks/interview/sandbox"
)

// ErrUnknownDomain indicates a domain name is not in Domains().
var ErrUnknownDomain = errors.New("unknown domain")

var domainLanguages = []struct {
	domain   string
	language sandbox.Language
}{
	{"Python", sandbox.LanguagePython},
	{"Java", sandbox.LanguageJava},
	{"C++", sandbox.LanguageCpp},
	{"JavaScript", sandbox.LanguageJavaScript},
	{"React", sandbox.LanguageJavaScript},
	{"Node.js", sandbox.LanguageJavaScript},
	{"Full Stack", sandbox.LanguageJavaScript},
	{"Data Science", sandbox.LanguagePython},
	{"Machine Learning", sandbox.LanguagePython},
	{"DevOps", sandbox.LanguagePython},
	{"Cloud Computing", sandbox.LanguagePython},
	{"Database", "sql"},
	{"System Design", "pseudocode"},
	{"Algorithms", sandbox.LanguagePython},
}

// Domains lists the practice domains in display order.
func Domains() []string {
	domains := make([]string, 0, len(domainLanguages))
	for _, entry := range domainLanguages {
		domains = append(domains, entry.domain)
	}
	return domains
}

// ParseDomain matches name case-insensitively against Domains().
func ParseDomain(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	for _, entry := range domainLanguages {
		if strings.EqualFold(entry.domain, trimmed) {
			return entry.domain, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrUnknownDomain, name, Domains())
}

// LanguageForDomain returns the language coding questions in domain use.
// Database and System Design map to languages the sandbox cannot execute.
// Unknown domains default to python.
func LanguageForDomain(domain string) sandbox.Language {
	for _, entry := range domainLanguages {
		if entry.domain == domain {
			return entry.language
		}
	}
	return sandbox.LanguagePython
}
