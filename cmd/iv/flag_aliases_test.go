package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestLanguageFlagAlias(t *testing.T) {
	var lang string
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&lang, "lang", "", "")
	addLanguageFlagAliases(cmd)

	if err := cmd.Flags().Parse([]string{"--language", "cpp"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if lang != "cpp" {
		t.Fatalf("expected --language to set lang, got %q", lang)
	}
}

func TestRunAndPracticeAcceptLanguageAlias(t *testing.T) {
	for _, cmd := range []*cobra.Command{runCmd, practiceCmd, questionCmd} {
		if cmd.Flags().Lookup("language") == nil {
			t.Fatalf("expected %s to resolve --language", cmd.Name())
		}
	}
}
