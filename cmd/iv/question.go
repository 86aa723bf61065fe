package main

import (
	"fmt"

	"github.com/amonks/interview/interview"
	"github.com/amonks/interview/sandbox"
	"github.com/spf13/cobra"
)

var questionCmd = &cobra.Command{
	Use:   "question",
	Short: "Print one generated interview question",
	Args:  cobra.NoArgs,
	RunE:  runQuestion,
}

var (
	questionDomain string
	questionCoding bool
	questionLang   string
)

func init() {
	rootCmd.AddCommand(questionCmd)

	questionCmd.Flags().StringVar(&questionDomain, "domain", "", "Practice domain (see 'iv help domains')")
	questionCmd.Flags().BoolVar(&questionCoding, "coding", false, "Ask a coding problem instead of a conceptual question")
	questionCmd.Flags().StringVar(&questionLang, "lang", "", "Language for coding problems (default from domain)")
	addLanguageFlagAliases(questionCmd)
}

func runQuestion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	domain, err := resolveDomain(questionDomain, cfg)
	if err != nil {
		return err
	}
	var lang sandbox.Language
	if questionLang != "" {
		if lang, err = sandbox.ParseLanguage(questionLang); err != nil {
			return err
		}
	}

	iv, err := newInterviewer(cfg, false)
	if err != nil {
		return err
	}

	var q interview.Question
	if questionCoding {
		q, err = iv.GenerateCodingQuestion(cmd.Context(), domain, lang)
	} else {
		q, err = iv.GenerateQuestion(cmd.Context(), domain)
	}
	if err != nil {
		return fmt.Errorf("generate question: %w", err)
	}

	interview.NewConsoleLogger(cmd.OutOrStdout()).Question(interview.QuestionLog{Number: 1, Total: 1, Question: q})
	return nil
}
