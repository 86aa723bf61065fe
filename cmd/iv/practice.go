package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/amonks/interview/internal/config"
	"github.com/amonks/interview/internal/editor"
	"github.com/amonks/interview/internal/recordtui"
	"github.com/amonks/interview/internal/state"
	"github.com/amonks/interview/interview"
	"github.com/amonks/interview/recording"
	"github.com/amonks/interview/sandbox"
	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Run an interactive practice interview",
	Long: `Run an interactive practice interview.

Each question is generated for the chosen domain, answered by typing (end
with a blank line), by voice with --voice, or in code with --coding, and then
scored out of 10. Code is written in $EDITOR when stdin is a terminal;
otherwise it is read from stdin up to a line containing only ".".`,
	Args: cobra.NoArgs,
	RunE: runPractice,
}

var (
	practiceDomain    string
	practiceUser      string
	practiceCoding    bool
	practiceLang      string
	practiceQuestions int
	practiceVoice     bool
)

func init() {
	rootCmd.AddCommand(practiceCmd)

	practiceCmd.Flags().StringVar(&practiceDomain, "domain", "", "Practice domain (see 'iv help domains')")
	practiceCmd.Flags().StringVar(&practiceUser, "user", "", "Name recorded in history (default from config or $USER)")
	practiceCmd.Flags().BoolVar(&practiceCoding, "coding", false, "Ask coding problems instead of conceptual questions")
	practiceCmd.Flags().StringVar(&practiceLang, "lang", "", "Language for coding problems (default from domain)")
	practiceCmd.Flags().IntVarP(&practiceQuestions, "questions", "n", 0, "Number of questions (default from config)")
	practiceCmd.Flags().BoolVar(&practiceVoice, "voice", false, "Answer out loud; recordings are transcribed")
	addLanguageFlagAliases(practiceCmd)
}

// practiceRun holds the collaborators of one practice session.
type practiceRun struct {
	cfg      *config.Config
	iv       *interview.Interviewer
	session  *interview.Session
	console  interview.Logger
	reader   *bufio.Reader
	out      io.Writer
	recorder *recording.Controller
	lang     sandbox.Language
}

func runPractice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	domain, err := resolveDomain(practiceDomain, cfg)
	if err != nil {
		return err
	}
	total := practiceQuestions
	if total <= 0 {
		total = cfg.Interview.Questions
	}

	run := &practiceRun{
		cfg:     cfg,
		console: interview.NewConsoleLogger(cmd.OutOrStdout()),
		reader:  bufio.NewReader(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}
	if practiceCoding {
		run.lang = interview.LanguageForDomain(domain)
		if practiceLang != "" {
			if run.lang, err = sandbox.ParseLanguage(practiceLang); err != nil {
				return err
			}
		}
	}

	if practiceVoice && !practiceCoding {
		if !editor.IsInteractive() {
			return fmt.Errorf("voice answers need an interactive terminal")
		}
		if run.recorder, err = newRecorder(cfg, ""); err != nil {
			return err
		}
		defer run.recorder.Cleanup()
	}

	if run.iv, err = newInterviewer(cfg, run.recorder != nil); err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	run.session, err = interview.StartSession(store, resolveUser(practiceUser, cfg), domain, total)
	if err != nil {
		return err
	}
	logger.Debug().Str("session", run.session.ID()).Str("domain", domain).Int("questions", total).Msg("practice started")

	err = run.loop(cmd.Context())
	if run.session.Summary().Answered > 0 {
		run.console.Summary(run.session.Summary())
	}
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (r *practiceRun) loop(ctx context.Context) error {
	for !r.session.Done() {
		q, err := r.nextQuestion(ctx)
		if err != nil {
			return err
		}
		r.console.Question(interview.QuestionLog{Number: r.session.Number(), Total: r.session.Total(), Question: q})

		if q.Coding {
			err = r.answerCode(ctx, q)
		} else {
			err = r.answerQuestion(ctx, q)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *practiceRun) nextQuestion(ctx context.Context) (interview.Question, error) {
	asked := r.session.Questions()
	if practiceCoding {
		return r.iv.GenerateCodingQuestion(ctx, r.session.Domain(), r.lang, asked...)
	}
	return r.iv.GenerateQuestion(ctx, r.session.Domain(), asked...)
}

func (r *practiceRun) answerQuestion(ctx context.Context, q interview.Question) error {
	for {
		answer, kind, err := r.readAnswer(ctx)
		if errors.Is(err, interview.ErrNoVoice) || errors.Is(err, recording.ErrInsufficientAudio) {
			fmt.Fprintf(r.out, "%v; please try again.\n", err)
			continue
		}
		if err != nil {
			return err
		}

		fb, err := r.iv.EvaluateAnswer(ctx, q, answer)
		if errors.Is(err, interview.ErrEmptyAnswer) {
			fmt.Fprintln(r.out, "Please provide an answer.")
			continue
		}
		if err != nil {
			return err
		}

		if _, err := r.session.RecordAnswer(q, kind, answer, fb); err != nil {
			return err
		}
		r.console.Feedback(interview.FeedbackLog{Feedback: fb, Average: r.session.Average()})
		return nil
	}
}

func (r *practiceRun) readAnswer(ctx context.Context) (string, state.AnswerKind, error) {
	if r.recorder == nil {
		prompt(r.out, "Your answer (end with a blank line):")
		answer, err := readParagraph(r.reader)
		return answer, state.AnswerKindTyped, err
	}

	result, err := recordtui.Run(ctx, r.recorder, "Answering", nil, r.out)
	if err != nil {
		return "", state.AnswerKindSpoken, err
	}
	text, err := r.iv.TranscribeAnswer(ctx, result.Filename)
	if err != nil {
		return "", state.AnswerKindSpoken, err
	}
	fmt.Fprintf(r.out, "You said: %s\n", text)
	return text, state.AnswerKindSpoken, nil
}

func (r *practiceRun) answerCode(ctx context.Context, q interview.Question) error {
	for {
		code, err := r.readCode(q)
		if errors.Is(err, editor.ErrEmptySubmission) {
			fmt.Fprintln(r.out, "Please provide code.")
			continue
		}
		if err != nil {
			return err
		}

		fb, err := r.iv.EvaluateCode(ctx, q, code, q.Language)
		if errors.Is(err, interview.ErrEmptyAnswer) {
			fmt.Fprintln(r.out, "Please provide code.")
			continue
		}
		r.console.Execution(interview.ExecutionLog{Result: fb.Result})
		if err != nil {
			return err
		}

		if _, err := r.session.RecordCode(q, code, string(q.Language), fb); err != nil {
			return err
		}
		r.console.Feedback(interview.FeedbackLog{Feedback: fb.Feedback, Average: r.session.Average()})
		return nil
	}
}

func (r *practiceRun) readCode(q interview.Question) (string, error) {
	if editor.IsInteractive() {
		return editor.EditCode(editor.CodeData{
			Language:  string(q.Language),
			Extension: sourceExtension(q.Language),
			Problem:   q.Text,
		})
	}
	prompt(r.out, fmt.Sprintf("Your %s solution (end with a line containing only %q):", q.Language, codeTerminator))
	return readCodeBlock(r.reader)
}

func sourceExtension(lang sandbox.Language) string {
	switch lang {
	case sandbox.LanguagePython:
		return ".py"
	case sandbox.LanguageJava:
		return ".java"
	case sandbox.LanguageJavaScript:
		return ".js"
	case sandbox.LanguageCpp:
		return ".cpp"
	case sandbox.LanguageHTML:
		return ".html"
	case sandbox.LanguageCSS:
		return ".css"
	}
	return ".txt"
}
