// Package interview runs practice interviews: it asks questions, evaluates
// spoken, typed, and coded answers with a language model, and scores them.
package interview

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	internalstrings "github.com/amonks/interview/internal/strings"
	"github.com/amonks/interview/llm"
	"github.com/amonks/interview/sandbox"
	"github.com/amonks/interview/transcribe"
	"github.com/rs/zerolog"
)

// Runner executes code submissions. *sandbox.Sandbox implements it.
type Runner interface {
	Run(ctx context.Context, req sandbox.Request) sandbox.Result
}

// Interviewer generates questions and evaluates answers.
type Interviewer struct {
	LLM         llm.Client
	Sandbox     Runner
	Transcriber transcribe.Transcriber
	// PromptsDir holds template overrides; empty uses the built-in prompts.
	PromptsDir string
	Logger     *zerolog.Logger
}

// Question is one interview question.
type Question struct {
	Text     string
	Domain   string
	Coding   bool
	Language sandbox.Language
	// Fallback is set when the model failed and a canned question was used.
	Fallback bool
}

// Feedback is the evaluation of one answer.
type Feedback struct {
	Text     string
	Score    int
	Relevant bool
}

// CodeFeedback is the evaluation of a code submission together with its run.
type CodeFeedback struct {
	Feedback
	Result sandbox.Result
}

// GenerateQuestion asks the model for a conceptual question. Model failures
// produce a canned question with Fallback set rather than an error.
func (iv *Interviewer) GenerateQuestion(ctx context.Context, domain string, previous ...string) (Question, error) {
	prompt, err := RenderPrompt(iv.PromptsDir, questionTemplateName, PromptData{
		Domain:   domain,
		Previous: previous,
	})
	if err != nil {
		return Question{}, err
	}

	text, err := iv.complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return Question{}, ctx.Err()
		}
		iv.logger().Warn().Err(err).Str("domain", domain).Msg("question generation failed, using fallback")
		return Question{
			Text:     fmt.Sprintf("Tell me about a challenging problem you solved in %s.", domain),
			Domain:   domain,
			Fallback: true,
		}, nil
	}
	return Question{Text: text, Domain: domain}, nil
}

// GenerateCodingQuestion asks the model for a coding problem in lang. An
// empty lang uses LanguageForDomain.
func (iv *Interviewer) GenerateCodingQuestion(ctx context.Context, domain string, lang sandbox.Language, previous ...string) (Question, error) {
	if lang == "" {
		lang = LanguageForDomain(domain)
	}
	prompt, err := RenderPrompt(iv.PromptsDir, codingQuestionTemplateName, PromptData{
		Domain:   domain,
		Language: lang,
		Previous: previous,
	})
	if err != nil {
		return Question{}, err
	}

	text, err := iv.complete(ctx, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return Question{}, ctx.Err()
		}
		iv.logger().Warn().Err(err).Str("domain", domain).Msg("coding question generation failed, using fallback")
		return Question{
			Text:     fmt.Sprintf("Write a function in %s that reads a list of integers from stdin and prints the length of the longest strictly increasing contiguous run.", lang),
			Domain:   domain,
			Coding:   true,
			Language: lang,
			Fallback: true,
		}, nil
	}
	return Question{Text: text, Domain: domain, Coding: true, Language: lang}, nil
}

// EvaluateAnswer checks that answer addresses q and then scores it.
// Irrelevant answers get MessageIrrelevantAnswer and a zero score.
func (iv *Interviewer) EvaluateAnswer(ctx context.Context, q Question, answer string) (Feedback, error) {
	answer = strings.TrimSpace(answer)
	if utf8.RuneCountInString(answer) < minAnswerLength {
		return Feedback{}, ErrEmptyAnswer
	}
	data := PromptData{Domain: q.Domain, Question: q.Text, Answer: answer}

	relevant, err := iv.checkRelevance(ctx, answerRelevanceTemplateName, data)
	if err != nil {
		return Feedback{}, err
	}
	if !relevant {
		return Feedback{Text: MessageIrrelevantAnswer}, nil
	}

	return iv.evaluate(ctx, answerEvaluationTemplateName, data)
}

// EvaluateCode runs code, checks that it addresses q, and scores it with
// guidance specific to lang. The run result is returned even when the
// evaluation fails.
func (iv *Interviewer) EvaluateCode(ctx context.Context, q Question, code string, lang sandbox.Language) (CodeFeedback, error) {
	if internalstrings.IsBlank(code) {
		return CodeFeedback{}, ErrEmptyAnswer
	}
	if lang == "" {
		lang = q.Language
	}

	var out CodeFeedback
	if iv.Sandbox != nil {
		out.Result = iv.Sandbox.Run(ctx, sandbox.Request{Source: code, Language: lang})
		iv.logger().Debug().
			Str("language", string(lang)).
			Str("kind", string(out.Result.Kind)).
			Dur("duration", out.Result.Duration).
			Msg("submission executed")
	}

	data := PromptData{
		Domain:    q.Domain,
		Language:  lang,
		Question:  q.Text,
		Code:      code,
		Output:    internalstrings.Truncate(out.Result.Output(), 4000, "\n..."),
		Succeeded: out.Result.Succeeded,
		Guidance:  languageGuidance(lang),
	}

	relevant, err := iv.checkRelevance(ctx, codeRelevanceTemplateName, data)
	if err != nil {
		return out, err
	}
	if !relevant {
		out.Feedback = Feedback{Text: MessageIrrelevantCode}
		return out, nil
	}

	out.Feedback, err = iv.evaluate(ctx, codeEvaluationTemplateName, data)
	return out, err
}

// TranscribeAnswer transcribes the recording at path and removes the file.
func (iv *Interviewer) TranscribeAnswer(ctx context.Context, path string) (string, error) {
	if iv.Transcriber == nil {
		return "", ErrNoTranscriber
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			iv.logger().Warn().Err(err).Str("path", path).Msg("remove recording")
		}
	}()

	text, err := iv.Transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("transcribe answer: %w", err)
	}
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minAnswerLength {
		return "", ErrNoVoice
	}
	return text, nil
}

func (iv *Interviewer) checkRelevance(ctx context.Context, templateName string, data PromptData) (bool, error) {
	prompt, err := RenderPrompt(iv.PromptsDir, templateName, data)
	if err != nil {
		return false, err
	}
	reply, err := iv.complete(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("check relevance: %w", err)
	}
	return !strings.Contains(strings.ToUpper(reply), "NOT_RELEVANT"), nil
}

func (iv *Interviewer) evaluate(ctx context.Context, templateName string, data PromptData) (Feedback, error) {
	prompt, err := RenderPrompt(iv.PromptsDir, templateName, data)
	if err != nil {
		return Feedback{}, err
	}
	text, err := iv.complete(ctx, prompt)
	if err != nil {
		return Feedback{}, fmt.Errorf("evaluate answer: %w", err)
	}
	return Feedback{Text: text, Score: clampScore(ExtractScore(text)), Relevant: true}, nil
}

func (iv *Interviewer) complete(ctx context.Context, prompt string) (string, error) {
	if iv.LLM == nil {
		return "", ErrNoLLM
	}
	reply, err := iv.LLM.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", llm.ErrEmptyResponse
	}
	return reply, nil
}

func (iv *Interviewer) logger() *zerolog.Logger {
	if iv.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return iv.Logger
}

func clampScore(score int) int {
	return min(max(score, 0), MaxScore)
}
