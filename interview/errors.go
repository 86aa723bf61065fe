package interview

import "errors"

var (
	// ErrEmptyAnswer indicates an answer too short to evaluate.
	ErrEmptyAnswer = errors.New("answer is empty")
	// ErrNoVoice indicates a recording transcribed to nothing usable.
	ErrNoVoice = errors.New("no clear voice detected")
	// ErrNoLLM indicates an operation needs a model client that is not configured.
	ErrNoLLM = errors.New("no language model configured")
	// ErrNoTranscriber indicates voice answers are not configured.
	ErrNoTranscriber = errors.New("no transcriber configured")
	// ErrSessionComplete indicates every question in a session was answered.
	ErrSessionComplete = errors.New("session complete")
)

// Fixed feedback for answers that do not address the question.
const (
	MessageIrrelevantAnswer = "Please give a valid answer that addresses the question. Your response doesn't seem to be related to the question asked."
	MessageIrrelevantCode   = "Please provide code that addresses the problem. Your submission doesn't seem to be related to the question asked."
)

// minAnswerLength is the shortest trimmed answer worth sending to the model.
const minAnswerLength = 3
