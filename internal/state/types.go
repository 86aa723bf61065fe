// Package state manages the interview history file.
//
// The history file (~/.local/state/interview/state.json) stores every practice
// session and its scored answers. All writes are serialized through file
// locking so concurrent iv processes never lose an update.
package state

import "time"

// State represents the persisted history file.
type State struct {
	Sessions map[string]Session `json:"sessions"`
}

// AnswerKind records how an answer was given.
type AnswerKind string

const (
	// AnswerKindSpoken is a transcribed voice answer.
	AnswerKindSpoken AnswerKind = "spoken"
	// AnswerKindTyped is a typed text answer.
	AnswerKindTyped AnswerKind = "typed"
	// AnswerKindCode is a code submission run through the sandbox.
	AnswerKindCode AnswerKind = "code"
)

// ValidAnswerKinds returns all valid answer kinds.
func ValidAnswerKinds() []AnswerKind {
	return []AnswerKind{AnswerKindSpoken, AnswerKindTyped, AnswerKindCode}
}

// IsValid returns true if the kind is a known value.
func (k AnswerKind) IsValid() bool {
	for _, valid := range ValidAnswerKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// Session is one practice run.
type Session struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Domain    string    `json:"domain"`
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Answers   []Answer  `json:"answers,omitempty"`
}

// Answer is one scored response within a session.
type Answer struct {
	Number     int        `json:"number"`
	Question   string     `json:"question"`
	Kind       AnswerKind `json:"kind"`
	Response   string     `json:"response"`
	Language   string     `json:"language,omitempty"`
	Output     string     `json:"output,omitempty"`
	Feedback   string     `json:"feedback"`
	Score      int        `json:"score"`
	AnsweredAt time.Time  `json:"answered_at"`
}

// AverageScore returns the mean score of all answers, or 0 with no answers.
func (s Session) AverageScore() float64 {
	if len(s.Answers) == 0 {
		return 0
	}
	total := 0
	for _, answer := range s.Answers {
		total += answer.Score
	}
	return float64(total) / float64(len(s.Answers))
}

// TotalScore returns the sum of answer scores.
func (s Session) TotalScore() int {
	total := 0
	for _, answer := range s.Answers {
		total += answer.Score
	}
	return total
}
