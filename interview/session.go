package interview

import (
	"fmt"

	"github.com/amonks/interview/internal/state"
)

// Session tracks progress through one practice interview and persists each
// scored answer to the history store.
type Session struct {
	store  *state.Store
	record state.Session
	total  int
}

// Summary is the end-of-session scorecard.
type Summary struct {
	Answered   int
	Total      int
	TotalScore int
	MaxScore   int
	Average    float64
	Percentage float64
	Badge      Badge
}

// StartSession creates a history entry for user practicing domain with total
// questions planned.
func StartSession(store *state.Store, user, domain string, total int) (*Session, error) {
	if total < 1 {
		return nil, fmt.Errorf("question count must be positive, got %d", total)
	}
	record, err := store.CreateSession(user, domain)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &Session{store: store, record: record, total: total}, nil
}

// ID returns the history ID of the session.
func (s *Session) ID() string { return s.record.ID }

// Domain returns the practice domain.
func (s *Session) Domain() string { return s.record.Domain }

// Number returns the 1-based number of the next question.
func (s *Session) Number() int { return len(s.record.Answers) + 1 }

// Total returns the number of planned questions.
func (s *Session) Total() int { return s.total }

// Done reports whether every planned question has been answered.
func (s *Session) Done() bool { return len(s.record.Answers) >= s.total }

// Questions returns the text of every answered question, oldest first.
func (s *Session) Questions() []string {
	questions := make([]string, 0, len(s.record.Answers))
	for _, answer := range s.record.Answers {
		questions = append(questions, answer.Question)
	}
	return questions
}

// Scores returns the score of every answer, oldest first.
func (s *Session) Scores() []int {
	scores := make([]int, 0, len(s.record.Answers))
	for _, answer := range s.record.Answers {
		scores = append(scores, answer.Score)
	}
	return scores
}

// Average returns the mean score so far.
func (s *Session) Average() float64 { return s.record.AverageScore() }

// Record persists answer as the next question's result.
func (s *Session) Record(answer state.Answer) (state.Answer, error) {
	if s.Done() {
		return state.Answer{}, ErrSessionComplete
	}
	answer.Number = s.Number()
	updated, err := s.store.AppendAnswer(s.record.ID, answer)
	if err != nil {
		return state.Answer{}, fmt.Errorf("record answer %d: %w", answer.Number, err)
	}
	s.record = updated
	return updated.Answers[len(updated.Answers)-1], nil
}

// RecordAnswer persists a spoken or typed answer and its feedback.
func (s *Session) RecordAnswer(q Question, kind state.AnswerKind, response string, fb Feedback) (state.Answer, error) {
	return s.Record(state.Answer{
		Question: q.Text,
		Kind:     kind,
		Response: response,
		Feedback: fb.Text,
		Score:    fb.Score,
	})
}

// RecordCode persists a code submission with its run output and feedback.
func (s *Session) RecordCode(q Question, code string, lang string, fb CodeFeedback) (state.Answer, error) {
	return s.Record(state.Answer{
		Question: q.Text,
		Kind:     state.AnswerKindCode,
		Response: code,
		Language: lang,
		Output:   fb.Result.Output(),
		Feedback: fb.Text,
		Score:    fb.Score,
	})
}

// Summary scores the answered questions.
func (s *Session) Summary() Summary {
	answered := len(s.record.Answers)
	summary := Summary{
		Answered:   answered,
		Total:      s.total,
		TotalScore: s.record.TotalScore(),
		MaxScore:   answered * MaxScore,
		Average:    s.record.AverageScore(),
	}
	if summary.MaxScore > 0 {
		summary.Percentage = float64(summary.TotalScore) / float64(summary.MaxScore) * 100
	}
	summary.Badge = BadgeFor(summary.Percentage)
	return summary
}
