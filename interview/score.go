package interview

import (
	"strconv"
	"strings"
)

// DefaultScore is used when feedback carries no recognizable score.
const DefaultScore = 5

// MaxScore is the top of the scoring scale.
const MaxScore = 10

// ExtractScore finds the 0-10 score in model feedback. It prefers the first
// "Score:" line (accepting "7/10"), then the first bare integer token in
// range, then DefaultScore.
func ExtractScore(feedback string) int {
	lines := strings.Split(feedback, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < len("score:") || !strings.EqualFold(trimmed[:len("score:")], "score:") {
			continue
		}
		value := strings.TrimSpace(trimmed[len("score:"):])
		value, _, _ = strings.Cut(value, "/")
		if score, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return score
		}
	}

	for _, line := range lines {
		for _, token := range strings.Fields(line) {
			if !isDigits(token) {
				continue
			}
			if score, err := strconv.Atoi(token); err == nil && score <= MaxScore {
				return score
			}
		}
	}
	return DefaultScore
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}

// Badge is the reward shown at the end of a session.
type Badge struct {
	Title   string
	Message string
}

var badges = []struct {
	min   float64
	badge Badge
}{
	{90, Badge{"Expert Interviewer", "Congratulations on your exceptional performance! You've demonstrated expert-level knowledge."}},
	{80, Badge{"Advanced Proficiency", "Excellent work! You've shown strong technical knowledge and communication skills."}},
	{70, Badge{"Strong Performer", "Great job! You've demonstrated solid understanding of technical concepts."}},
	{60, Badge{"Competent Technologist", "Good effort! You've shown competence in technical areas."}},
	{50, Badge{"Promising Talent", "Decent work! You're on the right track with your technical knowledge."}},
}

// BadgeFor returns the badge earned at percentage (0-100).
func BadgeFor(percentage float64) Badge {
	for _, tier := range badges {
		if percentage >= tier.min {
			return tier.badge
		}
	}
	return Badge{"Better Luck Next Time", "You've taken the first steps. Keep learning and practicing!"}
}
