package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/amonks/interview/internal/ids"
	"github.com/amonks/interview/internal/state"
	"github.com/amonks/interview/internal/ui"
	"github.com/amonks/interview/interview"
	"github.com/amonks/interview/sandbox"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past practice sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the questions, answers, and feedback of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyJSON bool

// historyNow is the reference time for relative timestamps.
var historyNow = time.Now

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "Output as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	sessions, err := store.Sessions()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "No practice sessions yet.")
		return nil
	}

	sessionIDs := make([]string, len(sessions))
	for i, session := range sessions {
		sessionIDs[i] = session.ID
	}
	prefixLengths := ids.UniquePrefixLengths(sessionIDs)
	now := historyNow()

	rows := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		rows = append(rows, []string{
			ui.HighlightID(session.ID, ui.PrefixLength(prefixLengths, session.ID)),
			session.User,
			session.Domain,
			strconv.Itoa(len(session.Answers)),
			formatAverage(session),
			ui.FormatTimeAgo(session.StartedAt, now),
		})
	}
	_, err = fmt.Fprint(out, ui.FormatTable([]string{"ID", "USER", "DOMAIN", "ANSWERS", "AVERAGE", "STARTED"}, rows))
	return err
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	session, err := store.FindSession(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(session)
	}

	fmt.Fprintf(out, "Session %s\n", session.ID)
	fmt.Fprintf(out, "User:    %s\n", session.User)
	fmt.Fprintf(out, "Domain:  %s\n", session.Domain)
	fmt.Fprintf(out, "Started: %s\n", session.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Average: %s\n\n", formatAverage(session))

	console := interview.NewConsoleLogger(out)
	for _, answer := range session.Answers {
		q := interview.Question{Text: answer.Question}
		if answer.Kind == state.AnswerKindCode {
			q.Coding = true
			q.Language = sandbox.Language(answer.Language)
		}
		console.Question(interview.QuestionLog{Number: answer.Number, Total: len(session.Answers), Question: q})
		fmt.Fprintf(out, "\n%s answer:\n%s\n", answer.Kind, interview.IndentBlock(answer.Response, 4))
		console.Feedback(interview.FeedbackLog{
			Feedback: interview.Feedback{Text: answer.Feedback, Score: answer.Score, Relevant: answer.Score > 0},
			Average:  session.AverageScore(),
		})
	}
	return nil
}

func formatAverage(session state.Session) string {
	if len(session.Answers) == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f", session.AverageScore())
}
