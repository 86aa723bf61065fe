package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/amonks/interview/internal/ids"
	"github.com/amonks/interview/internal/validation"
)

var (
	// ErrSessionNotFound indicates no session matches the requested ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidAnswerKind indicates an answer carries an unknown kind.
	ErrInvalidAnswerKind = errors.New("invalid answer kind")
)

// Store manages the history file with locking.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates a new history store using the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, "state.json")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.dir, "state.lock")
}

// Load reads the state from disk. Returns an empty state if the file doesn't exist.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.statePath())
	if os.IsNotExist(err) {
		return &State{Sessions: make(map[string]Session)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if st.Sessions == nil {
		st.Sessions = make(map[string]Session)
	}
	return &st, nil
}

// Save writes the state to disk via an atomic rename.
func (s *Store) Save(st *State) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if existing, err := os.ReadFile(s.statePath()); err == nil {
		if bytes.Equal(existing, data) {
			return nil
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read state file: %w", err)
	}

	tmpFile, err := os.CreateTemp(s.dir, "state.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	name := tmpFile.Name()
	_, err = tmpFile.Write(data)
	if closeErr := tmpFile.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(name)
		return fmt.Errorf("write temp state file: %w", err)
	}

	if err := os.Rename(name, s.statePath()); err != nil {
		os.Remove(name)
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}

// Update atomically reads, modifies, and writes the state with file locking.
func (s *Store) Update(fn func(st *State) error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	lockFile, err := os.OpenFile(s.lockPath(), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lockFile.Close()

	if err := syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(lockFile.Fd()), syscall.LOCK_UN)

	st, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(st); err != nil {
		return err
	}
	return s.Save(st)
}

// CreateSession records a new empty session and returns it.
func (s *Store) CreateSession(user, domain string) (Session, error) {
	now := s.now()
	session := Session{
		ID:        uuid.NewString(),
		User:      user,
		Domain:    domain,
		StartedAt: now,
		UpdatedAt: now,
	}
	err := s.Update(func(st *State) error {
		st.Sessions[session.ID] = session
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	return session, nil
}

// AppendAnswer adds answer to the session and writes its transcript and
// feedback files. The answer number is assigned when zero.
func (s *Store) AppendAnswer(sessionID string, answer Answer) (Session, error) {
	if !answer.Kind.IsValid() {
		return Session{}, validation.FormatInvalidValueError(ErrInvalidAnswerKind, answer.Kind, ValidAnswerKinds())
	}
	if answer.AnsweredAt.IsZero() {
		answer.AnsweredAt = s.now()
	}

	var updated Session
	err := s.Update(func(st *State) error {
		session, ok := st.Sessions[sessionID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}
		if answer.Number == 0 {
			answer.Number = len(session.Answers) + 1
		}
		session.Answers = append(session.Answers, answer)
		session.UpdatedAt = answer.AnsweredAt
		st.Sessions[sessionID] = session
		updated = session
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	if err := s.writeAnswerLogs(updated, answer); err != nil {
		return updated, err
	}
	return updated, nil
}

// Sessions returns all sessions sorted newest first.
func (s *Store) Sessions() ([]Session, error) {
	st, err := s.Load()
	if err != nil {
		return nil, err
	}

	sessions := make([]Session, 0, len(st.Sessions))
	for _, session := range st.Sessions {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].StartedAt.After(sessions[j].StartedAt)
	})
	return sessions, nil
}

// FindSession resolves an ID or unique ID prefix.
func (s *Store) FindSession(prefix string) (Session, error) {
	st, err := s.Load()
	if err != nil {
		return Session{}, err
	}

	all := make([]string, 0, len(st.Sessions))
	for id := range st.Sessions {
		all = append(all, id)
	}
	id, err := ids.MatchPrefix(all, prefix)
	if errors.Is(err, ids.ErrNoMatch) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, prefix)
	}
	if err != nil {
		return Session{}, err
	}
	return st.Sessions[id], nil
}

// SessionDir returns the directory holding a session's text logs.
func (s *Store) SessionDir(sessionID string) string {
	return filepath.Join(s.dir, "sessions", sessionID)
}

// writeAnswerLogs mirrors each answer into plain text files that can be read
// without iv: q<n>.txt holds the exchange, q<n>_feedback.txt the feedback, and
// session_log.txt gains one summary line.
func (s *Store) writeAnswerLogs(session Session, answer Answer) error {
	dir := s.SessionDir(session.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	transcript := fmt.Sprintf("Q: %s\nA: %s\n", answer.Question, answer.Response)
	if answer.Output != "" {
		transcript += fmt.Sprintf("Output:\n%s\n", answer.Output)
	}
	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("q%d.txt", answer.Number)), []byte(transcript), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("q%d_feedback.txt", answer.Number)), []byte(answer.Feedback+"\n"), 0o644); err != nil {
		return fmt.Errorf("write feedback: %w", err)
	}

	line := fmt.Sprintf("%s | %s | %s | Q%d Score: %d | Avg: %.2f\n",
		session.ID, session.User, session.Domain, answer.Number, answer.Score, session.AverageScore())
	logFile, err := os.OpenFile(filepath.Join(s.dir, "session_log.txt"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer logFile.Close()
	if _, err := logFile.WriteString(line); err != nil {
		return fmt.Errorf("write session log: %w", err)
	}
	return nil
}
