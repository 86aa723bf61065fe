package recording

import (
	"sync"
	"time"
)

type session struct {
	filename  string
	startedAt time.Time
	format    Format

	stop     chan struct{}
	opened   chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	stream  Stream
	closed  bool
	openErr error
	frames  []int16
}

func newSession(filename string, startedAt time.Time, format Format) *session {
	return &session{
		filename:  filename,
		startedAt: startedAt,
		format:    format,
		stop:      make(chan struct{}),
		opened:    make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// signal asks the capture loop to exit and unblocks a pending Read.
func (s *session) signal() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.mu.Lock()
		s.closed = true
		stream := s.stream
		s.mu.Unlock()
		if stream != nil {
			_ = stream.Close()
		}
	})
}

func (s *session) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

// attach records the opened stream. It returns false when the session was
// signaled before the device finished opening; the caller closes the stream.
func (s *session) attach(stream Stream) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.stream = stream
	return true
}

func (s *session) setOpenError(err error) {
	s.mu.Lock()
	s.openErr = err
	s.mu.Unlock()
}

func (s *session) openError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openErr
}

func (s *session) append(samples []int16) {
	s.mu.Lock()
	s.frames = append(s.frames, samples...)
	s.mu.Unlock()
}

func (s *session) snapshot() []int16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int16(nil), s.frames...)
}
