package recording

import (
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// fakeDevice yields a fixed number of samples per stream, then blocks until closed.
type fakeDevice struct {
	budget  int
	openErr error
	// openDelay holds the new stream inside Open, as a slow device would.
	openDelay time.Duration
	// stuck streams ignore Close until release is closed.
	stuck   bool
	release chan struct{}

	mu      sync.Mutex
	open    int
	maxOpen int
	streams []*fakeStream
}

func (d *fakeDevice) Open(Format) (Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.mu.Lock()
	d.open++
	d.maxOpen = max(d.maxOpen, d.open)
	d.mu.Unlock()
	if d.openDelay > 0 {
		time.Sleep(d.openDelay)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	s := &fakeStream{
		dev:       d,
		value:     int16(len(d.streams) + 1),
		remaining: d.budget,
		closed:    make(chan struct{}),
	}
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) maxConcurrent() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxOpen
}

func (d *fakeDevice) stream(i int) *fakeStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i >= len(d.streams) {
		return nil
	}
	return d.streams[i]
}

func (d *fakeDevice) consumed(i int) int64 {
	s := d.stream(i)
	if s == nil {
		return 0
	}
	return s.consumed.Load()
}

type fakeStream struct {
	dev       *fakeDevice
	value     int16
	remaining int
	consumed  atomic.Int64
	closed    chan struct{}
	once      sync.Once
}

func (s *fakeStream) Read(buf []int16) (int, error) {
	select {
	case <-s.closed:
		return 0, io.EOF
	default:
	}
	if s.remaining > 0 {
		n := min(len(buf), s.remaining)
		for i := range n {
			buf[i] = s.value
		}
		s.remaining -= n
		s.consumed.Add(int64(n))
		return n, nil
	}
	if s.dev.stuck {
		<-s.dev.release
		return 0, io.EOF
	}
	<-s.closed
	return 0, io.EOF
}

func (s *fakeStream) Close() error {
	s.once.Do(func() {
		close(s.closed)
		s.dev.mu.Lock()
		s.dev.open--
		s.dev.mu.Unlock()
	})
	return nil
}
