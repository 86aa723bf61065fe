// Package recording captures microphone audio into 16-bit PCM WAV files.
//
// A Controller owns at most one capture session at a time. Starting a new
// session quiesces the previous one first, so two capture loops never run
// against the same controller.
package recording

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/amonks/interview/internal/ids"
)

// Defaults for Options fields left zero.
const (
	DefaultSampleRate     = 16000
	DefaultChunkSize      = 1024
	DefaultMinDuration    = 500 * time.Millisecond
	DefaultPreemptWait    = 500 * time.Millisecond
	DefaultJoinTimeout    = 3 * time.Second
	DefaultCleanupTimeout = 2 * time.Second
)

// Options configures a Controller.
type Options struct {
	// Dir receives the WAV files. Defaults to os.TempDir().
	Dir    string
	Format Format
	// ChunkSize is the number of frames requested per device read.
	ChunkSize int
	// MinDuration is the shortest capture that produces a file.
	MinDuration time.Duration
	// PreemptWait bounds how long Start waits for a previous capture to exit.
	PreemptWait time.Duration
	// JoinTimeout bounds how long Stop waits for the capture loop.
	JoinTimeout time.Duration
	// CleanupTimeout bounds how long Cleanup waits for the capture loop.
	CleanupTimeout time.Duration
	Logger         *zerolog.Logger
	Now            func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = os.TempDir()
	}
	if o.Format.SampleRate <= 0 {
		o.Format.SampleRate = DefaultSampleRate
	}
	if o.Format.Channels <= 0 {
		o.Format.Channels = 1
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MinDuration <= 0 {
		o.MinDuration = DefaultMinDuration
	}
	if o.PreemptWait <= 0 {
		o.PreemptWait = DefaultPreemptWait
	}
	if o.JoinTimeout <= 0 {
		o.JoinTimeout = DefaultJoinTimeout
	}
	if o.CleanupTimeout <= 0 {
		o.CleanupTimeout = DefaultCleanupTimeout
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Result describes a successfully persisted recording.
type Result struct {
	OK       bool
	Filename string
	Duration time.Duration
	Samples  int
}

// Controller starts, stops, and queries microphone capture sessions.
type Controller struct {
	device Device
	opts   Options

	// transition serializes Start, Stop, and Cleanup, including their bounded
	// joins, so IsActive never waits on device I/O.
	transition sync.Mutex

	mu      sync.Mutex
	active  bool
	current *session
}

// filenameSeq distinguishes files allocated within one process.
var filenameSeq atomic.Uint64

// NewController returns a Controller that captures from device.
func NewController(device Device, opts Options) *Controller {
	return &Controller{device: device, opts: opts.withDefaults()}
}

// Format returns the capture format.
func (c *Controller) Format() Format {
	return c.opts.Format
}

// Start begins a capture session and returns the file it will write on Stop.
// An active session is signaled and given PreemptWait to exit first. If it
// is still inside Device.Open, Start also waits up to JoinTimeout for that
// call to return so the old stream is closed before the new one opens.
func (c *Controller) Start() (string, error) {
	c.transition.Lock()
	defer c.transition.Unlock()

	if prev := c.take(); prev != nil {
		prev.signal()
		if !waitFor(prev.done, c.opts.PreemptWait) {
			c.opts.Logger.Warn().Str("file", prev.filename).Msg("previous capture did not exit before restart")
			if !waitFor(prev.opened, c.opts.JoinTimeout) {
				c.opts.Logger.Warn().Str("file", prev.filename).Msg("previous device open still pending")
			}
		}
	}

	if err := os.MkdirAll(c.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create recordings dir: %w", err)
	}

	now := c.opts.Now()
	seq := filenameSeq.Add(1)
	id := ids.GenerateWithTimestamp(strconv.Itoa(os.Getpid())+"-"+strconv.FormatUint(seq, 10), now, ids.DefaultLength)
	s := newSession(filepath.Join(c.opts.Dir, fmt.Sprintf("answer-%d-%s.wav", seq, id)), now, c.opts.Format)

	c.mu.Lock()
	c.active = true
	c.current = s
	c.mu.Unlock()

	go c.capture(s)

	c.opts.Logger.Debug().Str("file", s.filename).Int("rate", s.format.SampleRate).Msg("recording started")
	return s.filename, nil
}

// Stop ends the active session. Captures shorter than MinDuration return
// ErrInsufficientAudio and write nothing.
func (c *Controller) Stop() (Result, error) {
	c.transition.Lock()
	defer c.transition.Unlock()

	s := c.take()
	if s == nil {
		return Result{}, ErrNotRecording
	}

	s.signal()
	if !waitFor(s.done, c.opts.JoinTimeout) {
		c.opts.Logger.Warn().Str("file", s.filename).Dur("timeout", c.opts.JoinTimeout).Msg("capture did not stop in time; keeping frames captured so far")
	}

	if err := s.openError(); err != nil {
		c.opts.Logger.Error().Err(err).Msg("audio device unavailable")
		return Result{}, err
	}

	samples := s.snapshot()
	duration := s.format.Duration(len(samples))
	if duration < c.opts.MinDuration {
		c.opts.Logger.Info().Dur("duration", duration).Msg("audio too short")
		return Result{Duration: duration}, ErrInsufficientAudio
	}

	if err := WriteWAV(s.filename, s.format, samples); err != nil {
		return Result{}, err
	}

	c.opts.Logger.Debug().Str("file", s.filename).Dur("duration", duration).Msg("recording saved")
	return Result{OK: true, Filename: s.filename, Duration: duration, Samples: len(samples)}, nil
}

// Cleanup force-stops any active session without writing a file.
func (c *Controller) Cleanup() {
	c.transition.Lock()
	defer c.transition.Unlock()

	s := c.take()
	if s == nil {
		return
	}
	s.signal()
	if !waitFor(s.done, c.opts.CleanupTimeout) {
		c.opts.Logger.Warn().Str("file", s.filename).Msg("capture did not stop during cleanup")
	}
}

// IsActive reports whether a session is recording. A session whose device
// failed is not active, though Stop still reports its error.
func (c *Controller) IsActive() bool {
	c.mu.Lock()
	active, s := c.active, c.current
	c.mu.Unlock()
	return active && s.openError() == nil
}

// Elapsed returns how long the active session has been recording.
func (c *Controller) Elapsed() time.Duration {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return 0
	}
	return c.opts.Now().Sub(s.startedAt)
}

// Err returns the capture error of the active session, if the device failed.
func (c *Controller) Err() error {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s == nil {
		return nil
	}
	return s.openError()
}

// take clears the active session and returns it.
func (c *Controller) take() *session {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.current
	c.active = false
	c.current = nil
	return s
}

func (c *Controller) capture(s *session) {
	defer close(s.done)

	stream, err := c.device.Open(s.format)
	if err == nil && !s.attach(stream) {
		_ = stream.Close()
	}
	close(s.opened)
	if err != nil {
		s.setOpenError(deviceError(err))
		c.opts.Logger.Error().Err(err).Msg("open audio device")
		return
	}
	if s.stopped() {
		return
	}

	buf := make([]int16, c.opts.ChunkSize*s.format.Channels)
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			s.append(buf[:n])
		}
		if err != nil {
			if !s.stopped() {
				s.setOpenError(deviceError(fmt.Errorf("audio stream ended: %w", err)))
				c.opts.Logger.Error().Err(err).Msg("audio stream ended before stop")
			}
			return
		}
		if s.stopped() {
			return
		}
	}
}

// deviceError marks err as ErrDeviceUnavailable unless it already is.
func deviceError(err error) error {
	if errors.Is(err, ErrDeviceUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
}

func waitFor(done <-chan struct{}, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
