package recording

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Format describes interleaved signed 16-bit PCM.
type Format struct {
	SampleRate int
	Channels   int
}

// Duration returns the play time of n interleaved samples.
func (f Format) Duration(n int) time.Duration {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	frames := int64(n / f.Channels)
	return time.Duration(frames * int64(time.Second) / int64(f.SampleRate))
}

// Stream is an open audio input.
type Stream interface {
	// Read blocks until it fills buf with samples, the stream ends, or Close is called.
	Read(buf []int16) (int, error)
	// Close releases the device and unblocks any pending Read.
	Close() error
}

// Device opens audio inputs.
type Device interface {
	Open(Format) (Stream, error)
}

// CommandDevice captures audio from a subprocess writing raw little-endian
// s16 PCM to stdout, such as ffmpeg or arecord.
type CommandDevice struct {
	// Command overrides the detected capture command.
	Command []string
	// LookPath resolves binaries during detection. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// Open starts the capture command.
func (d CommandDevice) Open(format Format) (Stream, error) {
	args := d.Command
	if len(args) == 0 {
		detected, err := DetectCommand(format, d.LookPath)
		if err != nil {
			return nil, err
		}
		args = detected
	}

	cmd := exec.Command(args[0], args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	stream := &commandStream{cmd: cmd, stdout: stdout}
	cmd.Stderr = &stream.stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrDeviceUnavailable, args[0], err)
	}
	return stream, nil
}

// DetectCommand returns a capture command for the current platform.
func DetectCommand(format Format, lookPath func(string) (string, error)) ([]string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	rate := strconv.Itoa(format.SampleRate)
	channels := strconv.Itoa(format.Channels)

	if runtime.GOOS == "linux" {
		if _, err := lookPath("arecord"); err == nil {
			return []string{"arecord", "-q", "-f", "S16_LE", "-r", rate, "-c", channels, "-t", "raw"}, nil
		}
	}

	if _, err := lookPath("ffmpeg"); err == nil {
		input := []string{"-f", "alsa", "-i", "default"}
		switch runtime.GOOS {
		case "darwin":
			input = []string{"-f", "avfoundation", "-i", ":default"}
		case "windows":
			input = []string{"-f", "dshow", "-i", "audio=default"}
		}
		args := []string{"ffmpeg", "-hide_banner", "-loglevel", "error"}
		args = append(args, input...)
		return append(args, "-ac", channels, "-ar", rate, "-f", "s16le", "-"), nil
	}

	return nil, ErrNoRecorder
}

type commandStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr bytes.Buffer

	raw      []byte
	closing  atomic.Bool
	waitOnce sync.Once
	waitErr  error
}

func (s *commandStream) Read(buf []int16) (int, error) {
	want := len(buf) * 2
	if cap(s.raw) < want {
		s.raw = make([]byte, want)
	}
	raw := s.raw[:want]

	n, err := io.ReadFull(s.stdout, raw)
	samples := n / 2
	for i := range samples {
		buf[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	if err == io.EOF && !s.closing.Load() {
		err = s.exitError()
	}
	return samples, err
}

// exitError reaps a command that closed its output on its own. A non-zero
// exit is reported as ErrDeviceUnavailable carrying the command's stderr.
func (s *commandStream) exitError() error {
	waitErr := s.wait()
	if waitErr == nil {
		return io.EOF
	}
	reason := strings.TrimSpace(s.stderr.String())
	if reason == "" {
		reason = waitErr.Error()
	}
	return fmt.Errorf("%w: %s: %s", ErrDeviceUnavailable, s.cmd.Args[0], reason)
}

// wait reaps the command once. Wait closes stdout, which unblocks a pending
// Read, and returns only after stderr has been fully copied.
func (s *commandStream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
	})
	return s.waitErr
}

func (s *commandStream) Close() error {
	s.closing.Store(true)
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	err := s.wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return err
	}
	return nil
}
