package recording

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, dev Device, opts Options) *Controller {
	t.Helper()
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	c := NewController(dev, opts)
	t.Cleanup(c.Cleanup)
	return c
}

func waitConsumed(t *testing.T, dev *fakeDevice, stream int, n int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return dev.consumed(stream) >= n
	}, 2*time.Second, 5*time.Millisecond)
}

func readSamples(t *testing.T, path string) []int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf.Data
}

func TestStopWhenIdle(t *testing.T) {
	c := newTestController(t, &fakeDevice{}, Options{})

	start := time.Now()
	_, err := c.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
	assert.Less(t, time.Since(start), DefaultJoinTimeout)
	assert.False(t, c.IsActive())
}

func TestShortCaptureWritesNothing(t *testing.T) {
	dev := &fakeDevice{budget: 4000}
	c := newTestController(t, dev, Options{})

	filename, err := c.Start()
	require.NoError(t, err)
	assert.True(t, c.IsActive())
	waitConsumed(t, dev, 0, 4000)

	result, err := c.Stop()
	assert.ErrorIs(t, err, ErrInsufficientAudio)
	assert.False(t, result.OK)
	assert.Equal(t, 250*time.Millisecond, result.Duration)
	assert.False(t, c.IsActive())
	assert.NoFileExists(t, filename)
}

func TestHalfSecondCaptureWritesMonoWAV(t *testing.T) {
	dev := &fakeDevice{budget: 8000}
	c := newTestController(t, dev, Options{})

	filename, err := c.Start()
	require.NoError(t, err)
	waitConsumed(t, dev, 0, 8000)

	result, err := c.Stop()
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Equal(t, filename, result.Filename)
	assert.Equal(t, 500*time.Millisecond, result.Duration)
	assert.Equal(t, 8000, result.Samples)

	info, err := Inspect(filename)
	require.NoError(t, err)
	assert.Equal(t, 16000, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
	assert.Equal(t, 8000, info.Samples)
}

func TestRestartQuiescesPreviousCapture(t *testing.T) {
	dev := &fakeDevice{budget: 12000}
	c := newTestController(t, dev, Options{})

	first, err := c.Start()
	require.NoError(t, err)
	waitConsumed(t, dev, 0, 12000)

	second, err := c.Start()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, c.IsActive())
	waitConsumed(t, dev, 1, 12000)

	result, err := c.Stop()
	require.NoError(t, err)
	assert.Equal(t, second, result.Filename)
	assert.NoFileExists(t, first)
	assert.Equal(t, 1, dev.maxConcurrent())

	for _, sample := range readSamples(t, second) {
		if sample != 2 {
			t.Fatalf("expected only samples from the second stream, found %d", sample)
		}
	}
}

func TestRepeatedStartsNeverOverlap(t *testing.T) {
	dev := &fakeDevice{budget: 1024}
	c := newTestController(t, dev, Options{})

	seen := make(map[string]bool)
	for range 10 {
		filename, err := c.Start()
		require.NoError(t, err)
		assert.False(t, seen[filename], "duplicate filename %s", filename)
		seen[filename] = true
	}
	c.Cleanup()

	assert.Equal(t, 1, dev.maxConcurrent())
	assert.False(t, c.IsActive())
}

func TestDeviceUnavailable(t *testing.T) {
	dev := &fakeDevice{openErr: errors.New("no microphone")}
	c := newTestController(t, dev, Options{})

	filename, err := c.Start()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.Err() != nil }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.Err(), ErrDeviceUnavailable)

	_, err = c.Stop()
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.NoFileExists(t, filename)
}

func TestCommandDeviceFailureIsDeviceUnavailable(t *testing.T) {
	requireShell(t)
	dev := CommandDevice{Command: []string{"sh", "-c", "echo 'arecord: audio open error' >&2; exit 1"}}
	c := newTestController(t, dev, Options{})

	filename, err := c.Start()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return c.Err() != nil }, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.Err(), ErrDeviceUnavailable)
	assert.Contains(t, c.Err().Error(), "audio open error")
	assert.False(t, c.IsActive())

	_, err = c.Stop()
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.NotErrorIs(t, err, ErrInsufficientAudio)
	assert.NoFileExists(t, filename)
}

func TestRestartWaitsForSlowOpen(t *testing.T) {
	dev := &fakeDevice{budget: 1024, openDelay: 200 * time.Millisecond}
	c := newTestController(t, dev, Options{PreemptWait: 10 * time.Millisecond})

	_, err := c.Start()
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = c.Start()
	require.NoError(t, err)
	waitConsumed(t, dev, 1, 1024)

	assert.Equal(t, 1, dev.maxConcurrent())
}

func TestCleanup(t *testing.T) {
	dev := &fakeDevice{budget: 16000}
	c := newTestController(t, dev, Options{})

	c.Cleanup()
	assert.False(t, c.IsActive())

	filename, err := c.Start()
	require.NoError(t, err)
	waitConsumed(t, dev, 0, 16000)

	c.Cleanup()
	assert.False(t, c.IsActive())
	assert.NoFileExists(t, filename)

	_, err = c.Stop()
	assert.ErrorIs(t, err, ErrNotRecording)
}

func TestStopJoinTimeoutKeepsCapturedFrames(t *testing.T) {
	dev := &fakeDevice{budget: 9000, stuck: true, release: make(chan struct{})}
	t.Cleanup(func() { close(dev.release) })
	c := newTestController(t, dev, Options{JoinTimeout: 100 * time.Millisecond})

	_, err := c.Start()
	require.NoError(t, err)
	waitConsumed(t, dev, 0, 9000)

	start := time.Now()
	result, err := c.Stop()
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 9000, result.Samples)
	assert.FileExists(t, result.Filename)
}

func TestElapsed(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := now
	c := newTestController(t, &fakeDevice{}, Options{Now: func() time.Time { return clock }})

	assert.Equal(t, time.Duration(0), c.Elapsed())

	_, err := c.Start()
	require.NoError(t, err)
	clock = now.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, c.Elapsed())
}
