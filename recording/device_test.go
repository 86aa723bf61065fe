package recording

import (
	"errors"
	"io"
	"os/exec"
	"runtime"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommandDeviceReadsPCM(t *testing.T) {
	requireShell(t)
	dev := CommandDevice{Command: []string{"sh", "-c", "head -c 4096 /dev/zero"}}

	stream, err := dev.Open(Format{SampleRate: 16000, Channels: 1})
	require.NoError(t, err)
	defer stream.Close()

	buf := make([]int16, 1024)
	total := 0
	for {
		n, err := stream.Read(buf)
		total += n
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
	}
	assert.Equal(t, 2048, total)
}

func TestCommandDeviceCloseUnblocksRead(t *testing.T) {
	requireShell(t)
	dev := CommandDevice{Command: []string{"sh", "-c", "exec sleep 30"}}

	stream, err := dev.Open(Format{SampleRate: 16000, Channels: 1})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = stream.Read(make([]int16, 1024))
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, stream.Close())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not return after Close")
	}
}

func TestCommandDeviceFailedExitReportsStderr(t *testing.T) {
	requireShell(t)
	dev := CommandDevice{Command: []string{"sh", "-c", "echo 'no such card' >&2; exit 1"}}

	stream, err := dev.Open(Format{SampleRate: 16000, Channels: 1})
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Read(make([]int16, 1024))
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
	assert.ErrorContains(t, err, "no such card")
}

func TestCommandDeviceMissingBinary(t *testing.T) {
	dev := CommandDevice{Command: []string{"definitely-not-a-recorder"}}

	_, err := dev.Open(Format{SampleRate: 16000, Channels: 1})
	assert.ErrorIs(t, err, ErrDeviceUnavailable)
}

func TestDetectCommand(t *testing.T) {
	format := Format{SampleRate: 16000, Channels: 1}
	none := func(string) (string, error) { return "", exec.ErrNotFound }

	_, err := DetectCommand(format, none)
	assert.True(t, errors.Is(err, ErrNoRecorder))

	onlyFFmpeg := func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", exec.ErrNotFound
	}
	args, err := DetectCommand(format, onlyFFmpeg)
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", args[0])
	assert.True(t, slices.Contains(args, "s16le"))
	assert.True(t, slices.Contains(args, "16000"))

	if runtime.GOOS == "linux" {
		all := func(name string) (string, error) { return "/usr/bin/" + name, nil }
		args, err := DetectCommand(format, all)
		require.NoError(t, err)
		assert.Equal(t, "arecord", args[0])
	}
}
