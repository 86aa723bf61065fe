package recording

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWAVRoundTripsSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := []int16{0, 1000, -1000, 32767, -32768}

	require.NoError(t, WriteWAV(path, Format{SampleRate: 16000, Channels: 1}, samples))

	got := readSamples(t, path)
	require.Len(t, got, len(samples))
	for i, sample := range samples {
		assert.Equal(t, int(sample), got[i])
	}
}

func TestWriteWAVRemovesFileOnError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	err := WriteWAV(filepath.Join(dir, "x.wav"), Format{SampleRate: 16000, Channels: 1}, nil)
	assert.Error(t, err)
	assert.NoDirExists(t, dir)
}

func TestInspectRejectsNonWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	_, err := Inspect(path)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestFormatDuration(t *testing.T) {
	mono := Format{SampleRate: 16000, Channels: 1}
	stereo := Format{SampleRate: 16000, Channels: 2}

	assert.Equal(t, time.Second, mono.Duration(16000))
	assert.Equal(t, 500*time.Millisecond, stereo.Duration(16000))
	assert.Equal(t, time.Duration(0), Format{}.Duration(100))
}
