package recording

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV indicates a file is not a readable WAV.
var ErrInvalidWAV = errors.New("invalid wav file")

const bitDepth = 16

// WriteWAV persists samples as a 16-bit PCM WAV file. A partially written
// file is removed on error.
func WriteWAV(path string, format Format, samples []int16) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close wav: %w", closeErr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	data := make([]int, len(samples))
	for i, sample := range samples {
		data[i] = int(sample)
	}

	enc := wav.NewEncoder(f, format.SampleRate, bitDepth, format.Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: format.Channels, SampleRate: format.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return nil
}

// Info describes a WAV file on disk.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    int
	Duration   time.Duration
}

// Inspect reads the header of a WAV file.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Info{}, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}
	format := Format{SampleRate: int(dec.SampleRate), Channels: int(dec.NumChans)}
	return Info{
		SampleRate: format.SampleRate,
		Channels:   format.Channels,
		BitDepth:   int(dec.BitDepth),
		Samples:    len(buf.Data),
		Duration:   format.Duration(len(buf.Data)),
	}, nil
}
