package recording

import "errors"

var (
	// ErrDeviceUnavailable indicates the audio input could not be opened.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrInsufficientAudio indicates the capture was too short to keep.
	ErrInsufficientAudio = errors.New("audio too short")
	// ErrNotRecording indicates Stop was called with no active session.
	ErrNotRecording = errors.New("not recording")
	// ErrNoRecorder indicates no supported capture command was found.
	ErrNoRecorder = errors.New("no audio recorder found")
)
