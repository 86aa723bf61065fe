// Package transcribe converts recorded answers to text.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	// ErrEmptyAudio indicates the audio file is missing or has no content.
	ErrEmptyAudio = errors.New("empty audio file")
	// ErrMissingAPIKey indicates no API key was configured.
	ErrMissingAPIKey = errors.New("missing transcription API key")
)

// Transcriber turns a WAV file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// Config configures an OpenAI-compatible transcription endpoint.
type Config struct {
	Model   string
	BaseURL string
	APIKey  string
}

// OpenAI transcribes with a Whisper-style /audio/transcriptions endpoint.
type OpenAI struct {
	client openai.Client
	model  string
}

// New returns an OpenAI transcriber.
func New(cfg Config) (*OpenAI, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

// Transcribe uploads the file at path and returns its whitespace-normalized text.
// An empty or missing file yields an empty transcript and ErrEmptyAudio.
func (t *OpenAI) Transcribe(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmptyAudio, err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyAudio, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	transcription, err := t.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(t.model),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", path, err)
	}
	return strings.Join(strings.Fields(transcription.Text), " "), nil
}
