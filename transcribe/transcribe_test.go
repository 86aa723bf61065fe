package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{Model: "whisper-large-v3"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestTranscribeEmptyFile(t *testing.T) {
	tr, err := New(Config{Model: "whisper-large-v3", APIKey: "k", BaseURL: "http://127.0.0.1:1/"})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "empty.wav")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	text, err := tr.Transcribe(context.Background(), path)
	assert.ErrorIs(t, err, ErrEmptyAudio)
	assert.Empty(t, text)

	text, err = tr.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, ErrEmptyAudio)
	assert.Empty(t, text)
}

func TestTranscribeUploadsFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/transcriptions"), r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-large-v3", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "answer.wav", header.Filename)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "RIFFdata", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text": "  a closure captures\n variables  "}`)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "answer.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFdata"), 0o644))

	tr, err := New(Config{Model: "whisper-large-v3", APIKey: "k", BaseURL: server.URL + "/v1/"})
	require.NoError(t, err)

	text, err := tr.Transcribe(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "a closure captures variables", text)
}
