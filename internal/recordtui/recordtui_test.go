package recordtui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/amonks/interview/recording"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	startErr error
	stopErr  error
	err      error
	elapsed  time.Duration

	started  int
	stopped  int
	cleanups int
}

func (f *fakeRecorder) Start() (string, error) {
	f.started++
	if f.startErr != nil {
		return "", f.startErr
	}
	return "/tmp/answer-1.wav", nil
}

func (f *fakeRecorder) Stop() (recording.Result, error) {
	f.stopped++
	if f.stopErr != nil {
		return recording.Result{}, f.stopErr
	}
	return recording.Result{OK: true, Filename: "/tmp/answer-1.wav", Duration: f.elapsed}, nil
}

func (f *fakeRecorder) Cleanup()               { f.cleanups++ }
func (f *fakeRecorder) Elapsed() time.Duration { return f.elapsed }
func (f *fakeRecorder) Err() error             { return f.err }

func started(t *testing.T, rec *fakeRecorder) model {
	t.Helper()
	m := newModel(rec, "")
	msg := m.Init()()
	updated, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	return updated.(model)
}

func TestModel_StartThenTick(t *testing.T) {
	rec := &fakeRecorder{elapsed: 65 * time.Second}
	m := started(t, rec)
	assert.Equal(t, 1, rec.started)
	assert.Equal(t, "/tmp/answer-1.wav", m.filename)

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(model)
	assert.NotNil(t, cmd)
	assert.Equal(t, 65*time.Second, m.elapsed)
	assert.Contains(t, m.View(), "01:05")
	assert.Contains(t, m.View(), "Recording")
}

func TestModel_EnterStops(t *testing.T) {
	rec := &fakeRecorder{elapsed: 2 * time.Second}
	m := started(t, rec)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(model)
	require.NotNil(t, cmd)
	assert.True(t, m.stopping)
	assert.Contains(t, m.View(), "saving")

	// A second Enter while saving is ignored.
	_, again := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, again)

	updated, _ = m.Update(cmd())
	m = updated.(model)
	assert.Equal(t, 1, rec.stopped)
	assert.True(t, m.done)
	assert.NoError(t, m.err)
	assert.True(t, m.result.OK)
	assert.Empty(t, m.View())
}

func TestModel_StopErrorIsReported(t *testing.T) {
	rec := &fakeRecorder{stopErr: recording.ErrInsufficientAudio}
	m := started(t, rec)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	updated, _ := m.Update(cmd())
	assert.ErrorIs(t, updated.(model).err, recording.ErrInsufficientAudio)
}

func TestModel_EscCancels(t *testing.T) {
	rec := &fakeRecorder{}
	m := started(t, rec)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(model)
	require.NotNil(t, cmd)
	assert.Equal(t, 1, rec.cleanups)
	assert.Zero(t, rec.stopped)
	assert.ErrorIs(t, m.err, ErrCanceled)
}

func TestModel_StartError(t *testing.T) {
	rec := &fakeRecorder{startErr: errors.New("mkdir failed")}
	m := newModel(rec, "Answer")
	updated, cmd := m.Update(m.Init()())
	m = updated.(model)
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.EqualError(t, m.err, "mkdir failed")
}

func TestModel_DeviceFailureEndsPrompt(t *testing.T) {
	rec := &fakeRecorder{}
	m := started(t, rec)
	rec.err = recording.ErrDeviceUnavailable

	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(model)
	assert.True(t, m.done)
	assert.ErrorIs(t, m.err, recording.ErrDeviceUnavailable)
	assert.Equal(t, 1, rec.cleanups)
}

func TestModel_EnterBeforeStartIgnored(t *testing.T) {
	m := newModel(&fakeRecorder{}, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.True(t, strings.Contains(m.View(), "Opening microphone"))
}
