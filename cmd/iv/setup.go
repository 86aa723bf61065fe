package main

import (
	"fmt"
	"os/user"
	"path/filepath"

	"github.com/amonks/interview/internal/config"
	"github.com/amonks/interview/internal/paths"
	"github.com/amonks/interview/internal/state"
	"github.com/amonks/interview/interview"
	"github.com/amonks/interview/llm"
	"github.com/amonks/interview/recording"
	"github.com/amonks/interview/sandbox"
	"github.com/amonks/interview/transcribe"
)

func loadConfig() (*config.Config, error) {
	cwd, err := paths.WorkingDir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func openStore() (*state.Store, error) {
	dir, err := paths.DefaultStateDir()
	if err != nil {
		return nil, err
	}
	return state.NewStore(dir), nil
}

func promptsDir(cfg *config.Config) (string, error) {
	return paths.ResolveWithDefault(cfg.Interview.PromptsDir, func() (string, error) {
		dir, err := paths.DefaultConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "templates"), nil
	})
}

func newSandbox(cfg *config.Config) *sandbox.Sandbox {
	return sandbox.New(sandbox.Options{
		Python:         cfg.Sandbox.Python,
		Node:           cfg.Sandbox.Node,
		Javac:          cfg.Sandbox.Javac,
		Java:           cfg.Sandbox.Java,
		Cxx:            cfg.Sandbox.Cxx,
		CppStandard:    cfg.Sandbox.CppStandard,
		RunTimeout:     cfg.Sandbox.RunTimeout,
		CompileTimeout: cfg.Sandbox.CompileTimeout,
		CPUSeconds:     cfg.Sandbox.CPUSeconds,
		MemoryMB:       cfg.Sandbox.MemoryMB,
		Logger:         &logger,
	})
}

func newLLM(cfg *config.Config) (llm.Client, error) {
	client, err := llm.New(llm.Config{
		Provider: llm.Provider(cfg.LLM.Provider),
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		APIKey:   cfg.LLM.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("configure %s model: %w (set INTERVIEW_LLM_API_KEY or GROQ_API_KEY)", cfg.LLM.Provider, err)
	}
	return client, nil
}

func newTranscriber(cfg *config.Config) (*transcribe.OpenAI, error) {
	t, err := transcribe.New(transcribe.Config{
		Model:   cfg.Transcribe.Model,
		BaseURL: cfg.Transcribe.BaseURL,
		APIKey:  cfg.Transcribe.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("configure transcription: %w (set INTERVIEW_TRANSCRIBE_API_KEY or GROQ_API_KEY)", err)
	}
	return t, nil
}

func recordingFormat(cfg *config.Config) recording.Format {
	return recording.Format{SampleRate: cfg.Recording.SampleRate, Channels: 1}
}

func newRecorder(cfg *config.Config, dir string) (*recording.Controller, error) {
	dir, err := paths.ResolveWithDefault(firstNonEmpty(dir, cfg.Recording.Dir), paths.DefaultRecordingsDir)
	if err != nil {
		return nil, err
	}
	device := recording.CommandDevice{Command: cfg.Recording.Command}
	return recording.NewController(device, recording.Options{
		Dir:    dir,
		Format: recordingFormat(cfg),
		Logger: &logger,
	}), nil
}

// newInterviewer wires the model, sandbox, and (when voice is set) the
// transcriber.
func newInterviewer(cfg *config.Config, voice bool) (*interview.Interviewer, error) {
	client, err := newLLM(cfg)
	if err != nil {
		return nil, err
	}
	dir, err := promptsDir(cfg)
	if err != nil {
		return nil, err
	}
	iv := &interview.Interviewer{
		LLM:        client,
		Sandbox:    newSandbox(cfg),
		PromptsDir: dir,
		Logger:     &logger,
	}
	if voice {
		t, err := newTranscriber(cfg)
		if err != nil {
			return nil, err
		}
		iv.Transcriber = t
	}
	return iv, nil
}

func resolveUser(flagValue string, cfg *config.Config) string {
	if name := firstNonEmpty(flagValue, cfg.Interview.User); name != "" {
		return name
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username
	}
	return "anonymous"
}

func resolveDomain(flagValue string, cfg *config.Config) (string, error) {
	return interview.ParseDomain(firstNonEmpty(flagValue, cfg.Interview.Domain, config.DefaultDomain))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
