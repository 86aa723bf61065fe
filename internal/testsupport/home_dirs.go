package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// EnsureHomeDirs creates the default config, state, and recordings directories under homeDir.
func EnsureHomeDirs(homeDir string) error {
	for _, dir := range []string{
		filepath.Join(homeDir, ".config", "interview"),
		filepath.Join(homeDir, ".local", "state", "interview"),
		filepath.Join(homeDir, ".local", "share", "interview", "recordings"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// SetupTestHome creates a temp home directory, ensures interview dirs, and sets HOME.
// API key variables are cleared so tests never reach a real endpoint.
func SetupTestHome(t testing.TB) string {
	t.Helper()

	homeDir := t.TempDir()
	if err := EnsureHomeDirs(homeDir); err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, name := range apiKeyVars {
		t.Setenv(name, "")
	}
	return homeDir
}

var apiKeyVars = []string{
	"GROQ_API_KEY",
	"ANTHROPIC_API_KEY",
	"INTERVIEW_LLM_API_KEY",
	"INTERVIEW_LLM_PROVIDER",
	"INTERVIEW_LLM_MODEL",
	"INTERVIEW_LLM_BASE_URL",
	"INTERVIEW_TRANSCRIBE_API_KEY",
}
