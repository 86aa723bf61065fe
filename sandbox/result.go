package sandbox

import "time"

// Kind classifies how a run ended.
type Kind string

const (
	KindSuccess              Kind = "success"
	KindClassNameNotFound    Kind = "class_name_not_found"
	KindCompilationError     Kind = "compilation_error"
	KindRuntimeError         Kind = "runtime_error"
	KindTimeout              Kind = "timeout"
	KindUnsupportedLanguage  Kind = "unsupported_language"
	KindToolchainUnavailable Kind = "toolchain_unavailable"
	KindInternal             Kind = "internal_error"
)

// User-facing messages for fixed outcomes.
const (
	MessageTimeout        = "Execution timed out. Your code may contain an infinite loop."
	MessageHTML           = "HTML code doesn't produce console output. Use a web browser to view."
	MessageCSS            = "CSS code doesn't produce console output. Use a web browser to view with HTML."
	MessageClassNotFound  = "Could not identify Java class name. Make sure you have a 'public class ClassName' declaration."
	compilationErrorLabel = "Compilation Error: "
	runtimeErrorLabel     = "Runtime Error: "
)

// Request is one code submission.
type Request struct {
	Source   string   `json:"source"`
	Language Language `json:"language"`
	// Timeout overrides the run-phase timeout when positive.
	Timeout time.Duration `json:"timeout,omitempty"`
	Stdin   string        `json:"stdin,omitempty"`
}

// Result is the outcome of a Request. Succeeded results carry Stdout;
// failed results carry Stderr.
type Result struct {
	Language  Language      `json:"language"`
	Succeeded bool          `json:"succeeded"`
	Kind      Kind          `json:"kind"`
	Stdout    string        `json:"stdout,omitempty"`
	Stderr    string        `json:"stderr,omitempty"`
	ExitCode  int           `json:"exit_code"`
	Duration  time.Duration `json:"duration"`
}

// Output returns whichever stream describes the result.
func (r Result) Output() string {
	if r.Succeeded {
		return r.Stdout
	}
	return r.Stderr
}

func success(stdout string) Result {
	return Result{Succeeded: true, Kind: KindSuccess, Stdout: stdout}
}

func failure(kind Kind, stderr string) Result {
	return Result{Kind: kind, Stderr: stderr, ExitCode: -1}
}
