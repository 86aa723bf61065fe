// Package sandbox runs submitted source code under timeouts.
//
// Each request gets its own temporary directory, which is removed on every
// exit path. Programs run with a scrubbed environment in their own process
// group, and a timeout kills the whole group. This bounds runaway programs; it
// is not a secure multi-tenant sandbox, since submissions can still read the
// filesystem and reach the network with the user's privileges.
package sandbox

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"
)

// Default phase timeouts.
const (
	DefaultRunTimeout     = 5 * time.Second
	DefaultCompileTimeout = 10 * time.Second
)

// Options configures a Sandbox.
type Options struct {
	Python      string
	Node        string
	Javac       string
	Java        string
	Cxx         string
	CppStandard string

	RunTimeout     time.Duration
	CompileTimeout time.Duration

	// CPUSeconds and MemoryMB apply ulimit caps when positive.
	CPUSeconds int
	MemoryMB   int
	// OutputLimit caps stdout and stderr separately.
	OutputLimit int
	// TempDir is the parent of per-request directories. Defaults to os.TempDir().
	TempDir string

	Logger   *zerolog.Logger
	LookPath func(string) (string, error)
}

func (o Options) withDefaults() Options {
	if o.Python == "" {
		o.Python = "python3"
	}
	if o.Node == "" {
		o.Node = "node"
	}
	if o.Javac == "" {
		o.Javac = "javac"
	}
	if o.Java == "" {
		o.Java = "java"
	}
	if o.Cxx == "" {
		o.Cxx = "g++"
	}
	if o.CppStandard == "" {
		o.CppStandard = "c++17"
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = DefaultRunTimeout
	}
	if o.CompileTimeout <= 0 {
		o.CompileTimeout = DefaultCompileTimeout
	}
	if o.OutputLimit <= 0 {
		o.OutputLimit = DefaultOutputLimit
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	return o
}

// Sandbox executes requests. It is safe for concurrent use.
type Sandbox struct {
	opts       Options
	strategies map[Language]strategy
}

// New returns a Sandbox with one strategy per executable language.
func New(opts Options) *Sandbox {
	opts = opts.withDefaults()
	return &Sandbox{
		opts: opts,
		strategies: map[Language]strategy{
			LanguagePython:     interpreted{file: "main.py", binary: opts.Python},
			LanguageJavaScript: interpreted{file: "main.js", binary: opts.Node},
			LanguageJava:       javaStrategy{javac: opts.Javac, java: opts.Java},
			LanguageCpp:        cppStrategy{cxx: opts.Cxx, standard: opts.CppStandard},
			LanguageHTML:       displayOnly{message: MessageHTML},
			LanguageCSS:        displayOnly{message: MessageCSS},
		},
	}
}

// Toolchain returns the binaries a language needs.
func (s *Sandbox) Toolchain(lang Language) []string {
	strat, ok := s.strategies[lang]
	if !ok {
		return nil
	}
	return strat.toolchain()
}

// Run executes req. Every failure is reported in the Result.
func (s *Sandbox) Run(ctx context.Context, req Request) Result {
	start := time.Now()
	result := s.execute(ctx, req)
	result.Language = req.Language
	result.Duration = time.Since(start)

	s.opts.Logger.Debug().
		Str("language", string(req.Language)).
		Str("kind", string(result.Kind)).
		Dur("duration", result.Duration).
		Msg("sandbox run finished")
	return result
}

func (s *Sandbox) execute(ctx context.Context, req Request) Result {
	strat, ok := s.strategies[req.Language]
	if !ok {
		return failure(KindUnsupportedLanguage, fmt.Sprintf("Language '%s' is not supported for execution yet.", req.Language))
	}

	tools := strat.toolchain()
	resolved := make(map[string]string, len(tools))
	for _, tool := range tools {
		path, err := s.opts.LookPath(tool)
		if err != nil {
			return failure(KindToolchainUnavailable, fmt.Sprintf("%s is not installed or not on PATH.", tool))
		}
		resolved[tool] = path
	}
	if len(tools) == 0 {
		return strat.execute(ctx, nil, req)
	}

	dir, err := os.MkdirTemp(s.opts.TempDir, "iv-run-")
	if err != nil {
		return failure(KindInternal, fmt.Sprintf("An error occurred: create work dir: %v", err))
	}
	defer s.removeWorkDir(dir)

	return strat.execute(ctx, &job{sandbox: s, dir: dir, tools: resolved}, req)
}

func (s *Sandbox) removeWorkDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.opts.Logger.Warn().Err(err).Str("dir", dir).Msg("remove sandbox dir")
	}
}

func (s *Sandbox) runTimeout(req Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return s.opts.RunTimeout
}
