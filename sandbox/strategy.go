package sandbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// strategy runs one language.
type strategy interface {
	// toolchain lists binaries that must resolve on PATH.
	toolchain() []string
	// execute runs req. j is nil for languages with no toolchain.
	execute(ctx context.Context, j *job, req Request) Result
}

// job is the per-request work area.
type job struct {
	sandbox *Sandbox
	dir     string
	tools   map[string]string
}

func (j *job) writeSource(name, source string) (string, error) {
	path := filepath.Join(j.dir, name)
	if err := os.WriteFile(path, []byte(source), 0o600); err != nil {
		return "", fmt.Errorf("write source: %w", err)
	}
	return path, nil
}

// phase runs one step and converts its outcome into a Result. label prefixes
// stderr on failure. ok reports whether the step exited zero.
func (j *job) phase(ctx context.Context, p process, failKind Kind, label string) (Result, bool) {
	out, err := j.sandbox.run(ctx, p)
	switch {
	case err != nil:
		return failure(KindInternal, "An error occurred: "+err.Error()), false
	case out.timedOut:
		return failure(KindTimeout, MessageTimeout), false
	case out.exitCode != 0:
		stderr := out.stderr
		if strings.TrimSpace(stderr) == "" {
			stderr = fmt.Sprintf("Process exited with status %d", out.exitCode)
		}
		result := failure(failKind, label+stderr)
		result.ExitCode = out.exitCode
		return result, false
	}
	return success(out.stdout), true
}

type interpreted struct {
	file   string
	binary string
}

func (s interpreted) toolchain() []string {
	return []string{s.binary}
}

func (s interpreted) execute(ctx context.Context, j *job, req Request) Result {
	path, err := j.writeSource(s.file, req.Source)
	if err != nil {
		return failure(KindInternal, "An error occurred: "+err.Error())
	}
	result, _ := j.phase(ctx, process{
		path:    j.tools[s.binary],
		args:    []string{path},
		dir:     j.dir,
		stdin:   req.Stdin,
		timeout: j.sandbox.runTimeout(req),
	}, KindRuntimeError, "")
	return result
}

var javaClassPattern = regexp.MustCompile(`\bpublic\s+(?:(?:final|abstract|static)\s+)*class\s+([A-Za-z_$][A-Za-z0-9_$]*)`)

// JavaClassName returns the first public class declared in source.
func JavaClassName(source string) (string, bool) {
	for _, line := range strings.Split(source, "\n") {
		if match := javaClassPattern.FindStringSubmatch(line); match != nil {
			return match[1], true
		}
	}
	return "", false
}

type javaStrategy struct {
	javac string
	java  string
}

func (s javaStrategy) toolchain() []string {
	return []string{s.javac, s.java}
}

func (s javaStrategy) execute(ctx context.Context, j *job, req Request) Result {
	className, ok := JavaClassName(req.Source)
	if !ok {
		return failure(KindClassNameNotFound, MessageClassNotFound)
	}
	path, err := j.writeSource(className+".java", req.Source)
	if err != nil {
		return failure(KindInternal, "An error occurred: "+err.Error())
	}

	if result, ok := j.phase(ctx, process{
		path:            j.tools[s.javac],
		args:            []string{path},
		dir:             j.dir,
		timeout:         j.sandbox.opts.CompileTimeout,
		unlimitedMemory: true,
	}, KindCompilationError, compilationErrorLabel); !ok {
		return result
	}

	result, _ := j.phase(ctx, process{
		path:            j.tools[s.java],
		args:            []string{"-cp", j.dir, className},
		dir:             j.dir,
		stdin:           req.Stdin,
		timeout:         j.sandbox.runTimeout(req),
		unlimitedMemory: true,
	}, KindRuntimeError, runtimeErrorLabel)
	return result
}

type cppStrategy struct {
	cxx      string
	standard string
}

func (s cppStrategy) toolchain() []string {
	return []string{s.cxx}
}

func (s cppStrategy) execute(ctx context.Context, j *job, req Request) Result {
	path, err := j.writeSource("main.cpp", req.Source)
	if err != nil {
		return failure(KindInternal, "An error occurred: "+err.Error())
	}
	binary := filepath.Join(j.dir, "main")

	if result, ok := j.phase(ctx, process{
		path:    j.tools[s.cxx],
		args:    []string{"-std=" + s.standard, path, "-o", binary},
		dir:     j.dir,
		timeout: j.sandbox.opts.CompileTimeout,
	}, KindCompilationError, compilationErrorLabel); !ok {
		return result
	}

	result, _ := j.phase(ctx, process{
		path:    binary,
		dir:     j.dir,
		stdin:   req.Stdin,
		timeout: j.sandbox.runTimeout(req),
	}, KindRuntimeError, runtimeErrorLabel)
	return result
}

type displayOnly struct {
	message string
}

func (displayOnly) toolchain() []string {
	return nil
}

func (s displayOnly) execute(context.Context, *job, Request) Result {
	return success(s.message)
}
