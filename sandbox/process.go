package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// waitDelay bounds how long Wait blocks on pipes held open by orphans.
const waitDelay = 500 * time.Millisecond

type process struct {
	path    string
	args    []string
	dir     string
	stdin   string
	timeout time.Duration
	// unlimitedMemory skips the address-space cap; the JVM reserves far more
	// virtual memory than it uses.
	unlimitedMemory bool
}

type processResult struct {
	stdout   string
	stderr   string
	exitCode int
	timedOut bool
}

// run executes p and reports how it exited. The returned error is set only
// when the process could not be run at all or ctx was canceled by the caller.
func (s *Sandbox) run(ctx context.Context, p process) (processResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	name, args := s.wrapLimits(p)
	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = p.dir
	cmd.Env = s.environment(p.dir)
	cmd.Stdin = strings.NewReader(p.stdin)
	stdout := &cappedBuffer{limit: s.opts.OutputLimit}
	stderr := &cappedBuffer{limit: s.opts.OutputLimit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	isolateProcessGroup(cmd)

	err := cmd.Run()
	result := processResult{stdout: stdout.String(), stderr: stderr.String()}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		result.timedOut = true
		result.exitCode = -1
		return result, nil
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("run %s: %w", p.path, err)
		}
		result.exitCode = exitErr.ExitCode()
	}
	return result, nil
}

// wrapLimits prefixes the command with a shell that applies ulimit caps.
func (s *Sandbox) wrapLimits(p process) (string, []string) {
	memoryKB := s.opts.MemoryMB * 1024
	if p.unlimitedMemory {
		memoryKB = 0
	}
	if (s.opts.CPUSeconds <= 0 && memoryKB <= 0) || !ulimitSupported() {
		return p.path, p.args
	}

	var script strings.Builder
	if s.opts.CPUSeconds > 0 {
		script.WriteString("ulimit -t " + strconv.Itoa(s.opts.CPUSeconds) + "; ")
	}
	if memoryKB > 0 {
		script.WriteString("ulimit -v " + strconv.Itoa(memoryKB) + "; ")
	}
	script.WriteString(`exec "$@"`)

	args := append([]string{"-c", script.String(), "sh", p.path}, p.args...)
	return "/bin/sh", args
}

// environment returns a minimal environment confined to dir.
func (s *Sandbox) environment(dir string) []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + dir,
		"TMPDIR=" + dir,
	}
	lang := os.Getenv("LANG")
	if lang == "" {
		lang = "C.UTF-8"
	}
	env = append(env, "LANG="+lang)
	if javaHome := os.Getenv("JAVA_HOME"); javaHome != "" {
		env = append(env, "JAVA_HOME="+javaHome)
	}
	return env
}
