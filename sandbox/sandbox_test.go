package sandbox

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireTools(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
}

// newTestSandbox returns a sandbox whose work dirs live under a test-owned
// directory, so leftovers can be detected.
func newTestSandbox(t *testing.T, opts Options) (*Sandbox, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	opts.TempDir = root
	return New(opts), root
}

func assertNoLeftovers(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.Empty(t, names, "sandbox left files behind")
}

func TestDisplayOnlyLanguages(t *testing.T) {
	sb, root := newTestSandbox(t, Options{})

	for _, source := range []string{"", "<h1>hi</h1>", "while(true){}"} {
		result := sb.Run(context.Background(), Request{Source: source, Language: LanguageHTML})
		assert.True(t, result.Succeeded)
		assert.Equal(t, KindSuccess, result.Kind)
		assert.Equal(t, MessageHTML, result.Stdout)
	}

	result := sb.Run(context.Background(), Request{Source: "body {}", Language: LanguageCSS})
	assert.True(t, result.Succeeded)
	assert.Equal(t, MessageCSS, result.Stdout)
	assertNoLeftovers(t, root)
}

func TestUnsupportedLanguage(t *testing.T) {
	sb, _ := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{Source: "puts 1", Language: "ruby"})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindUnsupportedLanguage, result.Kind)
	assert.Equal(t, "Language 'ruby' is not supported for execution yet.", result.Stderr)
	assert.Equal(t, Language("ruby"), result.Language)
}

func TestToolchainUnavailable(t *testing.T) {
	sb, root := newTestSandbox(t, Options{Python: "definitely-not-python"})

	result := sb.Run(context.Background(), Request{Source: "print(1)", Language: LanguagePython})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindToolchainUnavailable, result.Kind)
	assert.Contains(t, result.Stderr, "definitely-not-python")
	assertNoLeftovers(t, root)
}

func TestPythonPrintsOutput(t *testing.T) {
	requireTools(t, "python3")
	sb, root := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{Source: `print("hi")`, Language: LanguagePython})
	require.True(t, result.Succeeded, result.Stderr)
	assert.Contains(t, result.Stdout, "hi")
	assert.Empty(t, result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
	assertNoLeftovers(t, root)
}

func TestPythonReadsStdin(t *testing.T) {
	requireTools(t, "python3")
	sb, _ := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{
		Source:   "import sys\nprint(sys.stdin.read().upper())",
		Language: LanguagePython,
		Stdin:    "abc",
	})
	require.True(t, result.Succeeded, result.Stderr)
	assert.Equal(t, "ABC\n", result.Stdout)
}

func TestPythonRuntimeError(t *testing.T) {
	requireTools(t, "python3")
	sb, root := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{Source: "raise ValueError('boom')", Language: LanguagePython})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindRuntimeError, result.Kind)
	assert.Contains(t, result.Stderr, "ValueError: boom")
	assert.Empty(t, result.Stdout)
	assert.NotZero(t, result.ExitCode)
	assertNoLeftovers(t, root)
}

func TestSilentNonZeroExitReportsStatus(t *testing.T) {
	requireTools(t, "python3")
	sb, root := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{Source: "import sys\nsys.exit(3)\n", Language: LanguagePython})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindRuntimeError, result.Kind)
	assert.Equal(t, 3, result.ExitCode)
	assert.Equal(t, "Process exited with status 3", result.Stderr)
	assertNoLeftovers(t, root)
}

func TestPythonInfiniteLoopTimesOut(t *testing.T) {
	requireTools(t, "python3")
	sb, root := newTestSandbox(t, Options{})

	start := time.Now()
	result := sb.Run(context.Background(), Request{
		Source:   "while True:\n    pass\n",
		Language: LanguagePython,
		Timeout:  time.Second,
	})
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindTimeout, result.Kind)
	assert.Equal(t, MessageTimeout, result.Stderr)
	assertNoLeftovers(t, root)
}

func TestTimeoutKillsProcessGroup(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("process groups are unix-only")
	}
	requireTools(t, "python3", "sleep")
	sb, root := newTestSandbox(t, Options{})

	start := time.Now()
	result := sb.Run(context.Background(), Request{
		Source:   "import subprocess, time\nsubprocess.Popen(['sleep', '30'])\ntime.sleep(30)\n",
		Language: LanguagePython,
		Timeout:  500 * time.Millisecond,
	})
	assert.Equal(t, KindTimeout, result.Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
	assertNoLeftovers(t, root)
}

func TestCPULimitStopsBusyLoop(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ulimit behavior checked on linux only")
	}
	requireTools(t, "python3")
	sb, _ := newTestSandbox(t, Options{CPUSeconds: 1})

	start := time.Now()
	result := sb.Run(context.Background(), Request{
		Source:   "while True:\n    pass\n",
		Language: LanguagePython,
		Timeout:  20 * time.Second,
	})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindRuntimeError, result.Kind)
	assert.Less(t, time.Since(start), 15*time.Second)
}

func TestEnvironmentIsScrubbed(t *testing.T) {
	requireTools(t, "python3")
	t.Setenv("IV_SECRET_TOKEN", "hunter2")
	sb, _ := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{
		Source:   "import os\nprint(os.environ.get('IV_SECRET_TOKEN'))\nprint(os.environ['HOME'] == os.getcwd())\n",
		Language: LanguagePython,
	})
	require.True(t, result.Succeeded, result.Stderr)
	assert.Equal(t, "None\nTrue\n", result.Stdout)
}

func TestOutputIsCapped(t *testing.T) {
	requireTools(t, "python3")
	sb, _ := newTestSandbox(t, Options{OutputLimit: 1024})

	result := sb.Run(context.Background(), Request{Source: "print('x' * 100000)", Language: LanguagePython})
	require.True(t, result.Succeeded, result.Stderr)
	assert.True(t, strings.HasSuffix(result.Stdout, truncatedMarker))
	assert.Len(t, result.Stdout, 1024+len(truncatedMarker))
}

func TestJavaWithoutPublicClass(t *testing.T) {
	sb, root := newTestSandbox(t, Options{
		LookPath: func(name string) (string, error) { return "/usr/bin/" + name, nil },
	})

	result := sb.Run(context.Background(), Request{
		Source:   "class Main { public static void main(String[] a) {} }",
		Language: LanguageJava,
	})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindClassNameNotFound, result.Kind)
	assert.Equal(t, MessageClassNotFound, result.Stderr)
	assertNoLeftovers(t, root)
}

func TestJavaCompilesAndRuns(t *testing.T) {
	requireTools(t, "javac", "java")
	sb, root := newTestSandbox(t, Options{CompileTimeout: 60 * time.Second})

	result := sb.Run(context.Background(), Request{
		Source: `public class Greeter {
    public static void main(String[] args) {
        System.out.println("hello from java");
    }
}`,
		Language: LanguageJava,
		Timeout:  30 * time.Second,
	})
	require.True(t, result.Succeeded, result.Stderr)
	assert.Equal(t, "hello from java\n", result.Stdout)
	assertNoLeftovers(t, root)
}

func TestJavaCompilationError(t *testing.T) {
	requireTools(t, "javac", "java")
	sb, root := newTestSandbox(t, Options{CompileTimeout: 60 * time.Second})

	result := sb.Run(context.Background(), Request{
		Source:   "public class Broken { void f() { int x = } }",
		Language: LanguageJava,
	})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindCompilationError, result.Kind)
	assert.True(t, strings.HasPrefix(result.Stderr, "Compilation Error: "))
	assert.Contains(t, result.Stderr, "Broken.java")
	assertNoLeftovers(t, root)
}

func TestCppCompilesAndRuns(t *testing.T) {
	requireTools(t, "g++")
	sb, root := newTestSandbox(t, Options{CompileTimeout: 60 * time.Second})

	result := sb.Run(context.Background(), Request{
		Source:   "#include <iostream>\nint main() { std::cout << \"hello from cpp\" << std::endl; return 0; }\n",
		Language: LanguageCpp,
	})
	require.True(t, result.Succeeded, result.Stderr)
	assert.Equal(t, "hello from cpp\n", result.Stdout)
	assertNoLeftovers(t, root)
}

func TestCppCompilationErrorShortCircuits(t *testing.T) {
	requireTools(t, "g++")
	sb, root := newTestSandbox(t, Options{CompileTimeout: 60 * time.Second})

	result := sb.Run(context.Background(), Request{Source: "int main() { return }", Language: LanguageCpp})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindCompilationError, result.Kind)
	assert.True(t, strings.HasPrefix(result.Stderr, "Compilation Error: "))
	assertNoLeftovers(t, root)
}

func TestCppRuntimeError(t *testing.T) {
	requireTools(t, "g++")
	sb, root := newTestSandbox(t, Options{CompileTimeout: 60 * time.Second})

	result := sb.Run(context.Background(), Request{
		Source:   "#include <cstdio>\nint main() { std::fprintf(stderr, \"bad\"); return 3; }\n",
		Language: LanguageCpp,
	})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindRuntimeError, result.Kind)
	assert.Equal(t, "Runtime Error: bad", result.Stderr)
	assert.Equal(t, 3, result.ExitCode)
	assertNoLeftovers(t, root)
}

func TestCppInfiniteLoopTimesOut(t *testing.T) {
	requireTools(t, "g++")
	sb, root := newTestSandbox(t, Options{CompileTimeout: 60 * time.Second})

	result := sb.Run(context.Background(), Request{
		Source:   "int main() { volatile int x = 0; while (true) { x++; } }\n",
		Language: LanguageCpp,
		Timeout:  time.Second,
	})
	assert.Equal(t, KindTimeout, result.Kind)
	assertNoLeftovers(t, root)
}

func TestJavaScriptPrintsOutput(t *testing.T) {
	requireTools(t, "node")
	sb, root := newTestSandbox(t, Options{})

	result := sb.Run(context.Background(), Request{Source: `console.log("hi from node")`, Language: LanguageJavaScript})
	require.True(t, result.Succeeded, result.Stderr)
	assert.Equal(t, "hi from node\n", result.Stdout)
	assertNoLeftovers(t, root)
}

func TestRunAllPreservesOrder(t *testing.T) {
	requireTools(t, "python3")
	sb, root := newTestSandbox(t, Options{})

	reqs := []Request{
		{Source: "print(1)", Language: LanguagePython},
		{Source: "<p>", Language: LanguageHTML},
		{Source: "print(3)", Language: LanguagePython},
		{Source: "x", Language: "cobol"},
	}
	results := sb.RunAll(context.Background(), reqs)

	require.Len(t, results, 4)
	assert.Equal(t, "1\n", results[0].Stdout)
	assert.Equal(t, MessageHTML, results[1].Stdout)
	assert.Equal(t, "3\n", results[2].Stdout)
	assert.Equal(t, KindUnsupportedLanguage, results[3].Kind)
	assertNoLeftovers(t, root)
}

func TestCanceledContextIsInternalError(t *testing.T) {
	requireTools(t, "python3")
	sb, root := newTestSandbox(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := sb.Run(ctx, Request{Source: "print(1)", Language: LanguagePython})
	assert.False(t, result.Succeeded)
	assert.Equal(t, KindInternal, result.Kind)
	assertNoLeftovers(t, root)
}
