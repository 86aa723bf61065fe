package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/amonks/interview/interview"
	"github.com/amonks/interview/sandbox"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Run source files in the sandbox",
	Long: `Run source files in the sandbox and print each result.

The language is inferred from the file extension unless --lang is given.
With --watch, a single file is re-run every time it changes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runLang    string
	runWatch   bool
	runJSON    bool
	runStdin   string
	runTimeout time.Duration
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runLang, "lang", "", "Language of every file (python, java, javascript, cpp, html, css)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Re-run the file whenever it changes")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Output results as JSON")
	runCmd.Flags().StringVar(&runStdin, "stdin", "", "File whose contents are fed to each program's stdin")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "Run-phase timeout, such as 2s (default from config)")
	addLanguageFlagAliases(runCmd)
}

// fileResult pairs a result with the file it came from for JSON output.
type fileResult struct {
	File string `json:"file"`
	sandbox.Result
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	stdin := ""
	if runStdin != "" {
		data, err := os.ReadFile(runStdin)
		if err != nil {
			return fmt.Errorf("read stdin file: %w", err)
		}
		stdin = string(data)
	}

	requests := make([]sandbox.Request, 0, len(args))
	for _, path := range args {
		lang, err := languageForFile(path)
		if err != nil {
			return err
		}
		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		requests = append(requests, sandbox.Request{
			Source:   string(source),
			Language: lang,
			Timeout:  runTimeout,
			Stdin:    stdin,
		})
	}

	sb := newSandbox(cfg)
	out := cmd.OutOrStdout()

	if runWatch {
		if len(args) != 1 {
			return fmt.Errorf("--watch takes exactly one file")
		}
		console := interview.NewConsoleLogger(out)
		return sb.Watch(cmd.Context(), args[0], requests[0].Language, func(result sandbox.Result) {
			if runJSON {
				_ = writeJSONLine(out, fileResult{File: args[0], Result: result})
				return
			}
			console.Execution(interview.ExecutionLog{Result: result})
		})
	}

	results := sb.RunAll(cmd.Context(), requests)

	if runJSON {
		items := make([]fileResult, len(results))
		for i, result := range results {
			items[i] = fileResult{File: args[i], Result: result}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return err
		}
	} else {
		console := interview.NewConsoleLogger(out)
		for i, result := range results {
			if len(results) > 1 {
				fmt.Fprintf(out, "==> %s <==\n", args[i])
				console.ResetSpacing()
			}
			console.Execution(interview.ExecutionLog{Result: result})
		}
	}

	for _, result := range results {
		if !result.Succeeded {
			return exitError{code: 1}
		}
	}
	return nil
}

func languageForFile(path string) (sandbox.Language, error) {
	if runLang != "" {
		return sandbox.ParseLanguage(runLang)
	}
	if lang, ok := sandbox.LanguageForExtension(path); ok {
		return lang, nil
	}
	return "", fmt.Errorf("cannot infer language of %s from extension %q; pass --lang", path, filepath.Ext(path))
}

func writeJSONLine(w io.Writer, value any) error {
	return json.NewEncoder(w).Encode(value)
}
