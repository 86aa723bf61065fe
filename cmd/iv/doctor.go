package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/amonks/interview/internal/config"
	"github.com/amonks/interview/internal/ui"
	"github.com/amonks/interview/recording"
	"github.com/amonks/interview/sandbox"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check toolchains, the audio recorder, and API keys",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorCheck struct {
	name   string
	ok     bool
	detail string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	checks := toolchainChecks(newSandbox(cfg), exec.LookPath)
	checks = append(checks, recorderCheck(cfg, exec.LookPath))
	checks = append(checks, apiKeyChecks(cfg)...)

	rows := make([][]string, 0, len(checks))
	for _, check := range checks {
		status := "ok"
		if !check.ok {
			status = "missing"
		}
		rows = append(rows, []string{check.name, status, check.detail})
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), ui.FormatTable([]string{"CHECK", "STATUS", "DETAIL"}, rows))
	return err
}

func toolchainChecks(sb *sandbox.Sandbox, lookPath func(string) (string, error)) []doctorCheck {
	var checks []doctorCheck
	for _, lang := range sandbox.ValidLanguages() {
		if !lang.Executable() {
			continue
		}
		check := doctorCheck{name: string(lang), ok: true}
		var found []string
		for _, binary := range sb.Toolchain(lang) {
			path, err := lookPath(binary)
			if err != nil {
				check.ok = false
				found = append(found, binary+" not found")
				continue
			}
			found = append(found, path)
		}
		check.detail = strings.Join(found, ", ")
		checks = append(checks, check)
	}
	return checks
}

func recorderCheck(cfg *config.Config, lookPath func(string) (string, error)) doctorCheck {
	check := doctorCheck{name: "recorder"}
	command := cfg.Recording.Command
	if len(command) == 0 {
		detected, err := recording.DetectCommand(recordingFormat(cfg), lookPath)
		if err != nil {
			check.detail = err.Error()
			return check
		}
		command = detected
	}
	if _, err := lookPath(command[0]); err != nil {
		check.detail = command[0] + " not found"
		return check
	}
	check.ok = true
	check.detail = strings.Join(command, " ")
	return check
}

func apiKeyChecks(cfg *config.Config) []doctorCheck {
	llmCheck := doctorCheck{
		name:   "llm api key",
		ok:     cfg.LLM.APIKey != "",
		detail: fmt.Sprintf("%s %s", cfg.LLM.Provider, cfg.LLM.Model),
	}
	transcribeCheck := doctorCheck{
		name:   "transcribe api key",
		ok:     cfg.Transcribe.APIKey != "",
		detail: cfg.Transcribe.Model,
	}
	return []doctorCheck{llmCheck, transcribeCheck}
}
