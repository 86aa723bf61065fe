// Package main implements the iv CLI tool.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "iv: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "iv",
	Short:             "Interview practice - questions, spoken answers, and graded code",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	debugLogging bool
	logger       = zerolog.Nop()
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Log diagnostics to stderr")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := zerolog.WarnLevel
	if debugLogging {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: "15:04:05",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	logger = zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return nil
}

// exitError ends the process with code after output was already written.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e exitError) ExitCode() int {
	return e.code
}
