package main

import (
	"fmt"

	"github.com/amonks/interview/internal/editor"
	"github.com/amonks/interview/internal/recordtui"
	"github.com/amonks/interview/internal/ui"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record an answer from the microphone",
	Long: `Record from the microphone until Enter is pressed and save a WAV file.

Recordings shorter than half a second are discarded. With --transcribe the
recording is also sent to the transcription endpoint.`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

var (
	recordDir        string
	recordTranscribe bool
)

func init() {
	rootCmd.AddCommand(recordCmd)

	recordCmd.Flags().StringVar(&recordDir, "out", "", "Directory for the WAV file (default ~/.local/share/interview/recordings)")
	recordCmd.Flags().BoolVar(&recordTranscribe, "transcribe", false, "Print a transcript of the recording")
}

func runRecord(cmd *cobra.Command, args []string) error {
	if !editor.IsInteractive() {
		return fmt.Errorf("recording needs an interactive terminal")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	controller, err := newRecorder(cfg, recordDir)
	if err != nil {
		return err
	}
	defer controller.Cleanup()

	result, err := recordtui.Run(cmd.Context(), controller, "Recording", nil, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", result.Filename, ui.FormatClock(result.Duration))

	if !recordTranscribe {
		return nil
	}
	t, err := newTranscriber(cfg)
	if err != nil {
		return err
	}
	text, err := t.Transcribe(cmd.Context(), result.Filename)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}
