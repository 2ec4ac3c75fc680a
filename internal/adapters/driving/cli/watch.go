package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/exonascope/exonascope-cli/internal/core/domain"
)

var watchTranscripts string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest files as they arrive in an uploads folder",
	Long: `Watch a directory and run intake on each file that lands in it.
Hidden files are ignored. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchTranscripts, "transcripts", "", "Export audio and video transcripts as DOCX into this directory")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cmd.Printf("Watching %s (Ctrl+C to stop)\n\n", dir)
	return uploadService.Watch(cmd.Context(), dir, func(e domain.UploadEvent) {
		if e.Err != nil {
			cmd.Printf("%s: %v\n", filepath.Base(e.Path), e.Err)
			return
		}
		for _, r := range e.Report.Results {
			cmd.Printf("%s: %s\n", r.SourceName, resultStatus(r))
		}
		if watchTranscripts != "" {
			if err := exportTranscripts(cmd, e.Report, watchTranscripts); err != nil {
				cmd.Printf("%s: %v\n", filepath.Base(e.Path), err)
			}
		}
	})
}
