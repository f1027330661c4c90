package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-assistant/internal/apperr"
	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
	"github.com/nguyentantai21042004/meeting-assistant/internal/processor"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		audioPath   string
		agendaPaths []string
		persona     string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze one recording and write summary, suggestion and report",
		Long: `Analyze one meeting recording with optional agenda documents.

Only the first ten agenda files are read. The summary and suggestion are
written verbatim to summary.txt and suggestion.txt in the output directory,
together with report.docx.

Examples:
  meetassist analyze --audio weekly.m4a
  meetassist analyze --audio weekly.m4a --agenda plan.pdf --agenda slides.pptx --out out/weekly
  meetassist analyze --audio weekly.m4a --persona "厳しめの監査役として指摘してください"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}

			out := cmd.ErrOrStderr()
			result, written, err := a.processor.ProcessFiles(ctx, processor.FilesRequest{
				AudioPath:   audioPath,
				AgendaPaths: agendaPaths,
				Persona:     persona,
				OutputDir:   outputDir,
			}, func(ev domain.ProgressEvent) {
				fmt.Fprintf(out, "[%s] %s\n", ev.Stage, ev.Message)
			})
			if err != nil {
				if apperr.IsValidation(err) || apperr.IsTranscription(err) || apperr.IsCompletion(err) {
					return fmt.Errorf("%s (%w)", apperr.UserMessage(err), err)
				}
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "## 要約\n%s\n\n## 提案\n%s\n", result.Summary, result.Suggestion)
			for _, path := range written {
				fmt.Fprintf(out, "wrote %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "Meeting recording (wav, mp3, m4a, mp4)")
	cmd.Flags().StringArrayVar(&agendaPaths, "agenda", nil, "Agenda document; repeat for several files")
	cmd.Flags().StringVarP(&persona, "persona", "p", "", "System persona for the suggestion (default: partner persona)")
	cmd.Flags().StringVarP(&outputDir, "out", "o", ".", "Directory for summary.txt, suggestion.txt and report.docx")
	_ = cmd.MarkFlagRequired("audio")

	return cmd
}

func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
