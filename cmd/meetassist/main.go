package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "meetassist",
		Short: "Meeting assistant: transcribe, summarize and suggest",
		Long: `meetassist transcribes a meeting recording, reads up to ten agenda
documents and asks a language model for a business summary and for
facilitation suggestions written from a configurable persona.

Examples:
  # One-off analysis
  meetassist analyze --audio weekly.m4a --agenda plan.docx --agenda budget.xlsx

  # HTTP API
  meetassist serve --config config.yaml

  # Drop folder
  meetassist watch`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real environment variables win.
			_ = godotenv.Load()
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file (optional)")

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newServeCommand())
	root.AddCommand(newWatchCommand())
	return root
}
