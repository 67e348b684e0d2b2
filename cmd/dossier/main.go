package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dossier/internal/config"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	logFile *os.File

	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dossier",
	Short: "Generate realistic, industry-specific folder hierarchies",
	Long: `dossier asks a language model what the working documents of a
business in a given industry look like, and materializes the answer as
a folder hierarchy with placeholder files.

Responses are held to a strict JSON contract: anything that does not
parse or misses required keys is sent back to the model for repair a
bounded number of times before the affected subtree is abandoned.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := slog.LevelInfo
		if cfg.Environment == "dev" || verbose {
			logLevel = slog.LevelDebug
		}
		var out io.Writer = os.Stderr
		if cfg.LogDir != "" {
			f, err := config.NewRunLogFile(cfg.LogDir, cfg.MaxLogFiles)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: run log disabled: %v\n", err)
			} else {
				logFile = f
				out = io.MultiWriter(os.Stderr, f)
			}
		}
		logger = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg = config.Load()

	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
