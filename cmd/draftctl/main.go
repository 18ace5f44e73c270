package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/freedom_case_2/replydraft/internal/app"
	"github.com/freedom_case_2/replydraft/internal/config"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "draftctl",
	Short: "Draft and score support replies from the command line",
	Long: `draftctl runs the reply drafting pipeline against ticket files without
starting the HTTP server. It reads the same environment as the server
(DATABASE_URL, TEMPLATES_FILE, GENERATIVE_PROVIDER, ...).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for pipeline diagnostics (written to stderr)")
}

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openApp builds the pipeline with logs routed to stderr so stdout stays JSON.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.LogLevel = logLevel
	logger := app.NewLogger(cfg, "draftctl").Output(os.Stderr)
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise pipeline: %w", err)
	}
	return a, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
