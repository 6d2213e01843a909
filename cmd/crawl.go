package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/beckettonfilm-sys/raffaello/internal/appconfig"
	"github.com/beckettonfilm-sys/raffaello/internal/logging"
	"github.com/beckettonfilm-sys/raffaello/internal/progress"
	"github.com/beckettonfilm-sys/raffaello/internal/run"
)

// newCrawlCmd creates and configures the 'crawl' subcommand, which executes
// one full catalog run and prints the result summary as JSON.
func newCrawlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crawl",
		Short: "Runs the two-phase catalog crawl",
		Long: `Crawls every configured label's listing pages, visits albums whose
listing date falls inside the configured window, applies the genre and
length filters, and writes the output artifacts into the run root.`,
		RunE: runCrawlCommand,
	}
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	logger, err := logging.New(viper.GetBool(appconfig.KeyDevLog))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var observer progress.Observer = progress.Nop()
	if viper.GetBool(appconfig.KeyProgress) {
		observer = progress.NewLogObserver(logger)
	}

	result, err := run.Run(ctx, run.Options{
		Root:       viper.GetString(appconfig.KeyRoot),
		ConfigPath: viper.GetString(appconfig.KeyInput),
		DryRun:     viper.GetBool(appconfig.KeyDryRun),
		Observer:   observer,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	summary, jerr := json.MarshalIndent(result, "", "  ")
	if jerr != nil {
		logger.Warn("marshal result summary", zap.Error(jerr))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(summary))
	}

	if !result.OK {
		return fmt.Errorf("%s: %s", result.Err.Code, result.Err.Message)
	}
	return nil
}
