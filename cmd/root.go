// Package cmd defines and implements the CLI commands for the raffaello
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/beckettonfilm-sys/raffaello/internal/appconfig"
)

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raffaello",
		Short: "A release-catalog crawler for classical music labels.",
		Long: `raffaello walks the listing pages of configured record labels,
visits each album released inside the requested date window, and writes the
accepted catalog as a link list and a spreadsheet. The crawl input file
(date range, filters, delays) lives under FILES/ in the run root.`,
		SilenceUsage: true,
	}

	cobra.OnInitialize(appconfig.Init)

	flags := cmd.PersistentFlags()
	flags.String("root", ".", "run root holding FILES/ and receiving the output artifacts")
	flags.String("config", "", "crawl input file (default <root>/FILES/plik_wejsciowy.txt)")
	flags.Bool("dry-run", false, "crawl and filter but write no artifacts")
	flags.Bool("dev-log", false, "use the colorized development logger")

	mustBind("run.root", flags.Lookup("root"))
	mustBind("run.input", flags.Lookup("config"))
	mustBind("run.dry_run", flags.Lookup("dry-run"))
	mustBind("log.development", flags.Lookup("dev-log"))

	cmd.AddCommand(newCrawlCmd())
	return cmd
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
