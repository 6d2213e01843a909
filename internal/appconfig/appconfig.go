// Package appconfig initializes the application-level settings layer. These
// are operator concerns (logging mode, run root, dry-run) kept separate from
// the crawl input file, which the operators of the catalog pipeline edit.
package appconfig

import (
	"strings"

	"github.com/spf13/viper"
)

// Setting keys resolved through Viper.
const (
	KeyRoot     = "run.root"
	KeyInput    = "run.input"
	KeyDryRun   = "run.dry_run"
	KeyDevLog   = "log.development"
	KeyProgress = "log.progress"
)

// Init sets up Viper defaults, search paths, and environment binding. It is
// called once from cobra.OnInitialize; a missing config file is not an error
// since every setting has a default.
func Init() {
	viper.SetConfigName("raffaello")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.raffaello")

	viper.SetDefault(KeyRoot, ".")
	viper.SetDefault(KeyInput, "")
	viper.SetDefault(KeyDryRun, false)
	viper.SetDefault(KeyDevLog, false)
	viper.SetDefault(KeyProgress, true)

	viper.SetEnvPrefix("RAFFAELLO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Ignore a missing file; flags, env vars, and defaults cover everything.
	_ = viper.ReadInConfig()
}
