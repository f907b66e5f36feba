package commands

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/nlbank/internal/buildinfo"
	"github.com/cleared-dev/nlbank/internal/config"
)

type rootOptions struct {
	configPath string
	repo       string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
// Flag defaults come from NLBANK_CONFIG, NLBANK_REPO and NLBANK_LOG_LEVEL.
func NewRootCommand() *cobra.Command {
	envCfg, envErr := config.LoadEnv()
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "nlbank",
		Short:   "Import Dutch bank exports into a plain-text ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("NO_COLOR") != "" {
				pterm.DisableColor()
			}
			return envErr
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", envCfg.ConfigPath, "config file (default <repo>/"+config.FileName+")")
	flags.StringVar(&opts.repo, "repo", envCfg.Repo, "project root")
	flags.StringVar(&opts.logLevel, "log-level", envCfg.LogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(opts),
		newIdentifyCommand(opts),
		newExtractCommand(opts),
	)

	return rootCmd
}
