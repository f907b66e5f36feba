package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/nlbank/internal/accounts"
	"github.com/cleared-dev/nlbank/internal/config"
	"github.com/cleared-dev/nlbank/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var currency string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new nlbank project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, strings.ToUpper(currency), !noGit)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "EUR", "ledger currency")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git init and the initial commit")

	return cmd
}

func runInit(dir, currency string, withGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default()
	cfg.Currency = currency
	cfg.Accounts = config.FromModel(accounts.Example())

	dirs := []string{
		cfg.ImportDir,
		filepath.Join(cfg.ImportDir, "processed"),
		cfg.JournalDir,
		cfg.LogDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Unprocessed exports stay out of history until extract --write moves them.
	gitignore := cfg.ImportDir + "/*.csv\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	for _, d := range []string{filepath.Join(cfg.ImportDir, "processed"), cfg.JournalDir, cfg.LogDir} {
		if err := os.WriteFile(filepath.Join(dir, d, ".gitkeep"), []byte{}, 0o644); err != nil {
			return fmt.Errorf("writing .gitkeep: %w", err)
		}
	}

	if !withGit {
		pterm.Success.Printf("Initialized nlbank project at %s\n", dir)
		return nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
	}

	hash, err := gitops.Commit(dir, "init: nlbank project", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	pterm.Success.Printf("Initialized nlbank project at %s (%s)\n", dir, hash)
	return nil
}
