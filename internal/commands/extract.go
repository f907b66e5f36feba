package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/nlbank/internal/gitops"
	"github.com/cleared-dev/nlbank/internal/importer"
	"github.com/cleared-dev/nlbank/internal/importlog"
	"github.com/cleared-dev/nlbank/internal/journal"
	"github.com/cleared-dev/nlbank/internal/model"
)

type extractOptions struct {
	importer string
	write    bool
	commit   bool
	force    bool
}

func newExtractCommand(opts *rootOptions) *cobra.Command {
	var eo extractOptions

	cmd := &cobra.Command{
		Use:   "extract [file...]",
		Short: "Convert bank exports to transactions",
		Long: `Extract converts bank exports to balanced transactions and prints them in
beancount syntax. Without arguments every file in the import directory that an
importer claims is extracted. With --write the transactions are appended to the
journal, the exports are moved to import/processed and the run is recorded in
the import log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			return runExtract(cmd, p, eo, args)
		},
	}

	cmd.Flags().StringVar(&eo.importer, "importer", "", "importer to use instead of identifying by filename")
	cmd.Flags().BoolVar(&eo.write, "write", false, "append to the journal and move exports to processed")
	cmd.Flags().BoolVar(&eo.commit, "commit", false, "commit the journal after writing (implies --write)")
	cmd.Flags().BoolVar(&eo.force, "force", false, "re-import files the import log marks as imported")

	return cmd
}

type extraction struct {
	path     string
	importer importer.Importer
	txns     []model.Transaction
}

func runExtract(cmd *cobra.Command, p *project, eo extractOptions, args []string) error {
	reg, err := p.importers()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		files, err := importer.Scan(p.path(p.cfg.ImportDir))
		if err != nil {
			return err
		}
		for _, f := range files {
			if _, _, ok := reg.Identify(f.Path); ok {
				paths = append(paths, f.Path)
			}
		}
	}
	if len(paths) == 0 {
		pterm.Info.WithWriter(cmd.ErrOrStderr()).Println("No files to extract")
		return nil
	}

	write := eo.write || eo.commit
	commit := eo.commit || (write && p.cfg.Git.AutoCommit)
	logDir := p.path(p.cfg.LogDir)

	var done []importlog.Entry
	if write && !eo.force {
		done, err = importlog.Read(logDir)
		if err != nil {
			return err
		}
	}

	var results []extraction
	for _, path := range paths {
		if write && importlog.Imported(done, filepath.Base(path)) {
			pterm.Warning.WithWriter(cmd.ErrOrStderr()).Printf("Skipping %s: already imported\n", filepath.Base(path))
			continue
		}

		imp, err := pick(reg, eo.importer, path)
		if err != nil {
			return err
		}

		txns, err := imp.Extract(path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
		}
		for i := range txns {
			txns[i].Meta.Filename = filepath.Base(path)
		}
		p.log.Debug().Str("file", path).Str("importer", imp.Name()).Int("transactions", len(txns)).Msg("extracted")
		results = append(results, extraction{path: path, importer: imp, txns: txns})
	}

	if !write {
		var all []model.Transaction
		for _, r := range results {
			all = append(all, r.txns...)
		}
		return journal.RenderBeancount(cmd.OutOrStdout(), all)
	}
	if len(results) == 0 {
		return nil
	}

	return writeExtractions(cmd, p, results, commit)
}

// pick returns the named importer, or the one claiming path by filename.
func pick(reg *importer.Registry, name, path string) (importer.Importer, error) {
	if name != "" {
		imp := reg.Get(name)
		if imp == nil {
			return nil, fmt.Errorf("unknown importer %q", name)
		}
		return imp, nil
	}
	imp, _, ok := reg.Identify(path)
	if !ok {
		return nil, fmt.Errorf("no importer claims %s", filepath.Base(path))
	}
	return imp, nil
}

func writeExtractions(cmd *cobra.Command, p *project, results []extraction, commit bool) error {
	svc := journal.NewService(p.path(p.cfg.JournalDir))
	runID := importlog.NewRunID()
	logDir := p.path(p.cfg.LogDir)
	out := cmd.ErrOrStderr()

	var entries []importlog.Entry
	for _, r := range results {
		entry := importlog.Entry{
			Timestamp: time.Now().UTC().Truncate(time.Second),
			RunID:     runID,
			Importer:  r.importer.Name(),
			File:      filepath.Base(r.path),
		}

		ids, err := svc.Append(r.txns)
		if err != nil {
			entry.Status = importlog.StatusFailed
			entry.Details = err.Error()
			if logErr := importlog.Append(logDir, append(entries, entry)); logErr != nil {
				p.log.Error().Err(logErr).Msg("writing import log")
			}
			return fmt.Errorf("journaling %s: %w", entry.File, err)
		}

		if _, err := importer.MarkProcessed(r.path); err != nil {
			return err
		}

		entry.Status = importlog.StatusImported
		entry.Transactions = len(ids)
		if len(ids) > 0 {
			entry.Details = ids[0] + ".." + ids[len(ids)-1]
		}
		entries = append(entries, entry)
		pterm.Success.WithWriter(out).Printf("%s: %d transactions (%s)\n", entry.File, len(ids), r.importer.Name())
	}

	if commit {
		// The log dir is staged too, so rows from earlier runs land in this commit.
		hash, err := gitops.Commit(p.root, commitMessage(entries), p.cfg.Git.AuthorName, p.cfg.Git.AuthorEmail,
			p.stageable(p.path(p.cfg.JournalDir), p.path(p.cfg.ImportDir), logDir)...)
		if err != nil {
			return err
		}
		for i := range entries {
			entries[i].CommitHash = hash
		}
		pterm.Info.WithWriter(out).Printf("Committed %s\n", hash)
	}

	return importlog.Append(logDir, entries)
}

func commitMessage(entries []importlog.Entry) string {
	files := make([]string, len(entries))
	total := 0
	for i, e := range entries {
		files[i] = e.File
		total += e.Transactions
	}
	return fmt.Sprintf("import: %d transactions from %s", total, strings.Join(files, ", "))
}
