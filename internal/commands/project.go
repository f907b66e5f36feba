package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/nlbank/internal/accounts"
	"github.com/cleared-dev/nlbank/internal/config"
	"github.com/cleared-dev/nlbank/internal/importer"
	"github.com/cleared-dev/nlbank/internal/logger"
)

// project is a loaded nlbank project: its root, configuration and logger.
type project struct {
	root string
	cfg  *config.Config
	log  zerolog.Logger
}

func (o *rootOptions) load() (*project, error) {
	root := o.repo
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	path := o.configPath
	if path == "" {
		path = filepath.Join(root, config.FileName)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	return &project{root: root, cfg: cfg, log: logger.New(o.logLevel)}, nil
}

func (p *project) path(dir string) string {
	return p.cfg.Path(p.root, dir)
}

// accounts merges the accounts listed in the config with the accounts file.
func (p *project) accounts() (*accounts.Service, error) {
	accts := p.cfg.ModelAccounts()
	if p.cfg.AccountsFile != "" {
		svc, err := accounts.Load(p.path(p.cfg.AccountsFile))
		if err != nil {
			return nil, err
		}
		accts = append(accts, svc.All()...)
	}
	return accounts.NewService(accts)
}

func (p *project) importers() (*importer.Registry, error) {
	accts, err := p.accounts()
	if err != nil {
		return nil, err
	}
	return importer.DefaultRegistry(accts, importer.Options{
		Currency: p.cfg.Currency,
		Encoding: p.cfg.Encodings(),
		Log:      p.log,
	})
}

// rel returns path relative to the project root, for git and log output.
func (p *project) rel(path string) string {
	r, err := filepath.Rel(p.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(r)
}

// stageable returns the existing paths among dirs, relative to the project root.
func (p *project) stageable(dirs ...string) []string {
	var out []string
	for _, d := range dirs {
		if _, err := os.Stat(d); err == nil {
			out = append(out, p.rel(d))
		}
	}
	return out
}
