package config

import (
	"fmt"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/nlbank/internal/model"
)

// FileName is the project configuration file created by init.
const FileName = "nlbank.yaml"

// Config represents the top-level nlbank.yaml configuration.
type Config struct {
	Currency     string                    `yaml:"currency"`
	ImportDir    string                    `yaml:"import_dir"`
	JournalDir   string                    `yaml:"journal_dir"`
	LogDir       string                    `yaml:"log_dir"`
	AccountsFile string                    `yaml:"accounts_file,omitempty"`
	Accounts     []AccountConfig           `yaml:"accounts,omitempty"`
	Importers    map[string]ImporterConfig `yaml:"importers,omitempty"`
	Git          GitConfig                 `yaml:"git"`
}

// AccountConfig registers one known account.
type AccountConfig struct {
	Ledger      string   `yaml:"ledger"`
	ExternalID  string   `yaml:"external_id"`
	Currency    string   `yaml:"currency"`
	Institution string   `yaml:"institution"`
	Aliases     []string `yaml:"aliases,omitempty"`
	FileMatch   string   `yaml:"file_match,omitempty"`
}

// ImporterConfig overrides per-institution export settings.
type ImporterConfig struct {
	Encoding string `yaml:"encoding,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Env holds process-level options read from the environment.
type Env struct {
	ConfigPath string `env:"NLBANK_CONFIG"`
	LogLevel   string `env:"NLBANK_LOG_LEVEL" envDefault:"info"`
	Repo       string `env:"NLBANK_REPO" envDefault:"."`
}

// LoadEnv parses Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parsing environment: %w", err)
	}
	return e, nil
}

// Load reads a nlbank.yaml file from disk. Unset values take their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergo.Merge(&cfg, Default()); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Currency:   "EUR",
		ImportDir:  "import",
		JournalDir: "journal",
		LogDir:     "logs",
		Git: GitConfig{
			AuthorName:  "nlbank",
			AuthorEmail: "nlbank@localhost",
		},
	}
}

// Path resolves a configured directory against the project root.
func (c *Config) Path(root, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

// Encodings returns the per-importer file encodings.
func (c *Config) Encodings() map[string]string {
	enc := make(map[string]string)
	for name, ic := range c.Importers {
		if ic.Encoding != "" {
			enc[name] = ic.Encoding
		}
	}
	return enc
}

// ModelAccounts converts the configured accounts to registry entries.
// Accounts without a currency use the ledger currency.
func (c *Config) ModelAccounts() []model.Account {
	accts := make([]model.Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		currency := model.ParseCurrency(a.Currency)
		if currency == "" {
			currency = model.ParseCurrency(c.Currency)
		}
		accts = append(accts, model.Account{
			Ledger:      a.Ledger,
			ExternalID:  a.ExternalID,
			Currency:    currency,
			Institution: model.ParseInstitution(a.Institution),
			Aliases:     a.Aliases,
			FileMatch:   a.FileMatch,
		})
	}
	return accts
}

// FromModel converts registry entries to their configuration form.
func FromModel(accts []model.Account) []AccountConfig {
	out := make([]AccountConfig, 0, len(accts))
	for _, a := range accts {
		out = append(out, AccountConfig{
			Ledger:      a.Ledger,
			ExternalID:  a.ExternalID,
			Currency:    a.Currency,
			Institution: string(a.Institution),
			Aliases:     a.Aliases,
			FileMatch:   a.FileMatch,
		})
	}
	return out
}
