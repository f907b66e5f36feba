package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/nlbank/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Accounts = []AccountConfig{
		{Ledger: "Assets:ASN:Checking", ExternalID: "NL00ASNB0123456789", Currency: "EUR", Institution: "asn"},
	}
	cfg.Importers = map[string]ImporterConfig{"asn": {Encoding: "windows-1252"}}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, "import", got.ImportDir)
	assert.Equal(t, "journal", got.JournalDir)
	assert.Equal(t, cfg.Git.AuthorName, got.Git.AuthorName)
	require.Len(t, got.Accounts, 1)
	assert.Equal(t, "NL00ASNB0123456789", got.Accounts[0].ExternalID)
	assert.Equal(t, map[string]string{"asn": "windows-1252"}, got.Encodings())
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("import_dir: inbox\ngit:\n  auto_commit: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "inbox", cfg.ImportDir, "explicit value kept")
	assert.Equal(t, "EUR", cfg.Currency, "currency defaulted")
	assert.Equal(t, "journal", cfg.JournalDir)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "nlbank", cfg.Git.AuthorName)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("accounts: [\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "currency: EUR")
	assert.Contains(t, contents, "import_dir: import")
	assert.Contains(t, contents, "auto_commit: false")
}

func TestModelAccounts(t *testing.T) {
	cfg := Default()
	cfg.Accounts = []AccountConfig{
		{Ledger: "Assets:Bunq:Checking", ExternalID: "NL00BUNQ9876543210", Institution: "Bunq", Aliases: []string{"bunq:42"}},
		{Ledger: "Assets:Bunq:USD", ExternalID: "NL00BUNQ1111111111", Currency: "usd", Institution: "bunq"},
	}
	cfg.Currency = "eur"

	accts := cfg.ModelAccounts()
	require.Len(t, accts, 2)
	assert.Equal(t, "EUR", accts[0].Currency, "ledger currency applied")
	assert.Equal(t, model.InstitutionBunq, accts[0].Institution)
	assert.Equal(t, []string{"bunq:42"}, accts[0].Aliases)
	assert.Equal(t, "USD", accts[1].Currency, "currency upper-cased")

	back := FromModel(accts)
	assert.Equal(t, "bunq", back[0].Institution)
	assert.Equal(t, "EUR", back[0].Currency)
}

func TestPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/repo", "import"), cfg.Path("/repo", cfg.ImportDir))
	assert.Equal(t, "/abs/in", cfg.Path("/repo", "/abs/in"))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("NLBANK_CONFIG", "/etc/nlbank.yaml")
	t.Setenv("NLBANK_LOG_LEVEL", "debug")

	e, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "/etc/nlbank.yaml", e.ConfigPath)
	assert.Equal(t, "debug", e.LogLevel)
	assert.Equal(t, ".", e.Repo)
}
