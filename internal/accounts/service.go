package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/nlbank/internal/model"
)

// Service provides in-memory lookup over the account registry.
type Service struct {
	accounts []model.Account
	byKey    map[string]model.Account
}

// NewService indexes accounts by external id and aliases.
// Two accounts claiming the same key is an error.
func NewService(accounts []model.Account) (*Service, error) {
	byKey := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		keys := append([]string{a.ExternalID}, a.Aliases...)
		for _, k := range keys {
			k = NormalizeKey(k)
			if k == "" {
				continue
			}
			if prev, ok := byKey[k]; ok && prev.Ledger != a.Ledger {
				return nil, fmt.Errorf("key %q claimed by %s and %s", k, prev.Ledger, a.Ledger)
			}
			byKey[k] = a
		}
	}
	return &Service{accounts: accounts, byKey: byKey}, nil
}

// NormalizeKey strips spaces from and upper-cases the id part of a key,
// so "nl00 bank 0123" and "NL00BANK0123" match. The institution prefix of a
// scoped key is lower-cased.
func NormalizeKey(key string) string {
	inst, id, scoped := strings.Cut(key, ":")
	if !scoped {
		id, inst = inst, ""
	}
	id = strings.ToUpper(strings.Join(strings.Fields(id), ""))
	if !scoped {
		return id
	}
	return strings.ToLower(strings.TrimSpace(inst)) + ":" + id
}

// Load reads an accounts.csv registry.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	return NewService(accts)
}

// All returns all accounts in registration order.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Lookup returns the account registered under key.
func (s *Service) Lookup(key string) (model.Account, bool) {
	a, ok := s.byKey[NormalizeKey(key)]
	return a, ok
}

// ByInstitution returns all accounts held at inst.
func (s *Service) ByInstitution(inst model.Institution) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Institution == inst {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the registry to path as CSV.
func (s *Service) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}
