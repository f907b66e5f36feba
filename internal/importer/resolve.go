package importer

import (
	"strings"

	"github.com/cleared-dev/nlbank/internal/model"
)

// AccountLookup finds accounts by external identifier.
type AccountLookup interface {
	Lookup(key string) (model.Account, bool)
}

// Accounts is an AccountLookup that can also list the accounts of one institution.
type Accounts interface {
	AccountLookup
	ByInstitution(inst model.Institution) []model.Account
}

// Resolve finds the account for key, preferring the institution-scoped entry.
// An empty key or an unregistered counterparty yields false.
func Resolve(reg AccountLookup, inst model.Institution, key string) (model.Account, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return model.Account{}, false
	}
	if acct, ok := reg.Lookup(model.ScopedKey(inst, key)); ok {
		return acct, true
	}
	return reg.Lookup(key)
}
