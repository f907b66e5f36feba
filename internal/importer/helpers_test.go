package importer

import (
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/nlbank/internal/accounts"
	"github.com/cleared-dev/nlbank/internal/model"
)

// mapRegistry implements Accounts for testing.
type mapRegistry map[string]model.Account

func (m mapRegistry) Lookup(key string) (model.Account, bool) {
	a, ok := m[key]
	return a, ok
}

func (m mapRegistry) ByInstitution(inst model.Institution) []model.Account {
	var out []model.Account
	for _, a := range m {
		if a.Institution == inst {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ledger < out[j].Ledger })
	return out
}

var (
	checking = model.Account{Ledger: "Assets:ASN:Checking", ExternalID: "NL00BANK0123456789", Currency: "EUR", Institution: model.InstitutionASN}
	savings  = model.Account{Ledger: "Assets:ASN:Savings", ExternalID: "NL00BANK9876543210", Currency: "EUR", Institution: model.InstitutionASN}
	dollars  = model.Account{Ledger: "Assets:Bunq:Dollars", ExternalID: "NL00BUNQ2222222222", Currency: "USD", Institution: model.InstitutionBunq}
)

func newMapRegistry(accts ...model.Account) mapRegistry {
	m := make(mapRegistry)
	for _, a := range accts {
		m[a.ExternalID] = a
	}
	return m
}

func testdataAccounts(t *testing.T) *accounts.Service {
	t.Helper()
	svc, err := accounts.Load("../../testdata/accounts.csv")
	require.NoError(t, err)
	return svc
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
