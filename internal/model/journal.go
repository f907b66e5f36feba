package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Leg is a single row in journal.csv: one posting of one transaction.
type Leg struct {
	EntryID   string    // "YYYY-MM-NNNx" where x = a,b
	Date      time.Time //nolint:revive // plain field name is clearest
	Flag      Flag
	Account   string // ledger name
	Amount    decimal.Decimal
	Currency  string
	Payee     string
	Narration string
	Source    string
	Row       int
}

// EntryGroup returns the base entry ID (without leg suffix).
// "2022-03-001a" -> "2022-03-001"
func (l Leg) EntryGroup() string {
	i := len(l.EntryID)
	for i > 0 && l.EntryID[i-1] >= 'a' && l.EntryID[i-1] <= 'z' {
		i--
	}
	return l.EntryID[:i]
}
