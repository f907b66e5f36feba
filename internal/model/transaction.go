package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Flag classifies a transaction.
type Flag string

const (
	FlagOkay     Flag = "*"
	FlagTransfer Flag = "T"
)

// Posting is one signed movement against a single account.
type Posting struct {
	Account  Account
	Amount   decimal.Decimal
	Currency string
}

// Meta points a transaction back at the export row it came from.
type Meta struct {
	Filename string
	Row      int // zero-based data row index
}

// Transaction is a normalized bank transaction with one or two postings.
type Transaction struct {
	Date      time.Time
	Flag      Flag
	Payee     string
	Narration string
	Postings  []Posting
	Meta      Meta
}

// Balance returns the sum of all posting amounts.
func (t Transaction) Balance() decimal.Decimal {
	sum := decimal.Zero
	for _, p := range t.Postings {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// IsTransfer reports whether the transaction moves money between two known accounts.
func (t Transaction) IsTransfer() bool {
	return t.Flag == FlagTransfer
}
