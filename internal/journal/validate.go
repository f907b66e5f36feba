package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nlbank/internal/id"
	"github.com/cleared-dev/nlbank/internal/model"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule        int
	Ref         string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %d [%s]: %s", e.Rule, e.Ref, e.Description)
}

var hundred = decimal.NewFromInt(100)

// ValidateTransactions checks extracted transactions before they are journaled:
//
//  1. one or two postings
//  2. two postings sum to zero
//  3. every posting is in its account's currency, and all postings share it
//  4. every posting names a ledger account
//  5. amounts have at most two decimal places
func ValidateTransactions(txns []model.Transaction) []ValidationError {
	var errs []ValidationError
	for _, txn := range txns {
		ref := fmt.Sprintf("%s:%d", txn.Meta.Filename, txn.Meta.Row)
		add := func(rule int, format string, args ...any) {
			errs = append(errs, ValidationError{Rule: rule, Ref: ref, Description: fmt.Sprintf(format, args...)})
		}

		if n := len(txn.Postings); n < 1 || n > 2 {
			add(1, "%d postings", n)
			continue
		}

		if len(txn.Postings) == 2 {
			if sum := txn.Balance(); !sum.IsZero() {
				add(2, "postings sum to %s", sum)
			}
		}

		currency := txn.Postings[0].Currency
		for _, p := range txn.Postings {
			if p.Currency != currency || p.Currency != p.Account.Currency {
				add(3, "posting on %s in %s, account in %s, transaction in %s", p.Account.Ledger, p.Currency, p.Account.Currency, currency)
			}
			if p.Account.Ledger == "" {
				add(4, "posting without ledger account")
			}
			if !p.Amount.Mul(hundred).Equal(p.Amount.Mul(hundred).Truncate(0)) {
				add(5, "amount %s has more than 2 decimal places", p.Amount)
			}
		}
	}
	return errs
}

// ValidateLegs checks a month's journal legs:
//
//  6. entry IDs parse and belong to year/month, dates fall in the month
//  7. two-leg entries balance
//  8. entry sequences are contiguous 1..N
func ValidateLegs(legs []model.Leg, year, month int) []ValidationError {
	var errs []ValidationError

	groups := make(map[string][]model.Leg)
	var order []string
	seqs := make(map[int]bool)
	for _, leg := range legs {
		g := leg.EntryGroup()
		if _, seen := groups[g]; !seen {
			order = append(order, g)
		}
		groups[g] = append(groups[g], leg)

		entry, err := id.Parse(leg.EntryID)
		if err != nil {
			errs = append(errs, ValidationError{Rule: 6, Ref: leg.EntryID, Description: err.Error()})
			continue
		}
		if entry.Year != year || entry.Month != month {
			errs = append(errs, ValidationError{Rule: 6, Ref: leg.EntryID, Description: fmt.Sprintf("entry not in %04d-%02d", year, month)})
		}
		if leg.Date.Year() != year || int(leg.Date.Month()) != month {
			errs = append(errs, ValidationError{Rule: 6, Ref: leg.EntryID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", leg.Date.Format(dateFormat), year, month)})
		}
		seqs[entry.Seq] = true
	}

	for _, g := range order {
		gl := groups[g]
		if len(gl) != 2 {
			continue
		}
		if sum := gl[0].Amount.Add(gl[1].Amount); !sum.IsZero() {
			errs = append(errs, ValidationError{Rule: 7, Ref: g, Description: fmt.Sprintf("legs sum to %s", sum)})
		}
	}

	for i := 1; i <= len(seqs); i++ {
		if !seqs[i] {
			errs = append(errs, ValidationError{Rule: 8, Ref: fmt.Sprintf("seq %d", i),
				Description: fmt.Sprintf("missing sequence %d in 1..%d", i, len(seqs))})
		}
	}
	return errs
}
