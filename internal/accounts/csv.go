package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/nlbank/internal/model"
)

const (
	numFields      = 6
	colLedger      = 0
	colExternalID  = 1
	colCurrency    = 2
	colInstitution = 3
	colAliases     = 4
	colFileMatch   = 5
	aliasSep       = ";"
)

var header = []string{"ledger", "external_id", "currency", "institution", "aliases", "file_match"}

// ReadAccounts reads an accounts.csv registry.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes an accounts.csv registry.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colLedger] = acct.Ledger
	row[colExternalID] = acct.ExternalID
	row[colCurrency] = acct.Currency
	row[colInstitution] = string(acct.Institution)
	row[colAliases] = strings.Join(acct.Aliases, aliasSep)
	row[colFileMatch] = acct.FileMatch
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colLedger] == "" {
		return model.Account{}, fmt.Errorf("missing ledger name")
	}
	if strings.TrimSpace(record[colCurrency]) == "" {
		return model.Account{}, fmt.Errorf("account %s: missing currency", record[colLedger])
	}

	var aliases []string
	for _, a := range strings.Split(record[colAliases], aliasSep) {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}

	return model.Account{
		Ledger:      record[colLedger],
		ExternalID:  record[colExternalID],
		Currency:    model.ParseCurrency(record[colCurrency]),
		Institution: model.ParseInstitution(record[colInstitution]),
		Aliases:     aliases,
		FileMatch:   record[colFileMatch],
	}, nil
}
