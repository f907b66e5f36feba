package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nlbank/internal/id"
	"github.com/cleared-dev/nlbank/internal/model"
)

// Header is the CSV header for journal.csv.
const Header = "entry_id,date,flag,account,amount,currency,payee,narration,source,row"

const (
	numFields  = 10
	dateFormat = "2006-01-02"
	colEntryID = 0
	colDate    = 1
	colFlag    = 2
	colAccount = 3
	colAmount  = 4
	colCcy     = 5
	colPayee   = 6
	colNarr    = 7
	colSource  = 8
	colRow     = 9
)

// ReadLegs reads all legs from a journal.csv reader.
func ReadLegs(r io.Reader) ([]model.Leg, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var legs []model.Leg
	for i, rec := range records[1:] {
		leg, err := UnmarshalLeg(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

// WriteLegs writes legs to a journal.csv writer (including header).
func WriteLegs(w io.Writer, legs []model.Leg) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return writeLegs(cw, legs)
}

// AppendLegs appends legs to an existing journal.csv writer (no header).
func AppendLegs(w io.Writer, legs []model.Leg) error {
	return writeLegs(csv.NewWriter(w), legs)
}

func writeLegs(cw *csv.Writer, legs []model.Leg) error {
	for i, leg := range legs {
		if err := cw.Write(MarshalLeg(leg)); err != nil {
			return fmt.Errorf("writing leg %s (%d): %w", leg.EntryID, i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Legs splits a transaction into one journal leg per posting.
func Legs(entry id.Entry, txn model.Transaction) []model.Leg {
	legs := make([]model.Leg, 0, len(txn.Postings))
	for i, p := range txn.Postings {
		legs = append(legs, model.Leg{
			EntryID:   entry.Leg(i),
			Date:      txn.Date,
			Flag:      txn.Flag,
			Account:   p.Account.Ledger,
			Amount:    p.Amount,
			Currency:  p.Currency,
			Payee:     txn.Payee,
			Narration: txn.Narration,
			Source:    txn.Meta.Filename,
			Row:       txn.Meta.Row,
		})
	}
	return legs
}

// MarshalLeg converts a Leg to a CSV row.
func MarshalLeg(leg model.Leg) []string {
	row := make([]string, numFields)
	row[colEntryID] = leg.EntryID
	row[colDate] = leg.Date.Format(dateFormat)
	row[colFlag] = string(leg.Flag)
	row[colAccount] = leg.Account
	row[colAmount] = formatAmount(leg.Amount)
	row[colCcy] = leg.Currency
	row[colPayee] = leg.Payee
	row[colNarr] = leg.Narration
	row[colSource] = leg.Source
	row[colRow] = strconv.Itoa(leg.Row)
	return row
}

// UnmarshalLeg converts a CSV row to a Leg.
func UnmarshalLeg(record []string) (model.Leg, error) {
	if len(record) != numFields {
		return model.Leg{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.Leg{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Leg{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	row, err := strconv.Atoi(record[colRow])
	if err != nil {
		return model.Leg{}, fmt.Errorf("parsing row %q: %w", record[colRow], err)
	}

	return model.Leg{
		EntryID:   record[colEntryID],
		Date:      date,
		Flag:      model.Flag(record[colFlag]),
		Account:   record[colAccount],
		Amount:    amount,
		Currency:  record[colCcy],
		Payee:     record[colPayee],
		Narration: record[colNarr],
		Source:    record[colSource],
		Row:       row,
	}, nil
}

// formatAmount renders at least two decimal places without dropping precision.
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -2 {
		return d.StringFixed(2)
	}
	return d.String()
}
