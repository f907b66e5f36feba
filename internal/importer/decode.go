package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/nlbank/internal/model"
)

// FieldMap names the columns an institution uses for each decoded field.
type FieldMap struct {
	Date             string
	Amount           string
	Currency         string // account currency column; empty when the export has none
	AmountCurrency   string // currency of Amount, when it has its own column
	OwnAccount       string
	Counterparty     string
	CounterpartyName string
	Description      string
}

// DecodedFields is the typed projection of a RawRecord.
type DecodedFields struct {
	Date             time.Time
	Amount           decimal.Decimal
	Currency         string
	OwnAccount       string
	Counterparty     string // empty when the row has no counterparty
	CounterpartyName string
	Narration        string
}

// Decoder turns RawRecords of one export dialect into DecodedFields.
type Decoder struct {
	Fields     FieldMap
	DateLayout string
	Notation   Notation
	Currency   string // the single currency the ledger supports
}

// Decode validates rec and returns its typed fields. Every failure is a *DecodeError.
func (d Decoder) Decode(rec RawRecord) (DecodedFields, error) {
	fail := func(field, value string, err error) (DecodedFields, error) {
		return DecodedFields{}, &DecodeError{Record: rec, Field: field, Value: value, Err: err}
	}
	value := func(field string) string {
		return strings.TrimSpace(rec.Fields[field])
	}

	rawDate := value(d.Fields.Date)
	if rawDate == "" {
		return fail(d.Fields.Date, rawDate, ErrMissingField)
	}
	date, err := time.Parse(d.DateLayout, rawDate)
	if err != nil {
		return fail(d.Fields.Date, rawDate, err)
	}

	rawAmount := value(d.Fields.Amount)
	if rawAmount == "" {
		return fail(d.Fields.Amount, rawAmount, ErrMissingField)
	}
	amount, err := ParseAmount(rawAmount, d.Notation)
	if err != nil {
		return fail(d.Fields.Amount, rawAmount, err)
	}

	currency := model.ParseCurrency(d.Currency)
	for _, col := range []string{d.Fields.Currency, d.Fields.AmountCurrency} {
		if col == "" {
			continue
		}
		raw := value(col)
		if raw == "" {
			return fail(col, raw, ErrMissingField)
		}
		if model.ParseCurrency(raw) != currency {
			return fail(col, raw, ErrCurrency)
		}
	}

	own := value(d.Fields.OwnAccount)
	if own == "" {
		return fail(d.Fields.OwnAccount, own, ErrMissingField)
	}

	return DecodedFields{
		Date:             date,
		Amount:           amount,
		Currency:         currency,
		OwnAccount:       own,
		Counterparty:     value(d.Fields.Counterparty),
		CounterpartyName: value(d.Fields.CounterpartyName),
		Narration:        rec.Fields[d.Fields.Description],
	}, nil
}
