package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/nlbank/internal/model"
)

// Extractor runs decode, resolve, build and assemble over every row of an export.
type Extractor struct {
	Institution model.Institution
	Dialect     Dialect
	Decoder     Decoder
	Accounts    AccountLookup
	Log         zerolog.Logger
}

// Extract reads the export at path. It returns every transaction or the first error.
func (e *Extractor) Extract(path string) ([]model.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	return e.ExtractFrom(f, path)
}

// ExtractFrom reads an export from r, using filename for row metadata.
func (e *Extractor) ExtractFrom(r io.Reader, filename string) ([]model.Transaction, error) {
	var txns []model.Transaction
	rowFailed := false
	err := ReadRecords(r, filename, e.Dialect, func(rec RawRecord) error {
		txn, err := e.Transaction(rec)
		if err != nil {
			rowFailed = true
			e.Log.Error().
				Err(err).
				Str("file", rec.Filename).
				Int("row", rec.Index).
				Interface("record", rec.Fields).
				Msg("failed on row")
			return err
		}
		txns = append(txns, txn)
		return nil
	})
	if err != nil {
		if !rowFailed {
			e.logReadError(filename, err)
		}
		return nil, err
	}
	return txns, nil
}

// Transaction converts a single record.
func (e *Extractor) Transaction(rec RawRecord) (model.Transaction, error) {
	fields, err := e.Decoder.Decode(rec)
	if err != nil {
		return model.Transaction{}, err
	}

	own, ok := Resolve(e.Accounts, e.Institution, fields.OwnAccount)
	if !ok {
		return model.Transaction{}, &ConfigurationError{Key: fields.OwnAccount, Err: ErrUnknownAccount}
	}

	var counterparty *model.Account
	if acct, ok := Resolve(e.Accounts, e.Institution, fields.Counterparty); ok {
		counterparty = &acct
	}

	postings, flag, err := BuildPostings(fields, own, counterparty)
	if err != nil {
		return model.Transaction{}, err
	}

	return Assemble(fields, postings, flag, model.Meta{Filename: rec.Filename, Row: rec.Index}), nil
}

// logReadError logs a failure to read the export itself, such as malformed CSV.
func (e *Extractor) logReadError(filename string, err error) {
	ev := e.Log.Error().Err(err).Str("file", filename)
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		ev = ev.Int("line", pe.Line).Int("column", pe.Column)
	}
	ev.Msg("failed reading export")
}
