package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is wrapped by DecodeError when a required column is empty or absent.
	ErrMissingField = errors.New("missing field")
	// ErrCurrency is wrapped by DecodeError when a row carries an unexpected currency.
	ErrCurrency = errors.New("unexpected currency")
	// ErrAmbiguousAmount is returned for numbers whose decimal separator cannot be determined.
	ErrAmbiguousAmount = errors.New("ambiguous amount")
	// ErrMalformedAmount is returned for strings that are not a decimal number.
	ErrMalformedAmount = errors.New("malformed amount")
	// ErrUnknownAccount is wrapped by ConfigurationError.
	ErrUnknownAccount = errors.New("unknown own account")
	// ErrMultiCurrency is wrapped by InvariantViolation.
	ErrMultiCurrency = errors.New("multi-currency posting not supported")
)

// DecodeError reports a row that could not be turned into typed fields.
type DecodeError struct {
	Record RawRecord
	Field  string
	Value  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s row %d: decoding %s %q: %v", e.Record.Filename, e.Record.Index, e.Field, e.Value, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConfigurationError reports a registry that does not know the export's own account.
type ConfigurationError struct {
	Key string
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %v: %q", e.Err, e.Key)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InvariantViolation reports input whose postings cannot be built without conversion.
type InvariantViolation struct {
	Own           string
	OwnCurrency   string
	Other         string
	OtherCurrency string
	Err           error
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant: %v: %s (%s) vs %s (%s)", e.Err, e.Own, e.OwnCurrency, e.Other, e.OtherCurrency)
}

func (e *InvariantViolation) Unwrap() error { return e.Err }
