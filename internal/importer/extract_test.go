package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/nlbank/internal/accounts"
	"github.com/cleared-dev/nlbank/internal/model"
)

const asnCoffeeRow = `"15-03-2022";"NL00BANK0123456789";"%s";"";"";"";"";"EUR";"100,00";"EUR";"-12,50";"15-03-2022";"15-03-2022";"8810";"BEA";"1";"";"Coffee shop";"3"` + "\n"

func asnExtractor(reg AccountLookup, logBuf *bytes.Buffer) *Extractor {
	return &Extractor{
		Institution: model.InstitutionASN,
		Dialect:     Dialect{Comma: ';', Quotes: `"`, FieldNames: asnFieldNames},
		Decoder: Decoder{
			Fields: FieldMap{
				Date:             "Boekingsdatum",
				Amount:           "Transactiebedrag",
				Currency:         "Valutasoort rekening",
				AmountCurrency:   "Valutasoort mutatie",
				OwnAccount:       "Opdrachtgeversrekening",
				Counterparty:     "Tegenrekeningnummer",
				CounterpartyName: "Naam tegenrekening",
				Description:      "Omschrijving",
			},
			DateLayout: asnDateLayout,
			Notation:   NotationAuto,
			Currency:   "EUR",
		},
		Accounts: reg,
		Log:      zerolog.New(logBuf),
	}
}

func asnRow(counterparty string) string {
	return strings.Replace(asnCoffeeRow, "%s", counterparty, 1)
}

func TestExtract_SinglePosting(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking, savings), &logs)

	txns, err := e.ExtractFrom(strings.NewReader(asnRow("")), "asn.csv")
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, date(2022, 3, 15), txn.Date)
	assert.Equal(t, model.FlagOkay, txn.Flag)
	assert.Equal(t, "Coffee shop", txn.Narration)
	require.Len(t, txn.Postings, 1)
	assert.Equal(t, "NL00BANK0123456789", txn.Postings[0].Account.ExternalID)
	assert.True(t, txn.Postings[0].Amount.Equal(dec("-12.50")))
	assert.Equal(t, "EUR", txn.Postings[0].Currency)
	assert.Equal(t, model.Meta{Filename: "asn.csv", Row: 0}, txn.Meta)
	assert.Empty(t, logs.String())
}

func TestExtract_Transfer(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking, savings), &logs)

	txns, err := e.ExtractFrom(strings.NewReader(asnRow("NL00BANK9876543210")), "asn.csv")
	require.NoError(t, err)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, model.FlagTransfer, txn.Flag)
	require.Len(t, txn.Postings, 2)
	assert.Equal(t, "NL00BANK0123456789", txn.Postings[0].Account.ExternalID)
	assert.True(t, txn.Postings[0].Amount.Equal(dec("-12.50")))
	assert.Equal(t, "NL00BANK9876543210", txn.Postings[1].Account.ExternalID)
	assert.True(t, txn.Postings[1].Amount.Equal(dec("12.50")))
	assert.True(t, txn.Balance().IsZero())
	assert.Equal(t, "NL00BANK9876543210", txn.Payee)
}

func TestExtract_UnknownCounterpartyIsNotAnError(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	txns, err := e.ExtractFrom(strings.NewReader(asnRow("NL91ABNA0417164300")), "asn.csv")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, model.FlagOkay, txns[0].Flag)
	assert.Len(t, txns[0].Postings, 1)
	assert.Equal(t, "NL91ABNA0417164300", txns[0].Payee)
}

func TestExtract_MultiCurrencyTransfer(t *testing.T) {
	var logs bytes.Buffer
	usd := model.Account{Ledger: "Assets:ASN:Dollars", ExternalID: "NL00BANK9876543210", Currency: "USD", Institution: model.InstitutionASN}
	e := asnExtractor(newMapRegistry(checking, usd), &logs)

	txns, err := e.ExtractFrom(strings.NewReader(asnRow("NL00BANK9876543210")), "asn.csv")
	require.Error(t, err)
	assert.Nil(t, txns)

	var iv *InvariantViolation
	assert.True(t, errors.As(err, &iv))
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "Coffee shop", "offending row is logged")
}

func TestExtract_UnknownOwnAccount(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(savings), &logs)

	_, err := e.ExtractFrom(strings.NewReader(asnRow("")), "asn.csv")
	require.Error(t, err)

	var ce *ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "NL00BANK0123456789", ce.Key)
	assert.ErrorIs(t, err, ErrUnknownAccount)
}

func TestExtract_FailFast(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	bad := strings.Replace(asnRow(""), `"-12,50"`, `"-12,5O"`, 1)
	in := asnRow("") + bad + asnRow("")

	txns, err := e.ExtractFrom(strings.NewReader(in), "asn.csv")
	require.Error(t, err)
	assert.Nil(t, txns, "no partial result")

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 1, de.Record.Index)
	assert.Equal(t, "Transactiebedrag", de.Field)
	assert.Contains(t, logs.String(), `"row":1`)
	assert.Equal(t, 1, strings.Count(logs.String(), "failed on row"))
}

func TestExtract_CurrencyMismatchIsDecodeError(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	in := strings.Replace(asnRow(""), `"EUR";"100,00"`, `"USD";"100,00"`, 1)
	_, err := e.ExtractFrom(strings.NewReader(in), "asn.csv")

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.ErrorIs(t, err, ErrCurrency)
}

func TestExtract_AmountCurrencyMismatchIsDecodeError(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	// Account in EUR, mutation in USD.
	in := strings.Replace(asnRow(""), `"100,00";"EUR";"-12,50"`, `"100,00";"USD";"-12,50"`, 1)
	txns, err := e.ExtractFrom(strings.NewReader(in), "asn.csv")
	require.Error(t, err)
	assert.Nil(t, txns)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "Valutasoort mutatie", de.Field)
	assert.Equal(t, "USD", de.Value)
	assert.ErrorIs(t, err, ErrCurrency)
	assert.Contains(t, logs.String(), "failed on row")
}

func TestExtract_LowerCaseCurrencies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.csv")
	require.NoError(t, os.WriteFile(path, []byte("ledger,external_id,currency,institution,aliases,file_match\n"+
		"Assets:ASN:Checking,NL00BANK0123456789,eur,asn,,\n"), 0o644))
	accts, err := accounts.Load(path)
	require.NoError(t, err)

	asn, err := NewASN(accts, Options{Currency: "eur", Log: zerolog.Nop()})
	require.NoError(t, err)

	txns, err := asn.ExtractFrom(strings.NewReader(asnRow("")), "asn.csv")
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "EUR", txns[0].Postings[0].Currency)
}

func TestExtract_RowIndexes(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	in := asnRow("") + asnRow("") + asnRow("")
	txns, err := e.ExtractFrom(strings.NewReader(in), "asn.csv")
	require.NoError(t, err)
	require.Len(t, txns, 3)
	for i, txn := range txns {
		assert.Equal(t, i, txn.Meta.Row)
	}
}

func TestExtract_File(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	path := filepath.Join(t.TempDir(), "asn.csv")
	require.NoError(t, os.WriteFile(path, []byte(asnRow("")), 0o644))

	txns, err := e.Extract(path)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, path, txns[0].Meta.Filename)
}

func TestExtract_MissingFile(t *testing.T) {
	var logs bytes.Buffer
	e := asnExtractor(newMapRegistry(checking), &logs)

	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
