package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/nlbank/internal/model"
)

const bunqFixture = "../../testdata/1111_bunq-statement_2022-03-31.csv"

func TestBunq_Extract(t *testing.T) {
	bunq, err := NewBunq(testdataAccounts(t), Options{Currency: "EUR", Log: zerolog.Nop()})
	require.NoError(t, err)
	assert.Equal(t, "bunq", bunq.Name())

	txns, err := bunq.Extract(bunqFixture)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	// Card payment converted by the bank: booked in EUR only.
	assert.Equal(t, date(2022, 3, 9), txns[0].Date)
	assert.Equal(t, model.FlagOkay, txns[0].Flag)
	assert.Equal(t, "UBER * PENDING", txns[0].Payee)
	assert.Equal(t, "UBER * PENDING help.uber.com, NL 22.36 USD, 1 USD = 0.92665 EUR", txns[0].Narration)
	require.Len(t, txns[0].Postings, 1)
	assert.Equal(t, "Assets:Bunq:Checking", txns[0].Postings[0].Account.Ledger)
	assert.Equal(t, "-20.72", txns[0].Postings[0].Amount.StringFixed(2))

	// Curly-quoted row; counterparty is the ASN checking account.
	assert.Equal(t, model.FlagTransfer, txns[1].Flag)
	assert.Equal(t, "NL00BANK0123456789", txns[1].Payee)
	require.Len(t, txns[1].Postings, 2)
	assert.Equal(t, "1500.00", txns[1].Postings[0].Amount.StringFixed(2))
	assert.Equal(t, "Assets:ASN:Checking", txns[1].Postings[1].Account.Ledger)
	assert.Equal(t, "-1500.00", txns[1].Postings[1].Amount.StringFixed(2))

	assert.Equal(t, "NL12RABO0123456789", txns[2].Payee)
	assert.Len(t, txns[2].Postings, 1)
}

func TestBunq_CurlyQuotesInDescription(t *testing.T) {
	bunq, err := NewBunq(testdataAccounts(t), Options{Currency: "EUR", Log: zerolog.Nop()})
	require.NoError(t, err)

	in := `"Date";"Interest Date";"Amount";"Account";"Counterparty";"Name";"Description"` + "\n" +
		`"2022-03-12";"2022-03-12";"-25,00";"NL00BUNQ1111111111";"";"Flowers";"Gift for “mom”"` + "\n" +
		"“2022-03-13”;“2022-03-13”;“-5,00”;“NL00BUNQ1111111111”;“”;“Shop”;“Card for “dad””\n"

	txns, err := bunq.ExtractFrom(strings.NewReader(in), "bunq.csv")
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Gift for “mom”", txns[0].Narration)
	assert.Equal(t, "-25.00", txns[0].Postings[0].Amount.StringFixed(2))
	assert.Equal(t, "Card for “dad”", txns[1].Narration)
}

func TestBunq_MalformedCSVIsLogged(t *testing.T) {
	var logs bytes.Buffer
	bunq, err := NewBunq(testdataAccounts(t), Options{Currency: "EUR", Log: zerolog.New(&logs)})
	require.NoError(t, err)

	in := `"Date";"Interest Date";"Amount";"Account";"Counterparty";"Name";"Description"` + "\n" +
		`"2022-03-12";"2022-03-12";"-25,00";"NL00BUNQ1111111111";"";"Flowers";"broken "quote" here"` + "\n"

	txns, err := bunq.ExtractFrom(strings.NewReader(in), "bunq.csv")
	require.Error(t, err)
	assert.Nil(t, txns)
	assert.Contains(t, logs.String(), `"level":"error"`)
	assert.Contains(t, logs.String(), "failed reading export")
	assert.Contains(t, logs.String(), `"file":"bunq.csv"`)
	assert.Contains(t, logs.String(), `"line":2`)
}

func TestBunq_Identify(t *testing.T) {
	bunq, err := NewBunq(testdataAccounts(t), Options{Currency: "EUR", Log: zerolog.Nop()})
	require.NoError(t, err)

	m, ok := bunq.Identify("statements/1111_bunq-statement_2022-03-31.csv")
	require.True(t, ok, "matched through the bunq-scoped alias")
	assert.Equal(t, "Assets:Bunq:Checking", m.FileAccount())
	assert.Equal(t, date(2022, 3, 31), m.FileDate())

	_, ok = bunq.Identify("statements/9999_bunq-statement_2022-03-31.csv")
	assert.False(t, ok)
}

func TestBunq_BadFileMatch(t *testing.T) {
	reg := newMapRegistry(model.Account{
		Ledger: "Assets:Bunq:Checking", ExternalID: "NL01", Currency: "EUR",
		Institution: model.InstitutionBunq, FileMatch: `^bunq_(\d+)\.csv$`,
	})
	_, err := NewBunq(reg, Options{Currency: "EUR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "named groups id and end_date")

	reg = newMapRegistry(model.Account{
		Ledger: "Assets:Bunq:Checking", ExternalID: "NL01", Currency: "EUR",
		Institution: model.InstitutionBunq, FileMatch: `^bunq_(?P<id>\d+`,
	})
	_, err = NewBunq(reg, Options{Currency: "EUR"})
	assert.ErrorContains(t, err, "compiling file_match")
}
