package importer

import "github.com/cleared-dev/nlbank/internal/model"

// Bunq exports carry a header row:
// "Date";"Interest Date";"Amount";"Account";"Counterparty";"Name";"Description"
const bunqDateLayout = "2006-01-02"

// NewBunq returns the importer for Bunq CSV statements.
func NewBunq(accts Accounts, opts Options) (*BankImporter, error) {
	return newBankImporter("bunq", model.InstitutionBunq,
		Dialect{
			Comma:  ';',
			Quotes: "\"“”",
		},
		Decoder{
			Fields: FieldMap{
				Date:             "Date",
				Amount:           "Amount",
				OwnAccount:       "Account",
				Counterparty:     "Counterparty",
				CounterpartyName: "Name",
				Description:      "Description",
			},
			DateLayout: bunqDateLayout,
			Notation:   NotationCommaDecimal,
		},
		accts, opts)
}
