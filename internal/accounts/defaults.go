package accounts

import "github.com/cleared-dev/nlbank/internal/model"

// Example returns a starter registry for a new project: one ASN checking account
// and one Bunq account, both in EUR, with filename patterns matching the names
// the export tools produce ("<iban>_<start>_<end>.csv").
func Example() []model.Account {
	return []model.Account{
		{
			Ledger:      "Assets:ASN:Checking",
			ExternalID:  "NL00ASNB0123456789",
			Currency:    "EUR",
			Institution: model.InstitutionASN,
			FileMatch:   `^(.*/)?(?P<id>NL\d{2}ASNB\d{10})_\d{4}-\d{2}-\d{2}_(?P<end_date>\d{4}-\d{2}-\d{2})\.csv$`,
		},
		{
			Ledger:      "Assets:Bunq:Checking",
			ExternalID:  "NL00BUNQ9876543210",
			Currency:    "EUR",
			Institution: model.InstitutionBunq,
			FileMatch:   `^(.*/)?(?P<id>NL\d{2}BUNQ\d{10})_\d{4}-\d{2}-\d{2}_(?P<end_date>\d{4}-\d{2}-\d{2})\.csv$`,
		},
	}
}
