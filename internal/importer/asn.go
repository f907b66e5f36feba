package importer

import "github.com/cleared-dev/nlbank/internal/model"

// ASN exports have no header; columns follow the bank's published layout.
var asnFieldNames = []string{
	"Boekingsdatum",
	"Opdrachtgeversrekening",
	"Tegenrekeningnummer",
	"Naam tegenrekening",
	"Adres",
	"Postcode",
	"Plaats",
	"Valutasoort rekening",
	"Saldo rekening voor mutatie",
	"Valutasoort mutatie",
	"Transactiebedrag",
	"Journaaldatum",
	"Valutadatum",
	"Interne transactiecode",
	"Globale transactiecode",
	"Volgnummer transactie",
	"Betalingskenmerk",
	"Omschrijving",
	"Afschriftnummer",
}

const asnDateLayout = "02-01-2006"

// NewASN returns the importer for ASN Bank CSV exports.
func NewASN(accts Accounts, opts Options) (*BankImporter, error) {
	return newBankImporter("asn", model.InstitutionASN,
		Dialect{
			Comma:      ';',
			Quotes:     `"`,
			FieldNames: asnFieldNames,
		},
		Decoder{
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
		},
		accts, opts)
}
