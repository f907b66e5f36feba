package importer

import "github.com/cleared-dev/nlbank/internal/model"

// Assemble wraps built postings into a Transaction traced back to its source row.
func Assemble(f DecodedFields, postings []model.Posting, flag model.Flag, meta model.Meta) model.Transaction {
	return model.Transaction{
		Date:      f.Date,
		Flag:      flag,
		Payee:     payee(f),
		Narration: f.Narration,
		Postings:  postings,
		Meta:      meta,
	}
}

// payee prefers the counterparty's name and falls back to its account number.
func payee(f DecodedFields) string {
	if f.CounterpartyName != "" {
		return f.CounterpartyName
	}
	return f.Counterparty
}
