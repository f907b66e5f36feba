package importer

import "github.com/cleared-dev/nlbank/internal/model"

// BuildPostings books the decoded amount against own and, when the counterparty
// is a known account, the negated amount against it.
func BuildPostings(f DecodedFields, own model.Account, counterparty *model.Account) ([]model.Posting, model.Flag, error) {
	if own.Currency != f.Currency {
		return nil, "", &InvariantViolation{
			Own:           own.Ledger,
			OwnCurrency:   own.Currency,
			Other:         "row",
			OtherCurrency: f.Currency,
			Err:           ErrMultiCurrency,
		}
	}

	postings := []model.Posting{
		{Account: own, Amount: f.Amount, Currency: own.Currency},
	}
	if counterparty == nil {
		return postings, model.FlagOkay, nil
	}

	// TODO: book converted transfers once a price source exists.
	if counterparty.Currency != own.Currency {
		return nil, "", &InvariantViolation{
			Own:           own.Ledger,
			OwnCurrency:   own.Currency,
			Other:         counterparty.Ledger,
			OtherCurrency: counterparty.Currency,
			Err:           ErrMultiCurrency,
		}
	}
	postings = append(postings, model.Posting{
		Account:  *counterparty,
		Amount:   f.Amount.Neg(),
		Currency: own.Currency,
	})
	return postings, model.FlagTransfer, nil
}
