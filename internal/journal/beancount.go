package journal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/nlbank/internal/model"
)

// RenderBeancount writes txns as beancount transactions, each carrying its
// source file and row as metadata.
//
//	2022-03-15 * "Coffee shop"
//	  source: "asn.csv"
//	  row: 0
//	  Assets:ASN:Checking  -12.50 EUR
func RenderBeancount(w io.Writer, txns []model.Transaction) error {
	bw := bufio.NewWriter(w)
	for i, txn := range txns {
		if i > 0 {
			bw.WriteString("\n")
		}
		fmt.Fprintf(bw, "%s %s", txn.Date.Format(dateFormat), txn.Flag)
		if txn.Payee != "" {
			fmt.Fprintf(bw, " %s", strconv.Quote(txn.Payee))
		}
		fmt.Fprintf(bw, " %s\n", strconv.Quote(txn.Narration))
		fmt.Fprintf(bw, "  source: %s\n", strconv.Quote(txn.Meta.Filename))
		fmt.Fprintf(bw, "  row: %d\n", txn.Meta.Row)
		for _, p := range txn.Postings {
			fmt.Fprintf(bw, "  %s  %s %s\n", p.Account.Ledger, formatAmount(p.Amount), p.Currency)
		}
	}
	return bw.Flush()
}
