package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newAccountsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List registered accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			svc, err := p.accounts()
			if err != nil {
				return err
			}

			data := pterm.TableData{{"Ledger", "External ID", "Currency", "Institution", "Aliases"}}
			for _, a := range svc.All() {
				data = append(data, []string{a.Ledger, a.ExternalID, a.Currency, string(a.Institution), strings.Join(a.Aliases, ", ")})
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
		},
	}
}
