package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/nlbank/internal/importer"
)

func newIdentifyCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "identify",
		Short: "Show which importer claims each file in the import directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			reg, err := p.importers()
			if err != nil {
				return err
			}

			files, err := importer.Scan(p.path(p.cfg.ImportDir))
			if err != nil {
				return err
			}
			if len(files) == 0 {
				pterm.Info.WithWriter(cmd.OutOrStdout()).Println("No files to import")
				return nil
			}

			data := pterm.TableData{{"File", "Importer", "Account", "Date"}}
			for _, f := range files {
				imp, m, ok := reg.Identify(f.Path)
				if !ok {
					data = append(data, []string{f.Name, "-", "-", "-"})
					continue
				}
				data = append(data, []string{f.Name, imp.Name(), m.FileAccount(), m.FileDate().Format("2006-01-02")})
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
		},
	}
}
