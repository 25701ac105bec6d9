package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

func newSummaryCommand(dir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Cash-flow view of payables and receivables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				pay := a.ledgers[model.Payable].Summary()
				rec := a.ledgers[model.Receivable].Summary()

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
				fmt.Fprintln(tw, "\tPAYABLE\tRECEIVABLE\t")
				fmt.Fprintf(tw, "Documents\t%d\t%d\t\n", pay.Count, rec.Count)
				fmt.Fprintf(tw, "Original\t%s\t%s\t\n", money.Format(pay.Original), money.Format(rec.Original))
				fmt.Fprintf(tw, "Settled\t%s\t%s\t\n", money.Format(pay.Paid), money.Format(rec.Paid))
				fmt.Fprintf(tw, "Outstanding\t%s\t%s\t\n", money.Format(pay.Outstanding), money.Format(rec.Outstanding))
				fmt.Fprintf(tw, "Overdue\t%d\t%d\t\n", pay.OverdueCount, rec.OverdueCount)
				fmt.Fprintf(tw, "Overdue amount\t%s\t%s\t\n", money.Format(pay.OverdueAmount), money.Format(rec.OverdueAmount))
				if err := tw.Flush(); err != nil {
					return "", err
				}

				net := rec.Outstanding.Sub(pay.Outstanding)
				fmt.Fprintf(cmd.OutOrStdout(), "\nNet position (receivable - payable): %s\n", money.Format(net))
				return "", nil
			})
		},
	}
}
