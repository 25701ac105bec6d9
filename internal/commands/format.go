package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/codec"
	"github.com/oficina-erp/oficina/internal/ledger"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(codec.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", raw)
	}
	return t, nil
}

// dateOrToday parses raw, or returns today's date when raw is empty.
func dateOrToday(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return parseDate(raw)
}

// optionalDecimal returns nil unless the flag was set on the command line.
func optionalDecimal(cmd *cobra.Command, flag, raw string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(flag) {
		return nil, nil
	}
	d, err := money.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &d, nil
}

// optionalString returns nil unless the flag was set on the command line.
func optionalString(cmd *cobra.Command, flag, raw string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &raw
}

func parseDecimalArg(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := money.Parse(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(codec.DateLayout)
}

func printLedgerDocument(w io.Writer, doc model.LedgerDocument, now time.Time) {
	fmt.Fprintf(w, "%s %s\n", doc.Number, doc.Description)
	fmt.Fprintf(w, "  %-13s %s\n", doc.Direction.CounterpartyLabel()+":", doc.Counterparty)
	if doc.Category != "" {
		fmt.Fprintf(w, "  %-13s %s\n", "Category:", doc.Category)
	}
	fmt.Fprintf(w, "  %-13s %s\n", "Due:", formatDate(doc.DueDate))
	fmt.Fprintf(w, "  %-13s %s\n", "Status:", ledger.DisplayStatus(doc, now).Label())
	fmt.Fprintf(w, "  %-13s %s\n", "Original:", money.Format(doc.OriginalAmount))
	fmt.Fprintf(w, "  %-13s %s\n", "Paid:", money.Format(doc.PaidAmount))
	fmt.Fprintf(w, "  %-13s %s\n", "Remaining:", money.Format(doc.Remaining()))
	if len(doc.PaymentHistory) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s history:\n", capitalize(doc.Direction.EventLabel()))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range doc.PaymentHistory {
		fmt.Fprintf(tw, "    %d\t%s\t%s\t%s\n", i+1, formatDate(e.Date), money.Format(e.Amount), e.Method)
	}
	tw.Flush()
}

func printLedgerTable(w io.Writer, docs []model.LedgerDocument, now time.Time) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tDUE\tCOUNTERPARTY\tDESCRIPTION\tORIGINAL\tPAID\tSTATUS")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", d.Number, formatDate(d.DueDate), d.Counterparty,
			d.Description, money.Format(d.OriginalAmount), money.Format(d.PaidAmount), ledger.DisplayStatus(d, now).Label())
	}
	tw.Flush()
}

func printItemDocument(w io.Writer, doc model.ItemDocument) {
	fmt.Fprintf(w, "%s %s\n", doc.Kind.Label(), doc.Number)
	fmt.Fprintf(w, "  %-13s %s\n", "Counterparty:", doc.Counterparty)
	fmt.Fprintf(w, "  %-13s %s\n", "Issued:", formatDate(doc.IssueDate))
	if doc.Notes != "" {
		fmt.Fprintf(w, "  %-13s %s\n", "Notes:", doc.Notes)
	}
	if len(doc.Items) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  #\tCODE\tPRODUCT\tQTY\tUNIT PRICE\tDISC %\tSUBTOTAL")
		for i, it := range doc.Items {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\t%s\n", i+1, it.Product.Code, it.Product.Name,
				it.Quantity.String(), money.Format(it.UnitPrice), it.DiscountPercent.String(), money.Format(it.Subtotal))
		}
		tw.Flush()
	}
	if !doc.OverallDiscountPercent.IsZero() {
		fmt.Fprintf(w, "  %-13s %s%%\n", "Discount:", doc.OverallDiscountPercent.String())
	}
	fmt.Fprintf(w, "  %-13s %s\n", "Total:", money.Format(doc.TotalAmount))
}

func printItemTable(w io.Writer, docs []model.ItemDocument) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tISSUED\tCOUNTERPARTY\tITEMS\tTOTAL")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.Number, formatDate(d.IssueDate), d.Counterparty, len(d.Items), money.Format(d.TotalAmount))
	}
	tw.Flush()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
