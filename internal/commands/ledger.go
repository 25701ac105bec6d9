package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/ledger"
	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
)

func newLedgerCommand(dir func() string, direction model.Direction) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   string(direction),
		Short: fmt.Sprintf("Manage %ss and their %ss", direction, direction.EventLabel()),
	}
	ledgerCmd.AddCommand(
		newLedgerCreateCommand(dir, direction),
		newLedgerFromOrderCommand(dir, direction),
		newLedgerPayCommand(dir, direction),
		newLedgerReverseCommand(dir, direction),
		newLedgerEditCommand(dir, direction),
		newLedgerShowCommand(dir, direction),
		newLedgerListCommand(dir, direction),
		newLedgerDeleteCommand(dir, direction),
	)
	return ledgerCmd
}

func newLedgerCreateCommand(dir func() string, direction model.Direction) *cobra.Command {
	var number, description, counterparty, category, due, amount string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + string(direction),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			original, err := parseDecimalArg("--amount", amount)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				doc, err := a.ledgers[direction].Create(ctx, ledger.NewInput{
					Number:         number,
					Description:    description,
					Counterparty:   counterparty,
					Category:       category,
					DueDate:        dueDate,
					OriginalAmount: original,
				})
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s for %s\n", direction, doc.Number, money.Format(doc.OriginalAmount))
				return fmt.Sprintf("%s: create %s", direction, doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "document number (default: next in sequence)")
	cmd.Flags().StringVar(&description, "description", "", "description (required)")
	_ = cmd.MarkFlagRequired("description")
	cmd.Flags().StringVar(&counterparty, direction.CounterpartyLabel(), "", direction.CounterpartyLabel()+" name (required)")
	_ = cmd.MarkFlagRequired(direction.CounterpartyLabel())
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("due")
	cmd.Flags().StringVar(&amount, "amount", "", "original amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newLedgerFromOrderCommand(dir func() string, direction model.Direction) *cobra.Command {
	var due, category string
	kind := model.KindPurchaseOrder
	if direction == model.Receivable {
		kind = model.KindSalesOrder
	}

	cmd := &cobra.Command{
		Use:   "from-order <order-number>",
		Short: fmt.Sprintf("Raise a %s for a %s's total", direction, kind.Label()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := parseDate(due)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				order, err := a.items[kind].Get(args[0])
				if err != nil {
					return "", err
				}
				doc, err := a.ledgers[direction].CreateFromOrder(ctx, order, dueDate, category)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s for %s from %s\n",
					direction, doc.Number, money.Format(doc.OriginalAmount), order.Number)
				return fmt.Sprintf("%s: create %s from %s", direction, doc.Number, order.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("due")
	cmd.Flags().StringVar(&category, "category", "", "category")

	return cmd
}

func newLedgerPayCommand(dir func() string, direction model.Direction) *cobra.Command {
	var date, method string
	event := direction.EventLabel()

	cmd := &cobra.Command{
		Use:   "pay <number> <amount>",
		Short: "Record a " + event,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimalArg("amount", args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				svc := a.ledgers[direction]
				paidOn, err := dateOrToday(date, svc.Now())
				if err != nil {
					return "", err
				}
				doc, err := svc.RecordPayment(ctx, args[0], ledger.PaymentInput{Amount: amount, Date: paidOn, Method: method})
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s of %s on %s: %s (remaining %s)\n", event,
					money.Format(amount), doc.Number, ledger.DisplayStatus(doc, svc.Now()).Label(), money.Format(doc.Remaining()))
				return fmt.Sprintf("%s: %s %s on %s", direction, event, money.Format(amount), doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", event+" date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&method, "method", "", event+" method, e.g. pix, boleto, transfer (required)")
	_ = cmd.MarkFlagRequired("method")

	return cmd
}

func newLedgerReverseCommand(dir func() string, direction model.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <number>",
		Short: fmt.Sprintf("Reverse every %s on a %s", direction.EventLabel(), direction),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				svc := a.ledgers[direction]
				doc, err := svc.ReverseAllPayments(ctx, args[0])
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reversed all %ss on %s: %s\n",
					direction.EventLabel(), doc.Number, ledger.DisplayStatus(doc, svc.Now()).Label())
				return fmt.Sprintf("%s: reverse %ss on %s", direction, direction.EventLabel(), doc.Number), nil
			})
		},
	}
}

func newLedgerEditCommand(dir func() string, direction model.Direction) *cobra.Command {
	var number, description, counterparty, category, due, amount string

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit a " + string(direction),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := ledger.Edit{
				Number:       optionalString(cmd, "number", number),
				Description:  optionalString(cmd, "description", description),
				Counterparty: optionalString(cmd, direction.CounterpartyLabel(), counterparty),
				Category:     optionalString(cmd, "category", category),
			}
			if cmd.Flags().Changed("due") {
				d, err := parseDate(due)
				if err != nil {
					return err
				}
				e.DueDate = &d
			}
			var err error
			if e.OriginalAmount, err = optionalDecimal(cmd, "amount", amount); err != nil {
				return err
			}

			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				svc := a.ledgers[direction]
				doc, err := svc.Edit(ctx, args[0], e)
				if err != nil {
					return "", err
				}
				printLedgerDocument(cmd.OutOrStdout(), doc, svc.Now())
				return fmt.Sprintf("%s: edit %s", direction, doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "new document number")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&counterparty, direction.CounterpartyLabel(), "", direction.CounterpartyLabel()+" name")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")
	cmd.Flags().StringVar(&amount, "amount", "", fmt.Sprintf("original amount (only before any %s)", direction.EventLabel()))

	return cmd
}

func newLedgerShowCommand(dir func() string, direction model.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Show a " + string(direction) + " with its " + direction.EventLabel() + " history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				svc := a.ledgers[direction]
				doc, err := svc.Get(args[0])
				if err != nil {
					return "", err
				}
				printLedgerDocument(cmd.OutOrStdout(), doc, svc.Now())
				return "", nil
			})
		},
	}
}

func newLedgerListCommand(dir func() string, direction model.Direction) *cobra.Command {
	var status, counterparty string
	var outstanding bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + string(direction) + "s by due date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := ledger.Filter{Outstanding: outstanding, Counterparty: counterparty}
			if status != "" {
				s, err := model.ParseStatus(status)
				if err != nil {
					return err
				}
				f.Status = s
			}
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				svc := a.ledgers[direction]
				printLedgerTable(cmd.OutOrStdout(), svc.List(f), svc.Now())
				return "", nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "pending, partially_paid, paid or overdue")
	cmd.Flags().BoolVar(&outstanding, "outstanding", false, "only documents with a remaining balance")
	cmd.Flags().StringVar(&counterparty, direction.CounterpartyLabel(), "", "filter by "+direction.CounterpartyLabel())

	return cmd
}

func newLedgerDeleteCommand(dir func() string, direction model.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a " + string(direction),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				if err := a.ledgers[direction].Delete(ctx, args[0]); err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", direction, args[0])
				return fmt.Sprintf("%s: delete %s", direction, args[0]), nil
			})
		},
	}
}
