package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/model"
	"github.com/oficina-erp/oficina/internal/money"
	"github.com/oficina-erp/oficina/internal/orders"
)

// commandName maps a document kind to its CLI noun.
func commandName(kind model.Kind) string {
	return strings.ReplaceAll(string(kind), "_", "-")
}

func newItemDocumentCommand(dir func() string, kind model.Kind) *cobra.Command {
	docCmd := &cobra.Command{
		Use:   commandName(kind),
		Short: "Manage " + strings.ToLower(kind.Label()) + "s",
	}
	docCmd.AddCommand(
		newItemCreateCommand(dir, kind),
		newItemAddCommand(dir, kind),
		newItemUpdateCommand(dir, kind),
		newItemRemoveCommand(dir, kind),
		newItemDiscountCommand(dir, kind),
		newItemEditCommand(dir, kind),
		newItemShowCommand(dir, kind),
		newItemListCommand(dir, kind),
		newItemDeleteCommand(dir, kind),
	)
	if kind == model.KindQuote {
		docCmd.AddCommand(newQuoteConvertCommand(dir))
	}
	return docCmd
}

func newItemCreateCommand(dir func() string, kind model.Kind) *cobra.Command {
	var number, counterparty, issued, notes string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty " + strings.ToLower(kind.Label()),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				in := orders.CreateInput{Number: number, Counterparty: counterparty, Notes: notes}
				if issued != "" {
					d, err := parseDate(issued)
					if err != nil {
						return "", err
					}
					in.IssueDate = d
				}
				doc, err := a.items[kind].Create(ctx, in)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s\n", strings.ToLower(kind.Label()), doc.Number)
				return fmt.Sprintf("%s: create %s", commandName(kind), doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "document number (default: next in sequence)")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "customer or supplier (required)")
	_ = cmd.MarkFlagRequired("counterparty")
	cmd.Flags().StringVar(&issued, "date", "", "issue date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func newItemAddCommand(dir func() string, kind model.Kind) *cobra.Command {
	var quantity, price, discount string

	cmd := &cobra.Command{
		Use:   "add-item <number> <product>",
		Short: "Add a product line; unit price defaults to the list price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseDecimalArg("--qty", quantity)
			if err != nil {
				return err
			}
			disc, err := parseDecimalArg("--discount", discount)
			if err != nil {
				return err
			}
			unitPrice, err := optionalDecimal(cmd, "price", price)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				doc, err := a.items[kind].AddItem(ctx, args[0], orders.ItemInput{
					Product:         args[1],
					Quantity:        qty,
					UnitPrice:       unitPrice,
					DiscountPercent: disc,
				})
				if err != nil {
					return "", err
				}
				printItemDocument(cmd.OutOrStdout(), doc)
				return fmt.Sprintf("%s: add item to %s", commandName(kind), doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&quantity, "qty", "1", "quantity")
	cmd.Flags().StringVar(&price, "price", "", "unit price")
	cmd.Flags().StringVar(&discount, "discount", "0", "line discount percent")

	return cmd
}

func newItemUpdateCommand(dir func() string, kind model.Kind) *cobra.Command {
	var quantity, price, discount string

	cmd := &cobra.Command{
		Use:   "update-item <number> <line>",
		Short: "Change quantity, unit price or discount of a line (lines start at 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseLine(args[1])
			if err != nil {
				return err
			}
			var patch orders.ItemPatch
			if patch.Quantity, err = optionalDecimal(cmd, "qty", quantity); err != nil {
				return err
			}
			if patch.UnitPrice, err = optionalDecimal(cmd, "price", price); err != nil {
				return err
			}
			if patch.DiscountPercent, err = optionalDecimal(cmd, "discount", discount); err != nil {
				return err
			}

			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				doc, err := a.items[kind].UpdateItem(ctx, args[0], index, patch)
				if err != nil {
					return "", err
				}
				printItemDocument(cmd.OutOrStdout(), doc)
				return fmt.Sprintf("%s: update item %d of %s", commandName(kind), index+1, doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&quantity, "qty", "", "quantity")
	cmd.Flags().StringVar(&price, "price", "", "unit price")
	cmd.Flags().StringVar(&discount, "discount", "", "line discount percent")

	return cmd
}

func newItemRemoveCommand(dir func() string, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-item <number> <line>",
		Short: "Remove a line (lines start at 1)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseLine(args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				doc, err := a.items[kind].RemoveItem(ctx, args[0], index)
				if err != nil {
					return "", err
				}
				printItemDocument(cmd.OutOrStdout(), doc)
				return fmt.Sprintf("%s: remove item %d of %s", commandName(kind), index+1, doc.Number), nil
			})
		},
	}
}

func newItemDiscountCommand(dir func() string, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "discount <number> <percent>",
		Short: "Set the overall discount percent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			percent, err := parseDecimalArg("percent", args[1])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				doc, err := a.items[kind].SetOverallDiscount(ctx, args[0], percent)
				if err != nil {
					return "", err
				}
				printItemDocument(cmd.OutOrStdout(), doc)
				return fmt.Sprintf("%s: discount %s%% on %s", commandName(kind), percent, doc.Number), nil
			})
		},
	}
}

func newItemEditCommand(dir func() string, kind model.Kind) *cobra.Command {
	var number, counterparty, issued, notes string

	cmd := &cobra.Command{
		Use:   "edit <number>",
		Short: "Edit number, counterparty, issue date or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := orders.Edit{
				Number:       optionalString(cmd, "number", number),
				Counterparty: optionalString(cmd, "counterparty", counterparty),
				Notes:        optionalString(cmd, "notes", notes),
			}
			if cmd.Flags().Changed("date") {
				d, err := parseDate(issued)
				if err != nil {
					return err
				}
				e.IssueDate = &d
			}

			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				doc, err := a.items[kind].Edit(ctx, args[0], e)
				if err != nil {
					return "", err
				}
				printItemDocument(cmd.OutOrStdout(), doc)
				return fmt.Sprintf("%s: edit %s", commandName(kind), doc.Number), nil
			})
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "new document number")
	cmd.Flags().StringVar(&counterparty, "counterparty", "", "customer or supplier")
	cmd.Flags().StringVar(&issued, "date", "", "issue date YYYY-MM-DD")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	return cmd
}

func newItemShowCommand(dir func() string, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "show <number>",
		Short: "Show a " + strings.ToLower(kind.Label()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				doc, err := a.items[kind].Get(args[0])
				if err != nil {
					return "", err
				}
				printItemDocument(cmd.OutOrStdout(), doc)
				return "", nil
			})
		},
	}
}

func newItemListCommand(dir func() string, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(kind.Label()) + "s",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				printItemTable(cmd.OutOrStdout(), a.items[kind].List())
				return "", nil
			})
		},
	}
}

func newItemDeleteCommand(dir func() string, kind model.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete a " + strings.ToLower(kind.Label()),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				if err := a.items[kind].Delete(ctx, args[0]); err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", strings.ToLower(kind.Label()), args[0])
				return fmt.Sprintf("%s: delete %s", commandName(kind), args[0]), nil
			})
		},
	}
}

func newQuoteConvertCommand(dir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <number>",
		Short: "Convert a quote into a sales order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				so, err := orders.ConvertQuote(ctx, a.items[model.KindQuote], a.items[model.KindSalesOrder], args[0])
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Converted quote %s into sales order %s (%s)\n",
					args[0], so.Number, money.Format(so.TotalAmount))
				return fmt.Sprintf("quote: convert %s to %s", args[0], so.Number), nil
			})
		},
	}
}

// parseLine converts a 1-based line argument to a zero-based index.
func parseLine(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid line %q (lines start at 1)", raw)
	}
	return n - 1, nil
}
