package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/catalog"
	"github.com/oficina-erp/oficina/internal/money"
)

func newProductCommand(dir func() string) *cobra.Command {
	productCmd := &cobra.Command{
		Use:   "product",
		Short: "Manage the product catalog",
	}
	productCmd.AddCommand(
		newProductAddCommand(dir),
		newProductListCommand(dir),
		newProductImportCommand(dir),
		newProductExportCommand(dir),
	)
	return productCmd
}

func newProductAddCommand(dir func() string) *cobra.Command {
	var name, unit, price string

	cmd := &cobra.Command{
		Use:   "add <code>",
		Short: "Add a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listPrice, err := parseDecimalArg("--price", price)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return withApp(ctx, dir(), func(a *app) (string, error) {
				p, err := a.catalog.Add(ctx, catalog.AddInput{Code: args[0], Name: name, Unit: unit, ListPrice: listPrice})
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added product %s %s (%s)\n", p.Code, p.Name, money.Format(p.ListPrice))
				return "product: add " + p.Code, nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "product name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&unit, "unit", "", "unit of measure")
	cmd.Flags().StringVar(&price, "price", "0", "list price")

	return cmd
}

func newProductListCommand(dir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				products := a.catalog.All()
				out := cmd.OutOrStdout()
				if len(products) == 0 {
					fmt.Fprintln(out, "No products.")
					return "", nil
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CODE\tNAME\tUNIT\tLIST PRICE")
				for _, p := range products {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Code, p.Name, p.Unit, money.Format(p.ListPrice))
				}
				return "", tw.Flush()
			})
		},
	}
}

func newProductImportCommand(dir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import products from CSV (id,code,name,unit,list_price)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			return withApp(ctx, dir(), func(a *app) (string, error) {
				n, err := a.catalog.Import(ctx, f)
				if err != nil {
					return "", err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products\n", n)
				return fmt.Sprintf("product: import %d rows", n), nil
			})
		},
	}
}

func newProductExportCommand(dir func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), dir(), func(a *app) (string, error) {
				return "", a.catalog.Export(cmd.OutOrStdout())
			})
		},
	}
}
