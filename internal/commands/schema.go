package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/codec"
	"github.com/oficina-erp/oficina/internal/store"
)

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <collection>",
		Short:     "Print the JSON schema of a stored collection",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{store.KeyQuotes, store.KeySalesOrders, store.KeyPurchaseOrders, store.KeyPayables, store.KeyReceivables, store.KeyProducts},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := codec.Schema(args[0])
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(s, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
