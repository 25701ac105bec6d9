// Package commands implements the oficina command-line interface.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/apperrors"
	"github.com/oficina-erp/oficina/internal/buildinfo"
	"github.com/oficina-erp/oficina/internal/model"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var projectDir string

	rootCmd := &cobra.Command{
		Use:     "oficina",
		Short:   "Quotes, orders, payables and receivables for small industry",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", ".", "project directory containing "+configFileName)

	dir := func() string { return projectDir }

	rootCmd.AddCommand(
		newInitCommand(),
		newProductCommand(dir),
		newItemDocumentCommand(dir, model.KindQuote),
		newItemDocumentCommand(dir, model.KindSalesOrder),
		newItemDocumentCommand(dir, model.KindPurchaseOrder),
		newLedgerCommand(dir, model.Payable),
		newLedgerCommand(dir, model.Receivable),
		newSummaryCommand(dir),
		newSchemaCommand(),
	)

	return rootCmd
}

// Process exit codes.
const (
	ExitFailure  = 1
	ExitInvalid  = 2
	ExitNotFound = 3
)

// ExitCode maps a command error to the process exit status so scripts can
// tell rejected input and unknown documents apart from other failures.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsNotFound(err):
		return ExitNotFound
	case apperrors.IsValidation(err):
		return ExitInvalid
	}
	return ExitFailure
}
