package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
)

func newCustomersCommand(_ *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Customer balances and statements",
	}
	cmd.AddCommand(newCustomersBalanceCommand())
	cmd.AddCommand(newCustomersStatementCommand())
	cmd.AddCommand(newCustomersStatsCommand())
	return cmd
}

func newCustomersBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <customer-id>",
		Short: "Show the customer's balance, recomputed from the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				cmd.Printf("%s\n", formatAmount(a.Ledger.Balance(ctx, args[0])))
				return nil
			})
		},
	}
}

func newCustomersStatementCommand() *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "statement <customer-id>",
		Short: "List the customer's ledger records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var yearFilter *int
				if cmd.Flags().Changed("year") {
					yearFilter = &year
				}
				var rows []string
				for _, tx := range a.Ledger.ByCustomer(ctx, args[0], yearFilter) {
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
						tx.ID, tx.Type, formatAmount(tx.Amount), tx.PaymentMethod, formatDate(tx.Date)))
				}
				table(cmd.OutOrStdout(), "ID\tTYPE\tAMOUNT\tMETHOD\tDATE", rows)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "limit to one calendar year")
	return cmd
}

func newCustomersStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <customer-id>",
		Short: "Sales and payments for the current and prior year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				st := a.Ledger.Stats(ctx, args[0])
				cmd.Printf("sales: %s this year, %s last year\n",
					formatAmount(st.CurrentYearSales), formatAmount(st.PreviousYearSales))
				cmd.Printf("payments: %s this year, %s last year\n",
					formatAmount(st.CurrentYearPayments), formatAmount(st.PreviousYearPayments))
				return nil
			})
		},
	}
}
