package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
	"github.com/backoffice-retail/backoffice/internal/approvals"
)

func newApprovalsCommand(_ *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approvals",
		Short: "List and decide pending approvals",
	}
	cmd.AddCommand(newApprovalsListCommand())
	cmd.AddCommand(newApprovalsDecideCommand(true))
	cmd.AddCommand(newApprovalsDecideCommand(false))
	return cmd
}

func newApprovalsListCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approvals, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var list []approvals.Approval
				if status == "" {
					list = a.Approvals.All(ctx)
				} else {
					s := approvals.Status(status)
					if !s.IsValid() {
						return fmt.Errorf("unknown status %q", status)
					}
					list = a.Approvals.ByStatus(ctx, s)
				}
				var rows []string
				for _, apr := range list {
					customer := "-"
					if apr.Customer != nil {
						customer = apr.Customer.Name
					}
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
						apr.ID, apr.Type, apr.Status, customer, formatAmount(apr.Amount), formatDate(apr.Date)))
				}
				table(cmd.OutOrStdout(), "ID\tTYPE\tSTATUS\tCUSTOMER\tAMOUNT\tDATE", rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter: pending, approved or rejected")
	return cmd
}

func newApprovalsDecideCommand(approve bool) *cobra.Command {
	use, short := "approve <approval-id>", "Approve a pending proposal, running its side effects"
	if !approve {
		use, short = "reject <approval-id>", "Reject a pending proposal"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				apr, err := a.Approvals.Decide(ctx, args[0], approve)
				if err != nil {
					return err
				}
				cmd.Printf("%s is now %s\n", apr.ID, apr.Status)
				return nil
			})
		},
	}
}
