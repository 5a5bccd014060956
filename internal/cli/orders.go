package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
	"github.com/backoffice-retail/backoffice/internal/orders"
)

func newOrdersCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work the fulfillment pipeline",
	}
	cmd.AddCommand(newOrdersListCommand())
	cmd.AddCommand(newOrdersCollectCommand())
	cmd.AddCommand(newOrdersAdvanceCommand(opts))
	cmd.AddCommand(newOrdersConfirmLoadCommand(opts))
	cmd.AddCommand(newOrdersDeliverCommand(opts))
	return cmd
}

func newOrdersListCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				counts := a.Orders.Counts(ctx)
				cmd.Printf("preparing %d, checking %d, loading %d, ready %d, delivered %d\n",
					counts[orders.StatusPreparing], counts[orders.StatusChecking],
					counts[orders.StatusLoading], counts[orders.StatusReady],
					counts[orders.StatusDelivered])

				var rows []string
				for _, st := range []orders.Status{
					orders.StatusPreparing, orders.StatusChecking, orders.StatusLoading,
					orders.StatusReady, orders.StatusDelivered,
				} {
					if status != "" && st != orders.Status(status) {
						continue
					}
					for _, o := range a.Orders.ByStatus(ctx, st) {
						frozen := ""
						if o.PendingApproval {
							frozen = "frozen"
						}
						rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s",
							o.ID, o.Status, o.Customer.Name, formatAmount(o.TotalAmount), o.RouteName, frozen))
					}
				}
				table(cmd.OutOrStdout(), "ID\tSTATUS\tCUSTOMER\tTOTAL\tROUTE\t", rows)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by pipeline stage")
	return cmd
}

func newOrdersCollectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "collect <order-id> <product-id> <quantity>",
		Short: "Record the quantity actually collected for one line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				qty, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("bad quantity %q", args[2])
				}
				_, err = a.Orders.UpdateItem(ctx, args[0], args[1], orders.ItemPatch{CollectedQuantity: &qty})
				return err
			})
		},
	}
}

func newOrdersAdvanceCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <order-id>",
		Short: "Close the order's current stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Orders.AdvanceStage(ctx, args[0], opts.User)
				if err != nil {
					return err
				}
				if o.PendingApproval {
					cmd.Printf("%s froze: collected quantities differ, approval filed\n", o.ID)
					return nil
				}
				cmd.Printf("%s is now %s\n", o.ID, o.Status)
				return nil
			})
		},
	}
}

func newOrdersConfirmLoadCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm-load <order-id>",
		Short: "Confirm the order is on the truck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Orders.ConfirmLoad(ctx, args[0], opts.User)
				if err != nil {
					return err
				}
				cmd.Printf("%s is now %s\n", o.ID, o.Status)
				return nil
			})
		},
	}
}

func newOrdersDeliverCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deliver <order-id>",
		Short: "Record the delivery of a ready order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				o, err := a.Orders.RecordDelivery(ctx, args[0], opts.User)
				if err != nil {
					return err
				}
				if o.PendingApproval {
					cmd.Printf("%s froze: collected quantities differ, approval filed\n", o.ID)
					return nil
				}
				cmd.Printf("%s delivered\n", o.ID)
				if o.CompletedRouteDate != nil {
					cmd.Printf("route %s completed\n", o.RouteName)
				}
				return nil
			})
		},
	}
}
