package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
	"github.com/backoffice-retail/backoffice/internal/orders"
)

func newRoutesCommand(_ *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Group ready orders into delivery routes",
	}
	cmd.AddCommand(newRoutesPlanCommand())
	cmd.AddCommand(newRoutesListCommand())
	cmd.AddCommand(newRoutesShowCommand())
	return cmd
}

func newRoutesPlanCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "plan <order-id>...",
		Short: "Create a route from ready orders, in driving sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				routeID, err := a.Orders.PlanRoute(ctx, orders.PlanRouteInput{Name: name, OrderIDs: args})
				if err != nil {
					return err
				}
				cmd.Printf("route %s planned with %d orders\n", routeID, len(args))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "route name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRoutesListCommand() *cobra.Command {
	var completed bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var list []orders.RouteSummary
				if completed {
					list = a.Orders.CompletedRoutes(ctx)
				} else {
					list = a.Orders.ActiveRoutes(ctx)
				}
				var rows []string
				for _, r := range list {
					rows = append(rows, fmt.Sprintf("%s\t%s\t%d/%d\t%s\t%s",
						r.ID, r.Name, r.Delivered, r.Orders, formatAmount(r.TotalAmount), formatDatePtr(r.CompletedAt)))
				}
				table(cmd.OutOrStdout(), "ID\tNAME\tDELIVERED\tTOTAL\tCOMPLETED", rows)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&completed, "completed", false, "list completed routes instead")
	return cmd
}

func newRoutesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <route-id>",
		Short: "Show a route's orders in delivery sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				members, err := a.Orders.RouteOrders(ctx, args[0])
				if err != nil {
					return err
				}
				var rows []string
				for _, o := range members {
					rows = append(rows, fmt.Sprintf("%d\t%s\t%s\t%s\t%s",
						o.RouteOrder, o.ID, o.Customer.Name, o.Status, formatAmount(o.TotalAmount)))
				}
				table(cmd.OutOrStdout(), "#\tORDER\tCUSTOMER\tSTATUS\tTOTAL", rows)
				return nil
			})
		},
	}
}
