package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
	"github.com/backoffice-retail/backoffice/internal/counting"
)

func newCountingCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "counting",
		Short: "Run stocktake lists",
	}
	cmd.AddCommand(newCountingCreateCommand(opts))
	cmd.AddCommand(newCountingAddCommand(opts, false))
	cmd.AddCommand(newCountingAddCommand(opts, true))
	cmd.AddCommand(newCountingCompleteCommand(opts))
	cmd.AddCommand(newCountingListsCommand())
	cmd.AddCommand(newCountingShowCommand())
	return cmd
}

func newCountingCreateCommand(opts *RootOptions) *cobra.Command {
	var (
		name        string
		description string
		products    []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a new stocktake list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Counting.CreateList(ctx, counting.CreateListInput{
					Name:        name,
					Description: description,
					User:        opts.User,
					ProductIDs:  products,
				})
				if err != nil {
					return err
				}
				cmd.Printf("list %s opened\n", l.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "list name")
	cmd.Flags().StringVar(&description, "description", "", "list description")
	cmd.Flags().StringArrayVar(&products, "product", nil, "limit the list to a product id, repeatable")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newCountingAddCommand(opts *RootOptions, merge bool) *cobra.Command {
	use, short := "add <product-id> <location> <quantity>", "Count a product at a location"
	if merge {
		use, short = "merge <product-id> <location> <quantity>", "Replace an existing count for the product and location"
	}
	var listID string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				qty, err := strconv.Atoi(args[2])
				if err != nil {
					return fmt.Errorf("bad quantity %q", args[2])
				}
				id := listID
				if id == "" {
					active, err := a.Counting.ActiveList(ctx)
					if err != nil {
						return err
					}
					id = active.ID
				}
				in := counting.CountInput{ProductID: args[0], Location: args[1], Quantity: qty, CountedBy: opts.User}
				if p, err := a.Catalog.Get(ctx, args[0]); err == nil {
					in.Name = p.Name
					in.Barcode = p.Barcode
					in.Image = p.Image
					in.CurrentStock = p.Stock
					in.Price = p.Price
				}
				var l counting.List
				if merge {
					l, err = a.Counting.MergeCount(ctx, id, in)
				} else {
					l, err = a.Counting.AddCount(ctx, id, in)
				}
				if err != nil {
					return err
				}
				cmd.Printf("%s: %d items, %d pieces\n", l.ID, l.TotalItems, l.TotalQuantity)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&listID, "list", "", "list id, defaults to the active list")
	return cmd
}

func newCountingCompleteCommand(opts *RootOptions) *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "complete <list-id>",
		Short: "Freeze a stocktake list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Counting.CompleteList(ctx, args[0], opts.User, note)
				if err != nil {
					return err
				}
				cmd.Printf("%s completed: %d items, %d pieces\n", l.ID, l.TotalItems, l.TotalQuantity)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "completion note")
	return cmd
}

func newCountingListsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "List stocktake sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var rows []string
				for _, l := range a.Counting.Lists(ctx) {
					state := "active"
					if l.Completed() {
						state = "completed"
					}
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s",
						l.ID, l.Name, state, l.TotalItems, l.TotalQuantity, formatDate(l.Date)))
				}
				table(cmd.OutOrStdout(), "ID\tNAME\tSTATE\tITEMS\tPIECES\tOPENED", rows)
				return nil
			})
		},
	}
}

func newCountingShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list-id>",
		Short: "Show a list's entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				l, err := a.Counting.List(ctx, args[0])
				if err != nil {
					return err
				}
				var rows []string
				for _, c := range l.Counts {
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%d\t%s",
						c.ProductID, c.Name, c.Location, c.Quantity, c.CountedBy))
				}
				table(cmd.OutOrStdout(), "PRODUCT\tNAME\tLOCATION\tQTY\tBY", rows)
				return nil
			})
		},
	}
}
