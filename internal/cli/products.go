package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
	"github.com/backoffice-retail/backoffice/internal/approvals"
)

func newProductsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Inspect and propose changes to the product catalog",
	}
	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsProposeCommand(opts))
	return cmd
}

func newProductsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var rows []string
				for _, p := range a.Catalog.List(ctx) {
					rows = append(rows, fmt.Sprintf("%s\t%s\t%s\t%d\t%s",
						p.ID, p.Name, formatAmount(p.Price), p.Stock, p.Shelf))
				}
				table(cmd.OutOrStdout(), "ID\tNAME\tPRICE\tSTOCK\tSHELF", rows)
				return nil
			})
		},
	}
}

func newProductsProposeCommand(opts *RootOptions) *cobra.Command {
	var (
		name  string
		price string
		stock int
		shelf string
	)
	cmd := &cobra.Command{
		Use:   "propose <product-id>",
		Short: "Propose a product edit through the approval queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				old, err := a.Catalog.Get(ctx, args[0])
				if err != nil {
					return err
				}
				next := approvals.ProductPayload{
					ID:          old.ID,
					Name:        old.Name,
					Description: old.Description,
					Price:       old.Price,
					Stock:       old.Stock,
					Image:       old.Image,
					Brand:       old.Brand,
					Category:    old.Category,
					Barcode:     old.Barcode,
					Shelf:       old.Shelf,
					Packaging:   old.Packaging,
				}
				if cmd.Flags().Changed("name") {
					next.Name = name
				}
				if cmd.Flags().Changed("price") {
					next.Price, err = decimal.NewFromString(price)
					if err != nil {
						return fmt.Errorf("parse price %q: %w", price, err)
					}
				}
				if cmd.Flags().Changed("stock") {
					next.Stock = stock
				}
				if cmd.Flags().Changed("shelf") {
					next.Shelf = shelf
				}
				apr, err := a.Approvals.ProposeProductUpdate(ctx, opts.User, old, next)
				if err != nil {
					return err
				}
				cmd.Printf("proposed %s, pending approval\n", apr.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new product name")
	cmd.Flags().StringVar(&price, "price", "", "new price")
	cmd.Flags().IntVar(&stock, "stock", 0, "new stock level")
	cmd.Flags().StringVar(&shelf, "shelf", "", "new shelf location")
	return cmd
}
