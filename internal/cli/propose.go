package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
	"github.com/backoffice-retail/backoffice/internal/approvals"
	"github.com/backoffice-retail/backoffice/internal/seed"
	"github.com/backoffice-retail/backoffice/internal/shared"
)

func newProposeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propose",
		Short: "File proposals into the approval queue",
	}
	cmd.AddCommand(newProposeSaleCommand(opts, false))
	cmd.AddCommand(newProposeSaleCommand(opts, true))
	cmd.AddCommand(newProposeReceiptCommand(opts, false))
	cmd.AddCommand(newProposeReceiptCommand(opts, true))
	return cmd
}

// resolveCustomer finds the customer in the demo book, falling back to a
// bare snapshot when the id is unknown.
func resolveCustomer(id, name string) shared.CustomerSnapshot {
	for _, c := range seed.Customers() {
		if c.ID == id {
			return c
		}
	}
	return shared.CustomerSnapshot{ID: id, Name: name}
}

// parseItems turns repeated "product-id:qty" values into sale items priced
// from the catalog.
func parseItems(ctx context.Context, a *app.App, specs []string) ([]approvals.SaleItem, decimal.Decimal, error) {
	var items []approvals.SaleItem
	total := decimal.Zero
	for _, spec := range specs {
		id, qtyStr, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("item %q: want product-id:qty", spec)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, decimal.Zero, fmt.Errorf("item %q: bad quantity", spec)
		}
		p, err := a.Catalog.Get(ctx, id)
		if err != nil {
			return nil, decimal.Zero, err
		}
		items = append(items, approvals.SaleItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Price:     p.Price,
			Quantity:  qty,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return items, total, nil
}

func newProposeSaleCommand(opts *RootOptions, isReturn bool) *cobra.Command {
	use, short := "sale", "Propose a sale (approved sales book a transaction and open an order)"
	if isReturn {
		use, short = "return", "Propose a customer return (approved returns restock)"
	}
	var (
		customerID   string
		customerName string
		itemSpecs    []string
		note         string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				items, total, err := parseItems(ctx, a, itemSpecs)
				if err != nil {
					return err
				}
				payload := approvals.SalePayload{
					Customer: resolveCustomer(customerID, customerName),
					Items:    items,
					Total:    total,
					Note:     note,
				}
				var apr approvals.Approval
				if isReturn {
					apr, err = a.Approvals.ProposeReturn(ctx, opts.User, payload)
				} else {
					apr, err = a.Approvals.ProposeSale(ctx, opts.User, payload)
				}
				if err != nil {
					return err
				}
				cmd.Printf("proposed %s for %s, total %s\n", apr.ID, payload.Customer.Name, formatAmount(total))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&customerName, "customer-name", "", "customer name when not in the book")
	cmd.Flags().StringArrayVar(&itemSpecs, "item", nil, "product-id:qty, repeatable")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

// parseLeg turns "kind:amount[:detail...]" into a payment leg.
// Details per kind: card bank; check bank:number:due; bond number:debtor:due.
func parseLeg(spec string) (approvals.PaymentLeg, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return approvals.PaymentLeg{}, fmt.Errorf("leg %q: want kind:amount", spec)
	}
	kind := approvals.LegKind(parts[0])
	if !kind.IsValid() {
		return approvals.PaymentLeg{}, fmt.Errorf("leg %q: unknown kind %q", spec, parts[0])
	}
	amount, err := decimal.NewFromString(parts[1])
	if err != nil {
		return approvals.PaymentLeg{}, fmt.Errorf("leg %q: bad amount", spec)
	}
	leg := approvals.PaymentLeg{Kind: kind, Amount: amount}
	rest := parts[2:]
	switch kind {
	case approvals.LegCard:
		if len(rest) > 0 {
			leg.Bank = rest[0]
		}
	case approvals.LegCheck:
		if len(rest) > 0 {
			leg.Bank = rest[0]
		}
		if len(rest) > 1 {
			leg.CheckNumber = rest[1]
		}
		if len(rest) > 2 {
			leg.DueDate = rest[2]
		}
	case approvals.LegBond:
		if len(rest) > 0 {
			leg.BondNumber = rest[0]
		}
		if len(rest) > 1 {
			leg.DebtorName = rest[1]
		}
		if len(rest) > 2 {
			leg.DueDate = rest[2]
		}
	}
	return leg, nil
}

func newProposeReceiptCommand(opts *RootOptions, isExpense bool) *cobra.Command {
	use, short := "payment", "Propose a customer payment receipt"
	if isExpense {
		use, short = "expense", "Propose an expense paid out to a customer"
	}
	var (
		customerID   string
		customerName string
		legSpecs     []string
		note         string
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				var legs []approvals.PaymentLeg
				for _, spec := range legSpecs {
					leg, err := parseLeg(spec)
					if err != nil {
						return err
					}
					legs = append(legs, leg)
				}
				payload := approvals.ReceiptPayload{
					Customer: resolveCustomer(customerID, customerName),
					Legs:     legs,
					Note:     note,
				}
				var (
					apr approvals.Approval
					err error
				)
				if isExpense {
					apr, err = a.Approvals.ProposeExpense(ctx, opts.User, payload)
				} else {
					apr, err = a.Approvals.ProposePayment(ctx, opts.User, payload)
				}
				if err != nil {
					return err
				}
				cmd.Printf("proposed %s: %s\n", apr.ID, approvals.SummarizeLegs(legs))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&customerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&customerName, "customer-name", "", "customer name when not in the book")
	cmd.Flags().StringArrayVar(&legSpecs, "leg", nil, "kind:amount[:detail...], repeatable")
	cmd.Flags().StringVar(&note, "note", "", "free-form note")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("leg")
	return cmd
}
