// Package cli implements the back-office command line. Every command
// bootstraps the application against the configured state backend, runs one
// operation and exits; the state store carries everything between runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	User string
}

// NewRootCommand creates the root command for the back-office CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "backoffice",
		Short:         "Retail back-office: approvals, ledger, orders, stocktakes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.User, "user", "ayse", "acting user recorded on approvals and pipeline steps")

	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newProductsCommand(opts))
	cmd.AddCommand(newProposeCommand(opts))
	cmd.AddCommand(newApprovalsCommand(opts))
	cmd.AddCommand(newOrdersCommand(opts))
	cmd.AddCommand(newRoutesCommand(opts))
	cmd.AddCommand(newCountingCommand(opts))
	cmd.AddCommand(newCustomersCommand(opts))

	return cmd
}

// withApp boots the application and hands it to the command body.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	a, err := app.Bootstrap(ctx, cfg, app.NewLogger(cfg))
	if err != nil {
		return err
	}
	return fn(ctx, a)
}
