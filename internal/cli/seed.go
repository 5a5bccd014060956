package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/backoffice-retail/backoffice/internal/app"
)

func newSeedCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo catalog into an empty installation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.SeedDemoData(ctx); err != nil {
					return err
				}
				cmd.Printf("catalog holds %d products\n", len(a.Catalog.List(ctx)))
				return nil
			})
		},
	}
}
