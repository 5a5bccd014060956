// Package app wires configuration, logging, persistence and the business
// services into one runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/backoffice-retail/backoffice/internal/approvals"
	"github.com/backoffice-retail/backoffice/internal/auth"
	"github.com/backoffice-retail/backoffice/internal/catalog"
	"github.com/backoffice-retail/backoffice/internal/counting"
	"github.com/backoffice-retail/backoffice/internal/ledger"
	"github.com/backoffice-retail/backoffice/internal/orders"
	"github.com/backoffice-retail/backoffice/internal/platform/statestore"
	"github.com/backoffice-retail/backoffice/internal/seed"
)

// App bundles the wired services.
type App struct {
	Config *Config
	Logger *slog.Logger
	Store  statestore.Store

	Catalog   *catalog.Service
	Ledger    *ledger.Service
	Orders    *orders.Service
	Approvals *approvals.Service
	Counting  *counting.Service
	Auth      *auth.Service
}

// stockAdapter narrows the catalog service to the ledger's stock port.
type stockAdapter struct{ c *catalog.Service }

func (a stockAdapter) IncreaseStock(ctx context.Context, id string, qty int) error {
	_, err := a.c.IncreaseStock(ctx, id, qty)
	return err
}

func (a stockAdapter) DecreaseStock(ctx context.Context, id string, qty int) error {
	_, _, err := a.c.DecreaseStock(ctx, id, qty)
	return err
}

// NewStore builds the configured state store backend.
func NewStore(ctx context.Context, cfg *Config) (statestore.Store, error) {
	switch cfg.StateBackend {
	case "memory":
		return statestore.NewMemory(), nil
	case "file":
		return statestore.NewFile(cfg.DataDir)
	case "redis":
		return statestore.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	case "postgres":
		return statestore.NewPostgres(ctx, cfg.PGDSN)
	default:
		return nil, fmt.Errorf("app: unknown state backend %q", cfg.StateBackend)
	}
}

// Bootstrap constructs the store and every service and wires the ports
// between them. The five stores are warmed up concurrently; all mutations
// afterwards write through synchronously.
func Bootstrap(ctx context.Context, cfg *Config, logger *slog.Logger) (*App, error) {
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return BootstrapWithStore(ctx, cfg, logger, store)
}

// BootstrapWithStore wires the services onto an existing store. Tests use
// it with the memory backend.
func BootstrapWithStore(ctx context.Context, cfg *Config, logger *slog.Logger, store statestore.Store) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	catRepo := catalog.NewRepository(store)
	ledgerRepo := ledger.NewRepository(store)
	ordersRepo := orders.NewRepository(store)
	apprRepo := approvals.NewRepository(store)
	countRepo := counting.NewRepository(store)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return catRepo.Load(gctx) })
	g.Go(func() error { return ledgerRepo.Load(gctx) })
	g.Go(func() error { return ordersRepo.Load(gctx) })
	g.Go(func() error { return apprRepo.Load(gctx) })
	g.Go(func() error { return countRepo.Load(gctx) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("app: warm up stores: %w", err)
	}

	catSvc := catalog.NewService(catRepo, logger)
	ledgerSvc := ledger.NewService(ledgerRepo, logger)
	ordersSvc := orders.NewService(ordersRepo, logger)
	apprSvc := approvals.NewService(apprRepo, logger)
	countSvc := counting.NewService(countRepo, logger)

	ledgerSvc.SetStock(stockAdapter{catSvc})
	apprSvc.SetLedger(ledgerSvc)
	apprSvc.SetOrderBook(ordersSvc)
	apprSvc.SetCatalog(catSvc)
	ordersSvc.SetProposer(apprSvc)

	authSvc := auth.NewService()
	if err := authSvc.SeedDefaults(); err != nil {
		return nil, fmt.Errorf("app: seed users: %w", err)
	}

	logger.Info("application bootstrapped",
		slog.String("backend", cfg.StateBackend),
		slog.String("env", cfg.AppEnv))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Catalog:   catSvc,
		Ledger:    ledgerSvc,
		Orders:    ordersSvc,
		Approvals: apprSvc,
		Counting:  countSvc,
		Auth:      authSvc,
	}, nil
}

// SeedDemoData loads the demo catalog into an empty installation.
func (a *App) SeedDemoData(ctx context.Context) error {
	return a.Catalog.Seed(ctx, seed.Products())
}
