package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/api"
	"github.com/rxtech-lab/argo-charts/internal/config"
	"github.com/rxtech-lab/argo-charts/internal/dashboard"
	"github.com/rxtech-lab/argo-charts/internal/scheduler"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/internal/version"
	"github.com/rxtech-lab/argo-charts/internal/watchlist"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func syncAction(ctx context.Context, cmd *cli.Command) error {
	interval, err := types.ParseInterval(cmd.String("interval"))
	if err != nil {
		return err
	}

	return withApp(ctx, cmd, func(ctx context.Context, a *app) error {
		ticker := watchlist.NormalizeTicker(cmd.String("ticker"))
		dateRange := dateRangeFor(a, cmd)

		result, err := a.synchronizer.Sync(ctx, dateRange.Request(ticker, interval))
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		printSyncResult(os.Stdout, result)

		return nil
	})
}

func loadAction(ctx context.Context, cmd *cli.Command) error {
	return withApp(ctx, cmd, func(ctx context.Context, a *app) error {
		session := dashboard.NewSession(a.loader, 1, a.logger.Named("session"))
		defer session.Close()

		generation := session.Select(ctx, watchlist.NormalizeTicker(cmd.String("ticker")), a.years(cmd))

		for payload := range session.Results() {
			if payload.Generation != generation {
				continue
			}

			printPayload(os.Stdout, payload)

			if !session.Accept(payload) {
				return errors.New(payload.Error)
			}

			return nil
		}

		return errors.New("load was cancelled")
	})
}

func refreshAction(ctx context.Context, cmd *cli.Command) error {
	return withApp(ctx, cmd, func(ctx context.Context, a *app) error {
		refresher := newRefresher(a, a.years(cmd))

		tickers, err := refresher.Tickers()
		if err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(tickers),
			progressbar.OptionSetDescription("Refreshing watchlist"),
			progressbar.OptionShowCount(),
		)

		report, err := refresher.Run(ctx, func(result scheduler.TickerResult) {
			bar.Describe(result.Ticker)
			_ = bar.Add(1)
		})
		_ = bar.Finish()

		fmt.Println()
		printReport(os.Stdout, report)

		if err != nil {
			return err
		}

		if len(report.Failed) > 0 {
			return fmt.Errorf("%d of %d tickers failed", len(report.Failed), len(tickers))
		}

		return nil
	})
}

func watchlistListAction(_ context.Context, cmd *cli.Command) error {
	a, err := newBaseApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tickers, err := a.watchlist.Load()
	if err != nil {
		return err
	}

	printTickers(os.Stdout, tickers)

	return nil
}

func watchlistAddAction(_ context.Context, cmd *cli.Command) error {
	return editWatchlist(cmd, func(store *watchlist.Store, ticker string) ([]string, error) {
		return store.Add(ticker)
	})
}

func watchlistRemoveAction(_ context.Context, cmd *cli.Command) error {
	return editWatchlist(cmd, func(store *watchlist.Store, ticker string) ([]string, error) {
		return store.Remove(ticker)
	})
}

func editWatchlist(cmd *cli.Command, edit func(store *watchlist.Store, ticker string) ([]string, error)) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one ticker, got %d", cmd.Args().Len())
	}

	a, err := newBaseApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tickers, err := edit(a.watchlist, cmd.Args().First())
	if err != nil {
		return err
	}

	printTickers(os.Stdout, tickers)

	return nil
}

func cacheAction(_ context.Context, cmd *cli.Command) error {
	a, err := newBaseApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.openCache(); err != nil {
		return err
	}

	ticker := watchlist.NormalizeTicker(cmd.String("ticker"))

	for _, interval := range types.Intervals() {
		coverage, err := a.store.Coverage(ticker, interval)
		if err != nil {
			return err
		}

		printCoverage(os.Stdout, coverage)
	}

	return nil
}

func providersAction(_ context.Context, _ *cli.Command) error {
	for _, name := range marketdata.GetSupportedProviders() {
		info, err := marketdata.GetProviderInfo(name)
		if err != nil {
			return err
		}

		printProvider(os.Stdout, info)
	}

	return nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	return withApp(ctx, cmd, func(ctx context.Context, a *app) error {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		listen := a.config.Server.ListenAddr
		if cmd.IsSet("listen") {
			listen = cmd.String("listen")
		}

		server := api.NewServer(a.loader, a.provider, a.watchlist, a.registry, a.config.Sync.DisplayYears, a.logger.Named("api"))
		if err := server.Start(listen); err != nil {
			return err
		}

		if a.config.Scheduler.Enabled {
			refreshScheduler, err := scheduler.NewScheduler(ctx, a.config.Scheduler.Cron, newRefresher(a, a.config.Sync.DisplayYears), a.logger.Named("scheduler"))
			if err != nil {
				return err
			}

			refreshScheduler.Start()
			defer refreshScheduler.Stop()
		}

		<-ctx.Done()

		a.logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("HTTP server shutdown failed", zap.Error(err))
		}

		return nil
	})
}

func schemaAction(_ context.Context, _ *cli.Command) error {
	schema, err := config.SchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func versionAction(_ context.Context, _ *cli.Command) error {
	fmt.Printf("chartsync %s (cache format %s)\n", version.GetVersion(), version.CacheFormat)

	return nil
}

func newRefresher(a *app, years int) *scheduler.Refresher {
	return scheduler.NewRefresher(a.synchronizer, a.watchlist, scheduler.RefresherOptions{
		Years:       years,
		Concurrency: 2,
		Now:         nil,
		Observer:    a.metrics,
	}, a.logger.Named("refresh"))
}
