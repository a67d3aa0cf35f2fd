package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/urfave/cli/v3"
)

func tickerFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "ticker",
		Aliases:  []string{"t"},
		Usage:    "Ticker symbol",
		Required: true,
	}
}

func yearsFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "years",
		Aliases: []string{"y"},
		Usage:   fmt.Sprintf("Years to display (%d to %d). Defaults to the configured value", syncengine.MinDisplayYears, syncengine.MaxDisplayYears),
	}
}

func main() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the chartsync YAML config",
		Sources: cli.EnvVars("CHARTSYNC_CONFIG"),
	}

	logLevelFlag := &cli.StringFlag{
		Name:  "log-level",
		Usage: "Override the configured log level (debug, info, warn, error)",
	}

	cmd := &cli.Command{
		Name:  "chartsync",
		Usage: "Incremental price history sync for the charting dashboard",
		Flags: []cli.Flag{configFlag, logLevelFlag},
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Synchronize one ticker and interval and print the latest indicator values",
				Flags: []cli.Flag{
					tickerFlag(),
					yearsFlag(),
					&cli.StringFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   fmt.Sprintf("Bar interval (%s or %s)", types.IntervalDaily, types.IntervalWeekly),
						Value:   string(types.IntervalDaily),
					},
				},
				Action: syncAction,
			},
			{
				Name:   "load",
				Usage:  "Load the daily and weekly charts plus company info of a ticker",
				Flags:  []cli.Flag{tickerFlag(), yearsFlag()},
				Action: loadAction,
			},
			{
				Name:   "refresh",
				Usage:  "Synchronize every watchlist ticker",
				Flags:  []cli.Flag{yearsFlag()},
				Action: refreshAction,
			},
			{
				Name:  "watchlist",
				Usage: "Show or edit the watchlist",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print the watchlist",
						Action: watchlistListAction,
					},
					{
						Name:      "add",
						Usage:     "Add a ticker",
						ArgsUsage: "TICKER",
						Action:    watchlistAddAction,
					},
					{
						Name:      "remove",
						Usage:     "Remove a ticker",
						ArgsUsage: "TICKER",
						Action:    watchlistRemoveAction,
					},
				},
			},
			{
				Name:   "cache",
				Usage:  "Show what the local cache holds for a ticker",
				Flags:  []cli.Flag{tickerFlag()},
				Action: cacheAction,
			},
			{
				Name:   "providers",
				Usage:  "List the supported market data providers",
				Action: providersAction,
			},
			{
				Name:  "serve",
				Usage: "Serve the HTTP API and run the scheduled refresh",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Listen address. Defaults to the configured value",
					},
				},
				Action: serveAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
			{
				Name:   "version",
				Usage:  "Print the version",
				Action: versionAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
