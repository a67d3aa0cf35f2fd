package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-charts/internal/cache"
	"github.com/rxtech-lab/argo-charts/internal/companyinfo"
	"github.com/rxtech-lab/argo-charts/internal/dashboard"
	"github.com/rxtech-lab/argo-charts/internal/scheduler"
	"github.com/rxtech-lab/argo-charts/internal/syncengine"
	"github.com/rxtech-lab/argo-charts/internal/types"
	"github.com/rxtech-lab/argo-charts/pkg/marketdata"
)

const dateLayout = "2006-01-02"

func printSyncResult(w io.Writer, result syncengine.Result) {
	fmt.Fprintf(w, "%s %s: %d rows (fetched %d)\n", result.Ticker, result.Interval.Label(), result.Rows, result.FetchedRows)
	fmt.Fprintf(w, "  run: %s\n", result.RunID)
	fmt.Fprintf(w, "  used cache: %t, fallback fetch: %t, persisted: %t\n", result.UsedCache, result.FellBack, result.Persisted)

	for _, reason := range result.Reasons {
		fmt.Fprintf(w, "  - %s\n", reason)
	}

	if result.Series.IsEmpty() {
		fmt.Fprintln(w, "  no data")

		return
	}

	last := result.Series.Bars[result.Series.Len()-1]
	fmt.Fprintf(w, "  last bar %s: close %.2f volume %.0f\n", last.Time.Format(dateLayout), last.Close, last.Volume)

	for _, line := range latestIndicators(result.Series) {
		fmt.Fprintf(w, "  %s\n", line)
	}
}

// latestIndicators returns "name: value" for the last row of every indicator column.
func latestIndicators(series types.Series) []string {
	lines := make([]string, 0, len(series.Columns))

	for _, column := range series.Columns {
		value := "n/a"

		if n := len(column.Values); n > 0 && column.Values[n-1].IsSome() {
			value = fmt.Sprintf("%.2f", column.Values[n-1].Unwrap())
		}

		lines = append(lines, fmt.Sprintf("%s: %s", column.Name, value))
	}

	return lines
}

func printPayload(w io.Writer, payload dashboard.Payload) {
	if payload.Failed() {
		fmt.Fprintf(w, "Error loading data for %s:\n%s\n", payload.Ticker, payload.Error)

		return
	}

	fmt.Fprintf(w, "%s: display %s to %s (%d years)\n",
		payload.Ticker,
		payload.Range.DisplayStart.Format(dateLayout),
		payload.Range.End.Format(dateLayout),
		payload.Range.Years,
	)

	for _, panel := range []dashboard.Panel{payload.Daily, payload.Weekly} {
		printPanel(w, panel)
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, companyinfo.Summarize(payload.CompanyInfo).String())
}

func printPanel(w io.Writer, panel dashboard.Panel) {
	if panel.Message != "" {
		fmt.Fprintf(w, "  %s: %s\n", panel.Interval.Label(), panel.Message)

		return
	}

	fmt.Fprintf(w, "  %s: %d bars from %s to %s\n",
		panel.Interval.Label(),
		panel.Rows,
		panel.Series.First().Format(dateLayout),
		panel.Series.Last().Format(dateLayout),
	)
}

func printReport(w io.Writer, report scheduler.Report) {
	fmt.Fprintf(w, "Refreshed %d tickers in %s\n", len(report.Succeeded), report.Finished.Sub(report.Started).Round(time.Millisecond))

	failed := make([]string, 0, len(report.Failed))
	for ticker := range report.Failed {
		failed = append(failed, ticker)
	}

	sort.Strings(failed)

	for _, ticker := range failed {
		fmt.Fprintf(w, "  %s failed: %v\n", ticker, report.Failed[ticker])
	}
}

func printTickers(w io.Writer, tickers []string) {
	if len(tickers) == 0 {
		fmt.Fprintln(w, "Watchlist is empty.")

		return
	}

	fmt.Fprintln(w, strings.Join(tickers, "\n"))
}

func printCoverage(w io.Writer, coverage cache.Coverage) {
	if !coverage.Exists {
		fmt.Fprintf(w, "%s %s: not cached (%s)\n", coverage.Ticker, coverage.Interval.Label(), coverage.Path)

		return
	}

	fmt.Fprintf(w, "%s %s: %d rows from %s to %s (%s)\n",
		coverage.Ticker,
		coverage.Interval.Label(),
		coverage.Rows,
		coverage.First.Format(dateLayout),
		coverage.Last.Format(dateLayout),
		coverage.Path,
	)
}

func printProvider(w io.Writer, info marketdata.ProviderInfo) {
	auth := ""
	if info.RequiresAuth {
		auth = " [requires API key]"
	}

	fmt.Fprintf(w, "%-8s %s%s\n         %s\n", info.Name, info.DisplayName, auth, info.Description)
}
