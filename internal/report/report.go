// Package report writes backtest results to disk as JSON and CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/quantyard/covercall/internal/backtest"
)

// WriteJSON writes the full per-symbol results map to results.json in
// outdir, pretty-printed for inspection.
func WriteJSON(results map[string]backtest.Result, outdir string) error {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "results.json"), b, 0644)
}

// WriteCSV writes two flat files to outdir: summary.csv with one row per
// symbol and premiums.csv with the settlement-by-settlement cumulative
// premium history. Symbols are ordered alphabetically so reruns diff
// cleanly.
func WriteCSV(results map[string]backtest.Result, outdir string) error {
	symbols := make([]string, 0, len(results))
	for s := range results {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	if err := writeSummary(results, symbols, outdir); err != nil {
		return err
	}
	return writePremiums(results, symbols, outdir)
}

func writeSummary(results map[string]backtest.Result, symbols []string, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "summary.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{"symbol", "start_date", "end_date", "cycles", "assignments", "total_premium", "avg_premium_per_cycle", "annualized_yield_pct"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, s := range symbols {
		r := results[s]
		row := []string{
			s,
			r.StartDate.Format("2006-01-02"),
			r.EndDate.Format("2006-01-02"),
			fmt.Sprintf("%d", r.TotalCycles),
			fmt.Sprintf("%d", r.AssignmentCount),
			fmt.Sprintf("%.2f", r.TotalPremiumCollected),
			fmt.Sprintf("%.2f", r.AveragePremiumPerCycle),
			fmt.Sprintf("%.2f", r.AnnualizedYield),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writePremiums(results map[string]backtest.Result, symbols []string, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "premiums.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"symbol", "date", "cumulative_premium", "event"}); err != nil {
		return err
	}
	for _, s := range symbols {
		for _, p := range results[s].PremiumHistory {
			row := []string{s, p.Date.Format("2006-01-02"), fmt.Sprintf("%.2f", p.CumulativePremium), p.Event}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
