// Package data supplies the daily price history the engine consumes.
//
// The engine itself never performs I/O; a Provider is the input-boundary
// collaborator that fetches, caches, and orders the bars before the
// simulation runs.
package data

import (
	"context"
	"sort"
	"time"
)

// Bar is a single daily price observation. Immutable once produced;
// the Close must be positive for the bar to be usable.
type Bar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Provider supplies market data.
//
// Implementations must return bars sorted ascending by date. Calendar
// gaps (weekends, holidays) are expected and carried through untouched;
// the simulator advances by index, not by calendar day.
type Provider interface {
	DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error)
}

// Closes extracts the close series from a bar slice.
func Closes(bars []Bar) []float64 {
	out := make([]float64, 0, len(bars))
	for _, b := range bars {
		out = append(out, b.Close)
	}
	return out
}

// SortBars orders bars ascending by date in place. Providers call this
// before returning so downstream code can rely on chronological order.
func SortBars(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
}
