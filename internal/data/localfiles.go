package data

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// localFileProvider reads daily bars from per-symbol JSON files,
// one file per symbol: <dir>/<SYMBOL>.json holding an array of
// {"date":"YYYY-MM-DD","close":123.45} objects.
type localFileProvider struct {
	dir string
}

// NewLocalFileProvider returns a provider backed by JSON bar files in dir.
func NewLocalFileProvider(dir string) Provider {
	return &localFileProvider{dir: dir}
}

// fileBar is the on-disk bar representation. Dates are plain calendar
// days, no time component.
type fileBar struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

func (p *localFileProvider) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	path := filepath.Join(p.dir, strings.ToUpper(symbol)+".json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bar file %s: %w", path, err)
	}

	var rows []fileBar
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse bar file %s: %w", path, err)
	}

	out := make([]Bar, 0, len(rows))
	for _, r := range rows {
		d, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return nil, fmt.Errorf("bar file %s: bad date %q: %w", path, r.Date, err)
		}
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, Bar{Date: d, Close: r.Close})
	}

	SortBars(out)
	return out, nil
}
