package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBarFile(t *testing.T, dir, symbol, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, symbol+".json"), []byte(content), 0o644))
}

func TestLocalFileProviderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "AAPL", `[
		{"date":"2024-01-03","close":185.5},
		{"date":"2024-01-02","close":184.0},
		{"date":"2024-01-04","close":186.25}
	]`)

	prov := NewLocalFileProvider(dir)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	// Symbol lookup is case-insensitive on the caller side.
	bars, err := prov.DailyBars(context.Background(), "aapl", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 3)

	// Bars come back date-sorted regardless of file order.
	assert.Equal(t, 184.0, bars[0].Close)
	assert.Equal(t, 185.5, bars[1].Close)
	assert.Equal(t, 186.25, bars[2].Close)
}

func TestLocalFileProviderRangeFilter(t *testing.T) {
	dir := t.TempDir()
	writeBarFile(t, dir, "KO", `[
		{"date":"2024-01-02","close":59},
		{"date":"2024-02-02","close":60},
		{"date":"2024-03-02","close":61}
	]`)

	prov := NewLocalFileProvider(dir)
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	bars, err := prov.DailyBars(context.Background(), "KO", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 60.0, bars[0].Close)
}

func TestLocalFileProviderErrors(t *testing.T) {
	dir := t.TempDir()
	prov := NewLocalFileProvider(dir)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	_, err := prov.DailyBars(context.Background(), "MISSING", from, to)
	assert.Error(t, err)

	writeBarFile(t, dir, "BADJSON", `{"not":"an array"}`)
	_, err = prov.DailyBars(context.Background(), "BADJSON", from, to)
	assert.Error(t, err)

	writeBarFile(t, dir, "BADDATE", `[{"date":"01/02/2024","close":100}]`)
	_, err = prov.DailyBars(context.Background(), "BADDATE", from, to)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad date")
}
