package data

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTProviderFetchAndCache(t *testing.T) {
	var calls int32
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		assert.Contains(t, r.URL.Path, "/v2/aggs/ticker/AAPL/range/1/day/")
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "true", r.URL.Query().Get("adjusted"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"OK","results":[
			{"t":%d,"c":185.5},
			{"t":%d,"c":186.0}
		]}`, day.UnixMilli(), day.AddDate(0, 0, 1).UnixMilli())
	}))
	defer srv.Close()

	prov := NewRESTProvider(srv.URL, "secret", time.Minute)
	from := day
	to := day.AddDate(0, 1, 0)

	bars, err := prov.DailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 185.5, bars[0].Close)
	assert.Equal(t, day, bars[0].Date)

	// Second identical request is served from cache.
	again, err := prov.DailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	assert.Equal(t, bars, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRESTProviderPagination(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/page2" {
			fmt.Fprintf(w, `{"status":"OK","results":[{"t":%d,"c":187.0}]}`, day.AddDate(0, 0, 2).UnixMilli())
			return
		}
		fmt.Fprintf(w, `{"status":"OK","results":[{"t":%d,"c":185.5}],"next_url":%q}`,
			day.UnixMilli(), srv.URL+"/page2")
	}))
	defer srv.Close()

	prov := NewRESTProvider(srv.URL, "k", time.Minute)
	bars, err := prov.DailyBars(context.Background(), "MSFT", day, day.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 185.5, bars[0].Close)
	assert.Equal(t, 187.0, bars[1].Close)
}

func TestRESTProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	prov := NewRESTProvider(srv.URL, "bad", time.Minute)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	_, err := prov.DailyBars(context.Background(), "AAPL", day, day.AddDate(0, 1, 0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
