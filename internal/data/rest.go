package data

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"

	"github.com/quantyard/covercall/internal/logger"
)

// restProvider fetches daily aggregates from a Polygon-style REST API.
//
// Responses are cached in memory so that backtesting several parameter
// sets over the same symbol costs one network round trip.
type restProvider struct {
	client *resty.Client
	cache  *gocache.Cache
	apiKey string
}

// aggsResponse models the paginated daily-aggregates payload.
type aggsResponse struct {
	Results []struct {
		Time  int64   `json:"t"` // epoch millis
		Close float64 `json:"c"`
	} `json:"results"`
	Status  string `json:"status"`
	NextURL string `json:"next_url"`
}

// NewRESTProvider constructs a REST-backed daily bar provider.
//
// Parameters:
//   - baseURL: API root, e.g. https://api.polygon.io
//   - apiKey: key appended to every request
//   - cacheTTL: how long fetched bar series stay cached (0 disables expiry)
func NewRESTProvider(baseURL, apiKey string, cacheTTL time.Duration) Provider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json")

	return &restProvider{
		client: client,
		cache:  gocache.New(cacheTTL, 10*time.Minute),
		apiKey: apiKey,
	}
}

func (p *restProvider) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	key := fmt.Sprintf("bars:%s:%s:%s", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok := p.cache.Get(key); ok {
		logger.Debugf("bar cache hit %s", key)
		return cached.([]Bar), nil
	}

	endpoint := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/day/%s/%s",
		symbol, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var out []Bar
	next := endpoint
	for next != "" {
		var body aggsResponse
		resp, err := p.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"adjusted": "true",
				"sort":     "asc",
				"limit":    "50000",
				"apiKey":   p.apiKey,
			}).
			SetResult(&body).
			Get(next)
		if err != nil {
			return nil, fmt.Errorf("fetch daily bars %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("daily bars %s: status %d", symbol, resp.StatusCode())
		}

		for _, r := range body.Results {
			out = append(out, Bar{Date: time.UnixMilli(r.Time).UTC(), Close: r.Close})
		}
		// next_url is absolute; resty follows it as-is.
		next = body.NextURL
	}

	SortBars(out)
	logger.Debugf("fetched %d bars for %s", len(out), symbol)

	p.cache.Set(key, out, gocache.DefaultExpiration)
	return out, nil
}
