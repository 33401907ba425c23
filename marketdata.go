package advisor

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/advisor/date"
)

// Provider supplies market data for the analytics core. Implementations wrap
// a remote API; the core treats their output as best effort and degrades per
// metric when data is missing.
type Provider interface {
	// Daily returns the daily price history of a symbol over a date range.
	Daily(ctx context.Context, symbol string, r date.Range) (*PriceSeries, error)
	// Spot returns the latest known price of a symbol.
	Spot(ctx context.Context, symbol string) (float64, error)
	// Fundamentals returns the company fundamentals of a symbol. Fields the
	// upstream does not know are nil, not zero.
	Fundamentals(ctx context.Context, symbol string) (*FundamentalSet, error)
}

// CachedProvider wraps a Provider with a TTL cache so that repeated analysis
// of the same symbols within a session does not hammer the upstream API.
type CachedProvider struct {
	upstream Provider

	series       *MemCache[*PriceSeries]
	spots        *MemCache[float64]
	fundamentals *MemCache[*FundamentalSet]
}

// NewCachedProvider wraps upstream with caches expiring after ttl.
func NewCachedProvider(upstream Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		upstream:     upstream,
		series:       NewMemCache[*PriceSeries](ttl),
		spots:        NewMemCache[float64](ttl),
		fundamentals: NewMemCache[*FundamentalSet](ttl),
	}
}

func (p *CachedProvider) Daily(ctx context.Context, symbol string, r date.Range) (*PriceSeries, error) {
	key := fmt.Sprintf("%s/%s/%s", symbol, r.From, r.To)
	if s, ok := p.series.Get(key); ok {
		return s, nil
	}
	s, err := p.upstream.Daily(ctx, symbol, r)
	if err != nil {
		return nil, err
	}
	p.series.Put(key, s)
	return s, nil
}

func (p *CachedProvider) Spot(ctx context.Context, symbol string) (float64, error) {
	if v, ok := p.spots.Get(symbol); ok {
		return v, nil
	}
	v, err := p.upstream.Spot(ctx, symbol)
	if err != nil {
		return 0, err
	}
	p.spots.Put(symbol, v)
	return v, nil
}

func (p *CachedProvider) Fundamentals(ctx context.Context, symbol string) (*FundamentalSet, error) {
	if f, ok := p.fundamentals.Get(symbol); ok {
		return f, nil
	}
	f, err := p.upstream.Fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}
	p.fundamentals.Put(symbol, f)
	return f, nil
}
