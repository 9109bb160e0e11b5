package rates

import (
	"context"
	"log/slog"
	"time"

	"github.com/remitlite/remitlite/internal/metrics"
)

// Source records where a rate came from.
type Source string

const (
	SourceIdentity        Source = "identity"
	SourceCache           Source = "cache"
	SourceLive            Source = "live"
	SourceFallback        Source = "fallback"
	SourceFallbackDefault Source = "fallback-default"
)

// Quote is the outcome of resolving a conversion.
type Quote struct {
	Base      string  `json:"fromCurrency"`
	Quote     string  `json:"toCurrency"`
	Amount    float64 `json:"originalAmount"`
	Converted float64 `json:"convertedAmount"`
	Rate      float64 `json:"exchangeRate"`
	Source    Source  `json:"source"`
}

// Provider resolves exchange rates: cache first, then the live source, then
// the static table. It never returns an error.
type Provider struct {
	cache   Cache
	live    LiveSource
	table   Table
	allow   []string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ProviderOptions configures a Provider. Zero values pick a fresh
// MemoryCache, DefaultTable, AllowList and a discarding logger.
type ProviderOptions struct {
	Cache   Cache
	Live    LiveSource
	Table   *Table
	Allow   []string
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// NewProvider builds a Provider.
func NewProvider(opts ProviderOptions) *Provider {
	p := &Provider{
		cache:   opts.Cache,
		live:    opts.Live,
		allow:   opts.Allow,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if p.cache == nil {
		p.cache = NewMemoryCache(DefaultCacheTTL, nil)
	}
	if opts.Table != nil {
		p.table = *opts.Table
	} else {
		p.table = DefaultTable()
	}
	if len(p.allow) == 0 {
		p.allow = AllowList
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

// Resolve converts amount from base to quote. Converted amounts are rounded
// to 2 places and the reported rate to 4; the conversion itself uses the
// unrounded rate.
func (p *Provider) Resolve(ctx context.Context, base, quote string, amount float64) Quote {
	base, quote = NormalizeCode(base), NormalizeCode(quote)
	rate, source := p.rate(ctx, base, quote)
	p.metrics.RecordRateLookup(string(source))
	return Quote{
		Base:      base,
		Quote:     quote,
		Amount:    amount,
		Converted: Convert(amount, rate),
		Rate:      Round(rate, 4),
		Source:    source,
	}
}

func (p *Provider) rate(ctx context.Context, base, quote string) (float64, Source) {
	if base == quote {
		return 1.0, SourceIdentity
	}

	if set, ok := p.cached(ctx, base); ok {
		if r, ok := set[quote]; ok {
			return r, SourceCache
		}
	}

	if set, err := p.fetch(ctx, base); err == nil {
		if r, ok := set[quote]; ok {
			return r, SourceLive
		}
		p.logger.Warn("live rates missing quote, using fallback",
			slog.String("base", base), slog.String("quote", quote))
	} else {
		p.logger.Warn("live rate fetch failed, using fallback",
			slog.String("base", base), slog.String("quote", quote), slog.Any("error", err))
	}

	if r, ok := p.table.Lookup(base, quote); ok {
		return r, SourceFallback
	}
	return 1.0, SourceFallbackDefault
}

// Rates returns the whole rate set for base along with its provenance.
// When the live source fails the static table row for base is returned.
func (p *Provider) Rates(ctx context.Context, base string) (RateSet, Source) {
	base = NormalizeCode(base)
	if set, ok := p.cached(ctx, base); ok {
		p.metrics.RecordRateLookup(string(SourceCache))
		return set, SourceCache
	}
	set, err := p.fetch(ctx, base)
	if err == nil {
		p.metrics.RecordRateLookup(string(SourceLive))
		return set, SourceLive
	}
	p.logger.Warn("live rate fetch failed, serving fallback table",
		slog.String("base", base), slog.Any("error", err))
	p.metrics.RecordRateLookup(string(SourceFallback))
	return p.table.ForBase(base), SourceFallback
}

func (p *Provider) cached(ctx context.Context, base string) (RateSet, bool) {
	set, ok, err := p.cache.Get(ctx, base)
	if err != nil {
		p.logger.Warn("rate cache read failed", slog.String("base", base), slog.Any("error", err))
		return nil, false
	}
	return set, ok
}

// fetch performs a single live request and caches the filtered result.
func (p *Provider) fetch(ctx context.Context, base string) (RateSet, error) {
	if p.live == nil {
		return nil, ErrUpstream
	}
	start := time.Now()
	raw, err := p.live.Latest(ctx, base)
	p.metrics.RecordRateFetch(time.Since(start), err == nil)
	if err != nil {
		return nil, err
	}
	set := filter(raw, p.allow)
	if err := p.cache.Put(ctx, base, set); err != nil {
		p.logger.Warn("rate cache write failed", slog.String("base", base), slog.Any("error", err))
	}
	return set, nil
}
