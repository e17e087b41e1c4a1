package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/internal/service/cache"
	"EquitySight/internal/service/metrics"
	"EquitySight/pkg/logger"
)

// PricesUseCase runs the provider cascade: adapters are tried in priority
// order and the first non-empty series wins the request outright.
//
// Cold fetches run unlocked so one slow symbol cannot stall the rest.
// Concurrent misses for the same key may each hit the cascade, the last
// write wins.
type PricesUseCase struct {
	sources []domrepo.PriceSource
	store   *cache.TTLCache
	ttl     time.Duration
	log     *logger.Logger
}

func NewPricesUseCase(sources []domrepo.PriceSource, ttl time.Duration, log *logger.Logger) *PricesUseCase {
	return &PricesUseCase{
		sources: sources,
		store:   cache.NewTTLCache(),
		ttl:     ttl,
		log:     log,
	}
}

type GetPricesParams struct {
	Symbol   string
	Interval models.Interval
	Limit    int
}

func (p GetPricesParams) cacheKey() string {
	return fmt.Sprintf("%s|%s|%d", p.Symbol, p.Interval, p.Limit)
}

func (uc *PricesUseCase) GetPrices(ctx context.Context, p GetPricesParams) (*models.PriceSeries, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	p.Symbol = strings.ToUpper(p.Symbol)
	p.Interval = models.NormalizeInterval(string(p.Interval))
	if p.Limit <= 0 {
		p.Limit = 100
	}

	key := p.cacheKey()
	if v, ok := uc.store.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("prices", "hit").Inc()
		return v.(*models.PriceSeries), nil
	}
	metrics.CacheLookups.WithLabelValues("prices", "miss").Inc()

	var lastErr error
	for _, src := range uc.sources {
		series, err := src.Fetch(ctx, p.Symbol, p.Interval, p.Limit)
		if err != nil {
			lastErr = err
			metrics.ProviderRequests.WithLabelValues(string(src.Name()), "error").Inc()
			uc.log.Debug("prices.cascade source failed",
				logger.String("symbol", p.Symbol),
				logger.String("provider", string(src.Name())),
				logger.Error(err))
			continue
		}
		if len(series.Bars) == 0 {
			lastErr = fmt.Errorf("%s returned empty series", src.Name())
			metrics.ProviderRequests.WithLabelValues(string(src.Name()), "empty").Inc()
			continue
		}
		metrics.ProviderRequests.WithLabelValues(string(src.Name()), "ok").Inc()
		uc.log.Info("prices.cascade served",
			logger.String("symbol", p.Symbol),
			logger.String("interval", string(p.Interval)),
			logger.String("provider", string(src.Name())),
			logger.Int("bars", len(series.Bars)))
		uc.store.Set(key, series, uc.ttl)
		return series, nil
	}

	return nil, &AllProvidersFailedError{
		Symbol:   p.Symbol,
		Interval: string(p.Interval),
		LastErr:  lastErr,
	}
}
