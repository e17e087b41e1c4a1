package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/internal/service/cache"
	"EquitySight/internal/service/features"
	"EquitySight/internal/service/metrics"
	"EquitySight/pkg/logger"
)

// FeaturesUseCase assembles the technical + news feature vector. Missing
// price history is fatal; missing news is not.
//
// Assembly runs unlocked, concurrent misses for the same key resolve
// last write wins.
type FeaturesUseCase struct {
	prices  *PricesUseCase
	news    domrepo.NewsSource
	history domrepo.FeatureHistory // nil when the history backend is off
	store   *cache.TTLCache
	ttl     time.Duration
	log     *logger.Logger
	now     func() time.Time
}

func NewFeaturesUseCase(
	prices *PricesUseCase,
	news domrepo.NewsSource,
	history domrepo.FeatureHistory,
	ttl time.Duration,
	log *logger.Logger,
) *FeaturesUseCase {
	return &FeaturesUseCase{
		prices:  prices,
		news:    news,
		history: history,
		store:   cache.NewTTLCache(),
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

type GetFeaturesParams struct {
	Symbol   string
	Interval models.Interval
	Limit    int // price lookback, bars
	MaxNews  int
}

func (p GetFeaturesParams) cacheKey() string {
	return fmt.Sprintf("%s|%s|%d|%d", p.Symbol, p.Interval, p.Limit, p.MaxNews)
}

func (uc *FeaturesUseCase) GetFeatures(ctx context.Context, p GetFeaturesParams) (*models.FeatureVector, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	p.Symbol = strings.ToUpper(p.Symbol)
	p.Interval = models.NormalizeInterval(string(p.Interval))
	if p.Limit <= 0 {
		p.Limit = 240
	}
	if p.MaxNews < 0 {
		p.MaxNews = 0
	}

	key := p.cacheKey()
	if v, ok := uc.store.Get(key); ok {
		metrics.CacheLookups.WithLabelValues("features", "hit").Inc()
		return v.(*models.FeatureVector), nil
	}
	metrics.CacheLookups.WithLabelValues("features", "miss").Inc()

	series, err := uc.prices.GetPrices(ctx, GetPricesParams{
		Symbol:   p.Symbol,
		Interval: p.Interval,
		Limit:    p.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch prices for features: %w", err)
	}
	if len(series.Bars) == 0 {
		return nil, &NoPriceDataError{Symbol: p.Symbol}
	}

	var items []models.NewsItem
	if p.MaxNews > 0 && uc.news != nil {
		items, err = uc.news.Search(ctx, p.Symbol, p.MaxNews)
		if err != nil {
			// zero news is an empty feature set, not a failure
			uc.log.Warn("features.assemble news unavailable",
				logger.String("symbol", p.Symbol),
				logger.Error(err))
			items = nil
		}
	}

	now := uc.now()
	vector := &models.FeatureVector{
		Symbol:   p.Symbol,
		AsOf:     now.Unix(),
		Interval: p.Interval,
		Window:   models.FeatureWindow{Prices: p.Limit, News: p.MaxNews},
		Features: features.Compute(series, items, now),
	}

	uc.store.Set(key, vector, uc.ttl)
	uc.appendHistory(ctx, vector)
	return vector, nil
}

// appendHistory ships the fresh vector to the offline training sink. Failures
// are logged and counted, never surfaced to the request.
func (uc *FeaturesUseCase) appendHistory(ctx context.Context, v *models.FeatureVector) {
	if uc.history == nil {
		return
	}
	if err := uc.history.Append(ctx, v); err != nil {
		metrics.HistoryAppends.WithLabelValues("sink", "error").Inc()
		uc.log.Warn("features.history append failed",
			logger.String("symbol", v.Symbol),
			logger.Error(err))
		return
	}
	metrics.HistoryAppends.WithLabelValues("sink", "ok").Inc()
}
