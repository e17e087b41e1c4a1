package di

import (
	"fmt"
	"time"

	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/internal/handler/api"
	internalrepo "EquitySight/internal/repository"
	icache "EquitySight/internal/service/cache"
	"EquitySight/internal/service/finnhub"
	"EquitySight/internal/service/fundamentals"
	"EquitySight/internal/service/model"
	"EquitySight/internal/service/news"
	"EquitySight/internal/service/providers"
	"EquitySight/internal/usecase"
	pkgch "EquitySight/pkg/clickhouse"
	"EquitySight/pkg/config"
	xhttp "EquitySight/pkg/http"
	pkgkafka "EquitySight/pkg/kafka"
	applogger "EquitySight/pkg/logger"
	"EquitySight/pkg/server"
)

const (
	defaultPricesTTL       = 30 * time.Second
	defaultFeaturesTTL     = 60 * time.Second
	defaultFundamentalsTTL = 60 * time.Second
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideHTTPClient creates the shared outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	if cfg.Providers.RequestTimeout > 0 {
		return xhttp.NewClient(xhttp.WithTimeout(cfg.Providers.RequestTimeout))
	}
	return xhttp.NewClient()
}

// ProvidePriceSources builds the provider cascade in priority order. Sources
// without an API key are left out.
func ProvidePriceSources(cfg *config.Config, httpc *xhttp.Client) []domrepo.PriceSource {
	var sources []domrepo.PriceSource
	if k := cfg.Providers.AlphaVantage.APIKey; k != "" {
		sources = append(sources, providers.NewAlphaVantage(k, cfg.Providers.AlphaVantage.BaseURL, httpc))
	}
	if k := cfg.Providers.TwelveData.APIKey; k != "" {
		sources = append(sources, providers.NewTwelveData(k, cfg.Providers.TwelveData.BaseURL, httpc))
	}
	if k := cfg.Providers.Finnhub.APIKey; k != "" {
		sources = append(sources, providers.NewFinnhub(k, cfg.Providers.Finnhub.BaseURL, httpc))
	}
	return sources
}

// ProvideNewsSource creates the GNews-backed news client.
func ProvideNewsSource(cfg *config.Config, httpc *xhttp.Client) domrepo.NewsSource {
	return news.NewClient(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.CacheTTL, httpc)
}

// ProvideFundamentalsSource creates the metadata cascade.
func ProvideFundamentalsSource(cfg *config.Config, httpc *xhttp.Client, l *applogger.Logger) domrepo.FundamentalsSource {
	ttl := cfg.Cache.FundamentalsTTL
	if ttl <= 0 {
		ttl = defaultFundamentalsTTL
	}
	return fundamentals.New(
		fundamentals.Keys{
			AlphaVantage: cfg.Providers.AlphaVantage.APIKey,
			TwelveData:   cfg.Providers.TwelveData.APIKey,
			Finnhub:      cfg.Providers.Finnhub.APIKey,
		},
		fundamentals.URLs{
			AlphaVantage: cfg.Providers.AlphaVantage.BaseURL,
			TwelveData:   cfg.Providers.TwelveData.BaseURL,
			Finnhub:      cfg.Providers.Finnhub.BaseURL,
		},
		ttl, httpc, l,
	)
}

// ProvideModelLoader creates the lazy classifier loader.
func ProvideModelLoader(cfg *config.Config, l *applogger.Logger) *model.Loader {
	return model.NewLoader(cfg.Model.Path, l)
}

// ProvideFeatureHistory creates the optional feature persistence sink.
// Backend "none" (or empty) returns nil: history is off.
func ProvideFeatureHistory(cfg *config.Config, l *applogger.Logger) (domrepo.FeatureHistory, error) {
	switch cfg.History.Backend {
	case "", "none":
		return nil, nil
	case "kafka":
		kc := cfg.History.Kafka
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(kc.Brokers),
			pkgkafka.WithCompression(kc.Compression),
			pkgkafka.WithRequiredAcks(kc.RequiredAcks),
			pkgkafka.WithBatchSize(kc.BatchSize),
			pkgkafka.WithBatchBytes(kc.BatchBytes),
			pkgkafka.WithBatchTimeout(kc.BatchTimeout),
			pkgkafka.WithTimeouts(kc.WriteTimeout, kc.ReadTimeout),
			pkgkafka.WithMaxAttempts(kc.MaxAttempts),
			pkgkafka.WithAsync(kc.Async),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaFeatureHistory(producer, kc.Topic), nil
	case "clickhouse":
		cc := cfg.History.ClickHouse
		client, err := pkgch.NewClient(
			pkgch.WithHost(cc.Host),
			pkgch.WithPort(cc.Port),
			pkgch.WithDatabase(cc.Database),
			pkgch.WithCredentials(cc.User, cc.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithHTTP(cc.UseHTTP),
			pkgch.WithAsyncInsert(cc.AsyncInsert, cc.WaitForAsync),
			pkgch.WithTimeouts(cc.DialTimeout, cc.ReadTimeout, cc.WriteTimeout),
			pkgch.WithMaxExecutionTime(cc.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		return internalrepo.NewCHFeatureHistory(client, l), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

// ProvideQuoteStream creates the live trade stream, or nil when disabled.
func ProvideQuoteStream(cfg *config.Config, l *applogger.Logger) domrepo.QuoteStream {
	if !cfg.Stream.Enabled {
		return nil
	}
	return finnhub.New(
		cfg.Providers.Finnhub.APIKey,
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		l,
	)
}

// ProvideQuoteBoard creates the in-memory last-trade board.
func ProvideQuoteBoard(stream domrepo.QuoteStream, l *applogger.Logger) *usecase.QuoteBoard {
	return usecase.NewQuoteBoard(stream, l)
}

// ProvideResponseCache creates the byte cache used for HTTP payloads.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvidePricesUseCase creates the price cascade use case.
func ProvidePricesUseCase(sources []domrepo.PriceSource, cfg *config.Config, l *applogger.Logger) *usecase.PricesUseCase {
	ttl := cfg.Cache.PricesTTL
	if ttl <= 0 {
		ttl = defaultPricesTTL
	}
	return usecase.NewPricesUseCase(sources, ttl, l)
}

// ProvideFeaturesUseCase creates the feature assembly use case.
func ProvideFeaturesUseCase(
	prices *usecase.PricesUseCase,
	newsSource domrepo.NewsSource,
	history domrepo.FeatureHistory,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.FeaturesUseCase {
	ttl := cfg.Cache.FeaturesTTL
	if ttl <= 0 {
		ttl = defaultFeaturesTTL
	}
	return usecase.NewFeaturesUseCase(prices, newsSource, history, ttl, l)
}

// ProvidePredictUseCase creates the prediction use case.
func ProvidePredictUseCase(
	loader *model.Loader,
	features *usecase.FeaturesUseCase,
	prices *usecase.PricesUseCase,
	funds domrepo.FundamentalsSource,
	l *applogger.Logger,
) *usecase.PredictUseCase {
	return usecase.NewPredictUseCase(loader, features, prices, funds, l)
}

// ProvideValuationUseCase creates the valuation use case.
func ProvideValuationUseCase(
	funds domrepo.FundamentalsSource,
	newsSource domrepo.NewsSource,
	prices *usecase.PricesUseCase,
	l *applogger.Logger,
) *usecase.ValuationUseCase {
	return usecase.NewValuationUseCase(funds, newsSource, prices, l)
}

// ProvideStocksHandler creates the HTTP route handler.
func ProvideStocksHandler(
	l *applogger.Logger,
	prices *usecase.PricesUseCase,
	features *usecase.FeaturesUseCase,
	predict *usecase.PredictUseCase,
	valuation *usecase.ValuationUseCase,
	board *usecase.QuoteBoard,
	newsSource domrepo.NewsSource,
	funds domrepo.FundamentalsSource,
	respCache icache.BytesCache,
) xhttp.Handler {
	h := api.NewStocksEchoHandler(l, prices, features, predict, valuation, board, newsSource, funds)
	h.SetResponseCache(respCache)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	board *usecase.QuoteBoard,
	history domrepo.FeatureHistory,
) *server.App {
	return server.New(cfg, l, handler, board, history)
}
