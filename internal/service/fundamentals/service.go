package fundamentals

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"EquitySight/internal/domain/models"
	"EquitySight/internal/domain/repository"
	"EquitySight/internal/service/cache"
	phttp "EquitySight/pkg/http"
	"EquitySight/pkg/logger"
)

// URL fields hold API roots shared with the price adapters, the per-endpoint
// paths are appended here.
const (
	alphaVantageRootURL = "https://www.alphavantage.co"
	twelveDataRootURL   = "https://api.twelvedata.com"
	finnhubRootURL      = "https://finnhub.io/api/v1"

	defaultTTL = time.Minute
)

type Keys struct {
	AlphaVantage string
	TwelveData   string
	Finnhub      string
}

type URLs struct {
	AlphaVantage string
	TwelveData   string
	Finnhub      string
}

// Service resolves fundamentals through the same provider order as prices:
// the first upstream carrying a market cap wins.
type Service struct {
	keys  Keys
	urls  URLs
	ttl   time.Duration
	httpc *phttp.Client
	store *cache.TTLCache
	log   *logger.Logger
}

func New(keys Keys, urls URLs, ttl time.Duration, httpc *phttp.Client, log *logger.Logger) repository.FundamentalsSource {
	if urls.AlphaVantage == "" {
		urls.AlphaVantage = alphaVantageRootURL
	}
	if urls.TwelveData == "" {
		urls.TwelveData = twelveDataRootURL
	}
	if urls.Finnhub == "" {
		urls.Finnhub = finnhubRootURL
	}
	urls.AlphaVantage = strings.TrimSuffix(urls.AlphaVantage, "/")
	urls.TwelveData = strings.TrimSuffix(urls.TwelveData, "/")
	urls.Finnhub = strings.TrimSuffix(urls.Finnhub, "/")
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{keys: keys, urls: urls, ttl: ttl, httpc: httpc, store: cache.NewTTLCache(), log: log}
}

func (s *Service) Get(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	symbol = strings.ToUpper(symbol)
	if v, ok := s.store.Get(symbol); ok {
		return v.(*models.Fundamentals), nil
	}

	var lastErr error
	for _, fetch := range []func(context.Context, string) (*models.Fundamentals, error){
		s.fromAlphaVantage,
		s.fromTwelveData,
		s.fromFinnhub,
	} {
		f, err := fetch(ctx, symbol)
		if err != nil {
			lastErr = err
			s.log.Debug("fundamentals.get source failed",
				logger.String("symbol", symbol),
				logger.Error(err))
			continue
		}
		s.store.Set(symbol, f, s.ttl)
		return f, nil
	}
	return nil, fmt.Errorf("fundamentals unavailable for %s: %w", symbol, lastErr)
}

type alphaOverview struct {
	MarketCapitalization       string `json:"MarketCapitalization"`
	PERatio                    string `json:"PERatio"`
	DividendYield              string `json:"DividendYield"`
	EPS                        string `json:"EPS"`
	QuarterlyRevenueGrowthYOY  string `json:"QuarterlyRevenueGrowthYOY"`
	QuarterlyEarningsGrowthYOY string `json:"QuarterlyEarningsGrowthYOY"`
	Sector                     string `json:"Sector"`
	Note                       string `json:"Note"`
	Information                string `json:"Information"`
}

func (s *Service) fromAlphaVantage(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if s.keys.AlphaVantage == "" {
		return nil, fmt.Errorf("alpha vantage key not configured")
	}
	var payload alphaOverview
	err := s.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    s.urls.AlphaVantage + "/query",
		QueryParams: map[string][]string{
			"function": {"OVERVIEW"},
			"symbol":   {symbol},
			"apikey":   {s.keys.AlphaVantage},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage overview: %w", err)
	}
	// throttling or unknown symbols come back without a market cap
	if payload.MarketCapitalization == "" || payload.Note != "" || payload.Information != "" {
		return nil, fmt.Errorf("alpha vantage overview unavailable for %s", symbol)
	}
	return &models.Fundamentals{
		Symbol:        symbol,
		MarketCap:     num(payload.MarketCapitalization),
		PERatio:       num(payload.PERatio),
		DividendYield: num(payload.DividendYield) * 100,
		EPS:           num(payload.EPS),
		RevenueGrowth: num(payload.QuarterlyRevenueGrowthYOY),
		EPSGrowth:     num(payload.QuarterlyEarningsGrowthYOY),
		Sector:        payload.Sector,
		Source:        models.ProviderAlphaVantage,
	}, nil
}

type twelveProfile struct {
	MarketCap    string `json:"market_cap"`
	PERatio      string `json:"pe_ratio"`
	DividendRate string `json:"dividend_rate"`
	Sector       string `json:"sector"`
	Code         any    `json:"code"`
}

func (s *Service) fromTwelveData(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if s.keys.TwelveData == "" {
		return nil, fmt.Errorf("twelve data key not configured")
	}
	var payload twelveProfile
	err := s.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    s.urls.TwelveData + "/profile",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"apikey": {s.keys.TwelveData},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("twelve data profile: %w", err)
	}
	if payload.Code != nil || payload.MarketCap == "" {
		return nil, fmt.Errorf("twelve data profile unavailable for %s", symbol)
	}
	return &models.Fundamentals{
		Symbol:        symbol,
		MarketCap:     num(payload.MarketCap),
		PERatio:       num(payload.PERatio),
		DividendYield: num(payload.DividendRate),
		Sector:        payload.Sector,
		Source:        models.ProviderTwelveData,
	}, nil
}

type finnhubProfile struct {
	MarketCapitalization float64 `json:"marketCapitalization"`
	PEBasicExclExtraTTM  float64 `json:"peBasicExclExtraTTM"`
	DividendYield        float64 `json:"dividendYield"`
	FinnhubIndustry      string  `json:"finnhubIndustry"`
}

func (s *Service) fromFinnhub(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	if s.keys.Finnhub == "" {
		return nil, fmt.Errorf("finnhub key not configured")
	}
	var payload finnhubProfile
	err := s.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    s.urls.Finnhub + "/stock/profile2",
		QueryParams: map[string][]string{
			"symbol": {symbol},
			"token":  {s.keys.Finnhub},
		},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("finnhub profile: %w", err)
	}
	if payload.MarketCapitalization == 0 {
		return nil, fmt.Errorf("finnhub profile unavailable for %s", symbol)
	}
	return &models.Fundamentals{
		Symbol:        symbol,
		MarketCap:     payload.MarketCapitalization,
		PERatio:       payload.PEBasicExclExtraTTM,
		DividendYield: payload.DividendYield * 100,
		Sector:        payload.FinnhubIndustry,
		Source:        models.ProviderFinnhub,
	}, nil
}

func num(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
