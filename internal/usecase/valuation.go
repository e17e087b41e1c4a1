package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/pkg/logger"
)

// ValuationUseCase blends fundamentals, growth proxies and news sentiment
// into a verdict, plus two classic fair-value models.
type ValuationUseCase struct {
	fundamentals domrepo.FundamentalsSource
	news         domrepo.NewsSource
	prices       *PricesUseCase
	log          *logger.Logger
}

func NewValuationUseCase(
	fundamentals domrepo.FundamentalsSource,
	news domrepo.NewsSource,
	prices *PricesUseCase,
	log *logger.Logger,
) *ValuationUseCase {
	return &ValuationUseCase{fundamentals: fundamentals, news: news, prices: prices, log: log}
}

func (uc *ValuationUseCase) Score(ctx context.Context, symbol string) (*models.ValuationScore, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	symbol = strings.ToUpper(symbol)

	f, err := uc.fundamentals.Get(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("valuation fundamentals: %w", err)
	}

	notes := map[string]string{}

	financial := 0.5
	if f.PERatio > 0 {
		switch {
		case f.PERatio < 15:
			financial += 0.25
			notes["pe"] = "strong (under 15)"
		case f.PERatio < 25:
			financial += 0.1
			notes["pe"] = "decent (15-25)"
		case f.PERatio < 40:
			financial -= 0.05
			notes["pe"] = "elevated (25-40)"
		default:
			financial -= 0.2
			notes["pe"] = "high (40+)"
		}
	}
	if f.DividendYield >= 2 {
		financial += 0.1
		notes["dividend"] = "yield at or above 2%"
	}
	if f.MarketCap >= 2e11 {
		financial += 0.05
		notes["size"] = "mega-cap stability"
	}
	financial = clamp01(financial)

	growth := 0.5
	if f.RevenueGrowth != 0 {
		switch {
		case f.RevenueGrowth > 0.15:
			growth += 0.25
		case f.RevenueGrowth > 0.05:
			growth += 0.1
		case f.RevenueGrowth < 0:
			growth -= 0.1
		}
		notes["revenueGrowth"] = fmt.Sprintf("%.4f", f.RevenueGrowth)
	}
	if f.EPSGrowth != 0 {
		switch {
		case f.EPSGrowth > 0.15:
			growth += 0.25
		case f.EPSGrowth > 0.05:
			growth += 0.1
		case f.EPSGrowth < 0:
			growth -= 0.1
		}
		notes["epsGrowth"] = fmt.Sprintf("%.4f", f.EPSGrowth)
	}
	growth = clamp01(growth)

	newsSent, newsCount := uc.newsSentiment(ctx, symbol)
	sentimentScore := clamp01((newsSent + 1) / 2)

	total := 0.45*financial + 0.35*growth + 0.20*sentimentScore
	verdict := "Hold"
	switch {
	case total >= 0.66:
		verdict = "Buy"
	case total <= 0.40:
		verdict = "Sell"
	}

	return &models.ValuationScore{
		Symbol:         symbol,
		SentimentScore: round3(sentimentScore),
		FinancialScore: round3(financial),
		GrowthScore:    round3(growth),
		TotalScore:     round3(total),
		Verdict:        verdict,
		Explain: models.ValuationExplain{
			MetadataUsed: map[string]float64{
				"peRatio":       f.PERatio,
				"dividendYield": f.DividendYield,
				"marketCap":     f.MarketCap,
				"revenueGrowth": f.RevenueGrowth,
				"epsGrowth":     f.EPSGrowth,
			},
			Notes:            notes,
			NewsCount:        newsCount,
			NewsAvgSentiment: math.Round(newsSent*1e4) / 1e4,
		},
	}, nil
}

func (uc *ValuationUseCase) newsSentiment(ctx context.Context, symbol string) (avg float64, count int) {
	if uc.news == nil {
		return 0, 0
	}
	items, err := uc.news.Search(ctx, symbol, 20)
	if err != nil {
		uc.log.Debug("valuation.score news unavailable",
			logger.String("symbol", symbol),
			logger.Error(err))
		return 0, 0
	}
	sum := 0.0
	for _, it := range items {
		if it.Sentiment != nil {
			sum += it.Sentiment.Score
		}
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

// DCF assumptions when real cash-flow statements are unavailable: free cash
// flow approximated as a fixed share of market cap.
const (
	dcfFCFRatio       = 0.05
	dcfGrowthRate     = 0.12
	dcfDiscountRate   = 0.10
	dcfYears          = 5
	dcfTerminalGrowth = 0.02
)

func (uc *ValuationUseCase) DCF(ctx context.Context, symbol string) (*models.DCFValuation, error) {
	symbol = strings.ToUpper(symbol)

	f, err := uc.fundamentals.Get(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("dcf fundamentals: %w", err)
	}
	series, err := uc.prices.GetPrices(ctx, GetPricesParams{Symbol: symbol, Interval: models.Interval1Day, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("dcf current price: %w", err)
	}
	currentPrice := series.Bars[len(series.Bars)-1].Close

	fcf := f.MarketCap * dcfFCFRatio
	flows := make([]float64, 0, dcfYears)
	sum := 0.0
	for year := 1; year <= dcfYears; year++ {
		projected := fcf * math.Pow(1+dcfGrowthRate, float64(year))
		discounted := projected / math.Pow(1+dcfDiscountRate, float64(year))
		flows = append(flows, round2(discounted))
		sum += discounted
	}
	terminal := fcf * math.Pow(1+dcfGrowthRate, dcfYears) * (1 + dcfTerminalGrowth) /
		(dcfDiscountRate - dcfTerminalGrowth)
	discountedTerminal := terminal / math.Pow(1+dcfDiscountRate, dcfYears)
	fairValue := sum + discountedTerminal

	return &models.DCFValuation{
		Symbol:          symbol,
		FairValue:       round2(fairValue),
		CurrentPrice:    round2(currentPrice),
		IsUndervalued:   fairValue > currentPrice,
		YearlyCashFlows: flows,
		TerminalValue:   round2(discountedTerminal),
		Explanation: fmt.Sprintf(
			"This estimate is based on a %d-year cash flow forecast with a %.1f%% annual growth rate, %.1f%% discount rate, and %.1f%% terminal growth.",
			dcfYears, dcfGrowthRate*100, dcfDiscountRate*100, dcfTerminalGrowth*100),
	}, nil
}

func (uc *ValuationUseCase) Graham(ctx context.Context, symbol string) (*models.GrahamValuation, error) {
	symbol = strings.ToUpper(symbol)

	f, err := uc.fundamentals.Get(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("graham fundamentals: %w", err)
	}
	growth := f.EPSGrowth
	fair := f.EPS * (8.5 + 2*(growth*100))

	return &models.GrahamValuation{
		FairValue:  round2(fair),
		EPS:        f.EPS,
		GrowthRate: growth,
		Explanation: fmt.Sprintf(
			"Graham valuation is based on EPS=%.2f, growth=%.2f%% and the multiplier 8.5 for a no-growth company.",
			f.EPS, growth*100),
	}, nil
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
