package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"EquitySight/internal/domain/models"
)

func newValuationFixture(t *testing.T, f *fakeFundamentals, news *fakeNews, src *fakeSource) *ValuationUseCase {
	t.Helper()
	if src == nil {
		src = &fakeSource{name: models.ProviderAlphaVantage, series: barSeries(5, 100)}
	}
	prices := NewPricesUseCase(priceSources(src), time.Minute, testLogger(t))
	return NewValuationUseCase(f, news, prices, testLogger(t))
}

func TestScoreBuyVerdict(t *testing.T) {
	f := &fakeFundamentals{f: &models.Fundamentals{
		Symbol:        "AAPL",
		PERatio:       12,
		DividendYield: 2.5,
		MarketCap:     3e12,
		RevenueGrowth: 0.2,
		EPSGrowth:     0.2,
	}}
	news := &fakeNews{items: []models.NewsItem{
		{Sentiment: &models.Sentiment{Score: 0.8}},
		{Sentiment: &models.Sentiment{Score: 0.6}},
	}}

	uc := newValuationFixture(t, f, news, nil)
	score, err := uc.Score(context.Background(), "aapl")
	require.NoError(t, err)
	require.Equal(t, "AAPL", score.Symbol)
	// financial: 0.5 + 0.25 + 0.1 + 0.05 = 0.9; growth: 0.5 + 0.25 + 0.25 = 1.0
	require.Equal(t, 0.9, score.FinancialScore)
	require.Equal(t, 1.0, score.GrowthScore)
	// sentiment: (0.7 + 1) / 2 = 0.85
	require.Equal(t, 0.85, score.SentimentScore)
	// total: 0.45*0.9 + 0.35*1.0 + 0.20*0.85 = 0.925
	require.Equal(t, 0.925, score.TotalScore)
	require.Equal(t, "Buy", score.Verdict)
	require.Equal(t, 2, score.Explain.NewsCount)
}

func TestScoreSellVerdict(t *testing.T) {
	f := &fakeFundamentals{f: &models.Fundamentals{
		Symbol:        "XYZ",
		PERatio:       55,
		RevenueGrowth: -0.1,
		EPSGrowth:     -0.2,
	}}
	news := &fakeNews{items: []models.NewsItem{
		{Sentiment: &models.Sentiment{Score: -0.9}},
	}}

	uc := newValuationFixture(t, f, news, nil)
	score, err := uc.Score(context.Background(), "XYZ")
	require.NoError(t, err)
	// financial: 0.5 - 0.2 = 0.3; growth: 0.5 - 0.1 - 0.1 = 0.3; sentiment: 0.05
	// total: 0.45*0.3 + 0.35*0.3 + 0.20*0.05 = 0.25
	require.Equal(t, 0.25, score.TotalScore)
	require.Equal(t, "Sell", score.Verdict)
}

func TestScoreNoNewsIsNeutral(t *testing.T) {
	f := &fakeFundamentals{f: &models.Fundamentals{Symbol: "ABC", PERatio: 20}}
	news := &fakeNews{err: errors.New("down")}

	uc := newValuationFixture(t, f, news, nil)
	score, err := uc.Score(context.Background(), "ABC")
	require.NoError(t, err)
	require.Equal(t, 0.5, score.SentimentScore)
	require.Zero(t, score.Explain.NewsCount)
	require.Equal(t, "Hold", score.Verdict)
}

func TestScoreFundamentalsRequired(t *testing.T) {
	uc := newValuationFixture(t, &fakeFundamentals{err: errors.New("unavailable")}, &fakeNews{}, nil)
	_, err := uc.Score(context.Background(), "AAPL")
	require.Error(t, err)
}

func TestDCF(t *testing.T) {
	f := &fakeFundamentals{f: &models.Fundamentals{Symbol: "AAPL", MarketCap: 1000}}
	src := &fakeSource{name: models.ProviderAlphaVantage, series: barSeries(1, 150)}

	uc := newValuationFixture(t, f, &fakeNews{}, src)
	dcf, err := uc.DCF(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, 150.0, dcf.CurrentPrice)
	require.Len(t, dcf.YearlyCashFlows, 5)
	require.Positive(t, dcf.TerminalValue)
	// fcf = 50; year 1 discounted: 50*1.12/1.10 = 50.909...
	require.InDelta(t, 50.91, dcf.YearlyCashFlows[0], 0.01)
	require.Equal(t, dcf.FairValue > dcf.CurrentPrice, dcf.IsUndervalued)
}

func TestGraham(t *testing.T) {
	f := &fakeFundamentals{f: &models.Fundamentals{Symbol: "AAPL", EPS: 6, EPSGrowth: 0.1}}
	uc := newValuationFixture(t, f, &fakeNews{}, nil)

	g, err := uc.Graham(context.Background(), "AAPL")
	require.NoError(t, err)
	// 6 * (8.5 + 2*10) = 171
	require.Equal(t, 171.0, g.FairValue)
	require.Equal(t, 6.0, g.EPS)
}
