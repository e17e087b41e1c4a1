package usecase

import (
	"context"
	"testing"

	"EquitySight/internal/domain/models"
	"EquitySight/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeSource struct {
	name   models.Provider
	series *models.PriceSeries
	err    error
	calls  int
}

func (f *fakeSource) Name() models.Provider { return f.name }

func (f *fakeSource) Fetch(_ context.Context, symbol string, interval models.Interval, _ int) (*models.PriceSeries, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	s := *f.series
	s.Symbol = symbol
	s.Interval = interval
	s.Provider = f.name
	return &s, nil
}

func barSeries(n int, startClose float64) *models.PriceSeries {
	bars := make([]models.Bar, n)
	for i := range bars {
		c := startClose + float64(i)
		bars[i] = models.Bar{
			Timestamp: int64(1704067200 + i*86400),
			Open:      c - 0.5,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i%5)*100,
		}
	}
	return &models.PriceSeries{Bars: bars}
}

type fakeNews struct {
	items []models.NewsItem
	err   error
	calls int
}

func (f *fakeNews) Search(_ context.Context, _ string, _ int) ([]models.NewsItem, error) {
	f.calls++
	return f.items, f.err
}

type fakeFundamentals struct {
	f   *models.Fundamentals
	err error
}

func (f *fakeFundamentals) Get(_ context.Context, _ string) (*models.Fundamentals, error) {
	return f.f, f.err
}

type fakeHistory struct {
	appended []*models.FeatureVector
	err      error
}

func (f *fakeHistory) Init(context.Context) error { return nil }

func (f *fakeHistory) Append(_ context.Context, v *models.FeatureVector) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, v)
	return nil
}

func (f *fakeHistory) Close() error { return nil }
