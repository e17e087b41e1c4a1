package fundamentals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"EquitySight/internal/domain/models"
	phttp "EquitySight/pkg/http"
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

func TestGetAlphaVantageFirst(t *testing.T) {
	alphaCalls, twelveCalls := 0, 0
	alpha := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		alphaCalls++
		if r.URL.Path != "/query" {
			t.Errorf("path = %s, base url must be treated as the API root", r.URL.Path)
		}
		w.Write([]byte(`{"MarketCapitalization": "2000000000000", "PERatio": "28.5",
			"DividendYield": "0.005", "EPS": "6.1",
			"QuarterlyRevenueGrowthYOY": "0.08", "QuarterlyEarningsGrowthYOY": "0.12",
			"Sector": "Technology"}`))
	}))
	defer alpha.Close()
	twelve := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		twelveCalls++
	}))
	defer twelve.Close()

	svc := New(
		Keys{AlphaVantage: "a", TwelveData: "t", Finnhub: "f"},
		URLs{AlphaVantage: alpha.URL, TwelveData: twelve.URL, Finnhub: twelve.URL},
		time.Minute, phttp.NewClient(), testLogger(t),
	)

	f, err := svc.Get(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.Source != models.ProviderAlphaVantage {
		t.Fatalf("source = %s", f.Source)
	}
	if f.Symbol != "AAPL" || f.PERatio != 28.5 || f.EPS != 6.1 {
		t.Fatalf("fundamentals = %+v", f)
	}
	if f.DividendYield != 0.5 {
		t.Fatalf("dividend yield = %v, want percent form 0.5", f.DividendYield)
	}
	if twelveCalls != 0 {
		t.Fatalf("later sources must not be called on success")
	}

	// second call served from cache
	if _, err := svc.Get(context.Background(), "AAPL"); err != nil {
		t.Fatalf("cached Get: %v", err)
	}
	if alphaCalls != 1 {
		t.Fatalf("alpha called %d times, want 1", alphaCalls)
	}
}

func TestGetCascadesToFinnhub(t *testing.T) {
	alpha := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "rate limited"}`))
	}))
	defer alpha.Close()
	twelve := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/profile" {
			t.Errorf("path = %s, base url must be treated as the API root", r.URL.Path)
		}
		w.Write([]byte(`{"code": 429, "message": "limit"}`))
	}))
	defer twelve.Close()
	finnhub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stock/profile2" {
			t.Errorf("path = %s, base url must be treated as the API root", r.URL.Path)
		}
		w.Write([]byte(`{"marketCapitalization": 1500.5, "peBasicExclExtraTTM": 22.1,
			"dividendYield": 0.01, "finnhubIndustry": "Technology"}`))
	}))
	defer finnhub.Close()

	svc := New(
		Keys{AlphaVantage: "a", TwelveData: "t", Finnhub: "f"},
		URLs{AlphaVantage: alpha.URL, TwelveData: twelve.URL, Finnhub: finnhub.URL},
		time.Minute, phttp.NewClient(), testLogger(t),
	)

	f, err := svc.Get(context.Background(), "MSFT")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.Source != models.ProviderFinnhub || f.MarketCap != 1500.5 {
		t.Fatalf("fundamentals = %+v", f)
	}
}

func TestGetAllSourcesFail(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	svc := New(
		Keys{AlphaVantage: "a", TwelveData: "t", Finnhub: "f"},
		URLs{AlphaVantage: down.URL, TwelveData: down.URL, Finnhub: down.URL},
		time.Minute, phttp.NewClient(), testLogger(t),
	)
	if _, err := svc.Get(context.Background(), "AAPL"); err == nil {
		t.Fatalf("expected error when every source fails")
	}
}
