package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	"EquitySight/internal/service/cache"
	"EquitySight/internal/service/model"
	"EquitySight/internal/usecase"
	"EquitySight/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type stubPriceSource struct {
	name  models.Provider
	calls int
}

func (s *stubPriceSource) Name() models.Provider { return s.name }

func (s *stubPriceSource) Fetch(ctx context.Context, symbol string, interval models.Interval, limit int) (*models.PriceSeries, error) {
	s.calls++
	n := 60
	if limit > 0 && limit < n {
		n = limit
	}
	bars := make([]models.Bar, n)
	for i := range bars {
		ts := int64(1704067200 + i*86400)
		close := 100.0 + float64(i)
		bars[i] = models.Bar{Timestamp: ts, Open: close - 1, High: close + 1, Low: close - 2, Close: close, Volume: 1000}
	}
	return &models.PriceSeries{Symbol: symbol, Interval: interval, Provider: s.name, Bars: bars}, nil
}

type stubNews struct{ calls int }

func (s *stubNews) Search(ctx context.Context, query string, maxItems int) ([]models.NewsItem, error) {
	s.calls++
	return []models.NewsItem{
		{
			Title:       "Quarterly results beat expectations",
			Source:      "Example Wire",
			PublishedAt: time.Now().Add(-time.Hour).Unix(),
			URL:         "https://example.com/a",
			Sentiment:   &models.Sentiment{Score: 0.5},
		},
	}, nil
}

type stubFundamentals struct{}

func (stubFundamentals) Get(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	return &models.Fundamentals{
		Symbol:        symbol,
		MarketCap:     5e11,
		PERatio:       18,
		DividendYield: 2.1,
		EPS:           6.5,
		RevenueGrowth: 0.12,
		EPSGrowth:     0.10,
		Source:        models.ProviderAlphaVantage,
	}, nil
}

func newTestHandler(t *testing.T) (*StocksEchoHandler, *echo.Echo) {
	t.Helper()
	log := testLogger(t)
	src := &stubPriceSource{name: models.ProviderAlphaVantage}
	prices := usecase.NewPricesUseCase([]domrepo.PriceSource{src}, time.Minute, log)
	features := usecase.NewFeaturesUseCase(prices, &stubNews{}, nil, time.Minute, log)
	loader := model.NewLoader("testdata/absent-model.json", log)
	predict := usecase.NewPredictUseCase(loader, features, prices, stubFundamentals{}, log)
	valuation := usecase.NewValuationUseCase(stubFundamentals{}, &stubNews{}, prices, log)

	h := NewStocksEchoHandler(log, prices, features, predict, valuation, nil, &stubNews{}, stubFundamentals{})
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Status int                    `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Data
}

func TestPricesEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/aapl/prices?interval=1day&limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "AAPL", data["symbol"])
	require.Equal(t, "1day", data["interval"])
	require.Len(t, data["prices"], 10)
}

func TestPricesEndpointRejectsBadInterval(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/AAPL/prices?interval=2hr")
	require.Equal(t, http.StatusOK, rec.Code) // envelope carries the real status

	var body struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusBadRequest, body.Status)
}

func TestMetadataEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/MSFT/metadata")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "MSFT", data["symbol"])
	require.Equal(t, float64(18), data["peRatio"])
}

func TestFeaturesEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/AAPL/features?limit=60")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	feats, ok := data["features"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, feats, "rsi_14")
	require.Contains(t, feats, "macd")
}

func TestPredictEndpointNeutralWithoutModel(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/AAPL/predict")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "HOLD", data["label"])
	require.Equal(t, 0.5, data["prob_up"])
}

func TestPredictEndpointUsesArtifactTemperature(t *testing.T) {
	log := testLogger(t)
	src := &stubPriceSource{name: models.ProviderAlphaVantage}
	prices := usecase.NewPricesUseCase([]domrepo.PriceSource{src}, time.Minute, log)
	features := usecase.NewFeaturesUseCase(prices, &stubNews{}, nil, time.Minute, log)

	coefs := make([]float64, len(models.TechnicalFeatureOrder()))
	for i := range coefs {
		coefs[i] = 0.01
	}
	artifact, err := json.Marshal(map[string]any{"coef": coefs, "intercept": 0.2, "temperature": 2.5})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "direction.json")
	require.NoError(t, os.WriteFile(path, artifact, 0o644))
	loader := model.NewLoader(path, log)

	predict := usecase.NewPredictUseCase(loader, features, prices, stubFundamentals{}, log)
	valuation := usecase.NewValuationUseCase(stubFundamentals{}, &stubNews{}, prices, log)
	h := NewStocksEchoHandler(log, prices, features, predict, valuation, nil, &stubNews{}, stubFundamentals{})
	e := echo.New()
	h.RegisterRoutes(e)

	// no temperature param: the artifact's calibration must apply
	rec := doGet(e, "/api/stocks/AAPL/predict")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	cal, ok := data["calibration"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, 2.5, cal["temperature"])
	require.Equal(t, true, cal["applied"])
}

func TestValuationEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/AAPL/valuation")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	score, ok := data["score"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, []interface{}{"Buy", "Sell", "Hold"}, score["verdict"])
	require.Contains(t, data, "dcf")
	require.Contains(t, data, "graham")
}

func TestQuoteEndpointDisabled(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/stocks/AAPL/quote")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusNotFound, body.Status)
}

func TestSearchNewsEndpoint(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/news/search?query=apple&max_items=5")
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	require.Equal(t, "apple", data["query"])
	require.Equal(t, float64(1), data["count"])
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	first := items[0].(map[string]interface{})
	require.Contains(t, first, "impact")
}

func TestSearchNewsRequiresQuery(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doGet(e, "/api/news/search")
	var body struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, http.StatusBadRequest, body.Status)
}

func TestResponseCacheReplaysPayload(t *testing.T) {
	h, e := newTestHandler(t)
	h.SetResponseCache(cache.NewTTLCache())

	first := doGet(e, "/api/stocks/AAPL/prices?limit=5")
	require.Equal(t, http.StatusOK, first.Code)
	second := doGet(e, "/api/stocks/AAPL/prices?limit=5")
	require.Equal(t, http.StatusOK, second.Code)
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestResponseCacheKeyedByNewsWindow(t *testing.T) {
	h, e := newTestHandler(t)
	h.SetResponseCache(cache.NewTTLCache())

	first := doGet(e, "/api/stocks/AAPL/features?limit=60&max_news=5")
	require.Equal(t, http.StatusOK, first.Code)
	window := decodeData(t, first)["window"].(map[string]interface{})
	require.Equal(t, float64(5), window["news"])

	// a different news window must not replay the cached payload
	second := doGet(e, "/api/stocks/AAPL/features?limit=60&max_news=9")
	require.Equal(t, http.StatusOK, second.Code)
	window = decodeData(t, second)["window"].(map[string]interface{})
	require.Equal(t, float64(9), window["news"])
}

func TestRateLimitRejects(t *testing.T) {
	_, e := newTestHandler(t)

	var limited bool
	for i := 0; i < 10; i++ {
		rec := doGet(e, "/api/stocks/AAPL/predict")
		var body struct {
			Status int `json:"status"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		if body.Status == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	require.True(t, limited, "predict should rate limit within 10 rapid calls")
}
