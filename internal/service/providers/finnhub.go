package providers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"EquitySight/internal/domain/models"
	"EquitySight/internal/domain/repository"
	phttp "EquitySight/pkg/http"
)

// baseURL is the API root, endpoint paths are appended per request.
const finnhubRootURL = "https://finnhub.io/api/v1"

type Finnhub struct {
	apiKey  string
	baseURL string
	httpc   *phttp.Client
	now     func() time.Time
}

func NewFinnhub(apiKey, baseURL string, httpc *phttp.Client) repository.PriceSource {
	if baseURL == "" {
		baseURL = finnhubRootURL
	}
	return &Finnhub{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), httpc: httpc, now: time.Now}
}

func (f *Finnhub) Name() models.Provider { return models.ProviderFinnhub }

var finnhubResolutions = map[models.Interval]string{
	models.Interval1Min:  "1",
	models.Interval5Min:  "5",
	models.Interval15Min: "15",
	models.Interval30Min: "30",
	models.Interval60Min: "60",
	models.Interval1Day:  "D",
}

type finnhubCandles struct {
	Status string    `json:"s"`
	Open   []float64 `json:"o"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Close  []float64 `json:"c"`
	Time   []int64   `json:"t"`
	Volume []float64 `json:"v"`
}

func (f *Finnhub) Fetch(ctx context.Context, symbol string, interval models.Interval, limit int) (*models.PriceSeries, error) {
	if f.apiKey == "" {
		return nil, newProviderError(models.ProviderFinnhub, "missing api key", nil)
	}

	res, ok := finnhubResolutions[interval]
	if !ok {
		res = "D"
	}

	// candle endpoint takes a [from, to] range, approximate it from the
	// requested bar count plus a minute of padding
	now := f.now().Unix()
	span := int64(limit) * 86400
	if res != "D" {
		minutes, _ := strconv.ParseInt(res, 10, 64)
		span = int64(limit) * minutes * 60
	}
	from := now - span - 60

	var payload finnhubCandles
	err := f.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    f.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {res},
			"from":       {strconv.FormatInt(from, 10)},
			"to":         {strconv.FormatInt(now, 10)},
			"token":      {f.apiKey},
		},
	}, &payload)
	if err != nil {
		return nil, newProviderError(models.ProviderFinnhub, "request failed", err)
	}
	if payload.Status != "ok" {
		return nil, newProviderError(models.ProviderFinnhub, "upstream status "+payload.Status, nil)
	}

	bars := make([]models.Bar, 0, len(payload.Time))
	for i := range payload.Time {
		if i >= len(payload.Open) || i >= len(payload.High) || i >= len(payload.Low) || i >= len(payload.Close) {
			break
		}
		b := models.Bar{
			Timestamp: payload.Time[i],
			Open:      payload.Open[i],
			High:      payload.High[i],
			Low:       payload.Low[i],
			Close:     payload.Close[i],
		}
		if i < len(payload.Volume) {
			b.Volume = payload.Volume[i]
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, newProviderError(models.ProviderFinnhub, "zero rows", nil)
	}

	return &models.PriceSeries{
		Symbol:   symbol,
		Interval: interval,
		Provider: models.ProviderFinnhub,
		Bars:     finalizeBars(bars, limit),
	}, nil
}
