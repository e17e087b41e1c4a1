package providers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"EquitySight/internal/domain/models"
	"EquitySight/internal/domain/repository"
	phttp "EquitySight/pkg/http"
)

// baseURL is the API root, endpoint paths are appended per request.
const alphaVantageRootURL = "https://www.alphavantage.co"

// AlphaVantage fetches TIME_SERIES_INTRADAY / TIME_SERIES_DAILY_ADJUSTED
// payloads and normalizes them to the Bar schema.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	httpc   *phttp.Client
}

func NewAlphaVantage(apiKey, baseURL string, httpc *phttp.Client) repository.PriceSource {
	if baseURL == "" {
		baseURL = alphaVantageRootURL
	}
	return &AlphaVantage{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), httpc: httpc}
}

func (a *AlphaVantage) Name() models.Provider { return models.ProviderAlphaVantage }

// alphaIntervals maps supported intervals to the native intraday resolution.
// Anything absent falls back to the daily series.
var alphaIntervals = map[models.Interval]string{
	models.Interval1Min:  "1min",
	models.Interval5Min:  "5min",
	models.Interval15Min: "15min",
	models.Interval30Min: "30min",
	models.Interval60Min: "60min",
}

// seriesKeys are probed in order; the payload nests rows under exactly one.
var alphaSeriesKeys = []string{
	"Time Series (1min)",
	"Time Series (5min)",
	"Time Series (15min)",
	"Time Series (30min)",
	"Time Series (60min)",
	"Time Series (Daily)",
	"Time Series (Daily Adjusted)",
	"Weekly Adjusted Time Series",
	"Monthly Adjusted Time Series",
}

func (a *AlphaVantage) Fetch(ctx context.Context, symbol string, interval models.Interval, limit int) (*models.PriceSeries, error) {
	if a.apiKey == "" {
		return nil, newProviderError(models.ProviderAlphaVantage, "missing api key", nil)
	}

	params := map[string][]string{
		"symbol": {symbol},
		"apikey": {a.apiKey},
	}
	if native, ok := alphaIntervals[interval]; ok {
		params["function"] = []string{"TIME_SERIES_INTRADAY"}
		params["interval"] = []string{native}
	} else {
		params["function"] = []string{"TIME_SERIES_DAILY_ADJUSTED"}
	}
	if limit <= 100 {
		params["outputsize"] = []string{"compact"}
	} else {
		params["outputsize"] = []string{"full"}
	}

	var payload map[string]json.RawMessage
	err := a.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method:      phttp.MethodGet,
		URL:         a.baseURL + "/query",
		QueryParams: params,
	}, &payload)
	if err != nil {
		return nil, newProviderError(models.ProviderAlphaVantage, "request failed", err)
	}

	var raw json.RawMessage
	for _, k := range alphaSeriesKeys {
		if v, ok := payload[k]; ok {
			raw = v
			break
		}
	}
	if raw == nil {
		// throttling shows up as a Note / Error Message body, not an HTTP error
		for _, k := range []string{"Note", "Error Message", "Information"} {
			if v, ok := payload[k]; ok {
				var msg string
				_ = json.Unmarshal(v, &msg)
				return nil, newProviderError(models.ProviderAlphaVantage, "upstream reported: "+msg, nil)
			}
		}
		return nil, newProviderError(models.ProviderAlphaVantage, "no time series in payload", nil)
	}

	var rows map[string]map[string]string
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, newProviderError(models.ProviderAlphaVantage, "malformed time series", err)
	}

	bars := make([]models.Bar, 0, len(rows))
	for ts, row := range rows {
		sec, err := parseBarTime(ts)
		if err != nil {
			continue
		}
		b, ok := alphaRow(row)
		if !ok {
			continue
		}
		b.Timestamp = sec
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, newProviderError(models.ProviderAlphaVantage, "zero parseable rows", nil)
	}

	return &models.PriceSeries{
		Symbol:   symbol,
		Interval: interval,
		Provider: models.ProviderAlphaVantage,
		Bars:     finalizeBars(bars, limit),
	}, nil
}

func alphaRow(row map[string]string) (models.Bar, bool) {
	o, err1 := parseFloat(row["1. open"])
	h, err2 := parseFloat(row["2. high"])
	l, err3 := parseFloat(row["3. low"])
	c, err4 := parseFloat(row["4. close"])
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.Bar{}, false
	}
	// adjusted daily rows put volume under "6. volume"
	vol := row["6. volume"]
	if vol == "" {
		vol = row["5. volume"]
	}
	v, err := strconv.ParseFloat(vol, 64)
	if err != nil {
		v = 0
	}
	return models.Bar{Open: o, High: h, Low: l, Close: c, Volume: v}, true
}
