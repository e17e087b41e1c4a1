package providers

import (
	"context"
	"strconv"
	"strings"

	"EquitySight/internal/domain/models"
	"EquitySight/internal/domain/repository"
	phttp "EquitySight/pkg/http"
)

// baseURL is the API root, endpoint paths are appended per request.
const twelveDataRootURL = "https://api.twelvedata.com"

type TwelveData struct {
	apiKey  string
	baseURL string
	httpc   *phttp.Client
}

func NewTwelveData(apiKey, baseURL string, httpc *phttp.Client) repository.PriceSource {
	if baseURL == "" {
		baseURL = twelveDataRootURL
	}
	return &TwelveData{apiKey: apiKey, baseURL: strings.TrimSuffix(baseURL, "/"), httpc: httpc}
}

func (t *TwelveData) Name() models.Provider { return models.ProviderTwelveData }

var twelveIntervals = map[models.Interval]string{
	models.Interval1Min:  "1min",
	models.Interval5Min:  "5min",
	models.Interval15Min: "15min",
	models.Interval30Min: "30min",
	models.Interval60Min: "1h",
	models.Interval1Day:  "1day",
}

type twelveValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type twelveResponse struct {
	Values  []twelveValue `json:"values"`
	Status  string        `json:"status"`
	Message string        `json:"message"`
}

func (t *TwelveData) Fetch(ctx context.Context, symbol string, interval models.Interval, limit int) (*models.PriceSeries, error) {
	if t.apiKey == "" {
		return nil, newProviderError(models.ProviderTwelveData, "missing api key", nil)
	}

	native, ok := twelveIntervals[interval]
	if !ok {
		native = "1day"
	}

	var payload twelveResponse
	err := t.httpc.SendAndParse(ctx, &phttp.RequestOptions{
		Method: phttp.MethodGet,
		URL:    t.baseURL + "/time_series",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"interval":   {native},
			"apikey":     {t.apiKey},
			"outputsize": {strconv.Itoa(limit)},
			"order":      {"ASC"},
			"format":     {"JSON"},
		},
	}, &payload)
	if err != nil {
		return nil, newProviderError(models.ProviderTwelveData, "request failed", err)
	}
	if len(payload.Values) == 0 {
		reason := "empty values"
		if payload.Message != "" {
			reason = "upstream reported: " + payload.Message
		}
		return nil, newProviderError(models.ProviderTwelveData, reason, nil)
	}

	bars := make([]models.Bar, 0, len(payload.Values))
	for _, row := range payload.Values {
		sec, err := parseBarTime(row.Datetime)
		if err != nil {
			continue
		}
		o, err1 := parseFloat(row.Open)
		h, err2 := parseFloat(row.High)
		l, err3 := parseFloat(row.Low)
		c, err4 := parseFloat(row.Close)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		v, err := parseFloat(row.Volume)
		if err != nil {
			v = 0
		}
		bars = append(bars, models.Bar{Timestamp: sec, Open: o, High: h, Low: l, Close: c, Volume: v})
	}
	if len(bars) == 0 {
		return nil, newProviderError(models.ProviderTwelveData, "zero parseable rows", nil)
	}

	return &models.PriceSeries{
		Symbol:   symbol,
		Interval: interval,
		Provider: models.ProviderTwelveData,
		Bars:     finalizeBars(bars, limit),
	}, nil
}
