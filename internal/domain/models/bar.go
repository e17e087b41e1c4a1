package models

// Provider identifies a quote data vendor.
type Provider string

const (
	ProviderAlphaVantage Provider = "alpha_vantage"
	ProviderTwelveData   Provider = "twelve_data"
	ProviderFinnhub      Provider = "finnhub"
)

// Bar is a single OHLCV record, timestamped in epoch seconds.
// Bars are immutable once returned by a provider adapter.
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// PriceSeries is a normalized, ascending-by-timestamp bar series for one
// (symbol, interval), tagged with the provider that produced it.
type PriceSeries struct {
	Symbol   string   `json:"symbol"`
	Interval Interval `json:"interval"`
	Provider Provider `json:"provider"`
	Bars     []Bar    `json:"prices"`
}

// Closes extracts the closing prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the traded volumes in chronological order.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
