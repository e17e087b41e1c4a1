package models

// Feature keys of the technical schema. A nil value means the indicator's
// history precondition was not met; it is serialized as JSON null, never as a
// fabricated zero.
const (
	FeatClose           = "close"
	FeatReturn1D        = "return_1d"
	FeatReturn5D        = "return_5d"
	FeatReturn21D       = "return_21d"
	FeatVolatility21D   = "volatility_21d"
	FeatRSI14           = "rsi_14"
	FeatMACD            = "macd"
	FeatMACDSignal      = "macd_signal"
	FeatMACDHist        = "macd_hist"
	FeatBBPercentB      = "bb_percent_b"
	FeatVolumeZScore20  = "volume_zscore_20"
	FeatNewsSentMean24H = "news_sent_mean_24h"
	FeatNewsSentMean7D  = "news_sent_mean_7d"
	FeatNewsCount24H    = "news_count_24h"
	FeatNewsCount7D     = "news_count_7d"
	FeatNewsCountTotal  = "news_count_total"
)

// TechnicalFeatureOrder is the fixed model-input ordering of the technical
// schema. The classifier's declared input width is matched against its length.
func TechnicalFeatureOrder() []string {
	return []string{
		FeatReturn1D,
		FeatReturn5D,
		FeatReturn21D,
		FeatVolatility21D,
		FeatRSI14,
		FeatMACD,
		FeatMACDSignal,
		FeatMACDHist,
		FeatBBPercentB,
		FeatVolumeZScore20,
		FeatNewsSentMean24H,
		FeatNewsSentMean7D,
		FeatNewsCount24H,
		FeatNewsCount7D,
		FeatNewsCountTotal,
	}
}

// LegacyFeatureOrder is the four-field schema of early model builds, sourced
// from fundamentals plus the latest close rather than the feature assembler.
func LegacyFeatureOrder() []string {
	return []string{"close_price", "pe_ratio", "eps", "revenue_growth"}
}

// FeatureWindow records the lookback sizes a vector was computed from.
type FeatureWindow struct {
	Prices int `json:"prices"`
	News   int `json:"news"`
}

// FeatureVector is the fixed-schema output of the feature assembler.
type FeatureVector struct {
	Symbol   string              `json:"symbol"`
	AsOf     int64               `json:"asof"`
	Interval Interval            `json:"interval"`
	Window   FeatureWindow       `json:"window"`
	Features map[string]*float64 `json:"features"`
}

// Value returns the named feature or 0 when absent/nil. Model rows are built
// through this accessor so unknowns map to 0 the way training did.
func (v *FeatureVector) Value(name string) float64 {
	if v == nil || v.Features == nil {
		return 0
	}
	if p, ok := v.Features[name]; ok && p != nil {
		return *p
	}
	return 0
}
