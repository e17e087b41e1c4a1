package models

// Fundamentals is the normalized per-symbol metadata shape. Missing upstream
// fields stay at their zero value; downstream band scoring treats zero as
// "unknown" and skips the band.
type Fundamentals struct {
	Symbol        string   `json:"symbol"`
	MarketCap     float64  `json:"marketCap"`
	PERatio       float64  `json:"peRatio"`
	DividendYield float64  `json:"dividendYield"`
	EPS           float64  `json:"eps"`
	RevenueGrowth float64  `json:"revenueGrowth"`
	EPSGrowth     float64  `json:"epsGrowth"`
	Sector        string   `json:"sector,omitempty"`
	Source        Provider `json:"source,omitempty"`
}
