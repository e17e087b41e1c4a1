package models

// ValuationExplain carries the inputs behind a valuation verdict for the UI.
type ValuationExplain struct {
	MetadataUsed     map[string]float64 `json:"metadata_used"`
	Notes            map[string]string  `json:"notes"`
	NewsCount        int                `json:"news_count"`
	NewsAvgSentiment float64            `json:"news_avg_sentiment"`
}

// ValuationScore blends financials, growth, and news sentiment into a verdict.
type ValuationScore struct {
	Symbol         string           `json:"symbol"`
	SentimentScore float64          `json:"sentiment_score"`
	FinancialScore float64          `json:"financial_score"`
	GrowthScore    float64          `json:"growth_score"`
	TotalScore     float64          `json:"total_score"`
	Verdict        string           `json:"verdict"`
	Explain        ValuationExplain `json:"explain"`
}

// DCFValuation is a discounted-cash-flow fair value estimate.
type DCFValuation struct {
	Symbol          string    `json:"symbol"`
	FairValue       float64   `json:"fair_value"`
	CurrentPrice    float64   `json:"current_price"`
	IsUndervalued   bool      `json:"is_undervalued"`
	YearlyCashFlows []float64 `json:"yearly_cash_flows"`
	TerminalValue   float64   `json:"terminal_value"`
	Explanation     string    `json:"explanation"`
}

// GrahamValuation is a Graham-formula fair value estimate.
type GrahamValuation struct {
	FairValue   float64 `json:"fair_value"`
	EPS         float64 `json:"eps"`
	GrowthRate  float64 `json:"growth_rate"`
	Explanation string  `json:"explanation"`
}
