package models

// Sentiment is a lexicon or upstream-provided sentiment score in [-1, 1].
type Sentiment struct {
	Score float64 `json:"score"`
	Pos   int     `json:"pos,omitempty"`
	Neg   int     `json:"neg,omitempty"`
	Words int     `json:"words,omitempty"`
}

// NewsItem is a normalized article reference as returned by the news service.
type NewsItem struct {
	Title       string     `json:"title"`
	Source      string     `json:"source,omitempty"`
	PublishedAt int64      `json:"published_at"`
	URL         string     `json:"url"`
	Description string     `json:"description,omitempty"`
	Tickers     []string   `json:"tickers,omitempty"`
	Sentiment   *Sentiment `json:"sentiment,omitempty"`
}
