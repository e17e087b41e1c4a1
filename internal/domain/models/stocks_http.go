package models

// Requests for the stocks HTTP endpoints. Defined in domain for consistency and reuse.

type PricesRequest struct {
	Symbol   string `param:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"1day" validate:"oneof=1min 5min 15min 30min 60min 1day"`
	Limit    int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=2000"`
}

type FeaturesRequest struct {
	Symbol   string `param:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"1day" validate:"oneof=1min 5min 15min 30min 60min 1day"`
	Limit    int    `query:"limit" json:"limit" default:"240" validate:"gte=1,lte=2000"`
	MaxNews  int    `query:"max_news" json:"max_news" default:"50" validate:"gte=0,lte=100"`
}

type PredictRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
	// zero means the artifact's own calibration temperature applies
	Temperature float64 `query:"temperature" json:"temperature" validate:"omitempty,gt=0"`
}

type StockNewsRequest struct {
	Symbol   string `param:"symbol" json:"symbol" validate:"required"`
	MaxItems int    `query:"max_items" json:"max_items" default:"20" validate:"gte=1,lte=100"`
}

type SearchNewsRequest struct {
	Query    string `query:"query" json:"query" validate:"required"`
	MaxItems int    `query:"max_items" json:"max_items" default:"20" validate:"gte=1,lte=100"`
}

type ValuationRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}

type MetadataRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}

type QuoteRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required"`
}
